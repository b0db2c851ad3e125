package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteSessionStore{db: db}, nil
}

func (s *SQLiteSessionStore) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteSessionStore) Create(ctx context.Context, session *Session) error {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `INSERT INTO checkout_sessions (id, user_id, status, idempotency_key, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		string(session.Status),
		session.IdempotencyKey,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert checkout session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	return s.scanOne(ctx, `SELECT id, user_id, status, idempotency_key, address_json, order_id, payment_reference, created_at, updated_at
	                       FROM checkout_sessions WHERE id = ?`, id)
}

func (s *SQLiteSessionStore) GetByIdempotencyKey(ctx context.Context, key string) (*Session, error) {
	return s.scanOne(ctx, `SELECT id, user_id, status, idempotency_key, address_json, order_id, payment_reference, created_at, updated_at
	                       FROM checkout_sessions WHERE idempotency_key = ?`, key)
}

func (s *SQLiteSessionStore) scanOne(ctx context.Context, query string, arg interface{}) (*Session, error) {
	var (
		session     Session
		status      string
		addressJSON sql.NullString
		orderID     sql.NullString
		paymentRef  sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&session.ID,
		&session.UserID,
		&status,
		&session.IdempotencyKey,
		&addressJSON,
		&orderID,
		&paymentRef,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query checkout session: %w", err)
	}

	session.Status = Status(status)
	session.OrderID = orderID.String
	session.PaymentReference = paymentRef.String

	if addressJSON.Valid && addressJSON.String != "" {
		var addr domain.Address
		if err := json.Unmarshal([]byte(addressJSON.String), &addr); err != nil {
			return nil, fmt.Errorf("unmarshal session address: %w", err)
		}
		session.Address = &addr
	}

	return &session, nil
}

func (s *SQLiteSessionStore) SetAddress(ctx context.Context, id string, status Status, addr *domain.Address) error {
	addressJSON, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("marshal session address: %w", err)
	}

	query := `UPDATE checkout_sessions SET status = ?, address_json = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, string(status), string(addressJSON), time.Now(), id)
	if err != nil {
		return fmt.Errorf("update checkout session address: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLiteSessionStore) Complete(ctx context.Context, id string, orderID, paymentReference string) error {
	query := `UPDATE checkout_sessions SET status = ?, order_id = ?, payment_reference = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, string(StatusCompleted), orderID, paymentReference, time.Now(), id)
	if err != nil {
		return fmt.Errorf("complete checkout session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
