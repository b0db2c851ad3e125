package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/payment"
	"github.com/google/uuid"
)

// MockSessionStore implements SessionStore in memory for testing
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byKey    map[string]string

	CreateErr   error
	CompleteErr error
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*Session),
		byKey:    make(map[string]string),
	}
}

func (m *MockSessionStore) Create(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()
	copied := *session
	m.sessions[session.ID] = &copied
	m.byKey[session.IdempotencyKey] = session.ID
	return nil
}

func (m *MockSessionStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *MockSessionStore) GetByIdempotencyKey(_ context.Context, key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byKey[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *m.sessions[id]
	return &copied, nil
}

func (m *MockSessionStore) SetAddress(_ context.Context, id string, status Status, addr *domain.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.Status = status
	session.Address = addr
	return nil
}

func (m *MockSessionStore) Complete(_ context.Context, id string, orderID, paymentReference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CompleteErr != nil {
		return m.CompleteErr
	}
	session, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.Status = StatusCompleted
	session.OrderID = orderID
	session.PaymentReference = paymentReference
	return nil
}

func (m *MockSessionStore) Close() error { return nil }

// MockOrderRepository captures writes and can fail each step independently
type MockOrderRepository struct {
	mu sync.Mutex

	Orders    map[uuid.UUID]*domain.Order
	Items     map[uuid.UUID][]domain.OrderItem
	Deleted   []uuid.UUID
	HeaderErr error
	ItemsErr  error
	DeleteErr error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		Orders: make(map[uuid.UUID]*domain.Order),
		Items:  make(map[uuid.UUID][]domain.OrderItem),
	}
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HeaderErr != nil {
		return m.HeaderErr
	}
	m.Orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) CreateOrderItems(_ context.Context, items []domain.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ItemsErr != nil {
		return m.ItemsErr
	}
	for _, item := range items {
		m.Items[item.OrderID] = append(m.Items[item.OrderID], item)
	}
	return nil
}

func (m *MockOrderRepository) DeleteOrder(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	delete(m.Orders, id)
	delete(m.Items, id)
	return nil
}

func (m *MockOrderRepository) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.Orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

func (m *MockOrderRepository) GetOrderItems(_ context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Items[orderID], nil
}

func (m *MockOrderRepository) ListOrdersByUser(context.Context, string) ([]*domain.Order, error) {
	return nil, nil
}

// MockGateway returns a scripted charge result and records requests
type MockGateway struct {
	Result   *payment.Result
	Err      error
	Requests []payment.ChargeRequest
}

func (m *MockGateway) Charge(_ context.Context, req payment.ChargeRequest) (*payment.Result, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// MockPublisher records published orders
type MockPublisher struct {
	Published []*domain.Order
	Err       error
}

func (m *MockPublisher) PublishOrderConfirmed(_ context.Context, order *domain.Order, _ []domain.OrderItem) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, order)
	return nil
}
