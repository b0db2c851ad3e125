package checkout

import (
	"context"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/domain"
)

// Session is the persisted state of one checkout workflow. The
// idempotency key makes a retried place-order call return the recorded
// result instead of charging twice.
type Session struct {
	ID               string
	UserID           string
	Status           Status
	IdempotencyKey   string
	Address          *domain.Address
	OrderID          string
	PaymentReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Session, error)
	SetAddress(ctx context.Context, id string, status Status, addr *domain.Address) error
	Complete(ctx context.Context, id string, orderID, paymentReference string) error
	Close() error
}
