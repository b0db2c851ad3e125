package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/cart"
	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/payment"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher emits an order-confirmed event after a successful checkout.
// Publishing is best-effort; a broker outage never fails an order.
type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
}

type Service struct {
	sessions       SessionStore
	orders         repository.OrderRepository
	gateway        payment.Gateway
	events         Publisher
	pricing        Pricing
	paymentTimeout time.Duration
	log            *zap.Logger

	// placing holds one mutex per in-flight session so that two
	// simultaneous pay attempts cannot both read AWAITING_PAYMENT and
	// charge twice; the second caller observes COMPLETED and replays.
	placing sync.Map
}

func NewService(
	sessions SessionStore,
	orders repository.OrderRepository,
	gateway payment.Gateway,
	events Publisher,
	pricing Pricing,
	paymentTimeout time.Duration,
	log *zap.Logger,
) *Service {
	return &Service{
		sessions:       sessions,
		orders:         orders,
		gateway:        gateway,
		events:         events,
		pricing:        pricing,
		paymentTimeout: paymentTimeout,
		log:            log,
	}
}

// Start opens a checkout session for the user. A replayed idempotency
// key returns the existing session, whatever state it reached.
func (s *Service) Start(ctx context.Context, userID, idempotencyKey string) (*Session, error) {
	existing, err := s.sessions.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing != nil {
		s.log.Info("duplicate checkout request",
			zap.String("idempotency_key", idempotencyKey),
			zap.String("session_id", existing.ID),
			zap.String("status", existing.Status.String()))
		return existing, nil
	}

	session := &Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		Status:         StatusCollectingAddress,
		IdempotencyKey: idempotencyKey,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitAddress validates the shipping address and moves the session to
// AWAITING_PAYMENT. On validation failure nothing is persisted and the
// session stays in COLLECTING_ADDRESS; the returned *ValidationError
// carries the per-field messages.
func (s *Service) SubmitAddress(ctx context.Context, sessionID, userID string, addr *domain.Address) (*Session, error) {
	session, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if !CanTransitionTo(session.Status, StatusAwaitingPayment) {
		return nil, ErrIllegalTransition
	}

	if err := ValidateAddress(addr); err != nil {
		return nil, err
	}

	if err := s.sessions.SetAddress(ctx, session.ID, StatusAwaitingPayment, addr); err != nil {
		return nil, err
	}
	session.Status = StatusAwaitingPayment
	session.Address = addr
	return session, nil
}

// Quote returns the totals the payment step will charge for the cart as
// it stands.
func (s *Service) Quote(cartStore *cart.Store) Totals {
	return s.pricing.Calculate(cartStore.Total())
}

type PlaceOrderOutcome string

const (
	OutcomePlaced    PlaceOrderOutcome = "placed"
	OutcomeFailed    PlaceOrderOutcome = "payment_failed"
	OutcomeCancelled PlaceOrderOutcome = "payment_cancelled"
)

type PlaceOrderResult struct {
	Outcome PlaceOrderOutcome
	OrderID string
	Totals  Totals
	// Message is the gateway's reason, surfaced verbatim on failure.
	Message string
}

// PlaceOrder runs the AWAITING_PAYMENT -> COMPLETED transition:
// payment first, persistence second. No order document ever exists
// without a successful payment confirmation. On payment failure or
// cancellation nothing is written and the cart is left untouched.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, userID, email string, cartStore *cart.Store) (*PlaceOrderResult, error) {
	lock := s.placeLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	// Idempotent replay of an already-completed checkout.
	if session.Status == StatusCompleted {
		return &PlaceOrderResult{Outcome: OutcomePlaced, OrderID: session.OrderID}, nil
	}
	if session.Status == StatusCollectingAddress {
		return nil, ErrAddressRequired
	}
	if !CanTransitionTo(session.Status, StatusCompleted) {
		return nil, ErrIllegalTransition
	}

	lines := cartStore.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := s.pricing.Calculate(cartStore.Total())

	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()
	result, err := s.gateway.Charge(payCtx, payment.ChargeRequest{
		AmountMinor: totals.AmountMinor(),
		Currency:    s.pricing.Currency,
		Description: orderDescription(len(lines)),
		Reference:   session.ID,
		Prefill: payment.Prefill{
			Name:    session.Address.FullName,
			Email:   email,
			Contact: session.Address.Phone,
		},
	})
	if err != nil {
		return nil, err // transport-level error, retryable by re-invoking
	}

	switch result.Outcome {
	case payment.OutcomeCancelled:
		return &PlaceOrderResult{Outcome: OutcomeCancelled, Totals: totals, Message: result.Reason}, nil
	case payment.OutcomeFailed:
		return &PlaceOrderResult{Outcome: OutcomeFailed, Totals: totals, Message: result.Reason}, nil
	}

	order, items := buildOrder(session, lines, totals, result.PaymentID)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.log.Error("order header write failed after successful payment",
			zap.String("session_id", session.ID),
			zap.String("payment_reference", result.PaymentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.orders.CreateOrderItems(ctx, items); err != nil {
		// Compensate: an order header without items must not survive.
		s.log.Error("order item write failed, deleting header",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_reference", result.PaymentID),
			zap.Error(err))
		if delErr := s.orders.DeleteOrder(ctx, order.ID); delErr != nil {
			s.log.Error("compensating order delete failed, manual reconciliation required",
				zap.String("order_id", order.ID.String()),
				zap.String("payment_reference", result.PaymentID),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	cartStore.Clear()

	if err := s.sessions.Complete(ctx, session.ID, order.ID.String(), result.PaymentID); err != nil {
		// The order exists and the customer paid; only the session record lags.
		s.log.Error("failed to mark checkout session complete",
			zap.String("session_id", session.ID),
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}

	if s.events != nil {
		if err := s.events.PublishOrderConfirmed(ctx, order, items); err != nil {
			s.log.Warn("order confirmed event not published",
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		}
	}

	// Later attempts hit the COMPLETED replay path, so the lock entry
	// can be dropped.
	s.placing.Delete(sessionID)

	return &PlaceOrderResult{Outcome: OutcomePlaced, OrderID: order.ID.String(), Totals: totals}, nil
}

func (s *Service) placeLock(sessionID string) *sync.Mutex {
	lock, _ := s.placing.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *Service) loadOwned(ctx context.Context, sessionID, userID string) (*Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionOwnerMismatch
	}
	return session, nil
}

func buildOrder(session *Session, lines []domain.CartLine, totals Totals, paymentID string) (*domain.Order, []domain.OrderItem) {
	orderID := uuid.New()

	order := &domain.Order{
		ID:               orderID,
		UserID:           session.UserID,
		Status:           domain.OrderStatusConfirmed,
		Subtotal:         totals.Subtotal,
		ShippingCost:     totals.Shipping,
		Tax:              totals.Tax,
		Total:            totals.GrandTotal,
		ShippingAddress:  *session.Address,
		BillingAddress:   *session.Address,
		PaymentStatus:    domain.PaymentStatusPaid,
		PaymentReference: paymentID,
	}

	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductImage: line.Image,
			Size:         line.Size,
			Color:        line.Color,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			LineTotal:    line.LineTotal(),
		}
	}
	return order, items
}

func orderDescription(itemCount int) string {
	if itemCount == 1 {
		return "Depth & Decoy order, 1 item"
	}
	return fmt.Sprintf("Depth & Decoy order, %d items", itemCount)
}
