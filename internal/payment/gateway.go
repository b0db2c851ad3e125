package payment

import "context"

// Outcome classifies how a charge attempt ended. Cancellation is not a
// failure: a dismissed checkout overlay writes nothing and is reported
// without an error message.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// ChargeRequest describes one hosted-checkout charge. AmountMinor is in
// the smallest currency unit (paise for INR).
type ChargeRequest struct {
	AmountMinor int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
	Reference   string  `json:"reference,omitempty"`
	Prefill     Prefill `json:"prefill"`
}

// Result is the terminal state of a charge. Known refusals and
// cancellations arrive here; only transport-level problems surface as a
// Go error from Charge.
type Result struct {
	Outcome   Outcome `json:"outcome"`
	PaymentID string  `json:"payment_id,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

func (r *Result) Succeeded() bool {
	return r != nil && r.Outcome == OutcomeSucceeded
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Result, error)
}
