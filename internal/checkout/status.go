package checkout

type Status string

const (
	StatusCollectingAddress Status = "COLLECTING_ADDRESS"
	StatusAwaitingPayment   Status = "AWAITING_PAYMENT"
	StatusCompleted         Status = "COMPLETED"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo guards the workflow order. Address validation failure
// and payment failure keep the session where it is; re-submitting the
// address while awaiting payment is allowed (the "edit shipping" path).
func CanTransitionTo(from, to Status) bool {
	switch to {
	case StatusAwaitingPayment:
		return from == StatusCollectingAddress || from == StatusAwaitingPayment
	case StatusCompleted:
		return from == StatusAwaitingPayment
	default:
		return false
	}
}
