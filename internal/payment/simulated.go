package payment

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// OutcomeSource decides how a simulated charge ends.
type OutcomeSource interface {
	Next() (Outcome, string)
}

// RandomOutcomes succeeds most of the time, with occasional refusals and
// cancellations, for local development without gateway credentials.
type RandomOutcomes struct{}

func (RandomOutcomes) Next() (Outcome, string) {
	n := rand.Intn(100)
	switch {
	case n < 90:
		return OutcomeSucceeded, ""
	case n < 95:
		return OutcomeCancelled, "Payment cancelled by user."
	default:
		return OutcomeFailed, "Card declined by issuer."
	}
}

// FixedOutcome always reports the same result. Useful in tests.
type FixedOutcome struct {
	Outcome Outcome
	Reason  string
}

func (f FixedOutcome) Next() (Outcome, string) {
	return f.Outcome, f.Reason
}

type SimulatedGateway struct {
	source OutcomeSource
}

func NewSimulatedGateway(source OutcomeSource) *SimulatedGateway {
	return &SimulatedGateway{source: source}
}

func (g *SimulatedGateway) Charge(_ context.Context, _ ChargeRequest) (*Result, error) {
	outcome, reason := g.source.Next()
	if outcome == OutcomeSucceeded {
		return &Result{
			Outcome:   OutcomeSucceeded,
			PaymentID: fmt.Sprintf("pay_sim_%d", time.Now().UnixNano()),
		}, nil
	}
	return &Result{Outcome: outcome, Reason: reason}, nil
}
