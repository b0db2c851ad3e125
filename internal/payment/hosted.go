package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HostedGateway talks to the hosted checkout provider's REST API.
// Requests carry amounts in minor units and authenticate with the
// key id/secret pair.
type HostedGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*Result]
}

func NewHostedGateway(baseURL, keyID, keySecret string, timeout time.Duration) *HostedGateway {
	settings := gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &HostedGateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*Result](settings),
	}
}

type chargeResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func (g *HostedGateway) Charge(ctx context.Context, req ChargeRequest) (*Result, error) {
	return g.breaker.Execute(func() (*Result, error) {
		return g.charge(ctx, req)
	})
}

func (g *HostedGateway) charge(ctx context.Context, req ChargeRequest) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("payment gateway unavailable: status %d", resp.StatusCode)
	}

	var charge chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}

	switch charge.Status {
	case "captured", "authorized":
		return &Result{Outcome: OutcomeSucceeded, PaymentID: charge.ID}, nil
	case "cancelled":
		return &Result{Outcome: OutcomeCancelled, Reason: charge.ErrorDescription}, nil
	default:
		reason := charge.ErrorDescription
		if reason == "" {
			reason = "Payment failed. Please try again."
		}
		return &Result{Outcome: OutcomeFailed, Reason: reason}, nil
	}
}
