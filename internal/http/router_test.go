package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/auth"
	"github.com/Raj-3200/depthndecoy/internal/cart"
	"github.com/Raj-3200/depthndecoy/internal/catalog"
	"github.com/Raj-3200/depthndecoy/internal/checkout"
	"github.com/Raj-3200/depthndecoy/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	server   *httptest.Server
	provider *auth.MemoryProvider
	carts    *cart.Manager
	orders   *fakeOrderRepo
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithGateway(t, payment.NewSimulatedGateway(payment.FixedOutcome{Outcome: payment.OutcomeSucceeded}))
}

func newTestServerWithGateway(t *testing.T, gateway payment.Gateway) *testServer {
	t.Helper()

	log := zap.NewNop()
	timeout := 5 * time.Second

	provider := auth.NewMemoryProvider()
	profiles := newFakeProfileRepo()
	authSvc := auth.NewService(provider, profiles, log)

	catalogSvc := catalog.NewService(&fakeCatalogRepo{products: testProducts()}, noopCache{}, log)
	carts := cart.NewManager()
	orders := newFakeOrderRepo()

	sessions, err := checkout.NewSQLiteSessionStore(filepath.Join(t.TempDir(), "checkout.db"))
	require.NoError(t, err)
	require.NoError(t, sessions.RunMigrations("../../migrations"))
	t.Cleanup(func() { sessions.Close() })

	pricing := checkout.Pricing{
		FreeShippingThreshold: 5000,
		FlatShippingFee:       199,
		TaxRate:               0.18,
		Currency:              "INR",
	}
	checkoutSvc := checkout.NewService(sessions, orders, gateway, nil, pricing, timeout, log)

	router := NewRouter(RouterDeps{
		Catalog:  NewCatalogHandler(catalogSvc, timeout),
		Cart:     NewCartHandler(carts, catalogSvc, timeout),
		Checkout: NewCheckoutHandler(checkoutSvc, carts, timeout),
		Orders:   NewOrdersHandler(orders, timeout),
		Accounts: NewAccountsHandler(newFakeAddressRepo(), newFakeWishlistRepo(), profiles, timeout),
		Auth:     NewAuthHandler(authSvc, timeout),
		Verifier: authSvc,
		Timeout:  timeout,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{server: server, provider: provider, carts: carts, orders: orders}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.server.Client().Do(request)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// signUpAndVerify registers a user, simulates the verification click
// and signs in.
func (ts *testServer) signUpAndVerify(t *testing.T, email string) string {
	t.Helper()

	resp, _ := ts.do(t, "POST", "/api/v1/auth/signup", "", SignUpRequestDTO{
		Email: email, Password: "s3cret", FullName: "Asha Rao",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Sign-in before verification is rejected
	resp, _ = ts.do(t, "POST", "/api/v1/auth/signin", "", SignInRequestDTO{Email: email, Password: "s3cret"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	cred, err := ts.provider.SignInPassword(t.Context(), email, "s3cret")
	require.NoError(t, err)
	ts.provider.MarkEmailVerified(cred.User.ID)

	resp, raw := ts.do(t, "POST", "/api/v1/auth/signin", "", SignInRequestDTO{Email: email, Password: "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session SessionResponseDTO
	require.NoError(t, json.Unmarshal(raw, &session))
	return session.Token
}

func TestStorefrontFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signUpAndVerify(t, "asha@example.com")

	// Browse the catalog
	resp, raw := ts.do(t, "GET", "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "noir-overshirt")

	// Fill the cart as the signed-in user
	resp, _ = ts.do(t, "POST", "/api/v1/cart/items", token, AddCartItemRequestDTO{
		ProductID: "p1", Size: "M", Quantity: 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.do(t, "POST", "/api/v1/cart/items", token, AddCartItemRequestDTO{
		ProductID: "p2", Size: "L", Quantity: 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Quote: 2499 + 2*1299 = 5097 > 5000 so shipping is free
	resp, raw = ts.do(t, "GET", "/api/v1/checkout/quote", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var quote QuoteResponseDTO
	require.NoError(t, json.Unmarshal(raw, &quote))
	assert.Equal(t, 5097.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.Shipping)
	assert.Equal(t, "INR", quote.Currency)

	// Start checkout
	resp, raw = ts.do(t, "POST", "/api/v1/checkout", token, StartCheckoutRequestDTO{IdempotencyKey: "order-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var started CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(raw, &started))
	assert.Equal(t, "COLLECTING_ADDRESS", started.Status)

	// Paying before an address is submitted is rejected
	resp, _ = ts.do(t, "POST", "/api/v1/checkout/"+started.CheckoutID+"/pay", token, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// An invalid address keeps the session collecting
	resp, raw = ts.do(t, "PUT", "/api/v1/checkout/"+started.CheckoutID+"/address", token, map[string]string{
		"full_name": "A",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &invalid))
	assert.Equal(t, "Name is required", invalid.Fields["FullName"])

	// Submit a valid address
	resp, raw = ts.do(t, "PUT", "/api/v1/checkout/"+started.CheckoutID+"/address", token, map[string]string{
		"full_name":      "Asha Rao",
		"address_line_1": "14 Marine Drive",
		"city":           "Mumbai",
		"state":          "Maharashtra",
		"postal_code":    "400001",
		"country":        "India",
		"phone":          "+919876543210",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var addressed CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(raw, &addressed))
	assert.Equal(t, "AWAITING_PAYMENT", addressed.Status)

	// Pay
	resp, raw = ts.do(t, "POST", "/api/v1/checkout/"+started.CheckoutID+"/pay", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed PlaceOrderResponseDTO
	require.NoError(t, json.Unmarshal(raw, &placed))
	assert.Equal(t, "placed", placed.Outcome)
	require.NotEmpty(t, placed.OrderID)

	// Replaying the pay call returns the same order
	resp, raw = ts.do(t, "POST", "/api/v1/checkout/"+started.CheckoutID+"/pay", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var replayed PlaceOrderResponseDTO
	require.NoError(t, json.Unmarshal(raw, &replayed))
	assert.Equal(t, placed.OrderID, replayed.OrderID)

	// Cart is empty afterwards
	resp, raw = ts.do(t, "GET", "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cartResp CartResponseDTO
	require.NoError(t, json.Unmarshal(raw, &cartResp))
	assert.Empty(t, cartResp.Lines)

	// The order shows up in the history with its items
	resp, raw = ts.do(t, "GET", "/api/v1/orders/"+placed.OrderID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var order OrderWithItemsDTO
	require.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, 5097.0, order.Subtotal)
	assert.Len(t, order.Items, 2)
}

func TestPaymentFailureLeavesCartIntact(t *testing.T) {
	ts := newTestServerWithGateway(t, payment.NewSimulatedGateway(payment.FixedOutcome{
		Outcome: payment.OutcomeFailed,
		Reason:  "Card declined by issuer.",
	}))
	token := ts.signUpAndVerify(t, "asha@example.com")

	resp, _ := ts.do(t, "POST", "/api/v1/cart/items", token, AddCartItemRequestDTO{ProductID: "p1", Size: "M", Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := ts.do(t, "POST", "/api/v1/checkout", token, StartCheckoutRequestDTO{IdempotencyKey: "order-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var started CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(raw, &started))

	resp, _ = ts.do(t, "PUT", "/api/v1/checkout/"+started.CheckoutID+"/address", token, map[string]string{
		"full_name":      "Asha Rao",
		"address_line_1": "14 Marine Drive",
		"city":           "Mumbai",
		"state":          "Maharashtra",
		"postal_code":    "400001",
		"country":        "India",
		"phone":          "+919876543210",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = ts.do(t, "POST", "/api/v1/checkout/"+started.CheckoutID+"/pay", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result PlaceOrderResponseDTO
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "payment_failed", result.Outcome)
	assert.Equal(t, "Card declined by issuer.", result.Message)
	assert.Empty(t, result.OrderID)

	// Cart untouched, no order written
	resp, raw = ts.do(t, "GET", "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cartResp CartResponseDTO
	require.NoError(t, json.Unmarshal(raw, &cartResp))
	assert.Len(t, cartResp.Lines, 1)
	assert.Empty(t, ts.orders.orders)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/orders", "/api/v1/account/profile", "/api/v1/account/wishlist"} {
		resp, _ := ts.do(t, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, _ := ts.do(t, "GET", "/api/v1/orders", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrderHistoryIsScopedPerUser(t *testing.T) {
	ts := newTestServer(t)
	tokenA := ts.signUpAndVerify(t, "a@example.com")
	tokenB := ts.signUpAndVerify(t, "b@example.com")

	// Customer A places an order
	resp, _ := ts.do(t, "POST", "/api/v1/cart/items", tokenA, AddCartItemRequestDTO{ProductID: "p1", Size: "M", Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, raw := ts.do(t, "POST", "/api/v1/checkout", tokenA, StartCheckoutRequestDTO{IdempotencyKey: "order-a"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var started CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(raw, &started))

	resp, _ = ts.do(t, "PUT", "/api/v1/checkout/"+started.CheckoutID+"/address", tokenA, map[string]string{
		"full_name":      "Asha Rao",
		"address_line_1": "14 Marine Drive",
		"city":           "Mumbai",
		"state":          "Maharashtra",
		"postal_code":    "400001",
		"country":        "India",
		"phone":          "+919876543210",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = ts.do(t, "POST", "/api/v1/checkout/"+started.CheckoutID+"/pay", tokenA, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed PlaceOrderResponseDTO
	require.NoError(t, json.Unmarshal(raw, &placed))

	// Customer B can see neither the checkout nor the order
	resp, _ = ts.do(t, "POST", "/api/v1/checkout/"+started.CheckoutID+"/pay", tokenB, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = ts.do(t, "GET", "/api/v1/orders/"+placed.OrderID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = ts.do(t, "GET", "/api/v1/orders", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]\n", string(raw))
}

func TestWishlistRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signUpAndVerify(t, "asha@example.com")

	resp, raw := ts.do(t, "POST", "/api/v1/account/wishlist", token, AddWishlistItemRequestDTO{ProductID: "p1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]string
	require.NoError(t, json.Unmarshal(raw, &created))

	// Adding the same product twice stays idempotent
	resp, raw = ts.do(t, "POST", "/api/v1/account/wishlist", token, AddWishlistItemRequestDTO{ProductID: "p1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var again map[string]string
	require.NoError(t, json.Unmarshal(raw, &again))
	assert.Equal(t, created["id"], again["id"])

	resp, _ = ts.do(t, "DELETE", "/api/v1/account/wishlist/"+created["id"], token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
