package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps collects the handlers the router mounts.
type RouterDeps struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Accounts *AccountsHandler
	Auth     *AuthHandler
	Verifier TokenVerifier
	Timeout  time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.Timeout))
	r.Use(middleware.Compress(5))
	r.Use(AuthMiddleware(deps.Verifier))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", deps.Auth.SignUp)
			r.Post("/signin", deps.Auth.SignIn)
			r.Post("/google", deps.Auth.SignInWithGoogle)
			r.Post("/phone/start", deps.Auth.StartPhoneSignIn)
			r.Post("/phone/verify", deps.Auth.VerifyPhoneSignIn)
			r.Post("/reset-password", deps.Auth.ResetPassword)
			r.Post("/signout", deps.Auth.SignOut)
		})

		r.Get("/products", deps.Catalog.ListProducts)
		r.Get("/products/{slug}", deps.Catalog.GetProduct)
		r.Get("/products/{slug}/related", deps.Catalog.RelatedProducts)
		r.Get("/categories", deps.Catalog.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Delete("/", deps.Cart.ClearCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{productID}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{productID}", deps.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", deps.Checkout.StartCheckout)
			r.Get("/quote", deps.Checkout.Quote)
			r.Put("/{checkoutID}/address", deps.Checkout.SubmitAddress)
			r.Post("/{checkoutID}/pay", deps.Checkout.PlaceOrder)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", deps.Orders.ListOrders)
			r.Get("/{orderID}", deps.Orders.GetOrder)
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/profile", deps.Accounts.GetProfile)
			r.Get("/addresses", deps.Accounts.ListAddresses)
			r.Post("/addresses", deps.Accounts.CreateAddress)
			r.Delete("/addresses/{addressID}", deps.Accounts.DeleteAddress)
			r.Put("/addresses/{addressID}/default", deps.Accounts.SetDefaultAddress)
			r.Get("/wishlist", deps.Accounts.ListWishlist)
			r.Post("/wishlist", deps.Accounts.AddWishlistItem)
			r.Delete("/wishlist/{itemID}", deps.Accounts.RemoveWishlistItem)
		})
	})

	return r
}
