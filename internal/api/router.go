package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter constructs the chi router with all API endpoints registered.
func NewRouter(svc Services) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HealthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/products", h.ProductsHandler)

	r.Post("/auth/register", h.RegisterHandler)
	r.Post("/auth/login", h.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Post("/auth/logout", h.LogoutHandler)
		r.Get("/me", h.MeHandler)
		r.Post("/me/refresh", h.RefreshHandler)

		r.Get("/banks", h.ListBanksHandler)
		r.Post("/deposits", h.CreateDepositHandler)
		r.Get("/transactions", h.ListTransactionsHandler)
		r.Get("/transactions/{txId}", h.GetTransactionHandler)

		r.Post("/purchases", h.PurchaseHandler)
		r.Get("/keys", h.ListKeysHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin)

			r.Get("/transactions", h.AdminListTransactionsHandler)
			r.Post("/deposits/{txId}/approve", h.ApproveDepositHandler)

			r.Get("/users", h.AdminListUsersHandler)
			r.Put("/users/{userId}/balance", h.SetBalanceHandler)
			r.Post("/users/{userId}/lock", h.ToggleLockHandler)
			r.Delete("/users/{userId}", h.DeleteUserHandler)
			r.Get("/users/{userId}/reconcile", h.ReconcileHandler)

			r.Get("/banks/directory", h.BankDirectoryHandler)
			r.Post("/banks", h.AddBankHandler)
			r.Delete("/banks/{bankId}", h.RemoveBankHandler)
		})
	})

	return r
}
