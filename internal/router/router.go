package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pos-bolt/api/internal/cart"
	"github.com/pos-bolt/api/internal/checkout"
	"github.com/pos-bolt/api/internal/config"
	"github.com/pos-bolt/api/internal/database"
	"github.com/pos-bolt/api/internal/enum"
	"github.com/pos-bolt/api/internal/handler"
	mw "github.com/pos-bolt/api/internal/middleware"
	"github.com/pos-bolt/api/internal/payment"
	"github.com/pos-bolt/api/internal/service"
	"github.com/pos-bolt/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Core wiring shared by the order, payment, and cart routes.
	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(pool, queries, newOrderStore)
	tokenGen := payment.NewGenerator(queries, cfg.AppID)
	orchestrator := checkout.New(orderService, tokenGen)
	carts := cart.NewStore()

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret, carts)
		authHandler.RegisterRoutes(r)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))

			// Logout needs the authenticated user to drop their cart.
			authHandler.RegisterSessionRoutes(r)

			orderHandler := handler.NewOrderHandler(orderService, queries, hub)
			r.Route("/orders", orderHandler.RegisterRoutes)

			paymentHandler := handler.NewPaymentHandler(tokenGen)
			r.Route("/payments", paymentHandler.RegisterRoutes)

			cartHandler := handler.NewCartHandler(carts, queries, orchestrator, hub)
			r.Route("/cart", cartHandler.RegisterRoutes)

			productHandler := handler.NewProductHandler(queries)
			r.Route("/products", productHandler.RegisterRoutes)

			tableHandler := handler.NewTableHandler(queries)
			r.Route("/tables", tableHandler.RegisterRoutes)

			analyticsHandler := handler.NewAnalyticsHandler(queries)
			r.Route("/analytics", analyticsHandler.RegisterRoutes)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))

				outletHandler := handler.NewOutletHandler(queries)
				r.Route("/outlets", outletHandler.RegisterRoutes)

				settingsHandler := handler.NewSettingsHandler(queries)
				r.Route("/settings", settingsHandler.RegisterRoutes)
			})
		})
	})

	return r
}
