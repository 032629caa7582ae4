package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/cajero/internal/http/auth"
	"github.com/MrJamesThe3rd/cajero/internal/http/caja"
	"github.com/MrJamesThe3rd/cajero/internal/http/catalog"
)

// New builds the sandbox API. Everything except login requires a bearer
// token issued by tokens.
func New(
	tokens *auth.Tokens,
	authH *auth.Handler,
	cajasH *caja.Handler,
	catalogH *catalog.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		MaxAge:         300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authH.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware)

			r.Route("/companies", authH.CompanyRoutes)
			r.Route("/puntos-venta", catalogH.PointOfSaleRoutes)
			r.Route("/products", catalogH.ProductRoutes)
			r.Route("/tickets", catalogH.TicketRoutes)

			r.Route("/cajas", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				cajasH.Routes(r)
			})
		})
	})

	return router
}
