// Package router assembles the HTTP routes and middleware chain.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/petcommunity/petcommunity/internal/handler"
	"github.com/petcommunity/petcommunity/internal/middleware"
)

// Deps are the handlers and settings the router is built from.
type Deps struct {
	Handler  *handler.Handler
	Health   *handler.HealthHandler
	Users    *handler.UserHandler
	Pets     *handler.PetHandler
	Metrics  *handler.MetricsHandler
	Identity middleware.IdentityResolver
	Logger   *slog.Logger

	Security    middleware.SecurityConfig
	CORS        middleware.CORSConfig
	MaxBodySize int64
}

// New configures the chi router with all routes and middleware.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.Security(d.Security))
	r.Use(middleware.CORS(d.CORS))
	if d.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(d.MaxBodySize))
	}

	// Health checks and banner
	r.Get("/", d.Handler.Hello)
	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics.Metrics)
	}

	// Accounts (no auth required)
	r.Post("/users", d.Users.Create)
	r.Post("/login", d.Users.Login)
	r.Get("/users/{id}", d.Users.Get)

	// Pets (bearer token required)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.Identity, d.Logger))

		r.Get("/pets", d.Pets.List)
		r.Post("/newpet", d.Pets.Create)
		r.Put("/pets/{id}", d.Pets.Update)
		r.Delete("/pets/{id}", d.Pets.Delete)
	})

	r.NotFound(d.Handler.NotFound)
	r.MethodNotAllowed(d.Handler.MethodNotAllowed)

	return r
}
