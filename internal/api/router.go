package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tablefind/tablefind/internal/api/handlers"
	"github.com/tablefind/tablefind/internal/config"
	"github.com/tablefind/tablefind/internal/metrics"
	"github.com/tablefind/tablefind/internal/middleware"
	"github.com/tablefind/tablefind/internal/services"
	"github.com/tablefind/tablefind/internal/web"
)

// NewRouter wires both surfaces: the JSON API under /api and the
// server-rendered pages at the root. One authorization policy covers both:
// create needs an authenticated user, update and delete need admin.
func NewRouter(
	cfg config.Config,
	userSvc *services.UserService,
	restaurantSvc *services.RestaurantService,
	resolver *middleware.Resolver,
	pages *web.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(resolver.Optional)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authH := handlers.NewAuthHandler(userSvc)
	restH := handlers.NewRestaurantHandler(restaurantSvc)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.With(middleware.RequireAuth).Post("/auth/logout", authH.Logout)
		r.With(middleware.RequireAuth).Get("/auth/profile", authH.Profile)

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", restH.List)
			r.Get("/search/filters", restH.SearchFilters)
			r.Get("/{id}", restH.Get)
			r.With(middleware.RequireAuth).Post("/", restH.Create)
			r.With(middleware.RequireAdmin).Put("/{id}", restH.Update)
			r.With(middleware.RequireAdmin).Delete("/{id}", restH.Delete)
		})
	})

	if pages != nil {
		pages.Routes(r)
		r.NotFound(pages.NotFound)
	}

	return r
}
