package handlers

import (
	"net/http"
	"time"

	"taproom/internal/app"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type Server struct {
	App *app.App
}

// Routes builds the full router so main and tests wire the same stack.
func Routes(a *app.App) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Use(a.MiddlewareRequestLog)

	c := cors.New(cors.Options{
		AllowedOrigins: a.Config().CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(a.MiddlewareRateLimit)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed)
	})

	h := &Server{App: a}

	// Public
	r.Get("/health", h.Health)
	r.Get("/drinks", h.DrinksGet)

	// Permission-gated
	r.With(a.RequirePermission(app.PermReadDetail)).Get("/drinks-detail", h.DrinksDetailGet)
	r.With(a.RequirePermission(app.PermCreate)).Post("/drinks", h.DrinksPost)
	r.With(a.RequirePermission(app.PermUpdate)).Patch("/drinks/{id}", h.DrinkPatch)
	r.With(a.RequirePermission(app.PermDelete)).Delete("/drinks/{id}", h.DrinkDelete)

	return r
}
