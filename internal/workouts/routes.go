package workouts

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Middleware = func(http.Handler) http.Handler

// SetupRoutes builds the /workout router. Everything requires a valid
// token; creation role rules are enforced by the engine.
func SetupRoutes(h *Handler, authn Middleware) http.Handler {
	r := chi.NewRouter()
	r.Use(authn)

	r.Get("/", h.AllHandler)
	r.Post("/", h.CreateHandler)
	r.Post("/{workoutID}/participate", h.ToggleHandler)
	r.Get("/{workoutID}/participants", h.RosterHandler)
	r.Get("/at/{instant}", h.ByInstantHandler)
	r.Get("/on/{date}", h.OnDateHandler)

	return r
}

// SetupAdminRoutes builds the /admin/workout router.
func SetupAdminRoutes(h *Handler, authn Middleware, adminOnly Middleware) http.Handler {
	r := chi.NewRouter()
	r.Use(authn, adminOnly)
	r.Put("/{workoutID}", h.AdminUpdateHandler)
	return r
}
