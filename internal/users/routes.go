package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware is the shape of the guards injected by main: the token
// authenticator and the role gates.
type Middleware = func(http.Handler) http.Handler

// SetupRoutes builds the /user router. Registration is the only open
// endpoint; everything else sits behind the token guard, and the full
// listing additionally requires a non-Client role.
func SetupRoutes(h *Handler, authn Middleware, lister Middleware) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.RegisterHandler)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Get("/me", h.MeHandler)
		r.Put("/me/name", h.UpdateNameHandler)
		r.Get("/coaches", h.CoachesHandler)
		r.Get("/clients", h.ClientsHandler)
		r.With(lister).Get("/all", h.AllHandler)
	})

	return r
}

// SetupAdminRoutes builds the /admin/user router, all Admin-only.
func SetupAdminRoutes(h *Handler, authn Middleware, adminOnly Middleware) http.Handler {
	r := chi.NewRouter()
	r.Use(authn, adminOnly)
	r.Delete("/{openID}", h.AdminDeleteHandler)
	r.Put("/{openID}", h.AdminUpdateHandler)
	return r
}
