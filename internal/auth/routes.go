package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler, authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/login", h.LoginHandler)
	r.With(authn).Get("/home", h.HomeHandler)
	return r
}
