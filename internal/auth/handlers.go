package auth

import (
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
	"github.com/fenrir-gym/fenrir-backend/internal/utils"
)

type Handler struct {
	tokens *Tokens
	store  users.Store
}

func NewHandler(tokens *Tokens, store users.Store) *Handler {
	return &Handler{tokens: tokens, store: store}
}

// LoginHandler exchanges HTTP Basic credentials (kennitala + password)
// for a bearer token. The role rides along so clients can shape their
// UI without a second round trip.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	kennitala, password, ok := r.BasicAuth()
	if !ok || kennitala == "" || password == "" {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}

	user, err := h.store.ByKennitala(r.Context(), kennitala)
	if err != nil {
		utils.RespondError(w, codes.ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		utils.RespondError(w, codes.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		http.Error(w, "Server error signing token", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error": codes.OK,
		"token": token,
		"role":  user.Role,
	})
}

// HomeHandler greets the authenticated caller. Exists to smoke-test the
// token guard end to end.
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.RespondError(w, codes.ErrMissingToken)
		return
	}
	user, err := h.store.ByID(r.Context(), identity.UserID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":   codes.OK,
		"message": fmt.Sprintf("Welcome to Fenrir, %s", user.Name),
	})
}
