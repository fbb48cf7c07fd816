package users

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/utils"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler { return &Handler{store: store} }

// Store exposes the underlying store so collaborating packages (auth,
// workouts) can share the same user directory.
func (h *Handler) Store() Store { return h.store }

// RegisterHandler creates a new Client account. Fields are pointers so
// a missing field and a present-but-empty field map to different error
// codes.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
		SSN      *string `json:"ssn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}
	if input.Name == nil || input.Password == nil || input.SSN == nil {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}
	name := norm.NFC.String(strings.TrimSpace(*input.Name))
	if name == "" || *input.Password == "" || *input.SSN == "" {
		utils.RespondError(w, codes.ErrEmptyData)
		return
	}
	if !ValidPassword(*input.Password) {
		utils.RespondError(w, codes.ErrInvalidPassword)
		return
	}
	if !ValidKennitala(*input.SSN) {
		utils.RespondError(w, codes.ErrInvalidKennitala)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	user := User{
		OpenID:         uuid.NewString(),
		Name:           name,
		Kennitala:      *input.SSN,
		HashedPassword: string(hashed),
		Role:           RoleClient,
		StartDate:      now,
		ExpireDate:     now,
	}
	if err := h.store.Create(r.Context(), &user); err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":   codes.OK,
		"open_id": user.OpenID,
	})
}

// MeHandler returns the authenticated user's own record.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
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
		"error": codes.OK,
		"user":  Summarize(*user),
	})
}

// UpdateNameHandler lets any authenticated user rename themself.
func (h *Handler) UpdateNameHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.RespondError(w, codes.ErrMissingToken)
		return
	}
	var input struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == nil {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}
	name := norm.NFC.String(strings.TrimSpace(*input.Name))
	if name == "" {
		utils.RespondError(w, codes.ErrEmptyData)
		return
	}

	user, err := h.store.ByID(r.Context(), identity.UserID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	user.Name = name
	if err := h.store.Save(r.Context(), user); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int{"error": codes.OK})
}

// AllHandler lists every user. Route-level guard restricts it to Admin
// and Coach callers.
func (h *Handler) AllHandler(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, "")
}

func (h *Handler) CoachesHandler(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, RoleCoach)
}

func (h *Handler) ClientsHandler(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, RoleClient)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, role Role) {
	var (
		list []User
		err  error
	)
	if role == "" {
		list, err = h.store.All(r.Context())
	} else {
		list, err = h.store.ByRole(r.Context(), role)
	}
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	summaries := make([]Summary, 0, len(list))
	for _, u := range list {
		summaries = append(summaries, Summarize(u))
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":     codes.OK,
		"all_users": summaries,
	})
}

// AdminDeleteHandler removes a non-Admin user. Admins can never be
// deleted through this path, which also covers self-deletion.
func (h *Handler) AdminDeleteHandler(w http.ResponseWriter, r *http.Request) {
	openID := chi.URLParam(r, "openID")
	target, err := h.store.ByOpenID(r.Context(), openID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if target.Role == RoleAdmin {
		utils.RespondError(w, codes.ErrAccessDenied)
		return
	}
	if err := h.store.Delete(r.Context(), target); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int{"error": codes.OK})
}

// AdminUpdateHandler patches name, role, password or expire_date of any
// user. At least one known field must be present; present-but-empty
// values are rejected.
func (h *Handler) AdminUpdateHandler(w http.ResponseWriter, r *http.Request) {
	openID := chi.URLParam(r, "openID")

	var input struct {
		Name       *string `json:"name"`
		Role       *string `json:"role"`
		Password   *string `json:"password"`
		ExpireDate *string `json:"expire_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}

	target, err := h.store.ByOpenID(r.Context(), openID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	if input.Name == nil && input.Role == nil && input.Password == nil && input.ExpireDate == nil {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}

	if input.Name != nil {
		name := norm.NFC.String(strings.TrimSpace(*input.Name))
		if name == "" {
			utils.RespondError(w, codes.ErrEmptyData)
			return
		}
		target.Name = name
	}
	if input.Role != nil {
		if *input.Role == "" {
			utils.RespondError(w, codes.ErrEmptyData)
			return
		}
		role := Role(*input.Role)
		if !role.Valid() {
			utils.RespondError(w, codes.ErrInvalidRole)
			return
		}
		target.Role = role
	}
	if input.Password != nil {
		if *input.Password == "" {
			utils.RespondError(w, codes.ErrEmptyData)
			return
		}
		if !ValidPassword(*input.Password) {
			utils.RespondError(w, codes.ErrInvalidPassword)
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Server error hashing password", http.StatusInternalServerError)
			return
		}
		target.HashedPassword = string(hashed)
	}
	if input.ExpireDate != nil {
		if *input.ExpireDate == "" {
			utils.RespondError(w, codes.ErrEmptyData)
			return
		}
		expire, err := parseDate(*input.ExpireDate)
		if err != nil {
			utils.RespondError(w, codes.ErrMalformedDate)
			return
		}
		target.ExpireDate = expire
	}

	if err := h.store.Save(r.Context(), target); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int{"error": codes.OK})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
