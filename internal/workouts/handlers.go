package workouts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
	"github.com/fenrir-gym/fenrir-backend/internal/utils"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler { return &Handler{engine: engine} }

// CreateHandler schedules a workout. All four fields are required;
// role rules live in the engine.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.RespondError(w, codes.ErrMissingToken)
		return
	}

	var input struct {
		CoachID     *string  `json:"coach_id"`
		Description *string  `json:"description"`
		Date        *string  `json:"date"`
		Time        *string  `json:"time"`
		Exercises   []string `json:"exercises"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}
	if input.CoachID == nil || input.Description == nil || input.Date == nil || input.Time == nil {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}
	if *input.CoachID == "" || *input.Description == "" || *input.Date == "" || *input.Time == "" {
		utils.RespondError(w, codes.ErrEmptyData)
		return
	}

	workout, err := h.engine.Create(r.Context(), identity, CreateRequest{
		CoachOpenID: *input.CoachID,
		Description: *input.Description,
		Date:        *input.Date,
		Time:        *input.Time,
		Exercises:   input.Exercises,
	})
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":      codes.OK,
		"workout_id": workout.ID,
	})
}

// ToggleHandler flips the caller's participation in a workout.
func (h *Handler) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.RespondError(w, codes.ErrMissingToken)
		return
	}
	workoutID, err := workoutIDParam(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	result, err := h.engine.Toggle(r.Context(), workoutID, identity.UserID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":   codes.OK,
		"message": result,
	})
}

// RosterHandler lists a workout's participants in join order.
func (h *Handler) RosterHandler(w http.ResponseWriter, r *http.Request) {
	workoutID, err := workoutIDParam(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	roster, err := h.engine.Roster(r.Context(), workoutID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	summaries := make([]users.Summary, 0, len(roster))
	for _, u := range roster {
		summaries = append(summaries, users.Summarize(u))
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":     codes.OK,
		"all_users": summaries,
	})
}

// AllHandler lists every workout with its attendance count.
func (h *Handler) AllHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.engine.All(r.Context())
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":        codes.OK,
		"all_workouts": list,
	})
}

// ByInstantHandler returns the single workout at an exact
// yyyy-mm-dd-HH-MM-SS instant.
func (h *Handler) ByInstantHandler(w http.ResponseWriter, r *http.Request) {
	at, err := time.ParseInLocation(InstantLayout, chi.URLParam(r, "instant"), time.UTC)
	if err != nil {
		utils.RespondError(w, codes.ErrInvalidDateTime)
		return
	}

	summary, err := h.engine.ByInstant(r.Context(), at)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":   codes.OK,
		"workout": summary,
	})
}

// OnDateHandler lists the workouts on a yyyy-mm-dd day. Empty is a
// success, not an error.
func (h *Handler) OnDateHandler(w http.ResponseWriter, r *http.Request) {
	day, err := time.ParseInLocation(DayLayout, chi.URLParam(r, "date"), time.UTC)
	if err != nil {
		utils.RespondError(w, codes.ErrInvalidDateTime)
		return
	}

	list, err := h.engine.OnDate(r.Context(), day)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"error":        codes.OK,
		"all_workouts": list,
	})
}

// AdminUpdateHandler patches leader, description, date or time.
func (h *Handler) AdminUpdateHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.RespondError(w, codes.ErrMissingToken)
		return
	}
	workoutID, err := workoutIDParam(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, codes.ErrMissingData)
		return
	}

	if err := h.engine.Update(r.Context(), identity, workoutID, patch); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int{"error": codes.OK})
}

// workoutIDParam parses the {workoutID} URL segment. A malformed id
// can never name a workout, so it maps to NoSuchWorkout.
func workoutIDParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "workoutID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, codes.ErrNoSuchWorkout
	}
	return uint(id), nil
}
