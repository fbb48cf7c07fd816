package workouts

import (
	"context"
	"time"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
	"github.com/fenrir-gym/fenrir-backend/internal/utils"
)

// Date and time wire formats, matching what clients send.
const (
	DateLayout    = "2/1/2006"
	TimeLayout    = "15:04"
	DayLayout     = "2006-01-02"
	InstantLayout = "2006-01-02-15-04-05"
)

// UserDirectory is the narrow view of the user store the engine needs:
// leader resolution and roster naming.
type UserDirectory interface {
	ByID(ctx context.Context, id uint) (*users.User, error)
	ByOpenID(ctx context.Context, openID string) (*users.User, error)
}

// Engine owns workout scheduling and the participation state machine.
// Each (workout, user) pair is either attending or not; Toggle is the
// single transition, and the capacity invariant only guards the join
// direction. The store and directory are injected so tests run on
// isolated in-memory state.
type Engine struct {
	store    Store
	users    UserDirectory
	capacity int
}

func NewEngine(store Store, users UserDirectory, capacity int) *Engine {
	return &Engine{store: store, users: users, capacity: capacity}
}

// Capacity returns the fixed per-workout participant limit.
func (e *Engine) Capacity() int { return e.capacity }

// Toggle joins the user to the workout, or removes them if already
// attending. Joining a full workout fails with WorkoutFull and mutates
// nothing.
func (e *Engine) Toggle(ctx context.Context, workoutID, userID uint) (ToggleResult, error) {
	return e.store.Toggle(ctx, workoutID, userID, e.capacity)
}

// Roster returns the participants in insertion order. An empty roster
// is success; only a missing workout is an error.
func (e *Engine) Roster(ctx context.Context, workoutID uint) ([]users.User, error) {
	return e.store.Roster(ctx, workoutID)
}

// Attendance returns the roster size without loading the roster.
func (e *Engine) Attendance(ctx context.Context, workoutID uint) (int, error) {
	return e.store.Attendance(ctx, workoutID)
}

// CreateRequest carries the already-decoded creation fields. The
// handler rejects missing/empty fields before this point; the engine
// re-validates everything that touches referential state.
type CreateRequest struct {
	CoachOpenID string
	Description string
	Date        string
	Time        string
	Exercises   []string
}

// Create schedules a new workout. Clients may not create workouts and
// the leader must hold a leader role. The scheduling instant is the
// date + time at second precision; collisions fail with WorkoutExists,
// enforced by the store's uniqueness primitive rather than a lookup.
func (e *Engine) Create(ctx context.Context, identity utils.Identity, req CreateRequest) (*Workout, error) {
	if users.Role(identity.Role) == users.RoleClient {
		return nil, codes.ErrAccessDenied
	}

	coach, err := e.users.ByOpenID(ctx, req.CoachOpenID)
	if err != nil {
		return nil, err
	}
	if !coach.Role.Leader() {
		return nil, codes.ErrAccessDenied
	}

	startsAt, err := combineInstant(req.Date, req.Time)
	if err != nil {
		return nil, codes.ErrMalformedDate
	}

	w := Workout{
		CoachID:     &coach.ID,
		StartsAt:    startsAt,
		Description: req.Description,
		Exercises:   req.Exercises,
	}
	if err := e.store.Create(ctx, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ByInstant looks up the single workout at an exact date+time. A miss
// is InvalidDateTime, distinct from a workout with an empty roster.
func (e *Engine) ByInstant(ctx context.Context, at time.Time) (*Summary, error) {
	w, err := e.store.ByInstant(ctx, at)
	if err != nil {
		return nil, err
	}
	return e.summarize(ctx, w)
}

// OnDate lists the workouts on a calendar day. No workouts is an empty
// list, not an error.
func (e *Engine) OnDate(ctx context.Context, day time.Time) ([]Summary, error) {
	list, err := e.store.OnDate(ctx, day)
	if err != nil {
		return nil, err
	}
	return e.summarizeAll(ctx, list)
}

// All lists every workout.
func (e *Engine) All(ctx context.Context) ([]Summary, error) {
	list, err := e.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return e.summarizeAll(ctx, list)
}

// Patch holds the admin-updatable fields. Pointers distinguish absent
// from present-but-empty.
type Patch struct {
	CoachOpenID *string `json:"coach_id"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
}

func (p Patch) empty() bool {
	return p.CoachOpenID == nil && p.Description == nil && p.Date == nil && p.Time == nil
}

// Update patches a workout; Admin only. A date-only patch keeps the
// existing time-of-day, a time-only patch keeps the existing date, and
// both together replace the instant. Moving onto an occupied instant
// fails with WorkoutExists just like Create.
func (e *Engine) Update(ctx context.Context, identity utils.Identity, workoutID uint, patch Patch) error {
	if users.Role(identity.Role) != users.RoleAdmin {
		return codes.ErrAccessDenied
	}

	w, err := e.store.ByID(ctx, workoutID)
	if err != nil {
		return err
	}
	if patch.empty() {
		return codes.ErrMissingData
	}

	if patch.CoachOpenID != nil {
		if *patch.CoachOpenID == "" {
			return codes.ErrEmptyData
		}
		coach, err := e.users.ByOpenID(ctx, *patch.CoachOpenID)
		if err != nil {
			return err
		}
		if !coach.Role.Leader() {
			return codes.ErrAccessDenied
		}
		w.CoachID = &coach.ID
	}

	if patch.Description != nil {
		if *patch.Description == "" {
			return codes.ErrEmptyData
		}
		w.Description = *patch.Description
	}

	if patch.Date != nil && *patch.Date == "" {
		return codes.ErrEmptyData
	}
	if patch.Time != nil && *patch.Time == "" {
		return codes.ErrEmptyData
	}
	switch {
	case patch.Date != nil && patch.Time != nil:
		at, err := combineInstant(*patch.Date, *patch.Time)
		if err != nil {
			return codes.ErrMalformedDate
		}
		w.StartsAt = at
	case patch.Date != nil:
		day, err := time.ParseInLocation(DateLayout, *patch.Date, time.UTC)
		if err != nil {
			return codes.ErrMalformedDate
		}
		old := w.StartsAt
		w.StartsAt = time.Date(day.Year(), day.Month(), day.Day(),
			old.Hour(), old.Minute(), old.Second(), 0, time.UTC)
	case patch.Time != nil:
		tod, err := time.Parse(TimeLayout, *patch.Time)
		if err != nil {
			return codes.ErrMalformedDate
		}
		old := w.StartsAt
		w.StartsAt = time.Date(old.Year(), old.Month(), old.Day(),
			tod.Hour(), tod.Minute(), 0, 0, time.UTC)
	}

	return e.store.Save(ctx, w)
}

// summarize builds the listing projection. A workout whose leader was
// deleted keeps its roster and schedule; the coach fields come back
// empty rather than failing the whole listing.
func (e *Engine) summarize(ctx context.Context, w *Workout) (*Summary, error) {
	attending, err := e.store.Attendance(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	s := Summary{
		ID:          w.ID,
		StartsAt:    w.StartsAt,
		Description: w.Description,
		Exercises:   w.Exercises,
		Attending:   attending,
	}
	if w.CoachID != nil {
		if coach, err := e.users.ByID(ctx, *w.CoachID); err == nil {
			s.CoachOpenID = coach.OpenID
			s.CoachName = coach.Name
		}
	}
	return &s, nil
}

func (e *Engine) summarizeAll(ctx context.Context, list []Workout) ([]Summary, error) {
	summaries := make([]Summary, 0, len(list))
	for i := range list {
		s, err := e.summarize(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *s)
	}
	return summaries, nil
}

// combineInstant folds a d/m/yyyy date and an HH:MM time into one UTC
// instant with seconds zeroed.
func combineInstant(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	tod, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, time.UTC), nil
}
