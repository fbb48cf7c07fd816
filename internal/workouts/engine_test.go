package workouts_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
	"github.com/fenrir-gym/fenrir-backend/internal/utils"
	"github.com/fenrir-gym/fenrir-backend/internal/workouts"
)

const testCapacity = 12

// newTestEngine wires an engine to fresh in-memory stores and returns
// both stores for fixture setup.
func newTestEngine(t *testing.T) (*workouts.Engine, *users.MemStore) {
	t.Helper()
	userStore := users.NewMemStore()
	workoutStore := workouts.NewMemStore(func(id uint) (*users.User, bool) {
		u, err := userStore.ByID(context.Background(), id)
		if err != nil {
			return nil, false
		}
		return u, true
	})
	return workouts.NewEngine(workoutStore, userStore, testCapacity), userStore
}

func addUser(t *testing.T, store *users.MemStore, name string, role users.Role) *users.User {
	t.Helper()
	u := users.User{
		OpenID:    fmt.Sprintf("open-%s", name),
		Name:      name,
		Kennitala: fmt.Sprintf("kt-%s", name),
		Role:      role,
	}
	if err := store.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return &u
}

func identityOf(u *users.User) utils.Identity {
	return utils.Identity{UserID: u.ID, OpenID: u.OpenID, Role: string(u.Role)}
}

func createWorkout(t *testing.T, e *workouts.Engine, admin *users.User, coach *users.User, date, clock string) *workouts.Workout {
	t.Helper()
	w, err := e.Create(context.Background(), identityOf(admin), workouts.CreateRequest{
		CoachOpenID: coach.OpenID,
		Description: "5 push-ups",
		Date:        date,
		Time:        clock,
	})
	if err != nil {
		t.Fatalf("create workout: %v", err)
	}
	return w
}

// TestToggleIdempotentPairing verifies the two-state machine: toggling
// twice reports attended then removed and leaves the roster empty.
func TestToggleIdempotentPairing(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	client := addUser(t, userStore, "client", users.RoleClient)
	w := createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")

	res, err := engine.Toggle(context.Background(), w.ID, client.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if res != workouts.Attended {
		t.Errorf("first toggle: expected attended, got %q", res)
	}

	res, err = engine.Toggle(context.Background(), w.ID, client.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if res != workouts.Removed {
		t.Errorf("second toggle: expected removed, got %q", res)
	}

	n, err := engine.Attendance(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("attendance: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty roster after paired toggles, got %d", n)
	}
}

// TestToggleNoSuchWorkout verifies a toggle against a missing workout
// fails and mutates nothing.
func TestToggleNoSuchWorkout(t *testing.T) {
	engine, userStore := newTestEngine(t)
	client := addUser(t, userStore, "client", users.RoleClient)

	_, err := engine.Toggle(context.Background(), 69, client.ID)
	if !errors.Is(err, codes.ErrNoSuchWorkout) {
		t.Errorf("expected ErrNoSuchWorkout, got %v", err)
	}
}

// TestCapacityInvariant runs the full capacity scenario: 12 distinct
// clients join, the 13th is rejected without mutation, one member
// leaves, and the 13th's retry then succeeds.
func TestCapacityInvariant(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	w := createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")

	members := make([]*users.User, testCapacity)
	for i := range members {
		members[i] = addUser(t, userStore, fmt.Sprintf("client-%d", i), users.RoleClient)
		res, err := engine.Toggle(context.Background(), w.ID, members[i].ID)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if res != workouts.Attended {
			t.Fatalf("toggle %d: expected attended, got %q", i, res)
		}
	}

	late := addUser(t, userStore, "late", users.RoleClient)
	if _, err := engine.Toggle(context.Background(), w.ID, late.ID); !errors.Is(err, codes.ErrWorkoutFull) {
		t.Fatalf("13th join: expected ErrWorkoutFull, got %v", err)
	}
	if n, _ := engine.Attendance(context.Background(), w.ID); n != testCapacity {
		t.Fatalf("failed join must not mutate: attendance %d, want %d", n, testCapacity)
	}

	// A member leaving frees exactly one slot.
	if res, err := engine.Toggle(context.Background(), w.ID, members[0].ID); err != nil || res != workouts.Removed {
		t.Fatalf("leave: got (%q, %v)", res, err)
	}
	if res, err := engine.Toggle(context.Background(), w.ID, late.ID); err != nil || res != workouts.Attended {
		t.Fatalf("retry after slot freed: got (%q, %v)", res, err)
	}
}

// TestConcurrentTogglesNeverExceedCapacity races many distinct users
// against one workout. Exactly capacity joins may succeed and the
// roster may never overshoot.
func TestConcurrentTogglesNeverExceedCapacity(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	w := createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")

	const contenders = 40
	ids := make([]uint, contenders)
	for i := range ids {
		ids[i] = addUser(t, userStore, fmt.Sprintf("racer-%d", i), users.RoleClient).ID
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		attended int
		full     int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			res, err := engine.Toggle(context.Background(), w.ID, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && res == workouts.Attended:
				attended++
			case errors.Is(err, codes.ErrWorkoutFull):
				full++
			default:
				t.Errorf("unexpected toggle outcome: (%q, %v)", res, err)
			}
		}(id)
	}
	wg.Wait()

	if attended != testCapacity {
		t.Errorf("expected exactly %d successful joins, got %d", testCapacity, attended)
	}
	if full != contenders-testCapacity {
		t.Errorf("expected %d WorkoutFull rejections, got %d", contenders-testCapacity, full)
	}
	if n, _ := engine.Attendance(context.Background(), w.ID); n != testCapacity {
		t.Errorf("attendance %d exceeds capacity %d", n, testCapacity)
	}
}

// TestCreateUniqueInstant verifies that the second workout at the same
// computed instant is rejected while distinct instants succeed.
func TestCreateUniqueInstant(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)

	createWorkout(t, engine, admin, coach, "1/12/2026", "12:00")

	_, err := engine.Create(context.Background(), identityOf(admin), workouts.CreateRequest{
		CoachOpenID: coach.OpenID,
		Description: "duplicate slot",
		Date:        "1/12/2026",
		Time:        "12:00",
	})
	if !errors.Is(err, codes.ErrWorkoutExists) {
		t.Errorf("expected ErrWorkoutExists, got %v", err)
	}

	// A different time on the same day is a different instant.
	createWorkout(t, engine, admin, coach, "1/12/2026", "13:00")
}

// TestCreateRoleRules verifies that Clients cannot create workouts and
// that the leader must hold a leader role.
func TestCreateRoleRules(t *testing.T) {
	engine, userStore := newTestEngine(t)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	client := addUser(t, userStore, "client", users.RoleClient)

	req := workouts.CreateRequest{
		CoachOpenID: coach.OpenID,
		Description: "morning",
		Date:        "2/12/2026",
		Time:        "09:00",
	}

	if _, err := engine.Create(context.Background(), identityOf(client), req); !errors.Is(err, codes.ErrAccessDenied) {
		t.Errorf("client create: expected ErrAccessDenied, got %v", err)
	}

	// Coach assigning themself succeeds.
	if _, err := engine.Create(context.Background(), identityOf(coach), req); err != nil {
		t.Errorf("coach self-create: %v", err)
	}

	// A Client as leader is rejected even for an Admin requester.
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	req.CoachOpenID = client.OpenID
	req.Time = "10:00"
	if _, err := engine.Create(context.Background(), identityOf(admin), req); !errors.Is(err, codes.ErrAccessDenied) {
		t.Errorf("client leader: expected ErrAccessDenied, got %v", err)
	}

	// An unknown leader is a missing user, not a role failure.
	req.CoachOpenID = "no-such-open-id"
	if _, err := engine.Create(context.Background(), identityOf(admin), req); !errors.Is(err, codes.ErrNoSuchUser) {
		t.Errorf("unknown leader: expected ErrNoSuchUser, got %v", err)
	}
}

// TestLookupMissSemantics verifies that an exact-instant miss is an
// error while an empty day listing is a success.
func TestLookupMissSemantics(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")

	instant := time.Date(2026, 11, 30, 8, 0, 0, 0, time.UTC)
	got, err := engine.ByInstant(context.Background(), instant)
	if err != nil {
		t.Fatalf("exact lookup: %v", err)
	}
	if got.CoachName != "coach" {
		t.Errorf("expected coach name on summary, got %q", got.CoachName)
	}

	_, err = engine.ByInstant(context.Background(), instant.Add(15*time.Minute))
	if !errors.Is(err, codes.ErrInvalidDateTime) {
		t.Errorf("miss: expected ErrInvalidDateTime, got %v", err)
	}

	empty, err := engine.OnDate(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("empty day must be success, got %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty listing, got %d", len(empty))
	}
}

// TestOnDateAttendanceCounts verifies day listings carry live
// attendance counts without the full roster.
func TestOnDateAttendanceCounts(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	w := createWorkout(t, engine, admin, coach, "1/12/2026", "12:00")

	for i := 0; i < 3; i++ {
		c := addUser(t, userStore, fmt.Sprintf("client-%d", i), users.RoleClient)
		if _, err := engine.Toggle(context.Background(), w.ID, c.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	list, err := engine.OnDate(context.Background(), time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("on date: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 workout, got %d", len(list))
	}
	if list[0].Attending != 3 {
		t.Errorf("expected attending 3, got %d", list[0].Attending)
	}
	if list[0].CoachName != "coach" {
		t.Errorf("expected coach name, got %q", list[0].CoachName)
	}
}

// TestRosterInsertionOrder verifies roster enumeration is stable in
// join order, and that an empty roster is a success.
func TestRosterInsertionOrder(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	w := createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")

	empty, err := engine.Roster(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("empty roster must be success, got %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty roster, got %d", len(empty))
	}

	first := addUser(t, userStore, "first", users.RoleClient)
	second := addUser(t, userStore, "second", users.RoleClient)
	for _, u := range []*users.User{first, second} {
		if _, err := engine.Toggle(context.Background(), w.ID, u.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	roster, err := engine.Roster(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 2 || roster[0].Name != "first" || roster[1].Name != "second" {
		t.Errorf("expected [first second] in join order, got %v", roster)
	}

	if _, err := engine.Roster(context.Background(), 424242); !errors.Is(err, codes.ErrNoSuchWorkout) {
		t.Errorf("missing workout roster: expected ErrNoSuchWorkout, got %v", err)
	}
}

// TestUpdateTimeOnlyPreservesDate verifies a time-only patch shifts the
// time-of-day and keeps the calendar date, and vice versa.
func TestUpdateTimeOnlyPreservesDate(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	w := createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")

	newTime := "11:50"
	if err := engine.Update(context.Background(), identityOf(admin), w.ID, workouts.Patch{Time: &newTime}); err != nil {
		t.Fatalf("time-only update: %v", err)
	}
	got, err := engine.ByInstant(context.Background(), time.Date(2026, 11, 30, 11, 50, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("lookup at shifted time: %v", err)
	}
	if got.ID != w.ID {
		t.Errorf("expected workout %d at new instant, got %d", w.ID, got.ID)
	}

	newDate := "1/12/2026"
	if err := engine.Update(context.Background(), identityOf(admin), w.ID, workouts.Patch{Date: &newDate}); err != nil {
		t.Fatalf("date-only update: %v", err)
	}
	if _, err := engine.ByInstant(context.Background(), time.Date(2026, 12, 1, 11, 50, 0, 0, time.UTC)); err != nil {
		t.Errorf("expected workout at new date with preserved time, got %v", err)
	}
}

// TestUpdateValidation covers the patch error taxonomy: role gate,
// missing workouts, empty patches and empty fields.
func TestUpdateValidation(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	client := addUser(t, userStore, "client", users.RoleClient)
	w := createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")

	desc := "harder"
	if err := engine.Update(context.Background(), identityOf(client), w.ID, workouts.Patch{Description: &desc}); !errors.Is(err, codes.ErrAccessDenied) {
		t.Errorf("non-admin update: expected ErrAccessDenied, got %v", err)
	}
	if err := engine.Update(context.Background(), identityOf(admin), 999, workouts.Patch{Description: &desc}); !errors.Is(err, codes.ErrNoSuchWorkout) {
		t.Errorf("missing workout: expected ErrNoSuchWorkout, got %v", err)
	}
	if err := engine.Update(context.Background(), identityOf(admin), w.ID, workouts.Patch{}); !errors.Is(err, codes.ErrMissingData) {
		t.Errorf("empty patch: expected ErrMissingData, got %v", err)
	}

	emptyString := ""
	for name, patch := range map[string]workouts.Patch{
		"coach_id":    {CoachOpenID: &emptyString},
		"description": {Description: &emptyString},
		"date":        {Date: &emptyString},
		"time":        {Time: &emptyString},
	} {
		if err := engine.Update(context.Background(), identityOf(admin), w.ID, patch); !errors.Is(err, codes.ErrEmptyData) {
			t.Errorf("empty %s: expected ErrEmptyData, got %v", name, err)
		}
	}

	// Empty date with a valid time is still empty data.
	validTime := "11:50"
	patch := workouts.Patch{Time: &validTime, Date: &emptyString}
	if err := engine.Update(context.Background(), identityOf(admin), w.ID, patch); !errors.Is(err, codes.ErrEmptyData) {
		t.Errorf("empty date with time: expected ErrEmptyData, got %v", err)
	}
}

// TestUpdateInstantCollision documents that moving a workout onto an
// occupied instant is rejected; the uniqueness invariant holds on
// update, not just create.
func TestUpdateInstantCollision(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")
	w2 := createWorkout(t, engine, admin, coach, "30/11/2026", "12:00")

	collidingTime := "08:00"
	err := engine.Update(context.Background(), identityOf(admin), w2.ID, workouts.Patch{Time: &collidingTime})
	if !errors.Is(err, codes.ErrWorkoutExists) {
		t.Errorf("colliding update: expected ErrWorkoutExists, got %v", err)
	}

	// The workout stays at its original instant after the rejection.
	if _, err := engine.ByInstant(context.Background(), time.Date(2026, 11, 30, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Errorf("expected workout untouched at original instant, got %v", err)
	}
}

// TestDeleteLeadingCoachLeavesBlankCoach verifies deleting a coach who
// leads a workout never blocks: the workout and its roster survive and
// its summaries come back with empty coach fields.
func TestDeleteLeadingCoachLeavesBlankCoach(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	client := addUser(t, userStore, "client", users.RoleClient)
	w := createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")
	if _, err := engine.Toggle(context.Background(), w.ID, client.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := userStore.Delete(context.Background(), coach); err != nil {
		t.Fatalf("deleting a leading coach must succeed, got %v", err)
	}

	got, err := engine.ByInstant(context.Background(), time.Date(2026, 11, 30, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("workout must survive its leader: %v", err)
	}
	if got.CoachOpenID != "" || got.CoachName != "" {
		t.Errorf("expected blank coach fields, got (%q, %q)", got.CoachOpenID, got.CoachName)
	}
	if got.Attending != 1 {
		t.Errorf("roster must survive, attending = %d", got.Attending)
	}
}

// TestTogglesOnDistinctWorkoutsAreIndependent verifies membership in
// one workout never affects another.
func TestTogglesOnDistinctWorkoutsAreIndependent(t *testing.T) {
	engine, userStore := newTestEngine(t)
	admin := addUser(t, userStore, "admin", users.RoleAdmin)
	coach := addUser(t, userStore, "coach", users.RoleCoach)
	client := addUser(t, userStore, "client", users.RoleClient)
	w1 := createWorkout(t, engine, admin, coach, "30/11/2026", "08:00")
	w2 := createWorkout(t, engine, admin, coach, "30/11/2026", "12:00")

	if _, err := engine.Toggle(context.Background(), w1.ID, client.ID); err != nil {
		t.Fatalf("join w1: %v", err)
	}
	n1, _ := engine.Attendance(context.Background(), w1.ID)
	n2, _ := engine.Attendance(context.Background(), w2.ID)
	if n1 != 1 || n2 != 0 {
		t.Errorf("expected (1, 0) attendance, got (%d, %d)", n1, n2)
	}
}
