package workouts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
)

// MemStore is an in-memory Store used by tests and local development.
// A mutex per workout mirrors the row lock the Postgres store takes,
// so concurrent toggles on one workout serialize while other workouts
// stay independent.
type MemStore struct {
	mu        sync.RWMutex
	nextID    uint
	workouts  map[uint]*Workout
	byInstant map[time.Time]uint
	rosters   map[uint][]uint
	locks     map[uint]*sync.Mutex

	usersByID func(id uint) (*users.User, bool)
}

// NewMemStore builds an empty store. lookup resolves user ids for
// Roster; pass the directory the engine uses.
func NewMemStore(lookup func(id uint) (*users.User, bool)) *MemStore {
	return &MemStore{
		workouts:  make(map[uint]*Workout),
		byInstant: make(map[time.Time]uint),
		rosters:   make(map[uint][]uint),
		locks:     make(map[uint]*sync.Mutex),
		usersByID: lookup,
	}
}

func (s *MemStore) Create(ctx context.Context, w *Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := w.StartsAt.UTC()
	if _, taken := s.byInstant[key]; taken {
		return codes.ErrWorkoutExists
	}
	s.nextID++
	w.ID = s.nextID
	cp := *w
	s.workouts[w.ID] = &cp
	s.byInstant[key] = w.ID
	s.locks[w.ID] = &sync.Mutex{}
	return nil
}

func (s *MemStore) ByID(ctx context.Context, id uint) (*Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workouts[id]
	if !ok {
		return nil, codes.ErrNoSuchWorkout
	}
	cp := *w
	return &cp, nil
}

func (s *MemStore) ByInstant(ctx context.Context, at time.Time) (*Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byInstant[at.UTC()]
	if !ok {
		return nil, codes.ErrInvalidDateTime
	}
	cp := *s.workouts[id]
	return &cp, nil
}

func (s *MemStore) OnDate(ctx context.Context, day time.Time) ([]Workout, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []Workout
	for _, w := range s.workouts {
		if !w.StartsAt.Before(start) && w.StartsAt.Before(end) {
			list = append(list, *w)
		}
	}
	sortByInstant(list)
	return list, nil
}

func (s *MemStore) All(ctx context.Context) ([]Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		list = append(list, *w)
	}
	sortByInstant(list)
	return list, nil
}

func (s *MemStore) Save(ctx context.Context, w *Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.workouts[w.ID]
	if !ok {
		return codes.ErrNoSuchWorkout
	}
	key := w.StartsAt.UTC()
	if holder, taken := s.byInstant[key]; taken && holder != w.ID {
		return codes.ErrWorkoutExists
	}
	delete(s.byInstant, old.StartsAt.UTC())
	s.byInstant[key] = w.ID
	cp := *w
	s.workouts[w.ID] = &cp
	return nil
}

func (s *MemStore) Toggle(ctx context.Context, workoutID, userID uint, capacity int) (ToggleResult, error) {
	s.mu.RLock()
	lock, ok := s.locks[workoutID]
	s.mu.RUnlock()
	if !ok {
		return "", codes.ErrNoSuchWorkout
	}

	// Per-workout serialization point, like the row lock in Postgres.
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	roster := s.rosters[workoutID]
	for i, id := range roster {
		if id == userID {
			s.rosters[workoutID] = append(roster[:i:i], roster[i+1:]...)
			return Removed, nil
		}
	}
	if len(roster) >= capacity {
		return "", codes.ErrWorkoutFull
	}
	s.rosters[workoutID] = append(roster, userID)
	return Attended, nil
}

func (s *MemStore) Roster(ctx context.Context, workoutID uint) ([]users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.workouts[workoutID]; !ok {
		return nil, codes.ErrNoSuchWorkout
	}
	roster := s.rosters[workoutID]
	list := make([]users.User, 0, len(roster))
	for _, id := range roster {
		if u, ok := s.usersByID(id); ok {
			list = append(list, *u)
		}
	}
	return list, nil
}

func (s *MemStore) Attendance(ctx context.Context, workoutID uint) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.workouts[workoutID]; !ok {
		return 0, codes.ErrNoSuchWorkout
	}
	return len(s.rosters[workoutID]), nil
}

func sortByInstant(list []Workout) {
	sort.Slice(list, func(i, j int) bool { return list[i].StartsAt.Before(list[j].StartsAt) })
}
