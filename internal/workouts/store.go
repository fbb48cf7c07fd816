package workouts

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/db"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
)

// Store is the persistence surface the participation engine runs on.
// Toggle is the atomic add-if-room/remove primitive: implementations
// must serialize concurrent toggles on the same workout so the
// capacity invariant cannot be broken between a count and an insert.
type Store interface {
	Create(ctx context.Context, w *Workout) error
	ByID(ctx context.Context, id uint) (*Workout, error)
	ByInstant(ctx context.Context, at time.Time) (*Workout, error)
	OnDate(ctx context.Context, day time.Time) ([]Workout, error)
	All(ctx context.Context) ([]Workout, error)
	Save(ctx context.Context, w *Workout) error
	Toggle(ctx context.Context, workoutID, userID uint, capacity int) (ToggleResult, error)
	Roster(ctx context.Context, workoutID uint) ([]users.User, error)
	Attendance(ctx context.Context, workoutID uint) (int, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(conn *gorm.DB) *GormStore { return &GormStore{db: conn} }

func (s *GormStore) Create(ctx context.Context, w *Workout) error {
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return codes.ErrWorkoutExists
		}
		return err
	}
	return nil
}

func (s *GormStore) ByID(ctx context.Context, id uint) (*Workout, error) {
	var w Workout
	if err := s.db.WithContext(ctx).First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, codes.ErrNoSuchWorkout
		}
		return nil, err
	}
	return &w, nil
}

func (s *GormStore) ByInstant(ctx context.Context, at time.Time) (*Workout, error) {
	var w Workout
	if err := s.db.WithContext(ctx).First(&w, "starts_at = ?", at).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, codes.ErrInvalidDateTime
		}
		return nil, err
	}
	return &w, nil
}

func (s *GormStore) OnDate(ctx context.Context, day time.Time) ([]Workout, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var list []Workout
	err := s.db.WithContext(ctx).
		Where("starts_at >= ? AND starts_at < ?", start, end).
		Order("starts_at").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) All(ctx context.Context) ([]Workout, error) {
	var list []Workout
	if err := s.db.WithContext(ctx).Order("starts_at").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) Save(ctx context.Context, w *Workout) error {
	if err := s.db.WithContext(ctx).Save(w).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return codes.ErrWorkoutExists
		}
		return err
	}
	return nil
}

// Toggle flips membership inside a transaction holding a row lock on
// the workout. The lock serializes toggles per workout; toggles on
// different workouts proceed in parallel. Delete-first makes the
// member case a single statement, and the capacity count only runs
// while the lock is held.
func (s *GormStore) Toggle(ctx context.Context, workoutID, userID uint, capacity int) (ToggleResult, error) {
	var result ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w Workout
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, workoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return codes.ErrNoSuchWorkout
			}
			return err
		}

		res := tx.Where("workout_id = ? AND user_id = ?", workoutID, userID).Delete(&Participation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			result = Removed
			return nil
		}

		var attending int64
		if err := tx.Model(&Participation{}).Where("workout_id = ?", workoutID).Count(&attending).Error; err != nil {
			return err
		}
		if attending >= int64(capacity) {
			return codes.ErrWorkoutFull
		}
		if err := tx.Create(&Participation{WorkoutID: workoutID, UserID: userID}).Error; err != nil {
			return err
		}
		result = Attended
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (s *GormStore) Roster(ctx context.Context, workoutID uint) ([]users.User, error) {
	if _, err := s.ByID(ctx, workoutID); err != nil {
		return nil, err
	}

	var list []users.User
	err := s.db.WithContext(ctx).
		Model(&users.User{}).
		Joins("JOIN fenrir.participations p ON p.user_id = fenrir.users.id").
		Where("p.workout_id = ?", workoutID).
		Order("p.created_at, p.user_id").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) Attendance(ctx context.Context, workoutID uint) (int, error) {
	if _, err := s.ByID(ctx, workoutID); err != nil {
		return 0, err
	}
	var n int64
	err := s.db.WithContext(ctx).
		Model(&Participation{}).
		Where("workout_id = ?", workoutID).
		Count(&n).Error
	return int(n), err
}
