// Package seeds fills an empty database with a development fixture
// set: a mix of clients, coaches and admins plus a few scheduled
// workouts. Existing records are skipped so reruns are safe.
package seeds

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
	"github.com/fenrir-gym/fenrir-backend/internal/workouts"
)

// Every fixture account logs in with this password.
const fixturePassword = "abcdef"

type fixtureUser struct {
	name      string
	kennitala string
	role      users.Role
}

var fixtureUsers = []fixtureUser{
	{"Hassi", "1002873319", users.RoleClient},
	{"Bongo", "1104872159", users.RoleClient},
	{"Gudmundur", "2810842759", users.RoleClient},
	{"Manni", "1006893169", users.RoleCoach},
	{"Johann", "0510153630", users.RoleCoach},
	{"Arnar", "3011873949", users.RoleAdmin},
	{"Maggi", "2005893869", users.RoleAdmin},
	{"Viddi", "1111903059", users.RoleClient},
	{"Hoddz", "0104902359", users.RoleClient},
	{"Swan", "0709943569", users.RoleClient},
}

type fixtureWorkout struct {
	coachKennitala string
	startsAt       time.Time
	description    string
	exercises      []string
}

var fixtureWorkouts = []fixtureWorkout{
	{"1006893169", date(2026, 9, 7, 8, 0), "Morning strength", []string{"squats", "deadlifts"}},
	{"0510153630", date(2026, 9, 7, 12, 0), "Lunch HIIT", []string{"burpees", "sprints"}},
	{"1006893169", date(2026, 9, 7, 18, 0), "Evening mobility", nil},
	{"0510153630", date(2026, 9, 8, 12, 0), "Open gym", nil},
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func SeedAll(userStore users.Store, workoutStore workouts.Store) error {
	ctx := context.Background()

	if err := seedUsers(ctx, userStore); err != nil {
		return err
	}
	return seedWorkouts(ctx, userStore, workoutStore)
}

func seedUsers(ctx context.Context, store users.Store) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(fixturePassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	created := 0
	now := time.Now().UTC()
	for _, f := range fixtureUsers {
		u := users.User{
			OpenID:         uuid.NewString(),
			Name:           f.name,
			Kennitala:      f.kennitala,
			HashedPassword: string(hashed),
			Role:           f.role,
			StartDate:      now,
			ExpireDate:     now.AddDate(1, 0, 0),
		}
		err := store.Create(ctx, &u)
		if errors.Is(err, codes.ErrUserExists) {
			log.Printf("⚠️ User exists, skipping: %s", f.name)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", f.name, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d users", created)
	return nil
}

func seedWorkouts(ctx context.Context, userStore users.Store, workoutStore workouts.Store) error {
	created := 0
	for _, f := range fixtureWorkouts {
		coach, err := userStore.ByKennitala(ctx, f.coachKennitala)
		if err != nil {
			return fmt.Errorf("coach %s not found: %w", f.coachKennitala, err)
		}

		w := workouts.Workout{
			CoachID:     &coach.ID,
			StartsAt:    f.startsAt,
			Description: f.description,
			Exercises:   f.exercises,
		}
		err = workoutStore.Create(ctx, &w)
		if errors.Is(err, codes.ErrWorkoutExists) {
			log.Printf("⚠️ Workout exists, skipping: %s", f.startsAt)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create workout at %s: %w", f.startsAt, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d workouts", created)
	return nil
}
