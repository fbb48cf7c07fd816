package workouts

import (
	"time"

	"github.com/lib/pq"

	"github.com/fenrir-gym/fenrir-backend/internal/users"
)

// Workout is a scheduled, capacity-bounded session led by a Coach or
// Admin. The scheduling instant is unique across all workouts; the
// database index enforces it so creation never races a pre-check.
// CoachID is nullable with SET NULL so deleting a leader never blocks:
// the workout survives and its summaries render blank coach fields.
type Workout struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CoachID     *uint          `gorm:"index" json:"-"`
	Coach       *users.User    `gorm:"foreignKey:CoachID;constraint:OnDelete:SET NULL" json:"-"`
	StartsAt    time.Time      `gorm:"uniqueIndex;not null" json:"date_time"`
	Description string         `gorm:"not null" json:"description"`
	Exercises   pq.StringArray `gorm:"type:text[]" json:"exercises,omitempty"`
}

func (Workout) TableName() string { return "fenrir.workouts" }

// Participation is the join row between users and workouts. Pure set
// membership; CreatedAt only exists to give rosters a stable insertion
// order.
type Participation struct {
	UserID    uint       `gorm:"primaryKey"`
	WorkoutID uint       `gorm:"primaryKey"`
	CreatedAt time.Time  `gorm:"not null"`
	User      users.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Workout   Workout    `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Participation) TableName() string { return "fenrir.participations" }

// ToggleResult reports which transition a participation toggle made.
type ToggleResult string

const (
	Attended ToggleResult = "attended"
	Removed  ToggleResult = "removed"
)

// Summary is the listing projection of a workout, including the live
// attendance count without materializing the roster. CoachOpenID and
// CoachName are empty when the leader has been deleted.
type Summary struct {
	ID          uint      `json:"id"`
	CoachOpenID string    `json:"coach_id"`
	CoachName   string    `json:"coach_name"`
	StartsAt    time.Time `json:"date_time"`
	Description string    `json:"description"`
	Exercises   []string  `json:"exercises,omitempty"`
	Attending   int       `json:"attending"`
}
