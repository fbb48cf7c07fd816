package users

import "time"

// Role is the closed set of user roles. Keeping it a distinct type
// means authorization switches can be checked for exhaustiveness.
type Role string

const (
	RoleClient Role = "Client"
	RoleCoach  Role = "Coach"
	RoleAdmin  Role = "Admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// Leader reports whether r may be assigned as a workout leader.
func (r Role) Leader() bool { return r == RoleCoach || r == RoleAdmin }

type User struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	OpenID         string    `gorm:"uniqueIndex;not null" json:"open_id"`
	Name           string    `gorm:"not null" json:"name"`
	Kennitala      string    `gorm:"uniqueIndex;not null" json:"ssn"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Role           Role      `gorm:"not null;default:'Client'" json:"user_role"`
	StartDate      time.Time `gorm:"not null" json:"start_date"`
	ExpireDate     time.Time `gorm:"not null" json:"expire_date"`
}

func (User) TableName() string { return "fenrir.users" }

// Summary is the externally safe projection of a user, used for
// rosters and listings. Internal id and password hash never leave the
// process.
type Summary struct {
	OpenID     string    `json:"open_id"`
	Name       string    `json:"name"`
	Kennitala  string    `json:"ssn"`
	Role       Role      `json:"user_role"`
	StartDate  time.Time `json:"start_date"`
	ExpireDate time.Time `json:"expire_date"`
}

// Summarize converts a user to its public projection.
func Summarize(u User) Summary {
	return Summary{
		OpenID:     u.OpenID,
		Name:       u.Name,
		Kennitala:  u.Kennitala,
		Role:       u.Role,
		StartDate:  u.StartDate,
		ExpireDate: u.ExpireDate,
	}
}
