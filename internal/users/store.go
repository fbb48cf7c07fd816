package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
	"github.com/fenrir-gym/fenrir-backend/internal/db"
)

// Store is the persistence surface for user records. Two
// implementations exist: GormStore over Postgres and MemStore for
// tests and local development.
type Store interface {
	ByID(ctx context.Context, id uint) (*User, error)
	ByOpenID(ctx context.Context, openID string) (*User, error)
	ByKennitala(ctx context.Context, kt string) (*User, error)
	All(ctx context.Context) ([]User, error)
	ByRole(ctx context.Context, role Role) ([]User, error)
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, u *User) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) ByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapLookupErr(err)
	}
	return &u, nil
}

func (s *GormStore) ByOpenID(ctx context.Context, openID string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "open_id = ?", openID).Error; err != nil {
		return nil, mapLookupErr(err)
	}
	return &u, nil
}

func (s *GormStore) ByKennitala(ctx context.Context, kt string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "kennitala = ?", kt).Error; err != nil {
		return nil, mapLookupErr(err)
	}
	return &u, nil
}

func (s *GormStore) All(ctx context.Context) ([]User, error) {
	var list []User
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) ByRole(ctx context.Context, role Role) ([]User, error) {
	var list []User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) Create(ctx context.Context, u *User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return codes.ErrUserExists
		}
		return err
	}
	return nil
}

func (s *GormStore) Save(ctx context.Context, u *User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *GormStore) Delete(ctx context.Context, u *User) error {
	return s.db.WithContext(ctx).Delete(u).Error
}

func mapLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return codes.ErrNoSuchUser
	}
	return err
}
