package users

import (
	"context"
	"sync"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
)

// MemStore is an in-memory Store used by tests and local development.
// It mirrors GormStore semantics, including duplicate-kennitala
// rejection.
type MemStore struct {
	mu     sync.RWMutex
	nextID uint
	byID   map[uint]*User
	order  []uint
}

func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[uint]*User)}
}

func (s *MemStore) ByID(ctx context.Context, id uint) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, codes.ErrNoSuchUser
	}
	cp := *u
	return &cp, nil
}

func (s *MemStore) ByOpenID(ctx context.Context, openID string) (*User, error) {
	return s.find(func(u *User) bool { return u.OpenID == openID })
}

func (s *MemStore) ByKennitala(ctx context.Context, kt string) (*User, error) {
	return s.find(func(u *User) bool { return u.Kennitala == kt })
}

func (s *MemStore) find(match func(*User) bool) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if u := s.byID[id]; u != nil && match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, codes.ErrNoSuchUser
}

func (s *MemStore) All(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]User, 0, len(s.order))
	for _, id := range s.order {
		if u := s.byID[id]; u != nil {
			list = append(list, *u)
		}
	}
	return list, nil
}

func (s *MemStore) ByRole(ctx context.Context, role Role) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []User
	for _, id := range s.order {
		if u := s.byID[id]; u != nil && u.Role == role {
			list = append(list, *u)
		}
	}
	return list, nil
}

func (s *MemStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if existing := s.byID[id]; existing != nil && existing.Kennitala == u.Kennitala {
			return codes.ErrUserExists
		}
	}
	s.nextID++
	u.ID = s.nextID
	cp := *u
	s.byID[u.ID] = &cp
	s.order = append(s.order, u.ID)
	return nil
}

func (s *MemStore) Save(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return codes.ErrNoSuchUser
	}
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *MemStore) Delete(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return codes.ErrNoSuchUser
	}
	delete(s.byID, u.ID)
	for i, id := range s.order {
		if id == u.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
