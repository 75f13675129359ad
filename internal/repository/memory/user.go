package memory

import (
	"context"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

func (s *Store) GetUser(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if model.SameIdentity(u.Username, username) {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if model.SameIdentity(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sortedByNewest(out, func(u model.User) time.Time { return u.CreatedAt }, func(u model.User) int64 { return u.ID })
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, u model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIdentityLocked(0, u.Username, u.Email); err != nil {
		return nil, err
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}

	s.nextUser++
	u.ID = s.nextUser
	u.CreatedAt = s.now()
	s.users[u.ID] = u
	return &u, nil
}

func (s *Store) UpdateUser(_ context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}

	patch.Apply(&u)
	if err := s.checkIdentityLocked(id, u.Username, u.Email); err != nil {
		return nil, err
	}
	s.users[id] = u
	return &u, nil
}

func (s *Store) DeleteUser(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}

	for fid, f := range s.favorites {
		if f.UserID == id {
			delete(s.favorites, fid)
		}
	}
	for nid, n := range s.notifications {
		if n.UserID == id {
			delete(s.notifications, nid)
		}
	}
	for fid, f := range s.feedback {
		if f.UserID != nil && *f.UserID == id {
			f.UserID = nil
			s.feedback[fid] = f
		}
	}
	delete(s.users, id)
	return true, nil
}

// checkIdentityLocked rejects a username or email already held by a user
// other than self. Caller must hold s.mu.
func (s *Store) checkIdentityLocked(self int64, username, email string) error {
	for _, other := range s.users {
		if other.ID == self {
			continue
		}
		if model.SameIdentity(other.Email, email) {
			return apperror.Conflict("email", "Email already in use")
		}
		if model.SameIdentity(other.Username, username) {
			return apperror.Conflict("username", "Username already taken")
		}
	}
	return nil
}
