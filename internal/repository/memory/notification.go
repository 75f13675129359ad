package memory

import (
	"context"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

func (s *Store) GetNotification(_ context.Context, id int64) (*model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, apperror.NotFound("notification", id)
	}
	return &n, nil
}

func (s *Store) ListNotificationsByUser(_ context.Context, userID int64) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sortedByNewest(out,
		func(n model.Notification) time.Time { return n.CreatedAt },
		func(n model.Notification) int64 { return n.ID })
	return out, nil
}

func (s *Store) CreateNotification(_ context.Context, n model.Notification) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[n.UserID]; !ok {
		return nil, apperror.NotFound("user", n.UserID)
	}

	s.nextNotification++
	n.ID = s.nextNotification
	n.Read = false
	n.CreatedAt = s.now()
	s.notifications[n.ID] = n
	return &n, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id int64) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, apperror.NotFound("notification", id)
	}
	n.Read = true
	s.notifications[id] = n
	return &n, nil
}

func (s *Store) DeleteNotification(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[id]; !ok {
		return false, nil
	}
	delete(s.notifications, id)
	return true, nil
}
