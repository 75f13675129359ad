package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/metrics"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository"
)

// Reminder windows, in whole hours before kick-off.
const (
	reminderDayBefore  = 24
	reminderHourBefore = 1
)

// NotificationStore is the storage NotificationService needs.
type NotificationStore interface {
	repository.NotificationRepository
	ListFavoritesByUser(ctx context.Context, userID int64) ([]model.FavoriteWithMatch, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type NotificationService struct {
	store   NotificationStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewNotificationService(store NotificationStore, m *metrics.Metrics, logger *slog.Logger) *NotificationService {
	return &NotificationService{store: store, metrics: m, logger: logger, now: time.Now}
}

func (s *NotificationService) List(ctx context.Context, userID int64) ([]model.Notification, error) {
	out, err := s.store.ListNotificationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/notification: listing for user %d: %w", userID, err)
	}
	return out, nil
}

// MarkRead marks one of the caller's notifications read. Marking it again is
// a no-op that still succeeds. Someone else's notification is reported as
// not found rather than forbidden, so ids cannot be probed.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) (*model.Notification, error) {
	if err := s.ensureOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	n, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/notification: marking %d read: %w", id, err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.ensureOwner(ctx, userID, id); err != nil {
		return err
	}
	if _, err := s.store.DeleteNotification(ctx, id); err != nil {
		return fmt.Errorf("service/notification: deleting %d: %w", id, err)
	}
	return nil
}

func (s *NotificationService) ensureOwner(ctx context.Context, userID, id int64) error {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return fmt.Errorf("service/notification: %w", err)
	}
	if n.UserID != userID {
		return apperror.NotFound("notification", id)
	}
	return nil
}

// CheckUpcoming creates reminders for the user's favorited upcoming matches
// that start in 24 hours or in 1 hour, and returns the ones created.
//
// Hours are rounded up: a match 23h10m away is "24 hours" away, one 20
// minutes away is "1 hour" away. A reminder is skipped when the user already
// got the same message since the window opened, so repeated checks inside
// one window stay quiet while a later fixture between the same teams still
// gets its own reminder.
func (s *NotificationService) CheckUpcoming(ctx context.Context, userID int64) ([]model.Notification, error) {
	favs, err := s.store.ListFavoritesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/notification: listing favorites: %w", err)
	}

	existing, err := s.store.ListNotificationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/notification: listing notifications: %w", err)
	}
	sent := make(map[string][]time.Time, len(existing))
	for _, n := range existing {
		sent[n.Message] = append(sent[n.Message], n.CreatedAt)
	}

	now := s.now()
	created := make([]model.Notification, 0)
	for _, f := range favs {
		msg, opened, ok := reminderFor(f.Match, now)
		if !ok || sentSince(sent[msg], opened) {
			continue
		}

		n, err := s.store.CreateNotification(ctx, model.Notification{UserID: userID, Message: msg})
		if err != nil {
			return created, fmt.Errorf("service/notification: creating reminder: %w", err)
		}
		sent[msg] = append(sent[msg], n.CreatedAt)
		created = append(created, *n)
	}

	if len(created) > 0 {
		s.metrics.NotificationsCreated(len(created))
		s.logger.Info("match reminders created",
			slog.Int64("user_id", userID),
			slog.Int("count", len(created)),
		)
	}
	return created, nil
}

// SweepAll runs CheckUpcoming for every user and returns the total number
// of reminders created. One user's failure does not stop the sweep.
func (s *NotificationService) SweepAll(ctx context.Context) (int, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("service/notification: listing users: %w", err)
	}

	total := 0
	for _, u := range users {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		created, err := s.CheckUpcoming(ctx, u.ID)
		total += len(created)
		if err != nil {
			s.logger.Error("reminder sweep failed for user",
				slog.Int64("user_id", u.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return total, nil
}

// ReminderMessage returns the reminder text for m at time now, and whether
// a reminder is due at all.
func ReminderMessage(m model.Match, now time.Time) (string, bool) {
	msg, _, ok := reminderFor(m, now)
	return msg, ok
}

// reminderFor also returns when the due reminder's window opened: kick-off
// minus the window's hours.
func reminderFor(m model.Match, now time.Time) (string, time.Time, bool) {
	if m.Status != model.StatusUpcoming {
		return "", time.Time{}, false
	}
	until := m.MatchTime.Sub(now)
	if until <= 0 {
		return "", time.Time{}, false
	}

	hours := int(math.Ceil(until.Hours()))
	opened := m.MatchTime.Add(-time.Duration(hours) * time.Hour)
	switch hours {
	case reminderDayBefore:
		return fmt.Sprintf("Reminder: %s vs %s starts in 24 hours", m.Team1, m.Team2), opened, true
	case reminderHourBefore:
		return fmt.Sprintf("Reminder: %s vs %s starts in 1 hour", m.Team1, m.Team2), opened, true
	}
	return "", time.Time{}, false
}

func sentSince(times []time.Time, opened time.Time) bool {
	for _, at := range times {
		if !at.Before(opened) {
			return true
		}
	}
	return false
}
