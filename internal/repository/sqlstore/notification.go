package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

const notificationColumns = `id, user_id, message, is_read, created_at`

func (s *Store) GetNotification(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	err := s.db.GetContext(ctx, &n, s.q(`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("notification", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: getting notification %d: %w", id, err)
	}
	return &n, nil
}

func (s *Store) ListNotificationsByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	out := []model.Notification{}
	err := s.db.SelectContext(ctx, &out, s.q(`
		SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing notifications for user %d: %w", userID, err)
	}
	return out, nil
}

func (s *Store) CreateNotification(ctx context.Context, n model.Notification) (*model.Notification, error) {
	if _, err := s.GetUser(ctx, n.UserID); err != nil {
		return nil, err
	}

	n.Read = false
	n.CreatedAt = s.now()
	err := s.db.QueryRowxContext(ctx, s.q(`
		INSERT INTO notifications (user_id, message, is_read, created_at) VALUES (?, ?, ?, ?) RETURNING id`),
		n.UserID, n.Message, n.Read, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: creating notification: %w", err)
	}
	return &n, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) (*model.Notification, error) {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE notifications SET is_read = ? WHERE id = ?`), true, id)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: marking notification %d read: %w", id, err)
	}
	if ok, err := affected(res); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperror.NotFound("notification", id)
	}
	return s.GetNotification(ctx, id)
}

func (s *Store) DeleteNotification(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM notifications WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("sqlstore: deleting notification %d: %w", id, err)
	}
	return affected(res)
}
