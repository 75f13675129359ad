package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

const feedbackColumns = `id, user_id, name, email, category, message, subscribe, created_at`

func (s *Store) GetFeedback(ctx context.Context, id int64) (*model.Feedback, error) {
	var f model.Feedback
	err := s.db.GetContext(ctx, &f, s.q(`SELECT `+feedbackColumns+` FROM feedback WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("feedback", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: getting feedback %d: %w", id, err)
	}
	return &f, nil
}

func (s *Store) ListFeedback(ctx context.Context) ([]model.Feedback, error) {
	out := []model.Feedback{}
	err := s.db.SelectContext(ctx, &out, `SELECT `+feedbackColumns+` FROM feedback ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing feedback: %w", err)
	}
	return out, nil
}

func (s *Store) CreateFeedback(ctx context.Context, f model.Feedback) (*model.Feedback, error) {
	f.CreatedAt = s.now()
	err := s.db.QueryRowxContext(ctx, s.q(`
		INSERT INTO feedback (user_id, name, email, category, message, subscribe, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		f.UserID, f.Name, f.Email, f.Category, f.Message, f.Subscribe, f.CreatedAt,
	).Scan(&f.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: creating feedback: %w", err)
	}
	return &f, nil
}

func (s *Store) DeleteFeedback(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM feedback WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("sqlstore: deleting feedback %d: %w", id, err)
	}
	return affected(res)
}
