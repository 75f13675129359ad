package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

const newsColumns = `id, sport_type, title, description, url, image_url, source, published_at, created_at`

func (s *Store) GetNews(ctx context.Context, id int64) (*model.NewsArticle, error) {
	var a model.NewsArticle
	err := s.db.GetContext(ctx, &a, s.q(`SELECT `+newsColumns+` FROM news WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("news article", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: getting news %d: %w", id, err)
	}
	return &a, nil
}

func (s *Store) ListNews(ctx context.Context, sport model.SportType) ([]model.NewsArticle, error) {
	query := `SELECT ` + newsColumns + ` FROM news`
	var args []any
	if sport != "" {
		query += ` WHERE sport_type = ?`
		args = append(args, sport)
	}
	query += ` ORDER BY published_at DESC, id DESC`

	out := []model.NewsArticle{}
	if err := s.db.SelectContext(ctx, &out, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("sqlstore: listing news: %w", err)
	}
	return out, nil
}

func (s *Store) CreateNews(ctx context.Context, a model.NewsArticle) (*model.NewsArticle, error) {
	a.CreatedAt = s.now()
	if a.PublishedAt.IsZero() {
		a.PublishedAt = a.CreatedAt
	}
	a.PublishedAt = a.PublishedAt.UTC()

	err := s.db.QueryRowxContext(ctx, s.q(`
		INSERT INTO news (sport_type, title, description, url, image_url, source, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		a.SportType, a.Title, a.Description, a.URL, a.ImageURL, a.Source, a.PublishedAt, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: creating news: %w", err)
	}
	return &a, nil
}

func (s *Store) DeleteNews(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM news WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("sqlstore: deleting news %d: %w", id, err)
	}
	return affected(res)
}
