package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/metrics"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/news"
	"github.com/sakif/sportshub/internal/repository"
)

// Fetcher retrieves articles from an external news source.
// *news.Client satisfies it.
type Fetcher interface {
	FetchByTopic(ctx context.Context, sport model.SportType) ([]model.NewsArticle, error)
}

type NewsService struct {
	articles repository.NewsRepository
	fetcher  Fetcher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewNewsService wires the service. fetcher may be nil, in which case only
// stored articles are served.
func NewNewsService(articles repository.NewsRepository, fetcher Fetcher, m *metrics.Metrics, logger *slog.Logger) *NewsService {
	return &NewsService{articles: articles, fetcher: fetcher, metrics: m, logger: logger, now: time.Now}
}

// List returns the curated articles for sport followed by upstream ones.
// Upstream failures never fail the request: they are logged and the stored
// articles are returned alone.
func (s *NewsService) List(ctx context.Context, sport model.SportType) ([]model.NewsArticle, error) {
	stored, err := s.articles.ListNews(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("service/news: listing stored: %w", err)
	}
	if s.fetcher == nil {
		return stored, nil
	}

	upstream, err := s.fetcher.FetchByTopic(ctx, sport)
	switch {
	case errors.Is(err, news.ErrNotConfigured):
		return stored, nil
	case err != nil:
		s.metrics.UpstreamError()
		s.logger.Warn("news upstream unavailable",
			slog.String("sport", string(sport)),
			slog.String("error", err.Error()),
		)
		return stored, nil
	}

	return append(stored, upstream...), nil
}

func (s *NewsService) Create(ctx context.Context, in model.NewsInput) (*model.NewsArticle, error) {
	a, err := s.articles.CreateNews(ctx, in.ToArticle(s.now()))
	if err != nil {
		return nil, fmt.Errorf("service/news: creating: %w", err)
	}
	s.logger.Info("news article created", slog.Int64("article_id", a.ID), slog.String("sport", string(a.SportType)))
	return a, nil
}

func (s *NewsService) Delete(ctx context.Context, id int64) error {
	ok, err := s.articles.DeleteNews(ctx, id)
	if err != nil {
		return fmt.Errorf("service/news: deleting %d: %w", id, err)
	}
	if !ok {
		return apperror.NotFound("news article", id)
	}
	return nil
}
