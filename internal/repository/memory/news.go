package memory

import (
	"context"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

func (s *Store) GetNews(_ context.Context, id int64) (*model.NewsArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.news[id]
	if !ok {
		return nil, apperror.NotFound("news article", id)
	}
	return &a, nil
}

func (s *Store) ListNews(_ context.Context, sport model.SportType) ([]model.NewsArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.NewsArticle, 0)
	for _, a := range s.news {
		if sport == "" || a.SportType == sport {
			out = append(out, a)
		}
	}
	sortedByNewest(out,
		func(a model.NewsArticle) time.Time { return a.PublishedAt },
		func(a model.NewsArticle) int64 { return a.ID })
	return out, nil
}

func (s *Store) CreateNews(_ context.Context, a model.NewsArticle) (*model.NewsArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextNews++
	a.ID = s.nextNews
	a.CreatedAt = s.now()
	if a.PublishedAt.IsZero() {
		a.PublishedAt = a.CreatedAt
	}
	a.PublishedAt = a.PublishedAt.UTC()
	s.news[a.ID] = a
	return &a, nil
}

func (s *Store) DeleteNews(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.news[id]; !ok {
		return false, nil
	}
	delete(s.news, id)
	return true, nil
}
