package memory

import (
	"context"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

func (s *Store) GetMatch(_ context.Context, id int64) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, apperror.NotFound("match", id)
	}
	return &m, nil
}

func (s *Store) ListMatches(_ context.Context, filter model.MatchFilter) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Match, 0, len(s.matches))
	for _, m := range s.matches {
		if filter.Matches(&m) {
			out = append(out, m)
		}
	}
	sortedByNewest(out, func(m model.Match) time.Time { return m.MatchTime }, func(m model.Match) int64 { return m.ID })
	return out, nil
}

func (s *Store) CreateMatch(_ context.Context, m model.Match) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ApplyDefaults()
	m.MatchTime = m.MatchTime.UTC()

	s.nextMatch++
	m.ID = s.nextMatch
	m.CreatedAt = s.now()
	s.matches[m.ID] = m
	return &m, nil
}

func (s *Store) UpdateMatch(_ context.Context, id int64, patch model.MatchPatch) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, apperror.NotFound("match", id)
	}
	patch.Apply(&m)
	s.matches[id] = m
	return &m, nil
}

func (s *Store) DeleteMatch(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[id]; !ok {
		return false, nil
	}
	for fid, f := range s.favorites {
		if f.MatchID == id {
			delete(s.favorites, fid)
		}
	}
	delete(s.matches, id)
	return true, nil
}
