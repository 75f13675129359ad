package memory

import (
	"context"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

func (s *Store) GetFeedback(_ context.Context, id int64) (*model.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.feedback[id]
	if !ok {
		return nil, apperror.NotFound("feedback", id)
	}
	return &f, nil
}

func (s *Store) ListFeedback(_ context.Context) ([]model.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Feedback, 0, len(s.feedback))
	for _, f := range s.feedback {
		out = append(out, f)
	}
	sortedByNewest(out,
		func(f model.Feedback) time.Time { return f.CreatedAt },
		func(f model.Feedback) int64 { return f.ID })
	return out, nil
}

func (s *Store) CreateFeedback(_ context.Context, f model.Feedback) (*model.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextFeedback++
	f.ID = s.nextFeedback
	f.CreatedAt = s.now()
	s.feedback[f.ID] = f
	return &f, nil
}

func (s *Store) DeleteFeedback(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.feedback[id]; !ok {
		return false, nil
	}
	delete(s.feedback, id)
	return true, nil
}
