package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository"
)

type MatchService struct {
	matches repository.MatchRepository
	logger  *slog.Logger
}

func NewMatchService(matches repository.MatchRepository, logger *slog.Logger) *MatchService {
	return &MatchService{matches: matches, logger: logger}
}

func (s *MatchService) List(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	matches, err := s.matches.ListMatches(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service/match: listing: %w", err)
	}
	return matches, nil
}

func (s *MatchService) Get(ctx context.Context, id int64) (*model.Match, error) {
	m, err := s.matches.GetMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/match: %w", err)
	}
	return m, nil
}

func (s *MatchService) Create(ctx context.Context, in model.MatchInput) (*model.Match, error) {
	m, err := s.matches.CreateMatch(ctx, in.ToMatch())
	if err != nil {
		return nil, fmt.Errorf("service/match: creating: %w", err)
	}
	s.logger.Info("match created",
		slog.Int64("match_id", m.ID),
		slog.String("fixture", m.Team1+" vs "+m.Team2),
	)
	return m, nil
}

func (s *MatchService) Update(ctx context.Context, id int64, in model.MatchUpdateInput) (*model.Match, error) {
	m, err := s.matches.UpdateMatch(ctx, id, in.ToPatch())
	if err != nil {
		return nil, fmt.Errorf("service/match: updating %d: %w", id, err)
	}
	s.logger.Info("match updated",
		slog.Int64("match_id", m.ID),
		slog.String("status", string(m.Status)),
		slog.String("score", m.Team1Score+" - "+m.Team2Score),
	)
	return m, nil
}

func (s *MatchService) Delete(ctx context.Context, id int64) error {
	ok, err := s.matches.DeleteMatch(ctx, id)
	if err != nil {
		return fmt.Errorf("service/match: deleting %d: %w", id, err)
	}
	if !ok {
		return apperror.NotFound("match", id)
	}
	s.logger.Info("match deleted", slog.Int64("match_id", id))
	return nil
}
