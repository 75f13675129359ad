package service

import (
	"context"
	"fmt"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository"
)

type FavoriteService struct {
	favorites repository.FavoriteRepository
	matches   repository.MatchRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository, matches repository.MatchRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, matches: matches}
}

func (s *FavoriteService) List(ctx context.Context, userID int64) ([]model.FavoriteWithMatch, error) {
	favs, err := s.favorites.ListFavoritesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/favorite: listing for user %d: %w", userID, err)
	}
	return favs, nil
}

// Add favorites a match: 404 for an unknown match, conflict when it is
// already a favorite.
func (s *FavoriteService) Add(ctx context.Context, userID, matchID int64) (*model.Favorite, error) {
	if _, err := s.matches.GetMatch(ctx, matchID); err != nil {
		return nil, fmt.Errorf("service/favorite: %w", err)
	}

	exists, err := s.favorites.IsFavorite(ctx, userID, matchID)
	if err != nil {
		return nil, fmt.Errorf("service/favorite: checking: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("matchId", "Match already in favorites")
	}

	f, err := s.favorites.AddFavorite(ctx, userID, matchID)
	if err != nil {
		return nil, fmt.Errorf("service/favorite: adding: %w", err)
	}
	return f, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, matchID int64) error {
	ok, err := s.favorites.RemoveFavorite(ctx, userID, matchID)
	if err != nil {
		return fmt.Errorf("service/favorite: removing: %w", err)
	}
	if !ok {
		return &apperror.AppError{Err: apperror.ErrNotFound, Message: "Match is not in favorites"}
	}
	return nil
}
