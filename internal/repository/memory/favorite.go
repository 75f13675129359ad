package memory

import (
	"context"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

func (s *Store) GetFavorite(_ context.Context, id int64) (*model.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.favorites[id]
	if !ok {
		return nil, apperror.NotFound("favorite", id)
	}
	return &f, nil
}

// ListFavoritesByUser skips favorites whose match has vanished; DeleteMatch
// removes them, so this only guards against a half-finished cascade.
func (s *Store) ListFavoritesByUser(_ context.Context, userID int64) ([]model.FavoriteWithMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.FavoriteWithMatch, 0)
	for _, f := range s.favorites {
		if f.UserID != userID {
			continue
		}
		m, ok := s.matches[f.MatchID]
		if !ok {
			continue
		}
		out = append(out, model.FavoriteWithMatch{Favorite: f, Match: m})
	}
	sortedByNewest(out,
		func(f model.FavoriteWithMatch) time.Time { return f.CreatedAt },
		func(f model.FavoriteWithMatch) int64 { return f.ID })
	return out, nil
}

func (s *Store) IsFavorite(_ context.Context, userID, matchID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.findFavoriteLocked(userID, matchID)
	return ok, nil
}

func (s *Store) AddFavorite(_ context.Context, userID, matchID int64) (*model.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, apperror.NotFound("user", userID)
	}
	if _, ok := s.matches[matchID]; !ok {
		return nil, apperror.NotFound("match", matchID)
	}
	if _, ok := s.findFavoriteLocked(userID, matchID); ok {
		return nil, apperror.Conflict("matchId", "Match already in favorites")
	}

	s.nextFavorite++
	f := model.Favorite{
		ID:        s.nextFavorite,
		UserID:    userID,
		MatchID:   matchID,
		CreatedAt: s.now(),
	}
	s.favorites[f.ID] = f
	return &f, nil
}

func (s *Store) RemoveFavorite(_ context.Context, userID, matchID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.findFavoriteLocked(userID, matchID)
	if !ok {
		return false, nil
	}
	delete(s.favorites, id)
	return true, nil
}

func (s *Store) findFavoriteLocked(userID, matchID int64) (int64, bool) {
	for id, f := range s.favorites {
		if f.UserID == userID && f.MatchID == matchID {
			return id, true
		}
	}
	return 0, false
}
