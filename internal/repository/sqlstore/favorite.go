package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

func (s *Store) GetFavorite(ctx context.Context, id int64) (*model.Favorite, error) {
	var f model.Favorite
	err := s.db.GetContext(ctx, &f, s.q(`SELECT id, user_id, match_id, created_at FROM favorites WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("favorite", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: getting favorite %d: %w", id, err)
	}
	return &f, nil
}

// ListFavoritesByUser scans the joined match into the nested Match field;
// sqlx addresses it through the "match." column prefix.
func (s *Store) ListFavoritesByUser(ctx context.Context, userID int64) ([]model.FavoriteWithMatch, error) {
	favs := []model.FavoriteWithMatch{}
	err := s.db.SelectContext(ctx, &favs, s.q(`
		SELECT f.id, f.user_id, f.match_id, f.created_at,
			m.id           AS "match.id",
			m.sport_type   AS "match.sport_type",
			m.team1        AS "match.team1",
			m.team2        AS "match.team2",
			m.team1_logo   AS "match.team1_logo",
			m.team2_logo   AS "match.team2_logo",
			m.team1_score  AS "match.team1_score",
			m.team2_score  AS "match.team2_score",
			m.venue        AS "match.venue",
			m.match_time   AS "match.match_time",
			m.status       AS "match.status",
			m.time_display AS "match.time_display",
			m.created_at   AS "match.created_at"
		FROM favorites f
		JOIN matches m ON m.id = f.match_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, f.id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing favorites for user %d: %w", userID, err)
	}
	return favs, nil
}

func (s *Store) IsFavorite(ctx context.Context, userID, matchID int64) (bool, error) {
	return s.isFavorite(ctx, s.db, userID, matchID)
}

func (s *Store) isFavorite(ctx context.Context, q sqlx.QueryerContext, userID, matchID int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, s.q(`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND match_id = ?`), userID, matchID)
	if err != nil {
		return false, fmt.Errorf("sqlstore: checking favorite: %w", err)
	}
	return n > 0, nil
}

func (s *Store) AddFavorite(ctx context.Context, userID, matchID int64) (*model.Favorite, error) {
	f := model.Favorite{UserID: userID, MatchID: matchID, CreatedAt: s.now()}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.getUser(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID, userID); err != nil {
			return err
		}
		if _, err := s.getMatch(ctx, tx, matchID); err != nil {
			return err
		}
		exists, err := s.isFavorite(ctx, tx, userID, matchID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.Conflict("matchId", "Match already in favorites")
		}
		return tx.QueryRowxContext(ctx, s.q(`
			INSERT INTO favorites (user_id, match_id, created_at) VALUES (?, ?, ?) RETURNING id`),
			f.UserID, f.MatchID, f.CreatedAt,
		).Scan(&f.ID)
	})
	if err != nil {
		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			return nil, err
		case isUniqueViolation(err):
			return nil, apperror.Conflict("matchId", "Match already in favorites")
		}
		return nil, fmt.Errorf("sqlstore: adding favorite: %w", err)
	}
	return &f, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, matchID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM favorites WHERE user_id = ? AND match_id = ?`), userID, matchID)
	if err != nil {
		return false, fmt.Errorf("sqlstore: removing favorite: %w", err)
	}
	return affected(res)
}
