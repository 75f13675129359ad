package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

const matchColumns = `id, sport_type, team1, team2, team1_logo, team2_logo, team1_score, team2_score,
	venue, match_time, status, time_display, created_at`

func (s *Store) GetMatch(ctx context.Context, id int64) (*model.Match, error) {
	return s.getMatch(ctx, s.db, id)
}

func (s *Store) getMatch(ctx context.Context, q sqlx.QueryerContext, id int64) (*model.Match, error) {
	var m model.Match
	err := sqlx.GetContext(ctx, q, &m, s.q(`SELECT `+matchColumns+` FROM matches WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("match", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: getting match %d: %w", id, err)
	}
	return &m, nil
}

func (s *Store) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	var (
		where []string
		args  []any
	)
	if filter.SportType != "" {
		where = append(where, "sport_type = ?")
		args = append(args, filter.SportType)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + matchColumns + ` FROM matches`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY match_time DESC, id DESC`

	matches := []model.Match{}
	if err := s.db.SelectContext(ctx, &matches, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("sqlstore: listing matches: %w", err)
	}
	return matches, nil
}

func (s *Store) CreateMatch(ctx context.Context, m model.Match) (*model.Match, error) {
	m.ApplyDefaults()
	m.MatchTime = m.MatchTime.UTC()
	m.CreatedAt = s.now()

	err := s.db.QueryRowxContext(ctx, s.q(`
		INSERT INTO matches (sport_type, team1, team2, team1_logo, team2_logo, team1_score, team2_score,
			venue, match_time, status, time_display, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		m.SportType, m.Team1, m.Team2, m.Team1Logo, m.Team2Logo, m.Team1Score, m.Team2Score,
		m.Venue, m.MatchTime, m.Status, m.CurrentTime, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: creating match: %w", err)
	}
	return &m, nil
}

func (s *Store) UpdateMatch(ctx context.Context, id int64, patch model.MatchPatch) (*model.Match, error) {
	var m *model.Match
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if m, err = s.getMatch(ctx, tx, id); err != nil {
			return err
		}
		patch.Apply(m)

		_, err = tx.ExecContext(ctx, s.q(`
			UPDATE matches
			SET sport_type = ?, team1 = ?, team2 = ?, team1_logo = ?, team2_logo = ?,
				team1_score = ?, team2_score = ?, venue = ?, match_time = ?, status = ?, time_display = ?
			WHERE id = ?`),
			m.SportType, m.Team1, m.Team2, m.Team1Logo, m.Team2Logo,
			m.Team1Score, m.Team2Score, m.Venue, m.MatchTime, m.Status, m.CurrentTime, id,
		)
		return err
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("sqlstore: updating match %d: %w", id, err)
	}
	return m, nil
}

func (s *Store) DeleteMatch(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM favorites WHERE match_id = ?`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM matches WHERE id = ?`), id)
		if err != nil {
			return err
		}
		deleted, err = affected(res)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("sqlstore: deleting match %d: %w", id, err)
	}
	return deleted, nil
}
