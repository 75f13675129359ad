package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

// SeedAdmin describes the admin account created by Seed.
type SeedAdmin struct {
	Username     string
	Email        string
	PasswordHash string
}

// Seed creates the admin user and a handful of sample matches when they are
// absent. It is idempotent: running it against an already seeded store
// changes nothing. When another account already holds the admin email, the
// admin is skipped with a warning and the matches are still seeded.
func Seed(ctx context.Context, s Store, admin SeedAdmin, now time.Time, logger *slog.Logger) error {
	if err := seedAdmin(ctx, s, admin, logger); err != nil {
		return err
	}

	existing, err := s.ListMatches(ctx, model.MatchFilter{})
	if err != nil {
		return fmt.Errorf("seed: listing matches: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, m := range SampleMatches(now) {
		if _, err := s.CreateMatch(ctx, m); err != nil {
			return fmt.Errorf("seed: creating match %s vs %s: %w", m.Team1, m.Team2, err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, s Store, admin SeedAdmin, logger *slog.Logger) error {
	_, err := s.GetUserByUsername(ctx, admin.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("seed: looking up admin: %w", err)
	}

	holder, err := s.GetUserByEmail(ctx, admin.Email)
	if err == nil {
		logger.Warn("admin email already belongs to another account; admin not seeded",
			slog.String("email", admin.Email),
			slog.String("holder", holder.Username),
		)
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("seed: looking up admin email: %w", err)
	}

	if _, err := s.CreateUser(ctx, model.User{
		Username: admin.Username,
		Email:    admin.Email,
		Password: admin.PasswordHash,
		Role:     model.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("seed: creating admin: %w", err)
	}
	return nil
}

// SampleMatches returns the demo fixtures relative to now.
func SampleMatches(now time.Time) []model.Match {
	str := func(s string) *string { return &s }
	now = now.UTC().Truncate(time.Minute)

	return []model.Match{
		{
			SportType:   model.SportFootball,
			Team1:       "Manchester United",
			Team2:       "Liverpool",
			Team1Score:  "1",
			Team2Score:  "1",
			Venue:       str("Old Trafford"),
			MatchTime:   now.Add(-50 * time.Minute),
			Status:      model.StatusLive,
			CurrentTime: str("50'"),
		},
		{
			SportType: model.SportFootball,
			Team1:     "Real Madrid",
			Team2:     "Barcelona",
			Venue:     str("Santiago Bernabéu"),
			MatchTime: now.Add(24 * time.Hour),
			Status:    model.StatusUpcoming,
		},
		{
			SportType:  model.SportCricket,
			Team1:      "India",
			Team2:      "Australia",
			Team1Score: "287/6",
			Team2Score: "245",
			Venue:      str("Melbourne Cricket Ground"),
			MatchTime:  now.Add(-26 * time.Hour),
			Status:     model.StatusCompleted,
		},
		{
			SportType: model.SportCricket,
			Team1:     "England",
			Team2:     "Pakistan",
			Venue:     str("Lord's"),
			MatchTime: now.Add(72 * time.Hour),
			Status:    model.StatusUpcoming,
		},
	}
}
