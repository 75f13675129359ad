package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository/memory"
)

// Shared helpers. Services are exercised against the real memory store;
// failure paths use the small fakes defined next to the tests that need them.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func str(s string) *string { return &s }

func newMatch(t *testing.T, s *memory.Store, team1, team2 string, at time.Time, status model.MatchStatus) *model.Match {
	t.Helper()
	m, err := s.CreateMatch(context.Background(), model.Match{
		SportType: model.SportFootball,
		Team1:     team1,
		Team2:     team2,
		MatchTime: at,
		Status:    status,
	})
	require.NoError(t, err)
	return m
}

func newUser(t *testing.T, s *memory.Store, username string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
	})
	require.NoError(t, err)
	return u
}
