package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository/memory"
)

func TestMatchLifecycle(t *testing.T) {
	store := memory.New()
	s := NewMatchService(store, discardLogger())
	ctx := context.Background()
	kickoff := time.Date(2026, 5, 1, 18, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	created, err := s.Create(ctx, model.MatchInput{
		SportType: "cricket",
		Team1:     "India",
		Team2:     "Australia",
		MatchTime: &kickoff,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultScore, created.Team1Score)
	assert.Equal(t, model.DefaultScore, created.Team2Score)
	assert.Equal(t, model.StatusUpcoming, created.Status)
	assert.True(t, created.MatchTime.Equal(kickoff))

	t.Run("partial update", func(t *testing.T) {
		updated, err := s.Update(ctx, created.ID, model.MatchUpdateInput{
			Status:      str("live"),
			Team1Score:  str("145/3"),
			CurrentTime: str("Over 32.4"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatusLive, updated.Status)
		assert.Equal(t, "145/3", updated.Team1Score)
		assert.Equal(t, model.DefaultScore, updated.Team2Score)
		assert.Equal(t, "India", updated.Team1)
	})

	t.Run("filter by sport and status", func(t *testing.T) {
		newMatch(t, store, "Arsenal", "Chelsea", kickoff, model.StatusUpcoming)

		live, err := s.List(ctx, model.MatchFilter{SportType: model.SportCricket, Status: model.StatusLive})
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.Equal(t, created.ID, live[0].ID)

		all, err := s.List(ctx, model.MatchFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("update unknown", func(t *testing.T) {
		_, err := s.Update(ctx, 999, model.MatchUpdateInput{Status: str("live")})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, created.ID))

		_, err := s.Get(ctx, created.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, created.ID), apperror.ErrNotFound)
	})
}
