// Package storetest is the behavioral suite every repository.Store backend
// must pass. Backend packages call Run from their own _test.go files so the
// memory and SQL stores are held to exactly the same contract.
package storetest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository"
)

// Factory returns a fresh, empty store. It should register its own cleanup.
type Factory func(t *testing.T) repository.Store

// Run executes the whole suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore) })
	t.Run("Matches", func(t *testing.T) { testMatches(t, newStore) })
	t.Run("Favorites", func(t *testing.T) { testFavorites(t, newStore) })
	t.Run("Notifications", func(t *testing.T) { testNotifications(t, newStore) })
	t.Run("Feedback", func(t *testing.T) { testFeedback(t, newStore) })
	t.Run("News", func(t *testing.T) { testNews(t, newStore) })
	t.Run("Cascades", func(t *testing.T) { testCascades(t, newStore) })
	t.Run("Seed", func(t *testing.T) { testSeed(t, newStore) })
}

func str(s string) *string { return &s }

// CreateUser is a test helper that creates a user or fails the test.
func CreateUser(t *testing.T, s repository.Store, username string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Role:     model.RoleUser,
	})
	require.NoError(t, err)
	return u
}

// CreateMatch is a test helper that creates an upcoming football match.
func CreateMatch(t *testing.T, s repository.Store, team1, team2 string, at time.Time) *model.Match {
	t.Helper()
	m, err := s.CreateMatch(context.Background(), model.Match{
		SportType: model.SportFootball,
		Team1:     team1,
		Team2:     team2,
		MatchTime: at,
	})
	require.NoError(t, err)
	return m
}

func testUsers(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create assigns sequential ids", func(t *testing.T) {
		s := newStore(t)
		a := CreateUser(t, s, "alice")
		b := CreateUser(t, s, "bob")

		assert.Equal(t, int64(1), a.ID)
		assert.Equal(t, int64(2), b.ID)
		assert.False(t, a.CreatedAt.IsZero())
		assert.Equal(t, model.RoleUser, a.Role)
	})

	t.Run("lookups are case-insensitive", func(t *testing.T) {
		s := newStore(t)
		created := CreateUser(t, s, "Alice")

		byName, err := s.GetUserByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)

		byEmail, err := s.GetUserByEmail(ctx, "alice@EXAMPLE.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		byID, err := s.GetUser(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", byID.Username)
		assert.Equal(t, "hash", byID.Password)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetUser(ctx, 99)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = s.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		s := newStore(t)
		CreateUser(t, s, "alice")

		_, err := s.CreateUser(ctx, model.User{Username: "other", Email: "ALICE@example.com", Password: "x"})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		s := newStore(t)
		CreateUser(t, s, "alice")

		_, err := s.CreateUser(ctx, model.User{Username: "ALICE", Email: "new@example.com", Password: "x"})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("update patches only given fields", func(t *testing.T) {
		s := newStore(t)
		u := CreateUser(t, s, "alice")

		updated, err := s.UpdateUser(ctx, u.ID, model.UserPatch{FavoriteTeam: str("Arsenal")})
		require.NoError(t, err)

		assert.Equal(t, u.ID, updated.ID)
		assert.Equal(t, "alice", updated.Username)
		require.NotNil(t, updated.FavoriteTeam)
		assert.Equal(t, "Arsenal", *updated.FavoriteTeam)
		assert.True(t, u.CreatedAt.Equal(updated.CreatedAt))

		again, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, again.FavoriteTeam)
		assert.Equal(t, "Arsenal", *again.FavoriteTeam)
	})

	t.Run("update to a taken email conflicts", func(t *testing.T) {
		s := newStore(t)
		CreateUser(t, s, "alice")
		bob := CreateUser(t, s, "bob")

		_, err := s.UpdateUser(ctx, bob.ID, model.UserPatch{Email: str("alice@example.com")})
		assert.ErrorIs(t, err, apperror.ErrConflict)

		// Keeping your own email is not a conflict.
		_, err = s.UpdateUser(ctx, bob.ID, model.UserPatch{Email: str("BOB@example.com")})
		assert.NoError(t, err)
	})

	t.Run("update missing user is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpdateUser(ctx, 42, model.UserPatch{Username: str("x")})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("list and delete", func(t *testing.T) {
		s := newStore(t)
		a := CreateUser(t, s, "alice")
		CreateUser(t, s, "bob")

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		ok, err := s.DeleteUser(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.DeleteUser(ctx, a.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		users, err = s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func testMatches(t *testing.T, newStore Factory) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	t.Run("create applies defaults", func(t *testing.T) {
		s := newStore(t)
		m := CreateMatch(t, s, "Arsenal", "Chelsea", base)

		assert.Equal(t, int64(1), m.ID)
		assert.Equal(t, model.DefaultScore, m.Team1Score)
		assert.Equal(t, model.DefaultScore, m.Team2Score)
		assert.Equal(t, model.StatusUpcoming, m.Status)
		assert.Nil(t, m.Venue)

		got, err := s.GetMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, base.Equal(got.MatchTime), "match time round-trips: got %v", got.MatchTime)
		assert.Equal(t, "Chelsea", got.Team2)
	})

	t.Run("list is newest first and filterable", func(t *testing.T) {
		s := newStore(t)
		early := CreateMatch(t, s, "A", "B", base)
		late := CreateMatch(t, s, "C", "D", base.Add(48*time.Hour))
		cricket, err := s.CreateMatch(ctx, model.Match{
			SportType: model.SportCricket,
			Team1:     "India",
			Team2:     "Australia",
			MatchTime: base.Add(24 * time.Hour),
			Status:    model.StatusLive,
		})
		require.NoError(t, err)

		all, err := s.ListMatches(ctx, model.MatchFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int64{late.ID, cricket.ID, early.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

		football, err := s.ListMatches(ctx, model.MatchFilter{SportType: model.SportFootball})
		require.NoError(t, err)
		assert.Len(t, football, 2)

		live, err := s.ListMatches(ctx, model.MatchFilter{Status: model.StatusLive})
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.Equal(t, cricket.ID, live[0].ID)

		none, err := s.ListMatches(ctx, model.MatchFilter{SportType: model.SportCricket, Status: model.StatusCompleted})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update", func(t *testing.T) {
		s := newStore(t)
		m := CreateMatch(t, s, "Arsenal", "Chelsea", base)
		live := model.StatusLive

		updated, err := s.UpdateMatch(ctx, m.ID, model.MatchPatch{
			Team1Score:  str("2"),
			Status:      &live,
			CurrentTime: str("67'"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2", updated.Team1Score)
		assert.Equal(t, model.DefaultScore, updated.Team2Score)
		assert.Equal(t, model.StatusLive, updated.Status)
		require.NotNil(t, updated.CurrentTime)
		assert.Equal(t, "67'", *updated.CurrentTime)
		assert.Equal(t, "Arsenal", updated.Team1)

		_, err = s.UpdateMatch(ctx, 999, model.MatchPatch{Team1: str("x")})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		m := CreateMatch(t, s, "Arsenal", "Chelsea", base)

		ok, err := s.DeleteMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = s.GetMatch(ctx, m.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		ok, err = s.DeleteMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func testFavorites(t *testing.T, newStore Factory) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	t.Run("add, list, check, remove", func(t *testing.T) {
		s := newStore(t)
		u := CreateUser(t, s, "alice")
		m1 := CreateMatch(t, s, "A", "B", base)
		m2 := CreateMatch(t, s, "C", "D", base)

		f1, err := s.AddFavorite(ctx, u.ID, m1.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, f1.UserID)
		assert.Equal(t, m1.ID, f1.MatchID)
		f2, err := s.AddFavorite(ctx, u.ID, m2.ID)
		require.NoError(t, err)

		got, err := s.GetFavorite(ctx, f1.ID)
		require.NoError(t, err)
		assert.Equal(t, m1.ID, got.MatchID)

		list, err := s.ListFavoritesByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, f2.ID, list[0].ID)
		assert.Equal(t, "C", list[0].Match.Team1)
		assert.Equal(t, m1.ID, list[1].Match.ID)

		yes, err := s.IsFavorite(ctx, u.ID, m1.ID)
		require.NoError(t, err)
		assert.True(t, yes)

		removed, err := s.RemoveFavorite(ctx, u.ID, m1.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.RemoveFavorite(ctx, u.ID, m1.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		yes, err = s.IsFavorite(ctx, u.ID, m1.ID)
		require.NoError(t, err)
		assert.False(t, yes)
	})

	t.Run("duplicate pair conflicts", func(t *testing.T) {
		s := newStore(t)
		u := CreateUser(t, s, "alice")
		m := CreateMatch(t, s, "A", "B", base)

		_, err := s.AddFavorite(ctx, u.ID, m.ID)
		require.NoError(t, err)
		_, err = s.AddFavorite(ctx, u.ID, m.ID)
		assert.ErrorIs(t, err, apperror.ErrConflict)

		list, err := s.ListFavoritesByUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("unknown match is not found", func(t *testing.T) {
		s := newStore(t)
		u := CreateUser(t, s, "alice")

		_, err := s.AddFavorite(ctx, u.ID, 77)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("favorites are per user", func(t *testing.T) {
		s := newStore(t)
		alice := CreateUser(t, s, "alice")
		bob := CreateUser(t, s, "bob")
		m := CreateMatch(t, s, "A", "B", base)

		_, err := s.AddFavorite(ctx, alice.ID, m.ID)
		require.NoError(t, err)

		list, err := s.ListFavoritesByUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func testNotifications(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create, list, mark read, delete", func(t *testing.T) {
		s := newStore(t)
		u := CreateUser(t, s, "alice")

		first, err := s.CreateNotification(ctx, model.Notification{UserID: u.ID, Message: "first"})
		require.NoError(t, err)
		assert.False(t, first.Read)
		second, err := s.CreateNotification(ctx, model.Notification{UserID: u.ID, Message: "second"})
		require.NoError(t, err)

		list, err := s.ListNotificationsByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)

		read, err := s.MarkNotificationRead(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, read.Read)

		got, err := s.GetNotification(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, got.Read)
		assert.Equal(t, "first", got.Message)

		ok, err := s.DeleteNotification(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = s.DeleteNotification(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing notification is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.MarkNotificationRead(ctx, 5)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = s.GetNotification(ctx, 5)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func testFeedback(t *testing.T, newStore Factory) {
	ctx := context.Background()

	s := newStore(t)
	u := CreateUser(t, s, "alice")

	anon, err := s.CreateFeedback(ctx, model.Feedback{
		Name:     "Guest",
		Email:    "guest@example.com",
		Category: "general",
		Message:  "Great site, keep it up!",
	})
	require.NoError(t, err)
	assert.Nil(t, anon.UserID)

	owned, err := s.CreateFeedback(ctx, model.Feedback{
		UserID:    &u.ID,
		Name:      "Alice",
		Email:     "alice@example.com",
		Category:  "bug",
		Message:   "Scores do not refresh.",
		Subscribe: true,
	})
	require.NoError(t, err)
	require.NotNil(t, owned.UserID)
	assert.Equal(t, u.ID, *owned.UserID)

	list, err := s.ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, owned.ID, list[0].ID)
	assert.True(t, list[0].Subscribe)

	got, err := s.GetFeedback(ctx, anon.ID)
	require.NoError(t, err)
	assert.Equal(t, "general", got.Category)

	ok, err := s.DeleteFeedback(ctx, anon.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.GetFeedback(ctx, anon.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func testNews(t *testing.T, newStore Factory) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	s := newStore(t)
	older, err := s.CreateNews(ctx, model.NewsArticle{
		SportType:   model.SportFootball,
		Title:       "Transfer window opens",
		URL:         "https://example.com/a",
		PublishedAt: base,
	})
	require.NoError(t, err)
	newer, err := s.CreateNews(ctx, model.NewsArticle{
		SportType:   model.SportFootball,
		Title:       "Derby preview",
		Description: str("Who wins?"),
		URL:         "https://example.com/b",
		Source:      str("Example Sports"),
		PublishedAt: base.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = s.CreateNews(ctx, model.NewsArticle{
		SportType:   model.SportCricket,
		Title:       "Test series squad named",
		URL:         "https://example.com/c",
		PublishedAt: base.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	football, err := s.ListNews(ctx, model.SportFootball)
	require.NoError(t, err)
	require.Len(t, football, 2)
	assert.Equal(t, newer.ID, football[0].ID)
	assert.Equal(t, older.ID, football[1].ID)
	require.NotNil(t, football[0].Source)
	assert.Equal(t, "Example Sports", *football[0].Source)

	all, err := s.ListNews(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ok, err := s.DeleteNews(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.GetNews(ctx, older.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func testCascades(t *testing.T, newStore Factory) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	t.Run("deleting a user removes their data", func(t *testing.T) {
		s := newStore(t)
		alice := CreateUser(t, s, "alice")
		bob := CreateUser(t, s, "bob")
		m := CreateMatch(t, s, "A", "B", base)

		_, err := s.AddFavorite(ctx, alice.ID, m.ID)
		require.NoError(t, err)
		_, err = s.AddFavorite(ctx, bob.ID, m.ID)
		require.NoError(t, err)
		n, err := s.CreateNotification(ctx, model.Notification{UserID: alice.ID, Message: "hi"})
		require.NoError(t, err)
		fb, err := s.CreateFeedback(ctx, model.Feedback{
			UserID: &alice.ID, Name: "Alice", Email: "alice@example.com",
			Category: "general", Message: "Lovely little app.",
		})
		require.NoError(t, err)

		ok, err := s.DeleteUser(ctx, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)

		favs, err := s.ListFavoritesByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, favs)

		_, err = s.GetNotification(ctx, n.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		kept, err := s.GetFeedback(ctx, fb.ID)
		require.NoError(t, err)
		assert.Nil(t, kept.UserID)

		bobs, err := s.ListFavoritesByUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, bobs, 1)
	})

	t.Run("deleting a match removes its favorites", func(t *testing.T) {
		s := newStore(t)
		alice := CreateUser(t, s, "alice")
		m := CreateMatch(t, s, "A", "B", base)
		other := CreateMatch(t, s, "C", "D", base)

		fav, err := s.AddFavorite(ctx, alice.ID, m.ID)
		require.NoError(t, err)
		_, err = s.AddFavorite(ctx, alice.ID, other.ID)
		require.NoError(t, err)

		ok, err := s.DeleteMatch(ctx, m.ID)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = s.GetFavorite(ctx, fav.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		favs, err := s.ListFavoritesByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, other.ID, favs[0].MatchID)
	})
}

func testSeed(t *testing.T, newStore Factory) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	admin := repository.SeedAdmin{Username: "admin", Email: "admin@example.com", PasswordHash: "hash"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("idempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, repository.Seed(ctx, s, admin, now, logger))
		require.NoError(t, repository.Seed(ctx, s, admin, now, logger))

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, model.RoleAdmin, users[0].Role)

		matches, err := s.ListMatches(ctx, model.MatchFilter{})
		require.NoError(t, err)
		assert.Len(t, matches, len(repository.SampleMatches(now)))
	})

	t.Run("admin email held by another account", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateUser(ctx, model.User{
			Username: "alice",
			Email:    admin.Email,
			Password: "hash",
			Role:     model.RoleUser,
		})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, repository.Seed(ctx, s, admin, now, slog.New(slog.NewTextHandler(&buf, nil))))
		assert.Contains(t, buf.String(), "admin not seeded")

		_, err = s.GetUserByUsername(ctx, admin.Username)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		holder, err := s.GetUserByEmail(ctx, admin.Email)
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, holder.Role, "existing account is left alone")

		matches, err := s.ListMatches(ctx, model.MatchFilter{})
		require.NoError(t, err)
		assert.Len(t, matches, len(repository.SampleMatches(now)))
	})
}
