package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/metrics"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/news"
	"github.com/sakif/sportshub/internal/repository/memory"
)

// fakeFetcher returns canned articles or a canned error.
type fakeFetcher struct {
	articles []model.NewsArticle
	err      error
	calls    []model.SportType
}

func (f *fakeFetcher) FetchByTopic(_ context.Context, sport model.SportType) ([]model.NewsArticle, error) {
	f.calls = append(f.calls, sport)
	return f.articles, f.err
}

func upstreamErrors(t *testing.T, m *metrics.Metrics) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "sportshub_news_upstream_errors_total" {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatal("upstream error counter not registered")
	return 0
}

func seedArticle(t *testing.T, s *NewsService, sport, title string) *model.NewsArticle {
	t.Helper()
	a, err := s.Create(context.Background(), model.NewsInput{
		SportType: sport,
		Title:     title,
		URL:       "https://example.com/" + sport,
	})
	require.NoError(t, err)
	return a
}

func TestNewsList_MergesStoredAndUpstream(t *testing.T) {
	fetcher := &fakeFetcher{articles: []model.NewsArticle{
		{SportType: model.SportFootball, Title: "Upstream story", URL: "https://news.example.com/1"},
	}}
	s := NewNewsService(memory.New(), fetcher, nil, discardLogger())
	seedArticle(t, s, "football", "Curated story")
	seedArticle(t, s, "cricket", "Cricket story")

	got, err := s.List(context.Background(), model.SportFootball)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Curated story", got[0].Title)
	assert.Equal(t, "Upstream story", got[1].Title)
	assert.Zero(t, got[1].ID)
	assert.Equal(t, []model.SportType{model.SportFootball}, fetcher.calls)
}

func TestNewsList_UpstreamFailureIsSwallowed(t *testing.T) {
	m := metrics.New()
	s := NewNewsService(memory.New(), &fakeFetcher{err: errors.New("connection refused")}, m, discardLogger())
	seedArticle(t, s, "football", "Curated story")

	got, err := s.List(context.Background(), model.SportFootball)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Curated story", got[0].Title)
	assert.Equal(t, 1.0, upstreamErrors(t, m))
}

func TestNewsList_NotConfiguredIsQuiet(t *testing.T) {
	m := metrics.New()
	s := NewNewsService(memory.New(), &fakeFetcher{err: news.ErrNotConfigured}, m, discardLogger())

	got, err := s.List(context.Background(), model.SportCricket)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, upstreamErrors(t, m))
}

func TestNewsCreate_DefaultsPublishedAt(t *testing.T) {
	s := NewNewsService(memory.New(), nil, nil, discardLogger())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	a := seedArticle(t, s, "football", "Curated story")
	assert.True(t, a.PublishedAt.Equal(fixed))
}

func TestNewsDelete(t *testing.T) {
	s := NewNewsService(memory.New(), nil, nil, discardLogger())
	a := seedArticle(t, s, "football", "Curated story")

	require.NoError(t, s.Delete(context.Background(), a.ID))
	assert.ErrorIs(t, s.Delete(context.Background(), a.ID), apperror.ErrNotFound)
}
