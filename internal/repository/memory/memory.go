// Package memory implements repository.Store with plain maps.
//
// Every table is a map keyed by id plus a counter for the next id. A single
// RWMutex guards all of them: HTTP handlers run on many goroutines, and a
// cascade (delete user → favorites, notifications, feedback) must be atomic
// with respect to readers.
//
// Records are stored and returned BY VALUE. Callers get copies, so mutating
// a returned *model.Match never changes what the store holds.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository"
)

// Compile-time check that Store satisfies the interface.
var _ repository.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	users         map[int64]model.User
	matches       map[int64]model.Match
	favorites     map[int64]model.Favorite
	notifications map[int64]model.Notification
	feedback      map[int64]model.Feedback
	news          map[int64]model.NewsArticle

	nextUser         int64
	nextMatch        int64
	nextFavorite     int64
	nextNotification int64
	nextFeedback     int64
	nextNews         int64

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store. Ids start at 1 for every table.
func New(opts ...Option) *Store {
	s := &Store{
		users:         make(map[int64]model.User),
		matches:       make(map[int64]model.Match),
		favorites:     make(map[int64]model.Favorite),
		notifications: make(map[int64]model.Notification),
		feedback:      make(map[int64]model.Feedback),
		news:          make(map[int64]model.NewsArticle),
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// sortedByNewest orders a slice newest first, breaking ties by id so the
// output is stable when two records share a timestamp.
func sortedByNewest[T any](items []T, at func(T) time.Time, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(items[i]) > id(items[j])
	})
}
