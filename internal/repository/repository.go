// Package repository declares the storage capability shared by every backend.
//
// Two implementations exist:
//   - memory:   maps guarded by a RWMutex, process lifetime only
//   - sqlstore: SQLite or Postgres through database/sql + sqlx
//
// Both must behave identically from the caller's perspective; the
// storetest package holds the behavioral suite each backend runs.
//
// CONTRACT (all backends):
//   - Get*    returns apperror.ErrNotFound when the id does not exist.
//   - Create* assigns the next sequential id and CreatedAt and returns the
//     stored record.
//   - Update* returns the updated record or apperror.ErrNotFound. Patch types
//     carry no identity fields.
//   - Delete* returns whether a record existed and was removed.
package repository

import (
	"context"

	"github.com/sakif/sportshub/internal/model"
)

type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	// GetUserByUsername and GetUserByEmail match case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// CreateUser and UpdateUser return apperror.ErrConflict when the username
	// or email collides (case-insensitively) with another user.
	CreateUser(ctx context.Context, u model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	// DeleteUser cascades to the user's favorites and notifications and
	// detaches their feedback.
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

type MatchRepository interface {
	GetMatch(ctx context.Context, id int64) (*model.Match, error)
	// ListMatches orders by MatchTime descending.
	ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error)
	CreateMatch(ctx context.Context, m model.Match) (*model.Match, error)
	UpdateMatch(ctx context.Context, id int64, patch model.MatchPatch) (*model.Match, error)
	// DeleteMatch cascades to favorites referencing the match.
	DeleteMatch(ctx context.Context, id int64) (bool, error)
}

type FavoriteRepository interface {
	GetFavorite(ctx context.Context, id int64) (*model.Favorite, error)
	// ListFavoritesByUser joins each favorite with its match, newest favorite first.
	ListFavoritesByUser(ctx context.Context, userID int64) ([]model.FavoriteWithMatch, error)
	IsFavorite(ctx context.Context, userID, matchID int64) (bool, error)
	// AddFavorite returns apperror.ErrConflict if the pair already exists.
	AddFavorite(ctx context.Context, userID, matchID int64) (*model.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, matchID int64) (bool, error)
}

type NotificationRepository interface {
	GetNotification(ctx context.Context, id int64) (*model.Notification, error)
	// ListNotificationsByUser orders by CreatedAt descending.
	ListNotificationsByUser(ctx context.Context, userID int64) ([]model.Notification, error)
	CreateNotification(ctx context.Context, n model.Notification) (*model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) (*model.Notification, error)
	DeleteNotification(ctx context.Context, id int64) (bool, error)
}

type FeedbackRepository interface {
	GetFeedback(ctx context.Context, id int64) (*model.Feedback, error)
	// ListFeedback orders by CreatedAt descending.
	ListFeedback(ctx context.Context) ([]model.Feedback, error)
	CreateFeedback(ctx context.Context, f model.Feedback) (*model.Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) (bool, error)
}

type NewsRepository interface {
	GetNews(ctx context.Context, id int64) (*model.NewsArticle, error)
	// ListNews filters by sport when non-empty and orders by PublishedAt descending.
	ListNews(ctx context.Context, sport model.SportType) ([]model.NewsArticle, error)
	CreateNews(ctx context.Context, a model.NewsArticle) (*model.NewsArticle, error)
	DeleteNews(ctx context.Context, id int64) (bool, error)
}

// Store is the full storage capability handed to services.
type Store interface {
	UserRepository
	MatchRepository
	FavoriteRepository
	NotificationRepository
	FeedbackRepository
	NewsRepository

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
