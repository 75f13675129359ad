// Package model defines the entities shared by every layer, plus the input
// schemas handlers decode and validate, and the patch types used for partial
// updates.
package model

import (
	"strings"
	"time"
)

// Role is a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account.
//
// The `db:"..."` tags are read by sqlx when scanning rows; the `json:"..."`
// tags control the API shape. Password holds the bcrypt hash and is tagged
// `json:"-"` so it can never be encoded. Handlers still respond with
// PublicUser, which has no password field at all.
type User struct {
	ID            int64     `json:"id"            db:"id"`
	Username      string    `json:"username"      db:"username"`
	Email         string    `json:"email"         db:"email"`
	Password      string    `json:"-"             db:"password"`
	Role          Role      `json:"role"          db:"role"`
	FavoriteSport *string   `json:"favoriteSport" db:"favorite_sport"`
	FavoriteTeam  *string   `json:"favoriteTeam"  db:"favorite_team"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	FavoriteSport *string   `json:"favoriteSport"`
	FavoriteTeam  *string   `json:"favoriteTeam"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public strips secrets from the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		FavoriteSport: u.FavoriteSport,
		FavoriteTeam:  u.FavoriteTeam,
		CreatedAt:     u.CreatedAt,
	}
}

// UserPatch is a partial update. Nil fields are left unchanged.
// Identity fields (ID, CreatedAt) are deliberately absent.
type UserPatch struct {
	Username      *string
	Email         *string
	Password      *string // already hashed
	Role          *Role
	FavoriteSport *string
	FavoriteTeam  *string
}

// Apply copies the non-nil fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.FavoriteSport != nil {
		u.FavoriteSport = p.FavoriteSport
	}
	if p.FavoriteTeam != nil {
		u.FavoriteTeam = p.FavoriteTeam
	}
}

// SameIdentity compares usernames or emails the way uniqueness is enforced:
// case-insensitively.
func SameIdentity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
