package model

import "time"

// Favorite links a user to a match they follow.
// At most one Favorite exists per (UserID, MatchID).
type Favorite struct {
	ID        int64     `json:"id"        db:"id"`
	UserID    int64     `json:"userId"    db:"user_id"`
	MatchID   int64     `json:"matchId"   db:"match_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FavoriteWithMatch is a favorite joined with the match it references.
type FavoriteWithMatch struct {
	Favorite
	Match Match `json:"match"`
}
