package model

import "time"

// Notification is a message addressed to one user.
type Notification struct {
	ID        int64     `json:"id"        db:"id"`
	UserID    int64     `json:"userId"    db:"user_id"`
	Message   string    `json:"message"   db:"message"`
	Read      bool      `json:"read"      db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
