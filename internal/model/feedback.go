package model

import "time"

// Feedback is a message sent through the contact form.
// UserID is nil for anonymous submissions.
type Feedback struct {
	ID        int64     `json:"id"        db:"id"`
	UserID    *int64    `json:"userId"    db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	Email     string    `json:"email"     db:"email"`
	Category  string    `json:"category"  db:"category"`
	Message   string    `json:"message"   db:"message"`
	Subscribe bool      `json:"subscribe" db:"subscribe"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
