package model

import "time"

// NewsArticle is a sports news item, either curated by an admin (stored,
// ID > 0) or fetched from the upstream news API (ID == 0).
type NewsArticle struct {
	ID          int64     `json:"id,omitempty" db:"id"`
	SportType   SportType `json:"sportType"    db:"sport_type"`
	Title       string    `json:"title"        db:"title"`
	Description *string   `json:"description"  db:"description"`
	URL         string    `json:"url"          db:"url"`
	ImageURL    *string   `json:"imageUrl"     db:"image_url"`
	Source      *string   `json:"source"       db:"source"`
	PublishedAt time.Time `json:"publishedAt"  db:"published_at"`
	CreatedAt   time.Time `json:"createdAt"    db:"created_at"`
}
