package model

import "time"

// SportType is the sport a match belongs to.
type SportType string

const (
	SportFootball SportType = "football"
	SportCricket  SportType = "cricket"
)

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "upcoming"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
)

// DefaultScore is shown until a score is entered.
const DefaultScore = "-"

// Match is a fixture between two teams.
type Match struct {
	ID          int64       `json:"id"          db:"id"`
	SportType   SportType   `json:"sportType"   db:"sport_type"`
	Team1       string      `json:"team1"       db:"team1"`
	Team2       string      `json:"team2"       db:"team2"`
	Team1Logo   *string     `json:"team1Logo"   db:"team1_logo"`
	Team2Logo   *string     `json:"team2Logo"   db:"team2_logo"`
	Team1Score  string      `json:"team1Score"  db:"team1_score"`
	Team2Score  string      `json:"team2Score"  db:"team2_score"`
	Venue       *string     `json:"venue"       db:"venue"`
	MatchTime   time.Time   `json:"matchTime"   db:"match_time"`
	Status      MatchStatus `json:"status"      db:"status"`
	CurrentTime *string     `json:"currentTime" db:"time_display"` // e.g. "67'" or "Over 32.4"
	CreatedAt   time.Time   `json:"createdAt"   db:"created_at"`
}

// ApplyDefaults fills the documented defaults for a new match.
func (m *Match) ApplyDefaults() {
	if m.Team1Score == "" {
		m.Team1Score = DefaultScore
	}
	if m.Team2Score == "" {
		m.Team2Score = DefaultScore
	}
	if m.Status == "" {
		m.Status = StatusUpcoming
	}
}

// MatchFilter narrows ListMatches. Empty fields match everything.
type MatchFilter struct {
	SportType SportType
	Status    MatchStatus
}

// Matches reports whether m satisfies the filter.
func (f MatchFilter) Matches(m *Match) bool {
	if f.SportType != "" && m.SportType != f.SportType {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	return true
}

// MatchPatch is a partial update of a match.
type MatchPatch struct {
	SportType   *SportType
	Team1       *string
	Team2       *string
	Team1Logo   *string
	Team2Logo   *string
	Team1Score  *string
	Team2Score  *string
	Venue       *string
	MatchTime   *time.Time
	Status      *MatchStatus
	CurrentTime *string
}

// Apply copies the non-nil fields of p onto m.
func (p MatchPatch) Apply(m *Match) {
	if p.SportType != nil {
		m.SportType = *p.SportType
	}
	if p.Team1 != nil {
		m.Team1 = *p.Team1
	}
	if p.Team2 != nil {
		m.Team2 = *p.Team2
	}
	if p.Team1Logo != nil {
		m.Team1Logo = p.Team1Logo
	}
	if p.Team2Logo != nil {
		m.Team2Logo = p.Team2Logo
	}
	if p.Team1Score != nil {
		m.Team1Score = *p.Team1Score
	}
	if p.Team2Score != nil {
		m.Team2Score = *p.Team2Score
	}
	if p.Venue != nil {
		m.Venue = p.Venue
	}
	if p.MatchTime != nil {
		m.MatchTime = p.MatchTime.UTC()
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.CurrentTime != nil {
		m.CurrentTime = p.CurrentTime
	}
}
