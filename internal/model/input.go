package model

import (
	"strings"
	"time"
)

// Input schemas. The `validate` tags are checked by package validate before
// any storage call; `json` names double as the field names reported back in
// validation errors.

type RegisterInput struct {
	Username      string  `json:"username"      validate:"required,min=3,max=50"`
	Email         string  `json:"email"         validate:"required,email,max=255"`
	Password      string  `json:"password"      validate:"required,min=6,max=72"`
	FavoriteSport *string `json:"favoriteSport" validate:"omitempty,oneof=football cricket"`
	FavoriteTeam  *string `json:"favoriteTeam"  validate:"omitempty,max=100"`
}

// Normalize trims the identity fields so validation checks what is stored.
func (in *RegisterInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Normalize() {
	in.Email = strings.TrimSpace(in.Email)
}

// ProfileInput has no role field: a user can never promote themselves.
type ProfileInput struct {
	Username      *string `json:"username"      validate:"omitempty,min=3,max=50"`
	Email         *string `json:"email"         validate:"omitempty,email,max=255"`
	Password      *string `json:"password"      validate:"omitempty,min=6,max=72"`
	FavoriteSport *string `json:"favoriteSport" validate:"omitempty,oneof=football cricket"`
	FavoriteTeam  *string `json:"favoriteTeam"  validate:"omitempty,max=100"`
}

func (in *ProfileInput) Normalize() {
	trimPtr(in.Username)
	trimPtr(in.Email)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

type MatchInput struct {
	SportType   string     `json:"sportType"   validate:"required,oneof=football cricket"`
	Team1       string     `json:"team1"       validate:"required,max=100"`
	Team2       string     `json:"team2"       validate:"required,max=100"`
	Team1Logo   *string    `json:"team1Logo"   validate:"omitempty,url"`
	Team2Logo   *string    `json:"team2Logo"   validate:"omitempty,url"`
	Team1Score  *string    `json:"team1Score"  validate:"omitempty,max=20"`
	Team2Score  *string    `json:"team2Score"  validate:"omitempty,max=20"`
	Venue       *string    `json:"venue"       validate:"omitempty,max=200"`
	MatchTime   *time.Time `json:"matchTime"   validate:"required"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=upcoming live completed"`
	CurrentTime *string    `json:"currentTime" validate:"omitempty,max=50"`
}

// ToMatch converts validated input into a new Match with defaults applied.
func (in MatchInput) ToMatch() Match {
	m := Match{
		SportType:   SportType(in.SportType),
		Team1:       in.Team1,
		Team2:       in.Team2,
		Team1Logo:   in.Team1Logo,
		Team2Logo:   in.Team2Logo,
		Venue:       in.Venue,
		CurrentTime: in.CurrentTime,
	}
	if in.MatchTime != nil {
		m.MatchTime = in.MatchTime.UTC()
	}
	if in.Team1Score != nil {
		m.Team1Score = *in.Team1Score
	}
	if in.Team2Score != nil {
		m.Team2Score = *in.Team2Score
	}
	if in.Status != nil {
		m.Status = MatchStatus(*in.Status)
	}
	m.ApplyDefaults()
	return m
}

type MatchUpdateInput struct {
	SportType   *string    `json:"sportType"   validate:"omitempty,oneof=football cricket"`
	Team1       *string    `json:"team1"       validate:"omitempty,min=1,max=100"`
	Team2       *string    `json:"team2"       validate:"omitempty,min=1,max=100"`
	Team1Logo   *string    `json:"team1Logo"   validate:"omitempty,url"`
	Team2Logo   *string    `json:"team2Logo"   validate:"omitempty,url"`
	Team1Score  *string    `json:"team1Score"  validate:"omitempty,max=20"`
	Team2Score  *string    `json:"team2Score"  validate:"omitempty,max=20"`
	Venue       *string    `json:"venue"       validate:"omitempty,max=200"`
	MatchTime   *time.Time `json:"matchTime"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=upcoming live completed"`
	CurrentTime *string    `json:"currentTime" validate:"omitempty,max=50"`
}

// ToPatch converts validated input into a MatchPatch.
func (in MatchUpdateInput) ToPatch() MatchPatch {
	p := MatchPatch{
		Team1:       in.Team1,
		Team2:       in.Team2,
		Team1Logo:   in.Team1Logo,
		Team2Logo:   in.Team2Logo,
		Team1Score:  in.Team1Score,
		Team2Score:  in.Team2Score,
		Venue:       in.Venue,
		MatchTime:   in.MatchTime,
		CurrentTime: in.CurrentTime,
	}
	if in.SportType != nil {
		st := SportType(*in.SportType)
		p.SportType = &st
	}
	if in.Status != nil {
		s := MatchStatus(*in.Status)
		p.Status = &s
	}
	return p
}

type FavoriteInput struct {
	MatchID int64 `json:"matchId" validate:"required,gt=0"`
}

type FeedbackInput struct {
	Name      string `json:"name"      validate:"required,max=100"`
	Email     string `json:"email"     validate:"required,email,max=255"`
	Category  string `json:"category"  validate:"required,max=50"`
	Message   string `json:"message"   validate:"required,min=10,max=2000"`
	Subscribe bool   `json:"subscribe"`
}

type NewsInput struct {
	SportType   string     `json:"sportType"   validate:"required,oneof=football cricket"`
	Title       string     `json:"title"       validate:"required,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	URL         string     `json:"url"         validate:"required,url"`
	ImageURL    *string    `json:"imageUrl"    validate:"omitempty,url"`
	Source      *string    `json:"source"      validate:"omitempty,max=100"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// ToArticle converts validated input into a NewsArticle. A missing
// publishedAt defaults to now.
func (in NewsInput) ToArticle(now time.Time) NewsArticle {
	a := NewsArticle{
		SportType:   SportType(in.SportType),
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		ImageURL:    in.ImageURL,
		Source:      in.Source,
		PublishedAt: now.UTC(),
	}
	if in.PublishedAt != nil {
		a.PublishedAt = in.PublishedAt.UTC()
	}
	return a
}
