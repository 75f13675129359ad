// Package news fetches sports headlines from a NewsAPI-compatible upstream.
package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sakif/sportshub/internal/model"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("news: upstream not configured")

const (
	defaultPageSize = 10
	maxBodyBytes    = 2 << 20
)

// Client calls GET {base}/everything?q=<topic>.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Topic is the search query used for a sport. An empty sport asks for both.
func Topic(sport model.SportType) string {
	switch sport {
	case model.SportFootball:
		return "football"
	case model.SportCricket:
		return "cricket"
	default:
		return "football OR cricket"
	}
}

// FetchByTopic returns the newest articles matching topic. Articles are
// tagged with sport, have no ID and are never stored.
//
// The upstream payload is large and loosely typed (nullable strings, removed
// articles with placeholder titles), so it is read with gjson paths instead
// of a mirrored struct.
func (c *Client) FetchByTopic(ctx context.Context, sport model.SportType) ([]model.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", Topic(sport))
	q.Set("sortBy", "publishedAt")
	q.Set("language", "en")
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	endpoint := c.baseURL + "/everything?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("news: building request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news: calling upstream: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("news: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news: upstream returned %d: %s", resp.StatusCode, gjson.GetBytes(body, "message").String())
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("news: upstream returned invalid JSON")
	}
	if status := gjson.GetBytes(body, "status").String(); status != "" && status != "ok" {
		return nil, fmt.Errorf("news: upstream status %q: %s", status, gjson.GetBytes(body, "message").String())
	}

	return parseArticles(body, sport), nil
}

func parseArticles(body []byte, sport model.SportType) []model.NewsArticle {
	out := make([]model.NewsArticle, 0)
	gjson.GetBytes(body, "articles").ForEach(func(_, a gjson.Result) bool {
		title := a.Get("title").String()
		link := a.Get("url").String()
		if title == "" || link == "" || title == "[Removed]" {
			return true
		}

		article := model.NewsArticle{
			SportType:   sport,
			Title:       title,
			URL:         link,
			Description: optional(a.Get("description")),
			ImageURL:    optional(a.Get("urlToImage")),
			Source:      optional(a.Get("source.name")),
		}
		if at, err := time.Parse(time.RFC3339, a.Get("publishedAt").String()); err == nil {
			article.PublishedAt = at.UTC()
		}
		out = append(out, article)
		return true
	})
	return out
}

func optional(r gjson.Result) *string {
	if !r.Exists() || r.Type == gjson.Null || r.String() == "" {
		return nil
	}
	s := r.String()
	return &s
}
