package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/config"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository"
	"github.com/sakif/sportshub/internal/repository/memory"
	"github.com/sakif/sportshub/internal/repository/sqlstore"
)

const (
	adminEmail    = "admin@sportshub.local"
	adminPassword = "admin-secret"
)

func testConfig() config.Config {
	return config.Config{
		Port:              8080,
		StoreDriver:       config.DriverMemory,
		SessionSecret:     "test-secret-at-least-16-bytes",
		SessionTTL:        time.Hour,
		AuthRatePerMinute: 6000,
		AuthRateBurst:     1000,
		NewsTimeout:       time.Second,
	}
}

// stubNews is a canned upstream news source.
type stubNews struct {
	articles []model.NewsArticle
	err      error
}

func (s stubNews) FetchByTopic(context.Context, model.SportType) ([]model.NewsArticle, error) {
	return s.articles, s.err
}

// backends are the stores every end-to-end test runs against.
var backends = map[string]func(t *testing.T) repository.Store{
	"memory": func(t *testing.T) repository.Store { return memory.New() },
	"sqlite": func(t *testing.T) repository.Store {
		s, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	},
}

type testApp struct {
	t     *testing.T
	srv   *httptest.Server
	store repository.Store
}

func newTestApp(t *testing.T, store repository.Store, cfg config.Config, opts ...Option) *testApp {
	t.Helper()

	passwords := auth.NewPasswordServiceForTest(4)
	hash, err := passwords.Hash(adminPassword)
	require.NoError(t, err)
	_, err = store.CreateUser(context.Background(), model.User{
		Username: "admin",
		Email:    adminEmail,
		Password: hash,
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithPasswords(passwords), WithNewsFetcher(stubNews{})}, opts...)
	s, err := New(cfg, store, logger, opts...)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testApp{t: t, srv: srv, store: store}
}

// client is one browser: it keeps its own cookies.
type client struct {
	app  *testApp
	http *http.Client
}

func (a *testApp) client() *client {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &client{app: a, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

type response struct {
	status int
	body   []byte
}

func (r response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), "body: %s", r.body)
}

func (c *client) do(method, path string, body any) response {
	c.app.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.app.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.app.srv.URL+path, reader)
	require.NoError(c.app.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.app.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.app.t, err)
	return response{status: resp.StatusCode, body: raw}
}

func (c *client) register(username string) model.PublicUser {
	c.app.t.Helper()
	resp := c.do(http.MethodPost, "/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	})
	require.Equal(c.app.t, http.StatusCreated, resp.status, "body: %s", resp.body)

	var out struct {
		User model.PublicUser `json:"user"`
	}
	resp.decode(c.app.t, &out)
	return out.User
}

func (c *client) loginAdmin() {
	c.app.t.Helper()
	resp := c.do(http.MethodPost, "/login", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(c.app.t, http.StatusOK, resp.status, "body: %s", resp.body)
}

func (c *client) createMatch(team1, team2 string, at time.Time, sport string) model.Match {
	c.app.t.Helper()
	resp := c.do(http.MethodPost, "/admin/matches", map[string]any{
		"sportType": sport,
		"team1":     team1,
		"team2":     team2,
		"matchTime": at.Format(time.RFC3339Nano),
	})
	require.Equal(c.app.t, http.StatusCreated, resp.status, "body: %s", resp.body)

	var out struct {
		Match model.Match `json:"match"`
	}
	resp.decode(c.app.t, &out)
	return out.Match
}

func eachBackend(t *testing.T, fn func(t *testing.T, app *testApp)) {
	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, newTestApp(t, newStore(t), testConfig()))
		})
	}
}

func TestAnonymousMatchList(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		resp := app.client().do(http.MethodGet, "/matches", nil)

		assert.Equal(t, http.StatusOK, resp.status)
		assert.JSONEq(t, `{"matches":[]}`, string(resp.body))
	})
}

func TestRegisterLoginLogout(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		alice := app.client()
		user := alice.register("alice")
		assert.Equal(t, model.RoleUser, user.Role)

		t.Run("registration signs the user in", func(t *testing.T) {
			resp := alice.do(http.MethodGet, "/auth/user", nil)
			require.Equal(t, http.StatusOK, resp.status)
			assert.NotContains(t, string(resp.body), "password")
			assert.NotContains(t, string(resp.body), "$2a$")
		})

		t.Run("logout ends the session", func(t *testing.T) {
			resp := alice.do(http.MethodPost, "/logout", nil)
			require.Equal(t, http.StatusOK, resp.status)

			resp = alice.do(http.MethodGet, "/auth/user", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.status)
			assert.JSONEq(t, `{"message":"Not authenticated"}`, string(resp.body))
		})

		t.Run("login with correct credentials", func(t *testing.T) {
			resp := alice.do(http.MethodPost, "/login", map[string]string{"email": "alice@example.com", "password": "secret1"})
			require.Equal(t, http.StatusOK, resp.status)
			assert.NotContains(t, string(resp.body), "$2a$")

			resp = alice.do(http.MethodGet, "/auth/user", nil)
			assert.Equal(t, http.StatusOK, resp.status)
		})
	})
}

func TestRegister_DuplicatesRejected(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		app.client().register("alice")

		tests := []struct {
			name     string
			username string
			email    string
			message  string
		}{
			{name: "email", username: "bob", email: "alice@example.com", message: "Email already in use"},
			{name: "username", username: "alice", email: "bob@example.com", message: "Username already taken"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp := app.client().do(http.MethodPost, "/register", map[string]string{
					"username": tt.username,
					"email":    tt.email,
					"password": "secret1",
				})
				assert.Equal(t, http.StatusBadRequest, resp.status)
				assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tt.message), string(resp.body))
			})
		}

		users, err := app.store.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Len(t, users, 2, "admin and alice only")
	})
}

func TestRegister_ValidationErrors(t *testing.T) {
	app := newTestApp(t, memory.New(), testConfig())

	resp := app.client().do(http.MethodPost, "/register", map[string]string{
		"username": "al",
		"email":    "not-an-email",
		"password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, resp.status)

	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	resp.decode(t, &body)
	assert.Equal(t, "Validation failed", body.Message)
	var fields []string
	for _, e := range body.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"username", "email"}, fields)

	resp = app.client().do(http.MethodPost, "/register", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, resp.status)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		app.client().register("alice")

		wrongPassword := app.client().do(http.MethodPost, "/login", map[string]string{"email": "alice@example.com", "password": "nope-nope"})
		unknownEmail := app.client().do(http.MethodPost, "/login", map[string]string{"email": "ghost@example.com", "password": "secret1"})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.status)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.status)
		assert.Equal(t, string(wrongPassword.body), string(unknownEmail.body))
		assert.JSONEq(t, `{"message":"Invalid email or password"}`, string(unknownEmail.body))
	})
}

func TestAdminRoutes(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		match := map[string]any{
			"sportType": "football",
			"team1":     "Arsenal",
			"team2":     "Chelsea",
			"matchTime": time.Now().Add(time.Hour).Format(time.RFC3339),
		}

		resp := app.client().do(http.MethodPost, "/admin/matches", match)
		assert.Equal(t, http.StatusUnauthorized, resp.status)

		user := app.client()
		user.register("alice")
		resp = user.do(http.MethodPost, "/admin/matches", match)
		assert.Equal(t, http.StatusForbidden, resp.status)
		assert.JSONEq(t, `{"message":"Admin access required"}`, string(resp.body))

		all, err := app.store.ListMatches(context.Background(), model.MatchFilter{})
		require.NoError(t, err)
		assert.Empty(t, all, "no match created by a non-admin")

		resp = user.do(http.MethodGet, "/admin/feedback", nil)
		assert.Equal(t, http.StatusForbidden, resp.status)
	})
}

func TestProfileUpdate_CannotChangeRole(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		alice := app.client()
		alice.register("alice")

		resp := alice.do(http.MethodPut, "/users/profile", map[string]string{
			"favoriteTeam": "Arsenal",
			"role":         "admin",
		})
		require.Equal(t, http.StatusOK, resp.status, "body: %s", resp.body)

		var out struct {
			User model.PublicUser `json:"user"`
		}
		resp.decode(t, &out)
		assert.Equal(t, model.RoleUser, out.User.Role)
		require.NotNil(t, out.User.FavoriteTeam)
		assert.Equal(t, "Arsenal", *out.User.FavoriteTeam)

		resp = alice.do(http.MethodPost, "/admin/matches", map[string]any{})
		assert.Equal(t, http.StatusForbidden, resp.status)
	})
}

func TestMatchManagementAndFilters(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		admin := app.client()
		admin.loginAdmin()

		kickoff := time.Now().Add(3 * time.Hour).UTC().Truncate(time.Second)
		cricket := admin.createMatch("India", "Australia", kickoff, "cricket")
		admin.createMatch("Arsenal", "Chelsea", kickoff, "football")
		assert.Equal(t, model.StatusUpcoming, cricket.Status)
		assert.Equal(t, "-", cricket.Team1Score)

		resp := admin.do(http.MethodPut, fmt.Sprintf("/admin/matches/%d", cricket.ID), map[string]string{
			"status":      "live",
			"team1Score":  "145/3",
			"currentTime": "Over 32.4",
		})
		require.Equal(t, http.StatusOK, resp.status, "body: %s", resp.body)

		visitor := app.client()
		list := func(query string) []model.Match {
			resp := visitor.do(http.MethodGet, "/matches"+query, nil)
			require.Equal(t, http.StatusOK, resp.status, "body: %s", resp.body)
			var out struct {
				Matches []model.Match `json:"matches"`
			}
			resp.decode(t, &out)
			return out.Matches
		}

		live := list("?status=live")
		require.Len(t, live, 1)
		assert.Equal(t, "145/3", live[0].Team1Score)
		assert.Equal(t, "Over 32.4", *live[0].CurrentTime)

		assert.Len(t, list("?sportType=cricket&status=live"), 1)
		assert.Empty(t, list("?sportType=football&status=live"))
		assert.Len(t, list(""), 2)

		resp = visitor.do(http.MethodGet, "/matches?status=postponed", nil)
		assert.Equal(t, http.StatusBadRequest, resp.status)

		resp = visitor.do(http.MethodGet, fmt.Sprintf("/matches/%d", cricket.ID), nil)
		require.Equal(t, http.StatusOK, resp.status)
		var detail struct {
			Match model.Match `json:"match"`
		}
		resp.decode(t, &detail)
		assert.True(t, detail.Match.MatchTime.Equal(kickoff))

		resp = visitor.do(http.MethodGet, "/matches/999", nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		resp = visitor.do(http.MethodGet, "/matches/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.status)

		resp = admin.do(http.MethodPut, "/admin/matches/999", map[string]string{"status": "live"})
		assert.Equal(t, http.StatusNotFound, resp.status)
	})
}

func TestFavorites(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		admin := app.client()
		admin.loginAdmin()
		m := admin.createMatch("Arsenal", "Chelsea", time.Now().Add(48*time.Hour), "football")

		alice := app.client()
		alice.register("alice")

		resp := alice.do(http.MethodPost, "/favorites", map[string]int64{"matchId": m.ID})
		require.Equal(t, http.StatusCreated, resp.status, "body: %s", resp.body)

		resp = alice.do(http.MethodPost, "/favorites", map[string]int64{"matchId": m.ID})
		assert.Equal(t, http.StatusBadRequest, resp.status)
		assert.JSONEq(t, `{"message":"Match already in favorites"}`, string(resp.body))

		resp = alice.do(http.MethodGet, "/favorites", nil)
		require.Equal(t, http.StatusOK, resp.status)
		var out struct {
			Favorites []model.FavoriteWithMatch `json:"favorites"`
		}
		resp.decode(t, &out)
		require.Len(t, out.Favorites, 1)
		assert.Equal(t, "Arsenal", out.Favorites[0].Match.Team1)

		resp = alice.do(http.MethodPost, "/favorites", map[string]int64{"matchId": 999})
		assert.Equal(t, http.StatusNotFound, resp.status)

		resp = alice.do(http.MethodDelete, fmt.Sprintf("/favorites/%d", m.ID), nil)
		assert.Equal(t, http.StatusOK, resp.status)
		resp = alice.do(http.MethodDelete, fmt.Sprintf("/favorites/%d", m.ID), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)

		resp = app.client().do(http.MethodGet, "/favorites", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})
}

func TestNotifications_CheckUpcoming(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		admin := app.client()
		admin.loginAdmin()
		m := admin.createMatch("Arsenal", "Chelsea", time.Now().Add(24*time.Hour), "football")

		alice := app.client()
		alice.register("alice")
		resp := alice.do(http.MethodPost, "/favorites", map[string]int64{"matchId": m.ID})
		require.Equal(t, http.StatusCreated, resp.status)

		resp = alice.do(http.MethodPost, "/notifications/check-upcoming", nil)
		require.Equal(t, http.StatusOK, resp.status, "body: %s", resp.body)

		resp = alice.do(http.MethodPost, "/notifications/check-upcoming", nil)
		require.Equal(t, http.StatusOK, resp.status)

		resp = alice.do(http.MethodGet, "/notifications", nil)
		require.Equal(t, http.StatusOK, resp.status)
		var out struct {
			Notifications []model.Notification `json:"notifications"`
		}
		resp.decode(t, &out)
		require.Len(t, out.Notifications, 1, "exactly one reminder")
		n := out.Notifications[0]
		assert.Equal(t, "Reminder: Arsenal vs Chelsea starts in 24 hours", n.Message)
		assert.False(t, n.Read)

		for i := 0; i < 2; i++ {
			resp = alice.do(http.MethodPut, fmt.Sprintf("/notifications/%d/read", n.ID), nil)
			require.Equal(t, http.StatusOK, resp.status)
			var read struct {
				Notification model.Notification `json:"notification"`
			}
			resp.decode(t, &read)
			assert.True(t, read.Notification.Read)
		}

		bob := app.client()
		bob.register("bob")
		resp = bob.do(http.MethodPut, fmt.Sprintf("/notifications/%d/read", n.ID), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
		resp = bob.do(http.MethodDelete, fmt.Sprintf("/notifications/%d", n.ID), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)

		resp = alice.do(http.MethodDelete, fmt.Sprintf("/notifications/%d", n.ID), nil)
		assert.Equal(t, http.StatusOK, resp.status)
	})
}

func TestDeleteAccount_Cascades(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		ctx := context.Background()
		admin := app.client()
		admin.loginAdmin()
		m := admin.createMatch("Arsenal", "Chelsea", time.Now().Add(time.Hour), "football")

		alice := app.client()
		user := alice.register("alice")
		resp := alice.do(http.MethodPost, "/favorites", map[string]int64{"matchId": m.ID})
		require.Equal(t, http.StatusCreated, resp.status)
		resp = alice.do(http.MethodPost, "/notifications/check-upcoming", nil)
		require.Equal(t, http.StatusOK, resp.status)

		resp = alice.do(http.MethodDelete, "/users/account", nil)
		require.Equal(t, http.StatusOK, resp.status)

		_, err := app.store.GetUser(ctx, user.ID)
		assert.Error(t, err)
		favs, err := app.store.ListFavoritesByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, favs)
		notes, err := app.store.ListNotificationsByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, notes)

		resp = alice.do(http.MethodGet, "/auth/user", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})
}

func TestDeleteMatch_CascadesFavorites(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		admin := app.client()
		admin.loginAdmin()
		m := admin.createMatch("Arsenal", "Chelsea", time.Now().Add(time.Hour), "football")

		alice := app.client()
		alice.register("alice")
		resp := alice.do(http.MethodPost, "/favorites", map[string]int64{"matchId": m.ID})
		require.Equal(t, http.StatusCreated, resp.status)

		resp = admin.do(http.MethodDelete, fmt.Sprintf("/admin/matches/%d", m.ID), nil)
		require.Equal(t, http.StatusOK, resp.status)

		resp = alice.do(http.MethodGet, "/favorites", nil)
		assert.JSONEq(t, `{"favorites":[]}`, string(resp.body))

		resp = admin.do(http.MethodDelete, fmt.Sprintf("/admin/matches/%d", m.ID), nil)
		assert.Equal(t, http.StatusNotFound, resp.status)
	})
}

func TestFeedback(t *testing.T) {
	eachBackend(t, func(t *testing.T, app *testApp) {
		body := map[string]any{
			"name":      "Alice",
			"email":     "alice@example.com",
			"category":  "suggestion",
			"message":   "Please add tennis coverage.",
			"subscribe": true,
		}

		resp := app.client().do(http.MethodPost, "/feedback", body)
		require.Equal(t, http.StatusCreated, resp.status, "body: %s", resp.body)

		alice := app.client()
		user := alice.register("alice")
		resp = alice.do(http.MethodPost, "/feedback", body)
		require.Equal(t, http.StatusCreated, resp.status)

		admin := app.client()
		admin.loginAdmin()
		resp = admin.do(http.MethodGet, "/admin/feedback", nil)
		require.Equal(t, http.StatusOK, resp.status)

		var out struct {
			Feedback []model.Feedback `json:"feedback"`
		}
		resp.decode(t, &out)
		require.Len(t, out.Feedback, 2)

		var anonymous, signedIn int
		for _, f := range out.Feedback {
			if f.UserID == nil {
				anonymous++
				continue
			}
			assert.Equal(t, user.ID, *f.UserID)
			signedIn++
		}
		assert.Equal(t, 1, anonymous)
		assert.Equal(t, 1, signedIn)

		resp = admin.do(http.MethodDelete, fmt.Sprintf("/admin/feedback/%d", out.Feedback[0].ID), nil)
		assert.Equal(t, http.StatusOK, resp.status)
	})
}

func TestSportsNews(t *testing.T) {
	upstream := model.NewsArticle{SportType: model.SportFootball, Title: "Upstream story", URL: "https://news.example.com/1"}

	t.Run("stored articles come first", func(t *testing.T) {
		app := newTestApp(t, memory.New(), testConfig(), WithNewsFetcher(stubNews{articles: []model.NewsArticle{upstream}}))
		admin := app.client()
		admin.loginAdmin()
		resp := admin.do(http.MethodPost, "/admin/news", map[string]string{
			"sportType": "football",
			"title":     "Curated story",
			"url":       "https://example.com/curated",
		})
		require.Equal(t, http.StatusCreated, resp.status, "body: %s", resp.body)

		resp = app.client().do(http.MethodGet, "/sports-news?sport=football", nil)
		require.Equal(t, http.StatusOK, resp.status)
		var out struct {
			Articles []model.NewsArticle `json:"articles"`
		}
		resp.decode(t, &out)
		require.Len(t, out.Articles, 2)
		assert.Equal(t, "Curated story", out.Articles[0].Title)
		assert.Equal(t, "Upstream story", out.Articles[1].Title)
	})

	t.Run("upstream failure is an empty result", func(t *testing.T) {
		app := newTestApp(t, memory.New(), testConfig(), WithNewsFetcher(stubNews{err: errors.New("timeout")}))

		resp := app.client().do(http.MethodGet, "/sports-news?sport=cricket", nil)
		assert.Equal(t, http.StatusOK, resp.status)
		assert.JSONEq(t, `{"articles":[]}`, string(resp.body))
	})

	t.Run("unknown sport", func(t *testing.T) {
		app := newTestApp(t, memory.New(), testConfig())
		resp := app.client().do(http.MethodGet, "/sports-news?sport=curling", nil)
		assert.Equal(t, http.StatusBadRequest, resp.status)
	})
}

func TestLoginRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRatePerMinute = 1
	cfg.AuthRateBurst = 2
	app := newTestApp(t, memory.New(), cfg)

	c := app.client()
	creds := map[string]string{"email": "ghost@example.com", "password": "secret1"}
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/login", creds).status)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/login", creds).status)

	resp := c.do(http.MethodPost, "/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.status)
	assert.JSONEq(t, `{"message":"Too many attempts, please try again later"}`, string(resp.body))

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/matches", nil).status)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, memory.New(), testConfig())
	c := app.client()

	resp := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.body))

	c.do(http.MethodGet, "/matches", nil)
	resp = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Contains(t, string(resp.body), `sportshub_http_requests_total{method="GET",route="/matches",status="200"}`)
}

func TestUnroutedRequestsAnswerJSON(t *testing.T) {
	c := newTestApp(t, memory.New(), testConfig()).client()

	resp := c.do(http.MethodGet, "/no-such-page", nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.JSONEq(t, `{"message":"Not found"}`, string(resp.body))

	resp = c.do(http.MethodDelete, "/matches", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.status)
	assert.JSONEq(t, `{"message":"Method not allowed"}`, string(resp.body))
}

func TestGitHubRoutesOnlyWhenConfigured(t *testing.T) {
	app := newTestApp(t, memory.New(), testConfig())
	resp := app.client().do(http.MethodGet, "/auth/github/login", nil)
	assert.Equal(t, http.StatusNotFound, resp.status)

	provider := auth.NewGitHubProvider("client-id", "client-secret", "http://localhost/auth/github/callback")
	app = newTestApp(t, memory.New(), testConfig(), WithGitHub(provider))
	resp = app.client().do(http.MethodGet, "/auth/github/login", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.status)

	resp = app.client().do(http.MethodGet, "/auth/github/callback?state=forged&code=x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)
}

func TestStorageFailureIsGeneric500(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := sqlstore.New(db, sqlstore.DriverSQLite)

	passwords := auth.NewPasswordServiceForTest(4)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(testConfig(), store, logger, WithPasswords(passwords), WithNewsFetcher(stubNews{}))
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	mock.ExpectQuery("SELECT (.+) FROM matches").WillReturnError(errors.New(`disk I/O error at /var/lib/sportshub.db`))

	resp, err := http.Get(srv.URL + "/matches")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Internal server error"}`, string(body))
	assert.NotContains(t, string(body), "disk")
	assert.NoError(t, mock.ExpectationsWereMet())
}
