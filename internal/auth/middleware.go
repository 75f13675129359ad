package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
)

// CookieName is the session cookie.
const CookieName = "sid"

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of this type, so nothing else can
// read or shadow the user stored under it.
type contextKey string

const userKey contextKey = "user"

// UserSource loads the account behind a session. repository.Store
// satisfies it.
type UserSource interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// Sessions ties the session store, the cookie signer and the user lookup
// together. Handlers call Begin after a successful login and End on logout;
// the router installs Identify in front of every route.
type Sessions struct {
	store  *SessionStore
	tokens *TokenService
	users  UserSource
	secure bool
	logger *slog.Logger
}

// NewSessions wires a session manager. secure sets the cookie's Secure
// attribute and should be on whenever the site is served over HTTPS.
func NewSessions(store *SessionStore, tokens *TokenService, users UserSource, secure bool, logger *slog.Logger) *Sessions {
	return &Sessions{store: store, tokens: tokens, users: users, secure: secure, logger: logger}
}

// Begin creates a session for the user and sets the cookie.
func (m *Sessions) Begin(w http.ResponseWriter, userID int64) error {
	sess := m.store.Create(userID)
	token, err := m.tokens.Sign(sess.ID, sess.ExpiresAt)
	if err != nil {
		m.store.Delete(sess.ID)
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End deletes the caller's session (if any) and clears the cookie.
func (m *Sessions) End(w http.ResponseWriter, r *http.Request) {
	if id, ok := m.sessionID(r); ok {
		m.store.Delete(id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// EndAll ends the caller's session and every other session of userID, for
// when the account itself goes away.
func (m *Sessions) EndAll(w http.ResponseWriter, r *http.Request, userID int64) {
	m.store.DeleteUser(userID)
	m.End(w, r)
}

// Identify resolves the caller and stores the user in the request context.
//
// It never rejects a request: a missing, forged or expired cookie, or a
// session whose user has since been deleted, simply leaves the request
// anonymous. The user is re-read from storage on every request so role and
// profile changes apply immediately.
func (m *Sessions) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.sessionID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		sess, ok := m.store.Get(id)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetUser(r.Context(), sess.UserID)
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			m.store.Delete(id)
			next.ServeHTTP(w, r)
			return
		case err != nil:
			m.logger.Error("resolving session user",
				slog.Int64("user_id", sess.UserID),
				slog.String("error", err.Error()),
			)
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (m *Sessions) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	id, err := m.tokens.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return id, true
}

// RequireAuth rejects anonymous requests with 401. It must run after Identify.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !user.IsAdmin() {
			writeMessage(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the signed-in user, or (nil, false) when the
// request is anonymous.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// WithUser returns a context carrying the user. Tests use it to fake a login.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
