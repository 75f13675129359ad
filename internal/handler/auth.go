package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/service"
	"github.com/sakif/sportshub/internal/validate"
)

const stateCookie = "oauth_state"

type userResponse struct {
	Message string           `json:"message,omitempty"`
	User    model.PublicUser `json:"user"`
}

// AuthHandler covers registration, password login, logout, the current
// identity and the optional GitHub sign-in flow.
//
//   - HandleRegister       → create the account and sign it in
//   - HandleLogin          → check credentials, start a session
//   - HandleLogout         → end the session
//   - HandleCurrentUser    → who am I
//   - HandleGitHubLogin    → redirect to GitHub
//   - HandleGitHubCallback → finish the OAuth exchange, start a session
type AuthHandler struct {
	accounts  *service.AccountService
	sessions  *auth.Sessions
	github    *auth.GitHubProvider // nil when GitHub sign-in is not configured
	validator *validate.Validator
	logger    *slog.Logger
}

func NewAuthHandler(
	accounts *service.AccountService,
	sessions *auth.Sessions,
	github *auth.GitHubProvider,
	validator *validate.Validator,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		sessions:  sessions,
		github:    github,
		validator: validator,
		logger:    logger,
	}
}

// HandleRegister creates a user and logs them in.
//
// HTTP: POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in model.RegisterInput
	if err := decode(w, r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.sessions.Begin(w, user.ID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{Message: "Registration successful", User: user.Public()})
}

// HandleLogin authenticates with email and password.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if err := decode(w, r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.sessions.Begin(w, user.ID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Message: "Login successful", User: user.Public()})
}

// HandleLogout ends the session. Calling it without one is harmless.
//
// HTTP: POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// HandleCurrentUser returns the signed-in user, or 401.
//
// HTTP: GET /auth/user
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user.Public()})
}

// HandleGitHubLogin redirects the browser to GitHub's consent page.
//
// HTTP: GET /auth/github/login
//
// The random state is kept in a short-lived HttpOnly cookie and checked on
// the callback, so only flows started here can complete.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("github callback: state mismatch")
		writeMessage(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	// Single use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if denied := r.URL.Query().Get("error"); denied != "" {
		h.logger.Info("github callback: authorization denied", slog.String("error", denied))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeMessage(w, http.StatusBadRequest, "Missing OAuth code")
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		writeMessage(w, http.StatusBadGateway, "GitHub authentication failed")
		return
	}

	user, err := h.accounts.SignInWithGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.sessions.Begin(w, user.ID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
