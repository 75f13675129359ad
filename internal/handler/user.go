package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/service"
	"github.com/sakif/sportshub/internal/validate"
)

// UserHandler serves the signed-in user's own account. Both routes sit
// behind auth.RequireAuth.
type UserHandler struct {
	accounts  *service.AccountService
	sessions  *auth.Sessions
	validator *validate.Validator
	logger    *slog.Logger
}

func NewUserHandler(accounts *service.AccountService, sessions *auth.Sessions, validator *validate.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, sessions: sessions, validator: validator, logger: logger}
}

// HandleUpdateProfile applies a partial profile update. A "role" key in the
// body is ignored: ProfileInput has no such field.
//
// HTTP: PUT /users/profile
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	var in model.ProfileInput
	if err := decode(w, r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), current.ID, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Message: "Profile updated", User: user.Public()})
}

// HandleDeleteAccount deletes the caller and their favorites and
// notifications, then ends the session.
//
// HTTP: DELETE /users/account
func (h *UserHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	if err := h.accounts.DeleteAccount(r.Context(), current.ID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.sessions.EndAll(w, r, current.ID)

	writeMessage(w, http.StatusOK, "Account deleted")
}
