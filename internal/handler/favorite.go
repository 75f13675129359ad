package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/service"
	"github.com/sakif/sportshub/internal/validate"
)

type favoriteResponse struct {
	Message  string          `json:"message"`
	Favorite *model.Favorite `json:"favorite"`
}

type favoritesResponse struct {
	Favorites []model.FavoriteWithMatch `json:"favorites"`
}

// FavoriteHandler manages the caller's favorite matches. Routes sit behind
// auth.RequireAuth.
type FavoriteHandler struct {
	favorites *service.FavoriteService
	validator *validate.Validator
	logger    *slog.Logger
}

func NewFavoriteHandler(favorites *service.FavoriteService, validator *validate.Validator, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, validator: validator, logger: logger}
}

// HTTP: GET /favorites
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	favs, err := h.favorites.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: favs})
}

// HTTP: POST /favorites {"matchId": 3}
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var in model.FavoriteInput
	if err := decode(w, r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	f, err := h.favorites.Add(r.Context(), user.ID, in.MatchID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, favoriteResponse{Message: "Added to favorites", Favorite: f})
}

// HTTP: DELETE /favorites/{matchId}
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	matchID, err := pathID(r, "matchId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.favorites.Remove(r.Context(), user.ID, matchID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Removed from favorites")
}
