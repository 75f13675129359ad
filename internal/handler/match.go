package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/service"
	"github.com/sakif/sportshub/internal/validate"
)

type matchResponse struct {
	Message string       `json:"message,omitempty"`
	Match   *model.Match `json:"match"`
}

type matchesResponse struct {
	Matches []model.Match `json:"matches"`
}

// matchQuery is the query string of GET /matches.
type matchQuery struct {
	SportType string `json:"sportType" validate:"omitempty,oneof=football cricket"`
	Status    string `json:"status"    validate:"omitempty,oneof=upcoming live completed"`
}

// MatchHandler serves the public match listing and the admin match CRUD.
type MatchHandler struct {
	matches   *service.MatchService
	validator *validate.Validator
	logger    *slog.Logger
}

func NewMatchHandler(matches *service.MatchService, validator *validate.Validator, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{matches: matches, validator: validator, logger: logger}
}

// HandleList returns matches, newest kick-off first.
//
// HTTP: GET /matches?sportType=cricket&status=live
func (h *MatchHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := matchQuery{
		SportType: r.URL.Query().Get("sportType"),
		Status:    r.URL.Query().Get("status"),
	}
	if err := h.validator.Struct(q); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	matches, err := h.matches.List(r.Context(), model.MatchFilter{
		SportType: model.SportType(q.SportType),
		Status:    model.MatchStatus(q.Status),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches})
}

// HTTP: GET /matches/{id}
func (h *MatchHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	m, err := h.matches.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Match: m})
}

// HTTP: POST /admin/matches
func (h *MatchHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.MatchInput
	if err := decode(w, r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	m, err := h.matches.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, matchResponse{Message: "Match created", Match: m})
}

// HandleUpdate applies a partial update; typically a score or status change
// during a game.
//
// HTTP: PUT /admin/matches/{id}
func (h *MatchHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var in model.MatchUpdateInput
	if err := decode(w, r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	m, err := h.matches.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Message: "Match updated", Match: m})
}

// HandleDelete removes a match along with every favorite of it.
//
// HTTP: DELETE /admin/matches/{id}
func (h *MatchHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.matches.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Match deleted")
}
