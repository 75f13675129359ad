package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/service"
	"github.com/sakif/sportshub/internal/validate"
)

type feedbackResponse struct {
	Message  string          `json:"message"`
	Feedback *model.Feedback `json:"feedback"`
}

type feedbackListResponse struct {
	Feedback []model.Feedback `json:"feedback"`
}

type FeedbackHandler struct {
	feedback  *service.FeedbackService
	validator *validate.Validator
	logger    *slog.Logger
}

func NewFeedbackHandler(feedback *service.FeedbackService, validator *validate.Validator, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, validator: validator, logger: logger}
}

// HandleSubmit is public. A signed-in caller's id is attached; anonymous
// submissions are stored without one.
//
// HTTP: POST /feedback
func (h *FeedbackHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var in model.FeedbackInput
	if err := decode(w, r, h.validator, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var userID *int64
	if user, ok := auth.UserFromContext(r.Context()); ok {
		userID = &user.ID
	}

	f, err := h.feedback.Submit(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, feedbackResponse{Message: "Thank you for your feedback", Feedback: f})
}

// HTTP: GET /admin/feedback
func (h *FeedbackHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.feedback.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackListResponse{Feedback: list})
}

// HTTP: DELETE /admin/feedback/{id}
func (h *FeedbackHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.feedback.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Feedback deleted")
}
