package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/service"
)

type notificationResponse struct {
	Notification *model.Notification `json:"notification"`
}

type notificationsResponse struct {
	Message       string               `json:"message,omitempty"`
	Notifications []model.Notification `json:"notifications"`
}

// NotificationHandler serves the caller's notifications. Routes sit behind
// auth.RequireAuth.
type NotificationHandler struct {
	notifications *service.NotificationService
	logger        *slog.Logger
}

func NewNotificationHandler(notifications *service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// HTTP: GET /notifications
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	list, err := h.notifications.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: list})
}

// HTTP: PUT /notifications/{id}/read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	n, err := h.notifications.MarkRead(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationResponse{Notification: n})
}

// HandleCheckUpcoming creates due reminders for the caller's favorites and
// returns only the ones created by this call.
//
// HTTP: POST /notifications/check-upcoming
func (h *NotificationHandler) HandleCheckUpcoming(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	created, err := h.notifications.CheckUpcoming(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationsResponse{
		Message:       "Checked upcoming matches",
		Notifications: created,
	})
}

// HTTP: DELETE /notifications/{id}
func (h *NotificationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.notifications.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification deleted")
}
