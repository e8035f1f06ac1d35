package handler

import (
	"errors"
	"net/http"

	"github.com/skillswap/skillswap-go/internal/middleware"
	"github.com/skillswap/skillswap-go/internal/service"
)

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// HandleList handles GET /api/v1/notifications requests.
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)

	resp, err := h.service.List(r.Context(), user, skip, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUnreadCount handles GET /api/v1/notifications/unread-count requests.
func (h *NotificationHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	count, err := h.service.UnreadCount(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"unread_count": count})
}

// HandleMarkRead handles PUT /api/v1/notifications/{notification_id}/read requests.
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	notificationID, ok := pathID(w, r, "notification_id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), user, notificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}
