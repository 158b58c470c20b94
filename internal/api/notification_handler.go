package api

import (
	"encoding/json"
	"net/http"

	"machflow/internal/concurrent"
	"machflow/pkg/logger"
)

// NotificationHandler serves the still-live toast notifications so a client
// can poll instead of holding a subscription.
type NotificationHandler struct {
	dispatcher *concurrent.Dispatcher
	logger     logger.Logger
}

func NewNotificationHandler(dispatcher *concurrent.Dispatcher, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *NotificationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.dispatcher.Recent())
}

func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notifications", h.Recent)
}
