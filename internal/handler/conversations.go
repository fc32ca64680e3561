// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"github.com/capitalize-ai/telegram-storefront/internal/service"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

// ConversationHandler handles chat history endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		logger:  log,
	}
}

// List handles GET /api/conversations/:userId
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", service.DefaultHistoryLimit)

	conversations, err := h.service.Recent(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, MsgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, conversations)
}
