package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/capitalize-ai/telegram-storefront/internal/middleware"
	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/internal/service"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

// CartHandler handles cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *logger.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(svc *service.CartService, log *logger.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  log,
	}
}

// List handles GET /api/cart/:userId
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, MsgCartItemNotFound)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Summary handles GET /api/cart/:userId/summary
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, MsgCartItemNotFound)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Add handles POST /api/cart/:userId
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}

	var req model.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	item, err := h.service.Add(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, MsgCartItemNotFound)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Clear handles DELETE /api/cart/:userId
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		writeServiceError(w, h.logger, err, MsgCartItemNotFound)
		return
	}

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// UpdateItem handles PATCH /api/cart/item/:itemId
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	if err := middleware.ValidateItemID(itemID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	item, err := h.service.UpdateQuantity(r.Context(), middleware.GetUserID(r.Context()), itemID, req.Quantity)
	if err != nil {
		writeServiceError(w, h.logger, err, MsgCartItemNotFound)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// RemoveItem handles DELETE /api/cart/item/:itemId
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	if err := middleware.ValidateItemID(itemID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Remove(r.Context(), middleware.GetUserID(r.Context()), itemID); err != nil {
		writeServiceError(w, h.logger, err, MsgCartItemNotFound)
		return
	}

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

func userParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userId")
	if err := middleware.ValidateUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return userID, true
}
