package handler

import (
	"encoding/json"
	"net/http"

	"github.com/capitalize-ai/telegram-storefront/internal/middleware"
	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/internal/service"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

// OrderHandler handles checkout.
type OrderHandler struct {
	service *service.OrderService
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(svc *service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	// An authenticated caller can only order from their own cart.
	if userID := middleware.GetUserID(ctx); userID != "" {
		req.UserID = userID
	}

	resp, err := h.service.Submit(ctx, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, MsgProductNotFound)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
