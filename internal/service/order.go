package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
	"github.com/capitalize-ai/telegram-storefront/pkg/metrics"
)

// OrderService validates stock and places orders.
type OrderService struct {
	catalog Catalog
	carts   CartStore
	events  EventPublisher
	logger  *logger.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(catalog Catalog, carts CartStore, events EventPublisher, log *logger.Logger) *OrderService {
	return &OrderService{
		catalog: catalog,
		carts:   carts,
		events:  events,
		logger:  log.Named("orders"),
	}
}

// Submit places an order. Stock is checked live for every line first and
// the whole order is rejected if any line cannot be fulfilled. The user's
// cart is cleared only after the order exists upstream; a failed clear
// leaves a stale cart but does not fail the order.
func (s *OrderService) Submit(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "order.submit")
	defer span.End()

	if err := validateOrder(req); err != nil {
		metrics.OrdersTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	span.SetAttributes(attribute.Int("order.lines", len(req.CartItems)))

	lines := mergeLines(req.CartItems)
	if err := s.checkStock(ctx, lines); err != nil {
		var stockErr *model.StockError
		if errors.As(err, &stockErr) {
			metrics.OrdersTotal.WithLabelValues("out_of_stock").Inc()
			s.logger.Info("order rejected by stock check",
				zap.Int64("product_id", stockErr.ProductID),
				zap.String("reason", string(stockErr.Reason)),
			)
		} else {
			metrics.OrdersTotal.WithLabelValues("error").Inc()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock check failed")
		return nil, err
	}

	order, err := s.catalog.CreateOrder(ctx, &model.OrderDraft{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		Lines:           lines,
	})
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))

	cleared := false
	if req.UserID != "" {
		if err := s.carts.ClearCart(ctx, req.UserID); err != nil {
			s.logger.Error("order created but cart not cleared",
				zap.Int64("order_id", order.ID),
				zap.String("user_id", req.UserID),
				zap.Error(err),
			)
		} else {
			cleared = true
		}
	}

	event := &model.OrderCreatedEvent{
		ID:          uuid.Must(uuid.NewV7()).String(),
		OrderID:     order.ID,
		OrderNumber: order.Number,
		UserID:      req.UserID,
		Lines:       lines,
		CartCleared: cleared,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, model.EventOrderCreated, event.ID, event); err != nil {
		s.logger.Warn("failed to publish order event", zap.Int64("order_id", order.ID), zap.Error(err))
	}

	metrics.OrdersTotal.WithLabelValues("created").Inc()
	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.Number),
		zap.Int("lines", len(lines)),
	)

	return &model.CreateOrderResponse{
		Success:     true,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Order:       order,
	}, nil
}

func validateOrder(req *model.CreateOrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerPhone) == "" ||
		strings.TrimSpace(req.CustomerAddress) == "" ||
		len(req.CartItems) == 0 {
		return model.NewValidationError("", MsgRequiredFields)
	}
	for _, it := range req.CartItems {
		if it.ProductID <= 0 || it.Quantity < 1 {
			return model.NewValidationError("cartItems", MsgInvalidCartItem)
		}
	}
	return nil
}

// mergeLines sums quantities of repeated products, keeping first-seen order.
func mergeLines(items []model.OrderLine) []model.OrderLine {
	out := make([]model.OrderLine, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

func (s *OrderService) checkStock(ctx context.Context, lines []model.OrderLine) error {
	for _, line := range lines {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return &model.StockError{ProductID: line.ProductID, Reason: model.StockUnavailable, Requested: line.Quantity}
			}
			return err
		}
		if product.StockStatus == model.StockOutOfStock {
			return &model.StockError{
				ProductID:   line.ProductID,
				ProductName: product.Name,
				Reason:      model.StockUnavailable,
				Requested:   line.Quantity,
			}
		}
		if product.StockQuantity != nil && *product.StockQuantity < line.Quantity {
			return &model.StockError{
				ProductID:   line.ProductID,
				ProductName: product.Name,
				Reason:      model.StockInsufficient,
				Requested:   line.Quantity,
				Available:   *product.StockQuantity,
			}
		}
	}
	return nil
}
