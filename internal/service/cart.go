package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
	"github.com/capitalize-ai/telegram-storefront/pkg/metrics"
)

// Localized validation messages.
const (
	MsgQuantityTooLow  = "Miqdor 1 dan kam bo'lmasligi kerak"
	MsgInvalidProduct  = "Mahsulot noto'g'ri ko'rsatilgan"
	MsgMissingUserID   = "Foydalanuvchi ko'rsatilmagan"
	MsgRequiredFields  = "Barcha maydonlarni to'ldiring"
	MsgInvalidCartItem = "Savatdagi mahsulot noto'g'ri"
)

// CartService handles cart operations.
type CartService struct {
	store  CartStore
	logger *logger.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store CartStore, log *logger.Logger) *CartService {
	return &CartService{
		store:  store,
		logger: log.Named("cart"),
	}
}

// List returns the user's cart lines.
func (s *CartService) List(ctx context.Context, userID string) ([]model.CartItem, error) {
	return s.store.ListCart(ctx, userID)
}

// Summary returns the user's cart with its item count and total.
func (s *CartService) Summary(ctx context.Context, userID string) (*model.CartSummary, error) {
	items, err := s.store.ListCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := 0
	total := 0.0
	for _, it := range items {
		count += it.Quantity
		price, err := strconv.ParseFloat(strings.TrimSpace(it.ProductPrice), 64)
		if err != nil {
			s.logger.Warn("unparseable price snapshot",
				zap.String("item_id", it.ID),
				zap.String("price", it.ProductPrice),
			)
			continue
		}
		total += price * float64(it.Quantity)
	}

	return &model.CartSummary{
		Items:     items,
		ItemCount: count,
		Total:     formatAmount(total),
	}, nil
}

// Add puts a product into the user's cart. An absent quantity means one;
// repeated adds of the same product accumulate on one line.
func (s *CartService) Add(ctx context.Context, userID string, req *model.AddCartItemRequest) (*model.CartItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, model.NewValidationError("userId", MsgMissingUserID)
	}
	if req.ProductID <= 0 || strings.TrimSpace(req.ProductName) == "" {
		return nil, model.NewValidationError("productId", MsgInvalidProduct)
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, model.NewValidationError("quantity", MsgQuantityTooLow)
	}

	item, err := s.store.AddCartItem(ctx, model.CartItem{
		UserID:       userID,
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		ProductPrice: req.ProductPrice,
		ProductImage: req.ProductImage,
		Quantity:     quantity,
	})
	if err != nil {
		return nil, err
	}

	metrics.CartOperationsTotal.WithLabelValues("add").Inc()
	return item, nil
}

// UpdateQuantity sets a line's quantity. When ownerID is set the line must
// belong to that user.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID, itemID string, quantity *int) (*model.CartItem, error) {
	if quantity == nil || *quantity < 1 {
		return nil, model.NewValidationError("quantity", MsgQuantityTooLow)
	}
	if err := s.checkOwner(ctx, ownerID, itemID); err != nil {
		return nil, err
	}

	item, err := s.store.UpdateQuantity(ctx, itemID, *quantity)
	if err != nil {
		return nil, err
	}

	metrics.CartOperationsTotal.WithLabelValues("update").Inc()
	return item, nil
}

// Remove deletes a line. Removing an unknown line succeeds.
func (s *CartService) Remove(ctx context.Context, ownerID, itemID string) error {
	if err := s.checkOwner(ctx, ownerID, itemID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.store.DeleteCartItem(ctx, itemID); err != nil {
		return err
	}

	metrics.CartOperationsTotal.WithLabelValues("remove").Inc()
	return nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.store.ClearCart(ctx, userID); err != nil {
		return err
	}

	metrics.CartOperationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// checkOwner hides lines of other users as not found.
func (s *CartService) checkOwner(ctx context.Context, ownerID, itemID string) error {
	if ownerID == "" {
		return nil
	}
	item, err := s.store.GetCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != ownerID {
		return model.ErrNotFound
	}
	return nil
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
