package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// CartRepository stores cart lines in Postgres.
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a cart repository.
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ListCart returns the user's lines in insertion order.
func (r *CartRepository) ListCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	var recs []cartItemRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}

	items := make([]model.CartItem, len(recs))
	for i := range recs {
		items[i] = recs[i].toModel()
	}
	return items, nil
}

// AddCartItem inserts a line or, when the user already has the product,
// adds to its quantity in the same statement. The stored line is returned.
func (r *CartRepository) AddCartItem(ctx context.Context, item model.CartItem) (*model.CartItem, error) {
	now := time.Now().UTC()
	rec := cartItemRecord{
		ID:           uuid.Must(uuid.NewV7()).String(),
		UserID:       item.UserID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductPrice: item.ProductPrice,
		ProductImage: item.ProductImage,
		Quantity:     item.Quantity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var stored cartItemRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
				"updated_at": now,
			}),
		}).Create(&rec).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(&stored).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	out := stored.toModel()
	return &out, nil
}

// GetCartItem returns a line by id, or model.ErrNotFound.
func (r *CartRepository) GetCartItem(ctx context.Context, id string) (*model.CartItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrNotFound
	}

	var rec cartItemRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	out := rec.toModel()
	return &out, nil
}

// UpdateQuantity sets a line's quantity. Concurrent updates are last-write-wins.
func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (*model.CartItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrNotFound
	}

	res := r.db.WithContext(ctx).Model(&cartItemRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, model.ErrNotFound
	}

	return r.GetCartItem(ctx, id)
}

// DeleteCartItem removes a line. Removing a missing line is not an error.
func (r *CartRepository) DeleteCartItem(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&cartItemRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// ClearCart removes every line of the user.
func (r *CartRepository) ClearCart(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&cartItemRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
