package store

import (
	"time"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

type cartItemRecord struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID       string    `gorm:"column:user_id;not null"`
	ProductID    int64     `gorm:"column:product_id;not null"`
	ProductName  string    `gorm:"column:product_name;not null"`
	ProductPrice string    `gorm:"column:product_price;not null"`
	ProductImage *string   `gorm:"column:product_image"`
	Quantity     int       `gorm:"column:quantity;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

func (r *cartItemRecord) toModel() model.CartItem {
	return model.CartItem{
		ID:           r.ID,
		UserID:       r.UserID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		ProductPrice: r.ProductPrice,
		ProductImage: r.ProductImage,
		Quantity:     r.Quantity,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type userRecord struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey"`
	TelegramID string    `gorm:"column:telegram_id;not null"`
	FirstName  string    `gorm:"column:first_name"`
	LastName   string    `gorm:"column:last_name"`
	Username   string    `gorm:"column:username"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toModel() *model.User {
	return &model.User{
		ID:         r.ID,
		TelegramID: r.TelegramID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Username:   r.Username,
		CreatedAt:  r.CreatedAt,
	}
}

type conversationRecord struct {
	ID                  string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID              string    `gorm:"column:user_id;not null"`
	UserMessage         string    `gorm:"column:user_message;not null"`
	BotResponse         string    `gorm:"column:bot_response;not null"`
	RecommendedProducts []int64   `gorm:"column:recommended_products;type:jsonb;serializer:json"`
	CreatedAt           time.Time `gorm:"column:created_at"`
}

func (conversationRecord) TableName() string { return "conversation_history" }

func (r *conversationRecord) toModel() model.Conversation {
	ids := r.RecommendedProducts
	if ids == nil {
		ids = []int64{}
	}
	return model.Conversation{
		ID:                  r.ID,
		UserID:              r.UserID,
		UserMessage:         r.UserMessage,
		BotResponse:         r.BotResponse,
		RecommendedProducts: ids,
		CreatedAt:           r.CreatedAt,
	}
}
