// Package service provides business logic for the storefront.
package service

import (
	"context"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// Catalog is the commerce backend.
type Catalog interface {
	ListProducts(ctx context.Context, q model.ProductQuery) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateOrder(ctx context.Context, draft *model.OrderDraft) (*model.Order, error)
}

// CartStore persists cart lines.
type CartStore interface {
	ListCart(ctx context.Context, userID string) ([]model.CartItem, error)
	AddCartItem(ctx context.Context, item model.CartItem) (*model.CartItem, error)
	GetCartItem(ctx context.Context, id string) (*model.CartItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (*model.CartItem, error)
	DeleteCartItem(ctx context.Context, id string) error
	ClearCart(ctx context.Context, userID string) error
}

// UserStore persists Telegram users.
type UserStore interface {
	UpsertUser(ctx context.Context, u model.User) (*model.User, error)
}

// ConversationStore persists chat history.
type ConversationStore interface {
	SaveConversation(ctx context.Context, c *model.Conversation) error
	ListConversations(ctx context.Context, userID string, limit int) ([]model.Conversation, error)
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType model.EventType, id string, payload interface{}) error
}

// Recommender maps a query to recommended products.
type Recommender interface {
	Recommend(ctx context.Context, query string, products []model.Product) model.Recommendation
}
