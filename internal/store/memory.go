package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// Memory is an in-process store for carts, users and chat history. It is
// used when no database is configured and in tests; contents are lost on
// restart.
type Memory struct {
	mu            sync.RWMutex
	cart          map[string]*model.CartItem
	users         map[string]*model.User
	conversations []model.Conversation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		cart:  make(map[string]*model.CartItem),
		users: make(map[string]*model.User),
	}
}

// ListCart returns the user's lines in insertion order.
func (m *Memory) ListCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]model.CartItem, 0)
	for _, it := range m.cart {
		if it.UserID == userID {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// AddCartItem inserts a line or merges into the user's existing line for
// the same product.
func (m *Memory) AddCartItem(ctx context.Context, item model.CartItem) (*model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for _, it := range m.cart {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			it.Quantity += item.Quantity
			it.UpdatedAt = now
			out := *it
			return &out, nil
		}
	}

	item.ID = uuid.Must(uuid.NewV7()).String()
	item.CreatedAt = now
	item.UpdatedAt = now
	stored := item
	m.cart[item.ID] = &stored
	return &item, nil
}

// GetCartItem returns a line by id, or model.ErrNotFound.
func (m *Memory) GetCartItem(ctx context.Context, id string) (*model.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.cart[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *it
	return &out, nil
}

// UpdateQuantity sets a line's quantity.
func (m *Memory) UpdateQuantity(ctx context.Context, id string, quantity int) (*model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.cart[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	it.Quantity = quantity
	it.UpdatedAt = time.Now().UTC()
	out := *it
	return &out, nil
}

// DeleteCartItem removes a line if present.
func (m *Memory) DeleteCartItem(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.cart, id)
	m.mu.Unlock()
	return nil
}

// ClearCart removes every line of the user.
func (m *Memory) ClearCart(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, it := range m.cart {
		if it.UserID == userID {
			delete(m.cart, id)
		}
	}
	return nil
}

// UpsertUser creates or refreshes a user keyed by Telegram id.
func (m *Memory) UpsertUser(ctx context.Context, u model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.users[u.TelegramID]; ok {
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		existing.Username = u.Username
		out := *existing
		return &out, nil
	}

	u.ID = uuid.Must(uuid.NewV7()).String()
	u.CreatedAt = time.Now().UTC()
	stored := u
	m.users[u.TelegramID] = &stored
	return &u, nil
}

// SaveConversation appends a record.
func (m *Memory) SaveConversation(ctx context.Context, c *model.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV7()).String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.RecommendedProducts == nil {
		c.RecommendedProducts = []int64{}
	}

	m.mu.Lock()
	m.conversations = append(m.conversations, *c)
	m.mu.Unlock()
	return nil
}

// ListConversations returns the user's most recent records, newest first.
func (m *Memory) ListConversations(ctx context.Context, userID string, limit int) ([]model.Conversation, error) {
	if limit <= 0 {
		return []model.Conversation{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Conversation, 0, limit)
	for i := len(m.conversations) - 1; i >= 0 && len(out) < limit; i-- {
		if m.conversations[i].UserID == userID {
			out = append(out, m.conversations[i])
		}
	}
	return out, nil
}
