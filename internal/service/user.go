package service

import (
	"context"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// UserService registers Telegram users on first contact.
type UserService struct {
	store UserStore
}

// NewUserService creates a new user service.
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// Register finds or creates the user for a Telegram account.
func (s *UserService) Register(ctx context.Context, tu model.TelegramUser) (*model.User, error) {
	return s.store.UpsertUser(ctx, model.User{
		TelegramID: tu.Key(),
		FirstName:  tu.FirstName,
		LastName:   tu.LastName,
		Username:   tu.Username,
	})
}
