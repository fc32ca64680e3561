package service

import (
	"context"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// ConversationService reads and appends chat history.
type ConversationService struct {
	store  ConversationStore
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(store ConversationStore, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:  store,
		logger: log.Named("conversations"),
	}
}

// Recent returns the user's latest records, newest first. Out-of-range
// limits fall back to the default or are capped.
func (s *ConversationService) Recent(ctx context.Context, userID string, limit int) ([]model.Conversation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.store.ListConversations(ctx, userID, limit)
}

// Record appends a chat turn.
func (s *ConversationService) Record(ctx context.Context, c *model.Conversation) error {
	return s.store.SaveConversation(ctx, c)
}
