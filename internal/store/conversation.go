package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// ConversationRepository stores chat history in Postgres. Records are
// only ever appended.
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a conversation repository.
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// SaveConversation appends a record, filling in id and timestamp when unset.
func (r *ConversationRepository) SaveConversation(ctx context.Context, c *model.Conversation) error {
	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV7()).String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.RecommendedProducts == nil {
		c.RecommendedProducts = []int64{}
	}

	rec := conversationRecord{
		ID:                  c.ID,
		UserID:              c.UserID,
		UserMessage:         c.UserMessage,
		BotResponse:         c.BotResponse,
		RecommendedProducts: c.RecommendedProducts,
		CreatedAt:           c.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// ListConversations returns the user's most recent records, newest first.
func (r *ConversationRepository) ListConversations(ctx context.Context, userID string, limit int) ([]model.Conversation, error) {
	var recs []conversationRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	out := make([]model.Conversation, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}
