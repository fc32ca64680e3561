package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

// MaxChatProducts bounds how many recommended products one reply shows.
const MaxChatProducts = 5

// ChatService answers free-text shopping questions.
type ChatService struct {
	users         *UserService
	catalog       Catalog
	recommender   Recommender
	conversations *ConversationService
	events        EventPublisher
	catalogSize   int
	logger        *logger.Logger
}

// NewChatService creates a new chat service. catalogSize is how many
// products are fetched as the recommendation universe.
func NewChatService(
	users *UserService,
	catalog Catalog,
	recommender Recommender,
	conversations *ConversationService,
	events EventPublisher,
	catalogSize int,
	log *logger.Logger,
) *ChatService {
	if catalogSize <= 0 {
		catalogSize = 50
	}
	return &ChatService{
		users:         users,
		catalog:       catalog,
		recommender:   recommender,
		conversations: conversations,
		events:        events,
		catalogSize:   catalogSize,
		logger:        log.Named("chat"),
	}
}

// Ask recommends products for text. Only a catalog failure is returned;
// registration, history and event failures are logged.
func (s *ChatService) Ask(ctx context.Context, user model.TelegramUser, text string) (*model.ChatReply, error) {
	if _, err := s.users.Register(ctx, user); err != nil {
		s.logger.Warn("failed to register user", zap.Int64("telegram_id", user.ID), zap.Error(err))
	}

	products, err := s.catalog.ListProducts(ctx, model.ProductQuery{PerPage: s.catalogSize})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	rec := s.recommender.Recommend(ctx, text, products)

	record := &model.Conversation{
		UserID:              user.Key(),
		UserMessage:         text,
		BotResponse:         rec.Message,
		RecommendedProducts: rec.ProductIDs,
	}
	if err := s.conversations.Record(ctx, record); err != nil {
		s.logger.Warn("failed to save conversation", zap.Int64("telegram_id", user.ID), zap.Error(err))
	}

	event := &model.ConversationRecordedEvent{
		ID:                  uuid.Must(uuid.NewV7()).String(),
		UserID:              user.Key(),
		RecommendedProducts: rec.ProductIDs,
		NotFound:            rec.NotFound,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, model.EventConversationRecorded, event.ID, event); err != nil {
		s.logger.Warn("failed to publish conversation event", zap.Error(err))
	}

	return &model.ChatReply{
		Recommendation: rec,
		Products:       pickProducts(products, rec.ProductIDs, MaxChatProducts),
	}, nil
}

// pickProducts returns the products for ids in id order, at most max.
func pickProducts(products []model.Product, ids []int64, max int) []model.Product {
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]model.Product, 0, max)
	for _, id := range ids {
		if len(out) == max {
			break
		}
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
