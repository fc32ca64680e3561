// Package bot is the Telegram front door of the storefront.
package bot

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
	"github.com/capitalize-ai/telegram-storefront/pkg/metrics"
)

// Sender is the subset of the Bot API the handler calls. *tgbot.Bot
// satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *tgbot.SendPhotoParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *tgbot.SendChatActionParams) (bool, error)
}

// Asker answers a free-text shopping question.
type Asker interface {
	Ask(ctx context.Context, user model.TelegramUser, text string) (*model.ChatReply, error)
}

// Registrar registers a Telegram user.
type Registrar interface {
	Register(ctx context.Context, tu model.TelegramUser) (*model.User, error)
}

// Guard reports whether an update is seen for the first time.
type Guard interface {
	FirstSeen(ctx context.Context, key string) (bool, error)
}

// Handler routes Telegram updates.
type Handler struct {
	chat      Asker
	users     Registrar
	guard     Guard
	keyboards keyboards
	logger    *logger.Logger
}

// NewHandler creates a new update handler.
func NewHandler(chat Asker, users Registrar, guard Guard, webAppURL string, log *logger.Logger) *Handler {
	return &Handler{
		chat:      chat,
		users:     users,
		guard:     guard,
		keyboards: keyboards{webAppURL: webAppURL},
		logger:    log.Named("bot"),
	}
}

// Handle processes one update. Send failures are logged and never retried.
func (h *Handler) Handle(ctx context.Context, s Sender, update *models.Update) {
	msg := update.Message
	if msg == nil {
		metrics.BotUpdatesTotal.WithLabelValues("ignored").Inc()
		return
	}

	first, err := h.guard.FirstSeen(ctx, strconv.FormatInt(update.ID, 10))
	if err != nil {
		h.logger.Warn("dedup check failed, processing update", zap.Int64("update_id", update.ID), zap.Error(err))
	} else if !first {
		metrics.BotUpdatesTotal.WithLabelValues("duplicate").Inc()
		h.logger.Debug("skipping duplicate update", zap.Int64("update_id", update.ID))
		return
	}

	chatID := msg.Chat.ID
	text := msg.Text

	switch {
	case msg.WebAppData != nil:
		metrics.BotUpdatesTotal.WithLabelValues("web_app_data").Inc()
		h.handleWebAppData(ctx, s, chatID, msg.WebAppData.Data)
	case text == "/start" || strings.HasPrefix(text, "/start "):
		metrics.BotUpdatesTotal.WithLabelValues("start").Inc()
		h.handleStart(ctx, s, chatID, msg.From)
	case text == ButtonAssistant:
		metrics.BotUpdatesTotal.WithLabelValues("assistant").Inc()
		h.send(ctx, s, &tgbot.SendMessageParams{ChatID: chatID, Text: assistantPrompt})
	case text == "" || strings.HasPrefix(text, "/"):
		metrics.BotUpdatesTotal.WithLabelValues("ignored").Inc()
	default:
		metrics.BotUpdatesTotal.WithLabelValues("question").Inc()
		h.handleQuestion(ctx, s, chatID, msg.From, text)
	}
}

func (h *Handler) handleStart(ctx context.Context, s Sender, chatID int64, from *models.User) {
	firstName := ""
	if from != nil {
		firstName = from.FirstName
		if _, err := h.users.Register(ctx, telegramUser(from)); err != nil {
			h.logger.Warn("failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		}
	}

	h.send(ctx, s, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        welcomeText(firstName),
		ReplyMarkup: h.keyboards.main(true),
	})
}

func (h *Handler) handleQuestion(ctx context.Context, s Sender, chatID int64, from *models.User, text string) {
	if _, err := s.SendChatAction(ctx, &tgbot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping}); err != nil {
		h.logger.Debug("failed to send typing action", zap.Error(err))
	}

	user := model.TelegramUser{ID: chatID}
	if from != nil {
		user = telegramUser(from)
	}

	reply, err := h.chat.Ask(ctx, user, text)
	if err != nil {
		h.logger.Error("failed to answer question", zap.Int64("chat_id", chatID), zap.Error(err))
		h.send(ctx, s, &tgbot.SendMessageParams{
			ChatID:      chatID,
			Text:        apologyText,
			ReplyMarkup: h.keyboards.catalog(),
		})
		return
	}

	h.send(ctx, s, &tgbot.SendMessageParams{ChatID: chatID, Text: reply.Recommendation.Message})

	if len(reply.Recommendation.ProductIDs) == 0 {
		return
	}

	for _, p := range reply.Products {
		h.sendProduct(ctx, s, chatID, p)
	}

	h.send(ctx, s, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        openAllText,
		ReplyMarkup: h.keyboards.catalog(),
	})
}

func (h *Handler) sendProduct(ctx context.Context, s Sender, chatID int64, p model.Product) {
	caption := productCaption(p)
	markup := h.keyboards.product(p.ID)

	if img := p.FirstImage(); img != "" {
		_, err := s.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: img},
			Caption:     caption,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: markup,
		})
		if err != nil {
			h.logger.Warn("failed to send product photo", zap.Int64("product_id", p.ID), zap.Error(err))
		}
		return
	}

	h.send(ctx, s, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        caption,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	})
}

type webAppPayload struct {
	Type    string          `json:"type"`
	OrderID json.RawMessage `json:"orderId"`
}

func (h *Handler) handleWebAppData(ctx context.Context, s Sender, chatID int64, data string) {
	var payload webAppPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		h.logger.Warn("malformed web app data", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if payload.Type != "order_created" {
		return
	}

	orderID := strings.Trim(string(payload.OrderID), `"`)
	h.logger.Info("order confirmed from web app", zap.Int64("chat_id", chatID), zap.String("order_id", orderID))

	h.send(ctx, s, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        orderConfirmationText(orderID),
		ReplyMarkup: h.keyboards.main(false),
	})
}

func (h *Handler) send(ctx context.Context, s Sender, params *tgbot.SendMessageParams) {
	if _, err := s.SendMessage(ctx, params); err != nil {
		h.logger.Warn("failed to send message", zap.Any("chat_id", params.ChatID), zap.Error(err))
	}
}

func telegramUser(u *models.User) model.TelegramUser {
	return model.TelegramUser{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
	}
}
