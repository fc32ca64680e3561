package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

// WebhookPath is where the webhook handler is mounted.
const WebhookPath = "/telegram/webhook"

// Options configures the bot transport. An empty WebhookURL selects long polling.
type Options struct {
	Token         string
	WebhookURL    string
	WebhookSecret string
}

// Bot connects a Handler to the Telegram Bot API.
type Bot struct {
	api    *tgbot.Bot
	opts   Options
	logger *logger.Logger
}

// New creates a bot. It calls getMe to verify the token.
func New(opts Options, handler *Handler, log *logger.Logger) (*Bot, error) {
	if opts.Token == "" {
		return nil, errors.New("telegram bot token is required")
	}

	botOpts := []tgbot.Option{
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			handler.Handle(ctx, b, update)
		}),
	}
	if opts.WebhookSecret != "" {
		botOpts = append(botOpts, tgbot.WithWebhookSecretToken(opts.WebhookSecret))
	}

	api, err := tgbot.New(opts.Token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Bot{
		api:    api,
		opts:   opts,
		logger: log.Named("bot"),
	}, nil
}

// UsesWebhook reports whether updates arrive over the webhook.
func (b *Bot) UsesWebhook() bool {
	return b.opts.WebhookURL != ""
}

// WebhookHandler receives webhook updates. Only meaningful in webhook mode.
func (b *Bot) WebhookHandler() http.Handler {
	return b.api.WebhookHandler()
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if b.UsesWebhook() {
		if _, err := b.api.SetWebhook(ctx, &tgbot.SetWebhookParams{
			URL:         b.opts.WebhookURL,
			SecretToken: b.opts.WebhookSecret,
		}); err != nil {
			return fmt.Errorf("failed to set webhook: %w", err)
		}
		b.logger.Info("telegram bot started", zap.String("mode", "webhook"))
		b.api.StartWebhook(ctx)
		return nil
	}

	if _, err := b.api.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{}); err != nil {
		b.logger.Warn("failed to delete webhook", zap.Error(err))
	}
	b.logger.Info("telegram bot started", zap.String("mode", "polling"))
	b.api.Start(ctx)
	return nil
}
