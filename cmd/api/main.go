// Package main is the entry point for the storefront server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/capitalize-ai/telegram-storefront/internal/bot"
	"github.com/capitalize-ai/telegram-storefront/internal/catalog"
	"github.com/capitalize-ai/telegram-storefront/internal/config"
	"github.com/capitalize-ai/telegram-storefront/internal/dedup"
	"github.com/capitalize-ai/telegram-storefront/internal/handler"
	"github.com/capitalize-ai/telegram-storefront/internal/llm"
	natsclient "github.com/capitalize-ai/telegram-storefront/internal/nats"
	"github.com/capitalize-ai/telegram-storefront/internal/recommend"
	"github.com/capitalize-ai/telegram-storefront/internal/service"
	"github.com/capitalize-ai/telegram-storefront/internal/store"
	"github.com/capitalize-ai/telegram-storefront/internal/webapp"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
	"github.com/capitalize-ai/telegram-storefront/pkg/tracing"
)

const serviceName = "telegram-storefront"

// stores groups the persistence backends the services need.
type stores struct {
	carts         service.CartStore
	users         service.UserStore
	conversations service.ConversationStore
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.NewForEnv(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("starting storefront server", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing if enabled
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, serviceName, cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	checks := map[string]handler.Check{}

	// Persistence
	st, db, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer store.Close(db)
		checks["database"] = func(ctx context.Context) error {
			return store.Ping(db)
		}
	}

	// Event stream
	var events service.EventPublisher = natsclient.Noop{}
	if cfg.NATSURL != "" {
		natsClient, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		stream := natsclient.NewEventStream(natsClient, log)
		if err := stream.EnsureStream(ctx); err != nil {
			return fmt.Errorf("failed to ensure stream: %w", err)
		}
		events = stream
		checks["nats"] = func(ctx context.Context) error {
			if !natsClient.IsConnected() {
				return errors.New("not connected")
			}
			return nil
		}
	} else {
		log.Info("NATS_URL not set, events disabled")
	}

	// Commerce backend
	wc, err := catalog.New(catalog.Config{
		BaseURL:        cfg.WooCommerceURL,
		ConsumerKey:    cfg.WooCommerceConsumerKey,
		ConsumerSecret: cfg.WooCommerceConsumerSecret,
		Timeout:        cfg.WooCommerceTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	// Initialize LLM client
	var llmClient llm.Client
	if apiKey := cfg.LLMAPIKey(); apiKey != "" {
		client, err := llm.NewClient(llm.Provider(cfg.LLMProvider), apiKey, cfg.LLMModel)
		if err != nil {
			log.Warn("failed to create LLM client, recommendations disabled", zap.Error(err))
		} else {
			llmClient = client
			log.Info("LLM client ready", zap.String("provider", client.Name()))
		}
	} else {
		log.Warn("no LLM API key configured, recommendations disabled", zap.String("provider", cfg.LLMProvider))
	}

	recommender := recommend.New(llmClient, recommend.Options{
		StoreName: cfg.StoreName,
		Timeout:   cfg.LLMTimeout,
	}, log)

	// Initialize services
	userSvc := service.NewUserService(st.users)
	cartSvc := service.NewCartService(st.carts, log)
	orderSvc := service.NewOrderService(wc, st.carts, events, log)
	conversationSvc := service.NewConversationService(st.conversations, log)
	chatSvc := service.NewChatService(userSvc, wc, recommender, conversationSvc, events, cfg.RecommendCatalogSize, log)

	// Telegram bot
	var tgBot *bot.Bot
	if cfg.TelegramBotToken != "" {
		guard, closeGuard, err := newGuard(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeGuard()
		tgBot, err = bot.New(bot.Options{
			Token:         cfg.TelegramBotToken,
			WebhookURL:    cfg.TelegramWebhookURL,
			WebhookSecret: cfg.TelegramWebhookSecret,
		}, bot.NewHandler(chatSvc, userSvc, guard, cfg.WebAppURL, log), log)
		if err != nil {
			return err
		}
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	routes := routerConfig{
		health:         handler.NewHealthHandler(checks),
		products:       handler.NewProductHandler(wc, log),
		carts:          handler.NewCartHandler(cartSvc, log),
		orders:         handler.NewOrderHandler(orderSvc, log),
		conversations:  handler.NewConversationHandler(conversationSvc, log),
		jwtSecret:      cfg.JWTSecret,
		authRequired:   cfg.AuthRequired,
		rateLimit:      cfg.RateLimitRequests,
		rateWindow:     cfg.RateLimitWindow,
		allowedOrigins: cfg.CORSAllowedOrigins,
	}
	// initData is signed with the bot token, so sessions need one.
	if cfg.TelegramBotToken != "" {
		validator := webapp.NewValidator(cfg.TelegramBotToken, cfg.InitDataMaxAge)
		routes.auth = handler.NewAuthHandler(validator, userSvc, cfg.JWTSecret, cfg.JWTExpiration, log)
	}
	if tgBot != nil && tgBot.UsesWebhook() {
		routes.webhook = tgBot.WebhookHandler()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      newRouter(routes, log),
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 2)

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	if tgBot != nil {
		go func() {
			if err := tgBot.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	// Wait for shutdown signal
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		stop()
	}

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return runErr
}

// openStores connects to Postgres when DATABASE_URL is set, and falls back
// to process memory otherwise. The returned db is nil in memory mode.
func openStores(cfg *config.Config, log *logger.Logger) (*stores, *gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		mem := store.NewMemory()
		return &stores{carts: mem, users: mem, conversations: mem}, nil, nil
	}

	db, err := store.Open(cfg.DatabaseURL, store.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(db); err != nil {
		store.Close(db)
		return nil, nil, err
	}
	log.Info("database ready")

	return &stores{
		carts:         store.NewCartRepository(db),
		users:         store.NewUserRepository(db),
		conversations: store.NewConversationRepository(db),
	}, db, nil
}

// newGuard picks the Redis dedup guard when REDIS_URL is set.
func newGuard(ctx context.Context, cfg *config.Config, log *logger.Logger) (bot.Guard, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, update dedup is per process")
		return dedup.NewMemoryGuard(cfg.DedupTTL), func() {}, nil
	}

	client, err := dedup.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return dedup.NewRedisGuard(client, cfg.DedupTTL), func() { client.Close() }, nil
}
