// Package config provides environment configuration for the storefront service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	Env                string

	// Database settings
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	// WooCommerce settings
	WooCommerceURL            string
	WooCommerceConsumerKey    string
	WooCommerceConsumerSecret string
	WooCommerceTimeout        time.Duration

	// LLM settings
	LLMProvider          string
	LLMModel             string
	LLMTimeout           time.Duration
	GeminiAPIKey         string
	AnthropicAPIKey      string
	OpenAIAPIKey         string
	RecommendCatalogSize int
	StoreName            string

	// Telegram settings
	TelegramBotToken      string
	WebAppURL             string
	TelegramWebhookURL    string
	TelegramWebhookSecret string
	InitDataMaxAge        time.Duration

	// Redis settings
	RedisURL string
	DedupTTL time.Duration

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// JWT settings
	JWTSecret     string
	JWTExpiration time.Duration
	AuthRequired  bool

	// HTTP
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory, when present, is loaded first without overriding
// variables that are already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
		Env:                getEnv("ENV", "production"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBMaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),

		// WooCommerce
		WooCommerceURL:            strings.TrimSuffix(getEnv("WOOCOMMERCE_URL", "https://paketshop.uz"), "/"),
		WooCommerceConsumerKey:    getEnv("WOOCOMMERCE_CONSUMER_KEY", ""),
		WooCommerceConsumerSecret: getEnv("WOOCOMMERCE_CONSUMER_SECRET", ""),
		WooCommerceTimeout:        getDurationEnv("WOOCOMMERCE_TIMEOUT", 10*time.Second),

		// LLM
		LLMProvider:          getEnv("LLM_PROVIDER", "gemini"),
		LLMModel:             getEnv("LLM_MODEL", ""),
		LLMTimeout:           getDurationEnv("LLM_TIMEOUT", 30*time.Second),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey:      getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		RecommendCatalogSize: getIntEnv("RECOMMEND_CATALOG_SIZE", 50),
		StoreName:            getEnv("STORE_NAME", "PaketShop.uz"),

		// Telegram
		TelegramBotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebAppURL:             getEnv("WEB_APP_URL", "http://localhost:5173"),
		TelegramWebhookURL:    getEnv("TELEGRAM_WEBHOOK_URL", ""),
		TelegramWebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		InitDataMaxAge:        getDurationEnv("INIT_DATA_MAX_AGE", 24*time.Hour),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),
		DedupTTL: getDurationEnv("DEDUP_TTL", 24*time.Hour),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret:     getEnv("JWT_SECRET", "development-secret-change-in-production"),
		JWTExpiration: getDurationEnv("JWT_EXPIRATION", 24*time.Hour),
		AuthRequired:  getBoolEnv("AUTH_REQUIRED", false),

		// HTTP
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS"),
		RateLimitRequests:  getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:    getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// LLMAPIKey returns the key for the configured provider.
func (c *Config) LLMAPIKey() string {
	switch strings.ToLower(c.LLMProvider) {
	case "anthropic":
		return c.AnthropicAPIKey
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
