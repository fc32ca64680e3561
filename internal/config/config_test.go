package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("WOOCOMMERCE_TIMEOUT", "")
	t.Setenv("RECOMMEND_CATALOG_SIZE", "")
	t.Setenv("LLM_PROVIDER", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 10*time.Second, cfg.WooCommerceTimeout)
	assert.Equal(t, 50, cfg.RecommendCatalogSize)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.False(t, cfg.AuthRequired)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WOOCOMMERCE_URL", "https://shop.example.com/")
	t.Setenv("WOOCOMMERCE_TIMEOUT", "3s")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, ,https://t.me")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "https://shop.example.com", cfg.WooCommerceURL)
	assert.Equal(t, 3*time.Second, cfg.WooCommerceTimeout)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, []string{"https://shop.example.com", "https://t.me"}, cfg.CORSAllowedOrigins)
}

func TestLLMAPIKey(t *testing.T) {
	cfg := &Config{
		GeminiAPIKey:    "g",
		AnthropicAPIKey: "a",
		OpenAIAPIKey:    "o",
	}

	cfg.LLMProvider = "gemini"
	assert.Equal(t, "g", cfg.LLMAPIKey())
	cfg.LLMProvider = "Anthropic"
	assert.Equal(t, "a", cfg.LLMAPIKey())
	cfg.LLMProvider = "openai"
	assert.Equal(t, "o", cfg.LLMAPIKey())
}
