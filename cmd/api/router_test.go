package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/telegram-storefront/internal/handler"
	"github.com/capitalize-ai/telegram-storefront/internal/middleware"
	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/internal/nats"
	"github.com/capitalize-ai/telegram-storefront/internal/service"
	"github.com/capitalize-ai/telegram-storefront/internal/store"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

type emptyCatalog struct{}

func (emptyCatalog) ListProducts(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	return []model.Product{}, nil
}

func (emptyCatalog) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return nil, model.ErrNotFound
}

func (emptyCatalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	return []model.Category{}, nil
}

func (emptyCatalog) CreateOrder(ctx context.Context, draft *model.OrderDraft) (*model.Order, error) {
	return nil, model.ErrNotFound
}

func newTestRouter(t *testing.T, authRequired bool, webhook http.Handler) http.Handler {
	t.Helper()
	log := logger.Nop()
	mem := store.NewMemory()

	return newRouter(routerConfig{
		health:        handler.NewHealthHandler(nil),
		products:      handler.NewProductHandler(emptyCatalog{}, log),
		carts:         handler.NewCartHandler(service.NewCartService(mem, log), log),
		orders:        handler.NewOrderHandler(service.NewOrderService(emptyCatalog{}, mem, nats.Noop{}, log), log),
		conversations: handler.NewConversationHandler(service.NewConversationService(mem, log), log),
		webhook:       webhook,
		jwtSecret:     "router-secret",
		authRequired:  authRequired,
		rateLimit:     1000,
		rateWindow:    time.Minute,
	}, log)
}

func serve(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestRouter(t, false, nil)

	for _, path := range []string{"/health", "/ready", "/api/health", "/metrics", "/api/products", "/api/categories", "/api/cart/42", "/api/conversations/42"} {
		rec := serve(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := serve(r, http.MethodGet, "/api/products/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodPost, "/api/auth/telegram", `{}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, http.MethodPost, "/telegram/webhook", `{}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AuthRequired(t *testing.T) {
	r := newTestRouter(t, true, nil)

	rec := serve(r, http.MethodGet, "/api/cart/42", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	token, _, err := middleware.IssueToken("router-secret", model.TelegramUser{ID: 42}, time.Hour)
	require.NoError(t, err)

	rec = serve(r, http.MethodGet, "/api/cart/42", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, http.MethodGet, "/api/cart/43", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(r, http.MethodGet, "/api/conversations/43", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_WebhookMounted(t *testing.T) {
	called := false
	r := newTestRouter(t, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := serve(r, http.MethodPost, "/telegram/webhook", `{"update_id":1}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRouter_SecurityAndCorrelationHeaders(t *testing.T) {
	r := newTestRouter(t, false, nil)

	rec := serve(r, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
