package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/telegram-storefront/internal/llm"
	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
)

type fakeLLM struct {
	reply  string
	err    error
	prompt string
	block  bool
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.prompt = req.Messages[len(req.Messages)-1].Content
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply}, nil
}

func phones() []model.Product {
	return []model.Product{
		{ID: 101, Name: "Samsung A15", Price: "2500000", ShortDescription: "6.5\" ekran",
			Categories: []model.CategoryRef{{ID: 1, Name: "Telefonlar"}, {ID: 2, Name: "Samsung"}}, StockStatus: model.StockInStock},
		{ID: 205, Name: "Redmi 13C", Price: "1900000", Description: "Arzon telefon", StockStatus: model.StockInStock},
		{ID: 300, Name: "iPhone 15", Price: "14000000", StockStatus: model.StockOutOfStock},
	}
}

func TestRecommend_CheapPhoneScenario(t *testing.T) {
	client := &fakeLLM{reply: "MAHSULOT ID LARI: [101, 205]\nXABAR: Ikkita arzon telefon bor."}
	r := New(client, Options{StoreName: "PaketShop.uz"}, logger.Nop())

	rec := r.Recommend(context.Background(), "cheap phone under 5 million", phones())

	assert.Equal(t, []int64{101, 205}, rec.ProductIDs)
	assert.False(t, rec.NotFound)
	assert.Equal(t, "Ikkita arzon telefon bor.", rec.Message)
}

func TestRecommend_ApplesScenario(t *testing.T) {
	client := &fakeLLM{reply: "TOPILMADI"}
	r := New(client, Options{}, logger.Nop())

	rec := r.Recommend(context.Background(), "apples", phones())

	assert.Empty(t, rec.ProductIDs)
	assert.True(t, rec.NotFound)
	assert.Equal(t, MessageNotFound, rec.Message)
}

func TestRecommend_OutOfStockIDsAreDropped(t *testing.T) {
	client := &fakeLLM{reply: "MAHSULOT ID LARI: [300, 205]\nXABAR: ok"}
	r := New(client, Options{}, logger.Nop())

	rec := r.Recommend(context.Background(), "telefon", phones())

	assert.Equal(t, []int64{205}, rec.ProductIDs)
}

func TestRecommend_PromptOffersOnlyInStockAndEndsWithQuery(t *testing.T) {
	client := &fakeLLM{reply: "TOPILMADI"}
	r := New(client, Options{StoreName: "Test Shop"}, logger.Nop())

	r.Recommend(context.Background(), "arzon telefon", phones())

	assert.Contains(t, client.prompt, "Test Shop")
	assert.Contains(t, client.prompt, `"id": 101`)
	assert.Contains(t, client.prompt, `"id": 205`)
	assert.NotContains(t, client.prompt, `"id": 300`)
	assert.Contains(t, client.prompt, `"categories": "Telefonlar, Samsung"`)
	assert.Contains(t, client.prompt, `"description": "Arzon telefon"`)
	assert.True(t, strings.HasSuffix(client.prompt, "Mijoz so'rovi: \"arzon telefon\"\n\nJavob:"))
}

func TestRecommend_NoClient(t *testing.T) {
	r := New(nil, Options{}, logger.Nop())

	rec := r.Recommend(context.Background(), "telefon", phones())

	assert.Equal(t, []int64{}, rec.ProductIDs)
	assert.True(t, rec.NotFound)
	assert.Equal(t, MessageUnavailable, rec.Message)
}

func TestRecommend_ProviderErrorIsSwallowed(t *testing.T) {
	r := New(&fakeLLM{err: errors.New("503 overloaded")}, Options{}, logger.Nop())

	rec := r.Recommend(context.Background(), "telefon", phones())

	assert.Empty(t, rec.ProductIDs)
	assert.True(t, rec.NotFound)
	assert.Equal(t, MessageProviderError, rec.Message)
}

func TestRecommend_Timeout(t *testing.T) {
	r := New(&fakeLLM{block: true}, Options{Timeout: 20 * time.Millisecond}, logger.Nop())

	start := time.Now()
	rec := r.Recommend(context.Background(), "telefon", phones())

	require.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, MessageProviderError, rec.Message)
}

func TestBuildPrompt_EmptyCatalog(t *testing.T) {
	prompt, err := BuildPrompt("Shop", nil, "x")
	require.NoError(t, err)
	assert.Contains(t, prompt, "MAVJUD MAHSULOTLAR:\n[]")
}

func TestCandidates(t *testing.T) {
	got := Candidates(phones())
	require.Len(t, got, 2)
	assert.Equal(t, int64(101), got[0].ID)
	assert.Equal(t, int64(205), got[1].ID)
}
