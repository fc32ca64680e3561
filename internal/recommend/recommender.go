// Package recommend turns free-text shopping queries into product
// recommendations by prompting a language model and parsing its reply.
package recommend

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/llm"
	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
	"github.com/capitalize-ai/telegram-storefront/pkg/metrics"
)

// Outcome labels for the recommendations metric.
const (
	OutcomeUnavailable   = "unavailable"
	OutcomeProviderError = "provider_error"
	OutcomeFound         = "found"
	OutcomeNotFound      = "not_found"
)

// Options configures a Recommender.
type Options struct {
	StoreName   string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Recommender maps (query, products) to a Recommendation. It never returns
// an error; failures degrade to a not-found result with a display message.
type Recommender struct {
	client llm.Client
	opts   Options
	logger *logger.Logger
}

// New creates a Recommender. A nil client yields the unavailable result for
// every query.
func New(client llm.Client, opts Options, log *logger.Logger) *Recommender {
	if opts.StoreName == "" {
		opts.StoreName = "PaketShop.uz"
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}
	return &Recommender{
		client: client,
		opts:   opts,
		logger: log.Named("recommend"),
	}
}

// Recommend asks the model for products matching query. Only in-stock
// products are offered to the model and only their ids can come back.
func (r *Recommender) Recommend(ctx context.Context, query string, products []model.Product) model.Recommendation {
	ctx, span := otel.Tracer("recommend").Start(ctx, "recommend.query")
	defer span.End()

	candidates := Candidates(products)
	span.SetAttributes(attribute.Int("recommend.candidates", len(candidates)))

	if r.client == nil {
		metrics.RecommendationsTotal.WithLabelValues(OutcomeUnavailable).Inc()
		return degraded(MessageUnavailable)
	}

	prompt, err := BuildPrompt(r.opts.StoreName, candidates, query)
	if err != nil {
		r.logger.Error("failed to build prompt", zap.Error(err))
		metrics.RecommendationsTotal.WithLabelValues(OutcomeProviderError).Inc()
		return degraded(MessageProviderError)
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Messages:    llm.UserMessage(prompt),
		MaxTokens:   r.opts.MaxTokens,
		Temperature: r.opts.Temperature,
	})
	if err != nil {
		metrics.RecordLLMCall(r.client.Name(), "error", time.Since(start).Seconds(), 0, 0)
		metrics.RecommendationsTotal.WithLabelValues(OutcomeProviderError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		r.logger.Error("completion failed", zap.String("provider", r.client.Name()), zap.Error(err))
		return degraded(MessageProviderError)
	}
	metrics.RecordLLMCall(r.client.Name(), "ok", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	r.logger.Debug("model reply",
		zap.String("provider", r.client.Name()),
		zap.String("model", resp.Model),
		zap.Int64("latency_ms", resp.LatencyMs),
		zap.String("reply", resp.Content),
	)

	rec := ParseReply(resp.Content, candidates)
	outcome := OutcomeFound
	if rec.NotFound {
		outcome = OutcomeNotFound
	}
	metrics.RecommendationsTotal.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.Int("recommend.results", len(rec.ProductIDs)))

	return rec
}

func degraded(message string) model.Recommendation {
	return model.Recommendation{ProductIDs: []int64{}, Message: message, NotFound: true}
}
