// Package catalog is the gateway to the WooCommerce REST API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
	"github.com/capitalize-ai/telegram-storefront/pkg/logger"
	"github.com/capitalize-ai/telegram-storefront/pkg/metrics"
)

const (
	apiPath = "/wp-json/wc/v3"

	// productFields limits the product payload to what the storefront renders.
	productFields = "id,name,price,regular_price,sale_price,description,short_description,images,categories,stock_status,stock_quantity"

	defaultPerPage = 100
	userAgent      = "telegram-storefront/1.0"
)

// Order annotations sent with every order.
const (
	PaymentMethod      = "cod"
	PaymentMethodTitle = "Yetkazib berganda to'lash"
	OrderStatus        = "on-hold"
	OrderSourceKey     = "_order_source"
	OrderSourceValue   = "Telegram Bot - AI Assistant"
)

// Config holds WooCommerce connection settings.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
}

// Client is the WooCommerce gateway. Every call is a single request bounded
// by the configured timeout; nothing is retried or cached.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string
	logger     *logger.Logger
}

// New creates a WooCommerce client.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("woocommerce base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: cfg.BaseURL,
		key:     cfg.ConsumerKey,
		secret:  cfg.ConsumerSecret,
		logger:  log.Named("catalog"),
	}, nil
}

// ListProducts returns published products matching q.
func (c *Client) ListProducts(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	params := url.Values{}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("status", "publish")
	params.Set("_fields", productFields)
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}

	var products []model.Product
	if err := c.do(ctx, "list_products", http.MethodGet, "/products", params, nil, &products, false); err != nil {
		return nil, err
	}

	for i := range products {
		normalizeProduct(&products[i])
	}
	return products, nil
}

// GetProduct returns a single product, or model.ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	params := url.Values{}
	params.Set("_fields", productFields)

	var product model.Product
	if err := c.do(ctx, "get_product", http.MethodGet, "/products/"+strconv.FormatInt(id, 10), params, nil, &product, true); err != nil {
		return nil, err
	}

	normalizeProduct(&product)
	return &product, nil
}

// ListCategories returns non-empty product categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(defaultPerPage))
	params.Set("hide_empty", "true")

	var categories []model.Category
	if err := c.do(ctx, "list_categories", http.MethodGet, "/products/categories", params, nil, &categories, false); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateOrder creates a pay-on-delivery order. Stock is not checked here.
func (c *Client) CreateOrder(ctx context.Context, draft *model.OrderDraft) (*model.Order, error) {
	address := wooAddress{
		FirstName: draft.CustomerName,
		Phone:     draft.CustomerPhone,
		Address1:  draft.CustomerAddress,
	}

	lines := make([]wooLineItem, len(draft.Lines))
	for i, l := range draft.Lines {
		lines[i] = wooLineItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	payload := wooOrderRequest{
		Status:             OrderStatus,
		PaymentMethod:      PaymentMethod,
		PaymentMethodTitle: PaymentMethodTitle,
		SetPaid:            false,
		Billing:            address,
		Shipping:           address,
		LineItems:          lines,
		MetaData: []wooMeta{
			{Key: OrderSourceKey, Value: OrderSourceValue},
		},
	}

	var order model.Order
	if err := c.do(ctx, "create_order", http.MethodPost, "/orders", nil, payload, &order, false); err != nil {
		return nil, err
	}

	c.logger.Info("order created", zap.Int64("order_id", order.ID), zap.String("order_number", order.Number))
	return &order, nil
}

// do performs one API call. A 404 is model.ErrNotFound only when
// missingOnNotFound is set; elsewhere it means a broken route upstream.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out interface{}, missingOnNotFound bool) error {
	ctx, span := otel.Tracer("catalog").Start(ctx, "woocommerce."+op)
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("woocommerce.path", path))

	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordCatalogCall(op, status, time.Since(start).Seconds())
	}()

	endpoint := c.baseURL + apiPath + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s request: %w", op, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", op, err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		c.logger.Error("woocommerce request failed", zap.String("operation", op), zap.Error(err))
		return &model.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return &model.UpstreamError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound && missingOnNotFound {
		return model.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		apiErr := parseError(resp.StatusCode, respBody)
		span.SetStatus(codes.Error, apiErr.Error())
		c.logger.Error("woocommerce returned an error",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.String("response", truncate(string(respBody), 512)),
		)
		return &model.UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: apiErr}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		span.RecordError(err)
		return &model.UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}

func parseError(statusCode int, body []byte) error {
	var wcErr wooError
	_ = json.Unmarshal(body, &wcErr)
	if wcErr.Message != "" {
		return fmt.Errorf("%s: %s", wcErr.Code, wcErr.Message)
	}
	return fmt.Errorf("unexpected status %d", statusCode)
}

// normalizeProduct fills the gaps WooCommerce leaves for partially set up products.
func normalizeProduct(p *model.Product) {
	if p.Images == nil {
		p.Images = []model.Image{}
	}
	if p.Categories == nil {
		p.Categories = []model.CategoryRef{}
	}
	if p.Price == "" {
		if p.SalePrice != "" {
			p.Price = p.SalePrice
		} else {
			p.Price = p.RegularPrice
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
