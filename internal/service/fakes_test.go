package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

type fakeCatalog struct {
	products   map[int64]model.Product
	listErr    error
	orderErr   error
	orders     []*model.OrderDraft
	listQuery  model.ProductQuery
	nextNumber int64
}

func newFakeCatalog(products ...model.Product) *fakeCatalog {
	c := &fakeCatalog{products: map[int64]model.Product{}, nextNumber: 5000}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) ListProducts(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	c.listQuery = q
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]model.Product, 0, len(c.products))
	for id := int64(0); id < 1000; id++ {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &p, nil
}

func (c *fakeCatalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	return []model.Category{}, nil
}

func (c *fakeCatalog) CreateOrder(ctx context.Context, draft *model.OrderDraft) (*model.Order, error) {
	if c.orderErr != nil {
		return nil, c.orderErr
	}
	c.orders = append(c.orders, draft)
	c.nextNumber++
	return &model.Order{ID: c.nextNumber, Number: strconv.FormatInt(c.nextNumber, 10), Status: "on-hold"}, nil
}

type publishedEvent struct {
	Type    model.EventType
	ID      string
	Payload interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, eventType model.EventType, id string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, ID: id, Payload: payload})
	return p.err
}

type failingCartStore struct {
	CartStore
}

func (failingCartStore) ClearCart(ctx context.Context, userID string) error {
	return errors.New("connection reset")
}

type stubRecommender struct {
	rec   model.Recommendation
	query string
	seen  []model.Product
}

func (r *stubRecommender) Recommend(ctx context.Context, query string, products []model.Product) model.Recommendation {
	r.query = query
	r.seen = products
	return r.rec
}

func intPtr(v int) *int { return &v }

func stocked(id int64, name string, qty *int) model.Product {
	return model.Product{ID: id, Name: name, Price: "100000", StockStatus: model.StockInStock, StockQuantity: qty}
}
