package model

import (
	"time"
)

// EventType names a domain event published to the event stream.
type EventType string

const (
	EventOrderCreated         EventType = "order.created"
	EventConversationRecorded EventType = "conversation.recorded"
)

// OrderCreatedEvent is published after an order was created upstream.
type OrderCreatedEvent struct {
	ID          string      `json:"id"`
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	UserID      string      `json:"user_id,omitempty"`
	Lines       []OrderLine `json:"lines"`
	CartCleared bool        `json:"cart_cleared"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ConversationRecordedEvent is published after a chat turn was answered.
type ConversationRecordedEvent struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	RecommendedProducts []int64   `json:"recommended_products"`
	NotFound            bool      `json:"not_found"`
	CreatedAt           time.Time `json:"created_at"`
}
