package model

import (
	"time"
)

// Conversation is one recorded chat turn. Records are append-only.
type Conversation struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"userId"`
	UserMessage         string    `json:"userMessage"`
	BotResponse         string    `json:"botResponse"`
	RecommendedProducts []int64   `json:"recommendedProducts"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Recommendation is the transient result of the recommender.
type Recommendation struct {
	ProductIDs []int64 `json:"productIds"`
	Message    string  `json:"message"`
	NotFound   bool    `json:"notFound"`
}

// ChatReply is what the chat front door renders for one user message.
type ChatReply struct {
	Recommendation Recommendation
	Products       []Product
}
