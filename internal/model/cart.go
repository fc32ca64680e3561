package model

import (
	"time"
)

// CartItem is one product line in a user's cart. Name, price and image are
// snapshots taken when the product was first added.
type CartItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ProductID    int64     `json:"productId"`
	ProductName  string    `json:"productName"`
	ProductPrice string    `json:"productPrice"`
	ProductImage *string   `json:"productImage"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AddCartItemRequest is the body of POST /api/cart/{userId}.
type AddCartItemRequest struct {
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductPrice string  `json:"productPrice"`
	ProductImage *string `json:"productImage,omitempty"`
	Quantity     int     `json:"quantity,omitempty"`
}

// UpdateCartItemRequest is the body of PATCH /api/cart/item/{itemId}.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// CartSummary is a cart with its derived totals.
type CartSummary struct {
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"itemCount"`
	Total     string     `json:"total"`
}

// SuccessResponse is returned by delete-style endpoints.
type SuccessResponse struct {
	Success bool `json:"success"`
}
