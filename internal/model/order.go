package model

// OrderLine is one line of a checkout request.
type OrderLine struct {
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName,omitempty"`
	ProductPrice string `json:"productPrice,omitempty"`
	Quantity     int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest struct {
	UserID          string      `json:"userId,omitempty"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress"`
	CartItems       []OrderLine `json:"cartItems"`
}

// OrderDraft is what the commerce backend needs to create an order.
type OrderDraft struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Lines           []OrderLine
}

// OrderLineItem is a line of a created order.
type OrderLineItem struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

// Order is an order created in the commerce backend.
type Order struct {
	ID          int64           `json:"id"`
	Number      string          `json:"number"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	Total       string          `json:"total"`
	DateCreated string          `json:"date_created"`
	LineItems   []OrderLineItem `json:"line_items"`
}

// CreateOrderResponse is returned by POST /api/orders.
type CreateOrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Order       *Order `json:"order"`
}
