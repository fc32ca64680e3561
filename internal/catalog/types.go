package catalog

type wooAddress struct {
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"`
	Address1  string `json:"address_1"`
}

type wooLineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type wooMeta struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type wooOrderRequest struct {
	Status             string        `json:"status"`
	PaymentMethod      string        `json:"payment_method"`
	PaymentMethodTitle string        `json:"payment_method_title"`
	SetPaid            bool          `json:"set_paid"`
	Billing            wooAddress    `json:"billing"`
	Shipping           wooAddress    `json:"shipping"`
	LineItems          []wooLineItem `json:"line_items"`
	MetaData           []wooMeta     `json:"meta_data"`
}

type wooError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
