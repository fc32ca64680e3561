// Package model defines data structures for the storefront.
package model

// StockStatus is the WooCommerce stock state of a product.
type StockStatus string

const (
	StockInStock     StockStatus = "instock"
	StockOutOfStock  StockStatus = "outofstock"
	StockOnBackorder StockStatus = "onbackorder"
)

// Image is a product image.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// CategoryRef is the category summary embedded in a product.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog product as exposed to the storefront. Stock fields
// are authoritative from the commerce backend and never cached.
type Product struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Price            string        `json:"price"`
	RegularPrice     string        `json:"regular_price"`
	SalePrice        string        `json:"sale_price"`
	Description      string        `json:"description"`
	ShortDescription string        `json:"short_description"`
	Images           []Image       `json:"images"`
	Categories       []CategoryRef `json:"categories"`
	StockStatus      StockStatus   `json:"stock_status"`
	StockQuantity    *int          `json:"stock_quantity"`
}

// InStock reports whether the product can be recommended.
func (p *Product) InStock() bool {
	return p.StockStatus == StockInStock
}

// FirstImage returns the first image URL or an empty string.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}

// Category is a catalog category.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// ProductQuery filters a product listing.
type ProductQuery struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}
