package model

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product-plus-quantity row of a visitor's cart. It is a
// snapshot taken when the product was added; catalog edits never reach it.
type LineItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price times quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductSnapshot carries the product fields captured from a product card or
// the details page when the visitor adds it to the cart or the wishlist.
type ProductSnapshot struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"` // display text, e.g. "300.00 ر.ق"
	Image string `json:"image"`
}

// CartTotals summarizes a cart.
type CartTotals struct {
	ItemCount  int             `json:"item_count"`
	MoneyTotal decimal.Decimal `json:"money_total"`
}
