package service

import (
	"strings"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/pkg/logger"
	"github.com/ghain/storefront-backend/pkg/util"
	"github.com/shopspring/decimal"
)

type ShippingOption string

const (
	ShippingFlatRate    ShippingOption = "flat_rate"
	ShippingLocalPickup ShippingOption = "local_pickup"
	ShippingFree        ShippingOption = "free_shipping"
)

// ShippingRates are the prices of the paid shipping options.
type ShippingRates struct {
	FlatRate    decimal.Decimal
	LocalPickup decimal.Decimal
}

// Cost returns the price of option. An empty option means the default flat
// rate; anything unknown ships free.
func (r ShippingRates) Cost(option ShippingOption) (ShippingOption, decimal.Decimal) {
	switch option {
	case "", ShippingFlatRate:
		return ShippingFlatRate, r.FlatRate
	case ShippingLocalPickup:
		return ShippingLocalPickup, r.LocalPickup
	default:
		return option, decimal.Zero
	}
}

type OrderLine struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type OrderSummary struct {
	Lines    []OrderLine     `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Option   ShippingOption  `json:"shipping_option"`
}

type CheckoutService interface {
	// DirectBuySummary prices a single product bought straight from its
	// details page. qty is the raw query value; unparseable means 1.
	DirectBuySummary(productID, qty string, option ShippingOption) (*OrderSummary, error)
	CartSummary(items []model.LineItem, option ShippingOption) *OrderSummary
}

type checkoutService struct {
	products ProductService
	rates    ShippingRates
}

func NewCheckoutService(products ProductService, rates ShippingRates) CheckoutService {
	return &checkoutService{products: products, rates: rates}
}

func (s *checkoutService) DirectBuySummary(productID, qty string, option ShippingOption) (*OrderSummary, error) {
	product, err := s.products.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	quantity := util.ParseQuantity(qty, 1)
	if quantity < 1 {
		quantity = 1
	}
	if quantity > MaxLineQuantity {
		quantity = MaxLineQuantity
	}

	price := decimal.NewFromFloat(util.ParsePrice(product.Price))
	line := OrderLine{
		ID:       product.ID,
		Title:    product.Title,
		Price:    price,
		Quantity: quantity,
		Subtotal: price.Mul(decimal.NewFromInt(int64(quantity))),
	}

	logger.Debug("Direct buy summary", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   quantity,
		"option":     string(option),
	})
	return s.summarize([]OrderLine{line}, option), nil
}

func (s *checkoutService) CartSummary(items []model.LineItem, option ShippingOption) *OrderSummary {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{
			ID:       item.ID,
			Title:    item.Title,
			Price:    decimal.NewFromFloat(item.Price),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}
	return s.summarize(lines, option)
}

func (s *checkoutService) summarize(lines []OrderLine, option ShippingOption) *OrderSummary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
	}
	resolved, shipping := s.rates.Cost(ShippingOption(strings.TrimSpace(string(option))))
	return &OrderSummary{
		Lines:    lines,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
		Option:   resolved,
	}
}
