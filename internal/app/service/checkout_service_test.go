package service

import (
	"testing"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCheckoutTest(t *testing.T) CheckoutService {
	return NewCheckoutService(setupProductServiceTest(t), ShippingRates{
		FlatRate:    decimal.NewFromInt(20),
		LocalPickup: decimal.NewFromInt(25),
	})
}

func TestCheckoutService_DirectBuySummary(t *testing.T) {
	checkout := setupCheckoutTest(t)

	tests := []struct {
		name         string
		qty          string
		option       ShippingOption
		wantQty      int
		wantSubtotal string
		wantTotal    string
		wantOption   ShippingOption
	}{
		{name: "Default shipping is flat rate", qty: "2", option: "", wantQty: 2, wantSubtotal: "500.00", wantTotal: "520.00", wantOption: ShippingFlatRate},
		{name: "Local pickup", qty: "1", option: ShippingLocalPickup, wantQty: 1, wantSubtotal: "250.00", wantTotal: "275.00", wantOption: ShippingLocalPickup},
		{name: "Free shipping", qty: "3", option: ShippingFree, wantQty: 3, wantSubtotal: "750.00", wantTotal: "750.00", wantOption: ShippingFree},
		{name: "Unparseable quantity means one", qty: "abc", option: ShippingFlatRate, wantQty: 1, wantSubtotal: "250.00", wantTotal: "270.00", wantOption: ShippingFlatRate},
		{name: "Zero quantity is clamped", qty: "0", option: ShippingFlatRate, wantQty: 1, wantSubtotal: "250.00", wantTotal: "270.00", wantOption: ShippingFlatRate},
		{name: "Huge quantity is capped", qty: "9223372036854775807", option: ShippingFlatRate, wantQty: MaxLineQuantity, wantSubtotal: "2499750.00", wantTotal: "2499770.00", wantOption: ShippingFlatRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := checkout.DirectBuySummary("2", tt.qty, tt.option)
			require.NoError(t, err)
			require.Len(t, summary.Lines, 1)
			assert.Equal(t, tt.wantQty, summary.Lines[0].Quantity)
			assert.Equal(t, tt.wantSubtotal, summary.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantTotal, summary.Total.StringFixed(2))
			assert.Equal(t, tt.wantOption, summary.Option)
		})
	}
}

func TestCheckoutService_DirectBuyUnknownProduct(t *testing.T) {
	checkout := setupCheckoutTest(t)

	_, err := checkout.DirectBuySummary("404", "1", "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCheckoutService_CartSummary(t *testing.T) {
	checkout := setupCheckoutTest(t)

	summary := checkout.CartSummary([]model.LineItem{
		{ID: "1", Title: "A", Price: 300, Quantity: 1},
		{ID: "3", Title: "B", Price: 180, Quantity: 2},
	}, ShippingLocalPickup)

	assert.Len(t, summary.Lines, 2)
	assert.Equal(t, "660.00", summary.Subtotal.StringFixed(2))
	assert.Equal(t, "25.00", summary.Shipping.StringFixed(2))
	assert.Equal(t, "685.00", summary.Total.StringFixed(2))

	empty := checkout.CartSummary(nil, "")
	assert.Empty(t, empty.Lines)
	assert.Equal(t, "20.00", empty.Total.StringFixed(2))
}
