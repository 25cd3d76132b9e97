package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		lei  float64
		bani int64
	}{
		{10, 1000},
		{39.99, 3999},
		{0.01, 1},
		{0, 0},
		// 19.9 has no exact float64 representation; decimal keeps it exact.
		{19.9, 1990},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.bani, minorUnits(tc.lei), "lei=%v", tc.lei)
	}
}

func TestBuildLineItems(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, Quantity: 2, Title: "Ion", Author: "Liviu Rebreanu", Price: 30, ImageURL: "/ion.jpg"},
		{ProductID: 2, Quantity: 1, Title: "Baltagul", Author: "Mihail Sadoveanu", Price: 19.9, ImageURL: "/baltagul.jpg"},
	}

	lines := buildLineItems(items)
	require.Len(t, lines, 3, "one line per item plus shipping")

	first := lines[0]
	assert.Equal(t, "ron", *first.PriceData.Currency)
	assert.Equal(t, "Ion", *first.PriceData.ProductData.Name)
	assert.Equal(t, "by Liviu Rebreanu", *first.PriceData.ProductData.Description)
	assert.Equal(t, int64(3000), *first.PriceData.UnitAmount)
	assert.Equal(t, int64(2), *first.Quantity)

	second := lines[1]
	assert.Equal(t, int64(1990), *second.PriceData.UnitAmount)

	shipping := lines[2]
	assert.Equal(t, "Shipping", *shipping.PriceData.ProductData.Name)
	assert.Equal(t, int64(1999), *shipping.PriceData.UnitAmount)
	assert.Equal(t, int64(1), *shipping.Quantity)
}

func TestBuildLineItemsEmptyCart(t *testing.T) {
	lines := buildLineItems(nil)
	require.Len(t, lines, 1)
	assert.Equal(t, "Shipping", *lines[0].PriceData.ProductData.Name)
}
