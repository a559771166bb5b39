package pos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func soldItems() (a, b SoldItem) {
	a = SoldItem{ProductID: uuid.New(), Quantity: 3, UnitPrice: decimal.NewFromFloat(100)}
	b = SoldItem{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromFloat(49.99)}
	return
}

func TestValidateReturn_FullReturn(t *testing.T) {
	a, b := soldItems()
	v := ValidateReturn([]SoldItem{a, b}, []ReturnLine{
		{ProductID: a.ProductID, Quantity: 3},
		{ProductID: b.ProductID, Quantity: 1},
	})
	assert.True(t, v.Valid)
}

func TestValidateReturn_PartialReturn(t *testing.T) {
	a, b := soldItems()
	v := ValidateReturn([]SoldItem{a, b}, []ReturnLine{{ProductID: a.ProductID, Quantity: 2}})
	assert.True(t, v.Valid)
}

func TestValidateReturn_QuantityExceedsOriginal(t *testing.T) {
	a, _ := soldItems()
	v := ValidateReturn([]SoldItem{a}, []ReturnLine{{ProductID: a.ProductID, Quantity: 4}})

	assert.False(t, v.Valid)
	assert.Equal(t, a.ProductID, v.ProductID)
	assert.Contains(t, v.Reason, "exceeds original quantity")
}

func TestValidateReturn_ProductNotInOriginalSale(t *testing.T) {
	a, _ := soldItems()
	stranger := uuid.New()
	v := ValidateReturn([]SoldItem{a}, []ReturnLine{{ProductID: stranger, Quantity: 1}})

	assert.False(t, v.Valid)
	assert.Equal(t, stranger, v.ProductID)
	assert.Contains(t, v.Reason, "not part of the original sale")
}

func TestValidateReturn_NonPositiveQuantity(t *testing.T) {
	a, _ := soldItems()
	v := ValidateReturn([]SoldItem{a}, []ReturnLine{{ProductID: a.ProductID, Quantity: 0}})

	assert.False(t, v.Valid)
	assert.Equal(t, a.ProductID, v.ProductID)
}

func TestCalculateRefundAmount_UsesOriginalPrices(t *testing.T) {
	a, b := soldItems()
	refund := CalculateRefundAmount([]SoldItem{a, b}, []ReturnLine{
		{ProductID: a.ProductID, Quantity: 2},
		{ProductID: b.ProductID, Quantity: 1},
	})
	// 2 x 100 + 1 x 49.99
	assert.Equal(t, "249.99", refund.StringFixed(2))
}

func TestCalculateRefundAmount_CapsAtOriginalQuantity(t *testing.T) {
	a, _ := soldItems()
	refund := CalculateRefundAmount([]SoldItem{a}, []ReturnLine{{ProductID: a.ProductID, Quantity: 10}})
	assert.Equal(t, "300.00", refund.StringFixed(2))
}
