// Package pos holds the pure settlement domain: cart arithmetic, payment
// validation, transaction draft assembly, and return validation. Everything
// here is side-effect free and total: expected failures come back as result
// fields, never as Go errors, so callers must check Success/Valid explicitly.
// Persistence never leaks into this package.
package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is an ephemeral checkout line. Stock is a snapshot taken when the
// item was added; it caps Quantity for the lifetime of the cart.
type CartItem struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	Price     decimal.Decimal
	Stock     int
	Quantity  int
}

// Cart is an immutable-by-convention slice: every operation returns a new
// slice and leaves its input untouched, so carts can be shared freely.
type Cart []CartItem

// Summary is the derived money view of a cart. All values are rounded
// half-up to 2 decimal places at the cent boundary.
type Summary struct {
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// AddItem appends the candidate with quantity 1, or increments the quantity
// of an existing line. Incrementing past the stock snapshot is a silent
// no-op; UI validation owns the messaging, the domain just refuses.
func AddItem(cart Cart, candidate CartItem) Cart {
	next := make(Cart, len(cart))
	copy(next, cart)
	for i := range next {
		if next[i].ProductID == candidate.ProductID {
			if next[i].Quantity < next[i].Stock {
				next[i].Quantity++
			}
			return next
		}
	}
	candidate.Quantity = 1
	return append(next, candidate)
}

// RemoveItem drops the line with the given product id, if present.
func RemoveItem(cart Cart, productID uuid.UUID) Cart {
	next := make(Cart, 0, len(cart))
	for _, item := range cart {
		if item.ProductID != productID {
			next = append(next, item)
		}
	}
	return next
}

// UpdateQuantity sets the line's quantity to min(qty, stock snapshot).
// A qty ≤ 0 removes the line.
func UpdateQuantity(cart Cart, productID uuid.UUID, qty int) Cart {
	if qty <= 0 {
		return RemoveItem(cart, productID)
	}
	next := make(Cart, len(cart))
	copy(next, cart)
	for i := range next {
		if next[i].ProductID == productID {
			if qty > next[i].Stock {
				qty = next[i].Stock
			}
			next[i].Quantity = qty
			break
		}
	}
	return next
}

// Clear returns the empty cart.
func Clear() Cart {
	return Cart{}
}

// Summarize computes subtotal, tax and total for the cart at the given tax
// rate. Line subtotals are rounded before summing so the stored item totals
// reconcile exactly with the transaction subtotal.
func Summarize(cart Cart, taxRate decimal.Decimal) Summary {
	subtotal := decimal.Zero
	count := 0
	for _, item := range cart {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(line)
		count += item.Quantity
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return Summary{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		ItemCount: count,
	}
}
