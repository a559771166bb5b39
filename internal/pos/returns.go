package pos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SoldItem is the settled view of an original transaction line that a
// return is validated against.
type SoldItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// ReturnLine is one requested return quantity.
type ReturnLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// ReturnValidation reports whether a requested return is admissible against
// the original sale. Invalid requests carry the offending product id and a
// human-readable reason.
type ReturnValidation struct {
	Valid     bool
	ProductID uuid.UUID
	Reason    string
}

// ValidateReturn checks every requested line against the original sale:
// the product must appear in the original items and the quantity must be in
// (0, originalQuantity]. Pure; run before any persistence call.
func ValidateReturn(original []SoldItem, requested []ReturnLine) ReturnValidation {
	byProduct := make(map[uuid.UUID]SoldItem, len(original))
	for _, item := range original {
		byProduct[item.ProductID] = item
	}
	for _, line := range requested {
		sold, ok := byProduct[line.ProductID]
		if !ok {
			return ReturnValidation{
				ProductID: line.ProductID,
				Reason:    fmt.Sprintf("product %s was not part of the original sale", line.ProductID),
			}
		}
		if line.Quantity <= 0 {
			return ReturnValidation{
				ProductID: line.ProductID,
				Reason:    fmt.Sprintf("return quantity for product %s must be positive", line.ProductID),
			}
		}
		if line.Quantity > sold.Quantity {
			return ReturnValidation{
				ProductID: line.ProductID,
				Reason: fmt.Sprintf("return quantity %d for product %s exceeds original quantity %d",
					line.Quantity, line.ProductID, sold.Quantity),
			}
		}
	}
	return ReturnValidation{Valid: true}
}

// CalculateRefundAmount sums unitPrice * min(requestedQty, originalQty) at
// the original sale prices. Refunds reflect what was actually paid, never
// the live catalog price.
func CalculateRefundAmount(original []SoldItem, requested []ReturnLine) decimal.Decimal {
	byProduct := make(map[uuid.UUID]SoldItem, len(original))
	for _, item := range original {
		byProduct[item.ProductID] = item
	}
	refund := decimal.Zero
	for _, line := range requested {
		sold, ok := byProduct[line.ProductID]
		if !ok {
			continue
		}
		qty := line.Quantity
		if qty > sold.Quantity {
			qty = sold.Quantity
		}
		refund = refund.Add(sold.UnitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2))
	}
	return refund
}
