package pos

import "github.com/shopspring/decimal"

const (
	MethodCash = "cash"
	MethodCard = "card"
)

// Failure reasons surfaced in PaymentResult.Reason.
const (
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonUnknownMethod     = "unknown_payment_method"
)

// PaymentRequest carries the tendered payment for a checkout.
// ReceivedAmount is meaningful for cash only; nil defaults to the total due.
type PaymentRequest struct {
	Method         string
	ReceivedAmount *decimal.Decimal
}

// PaymentResult reports the outcome of payment validation. Expected failures
// (short cash) set Success=false with a Reason; no error is returned.
type PaymentResult struct {
	Success  bool
	Received decimal.Decimal
	Change   decimal.Decimal
	Reason   string
}

// ValidatePayment decides whether the tendered payment covers totalDue and
// computes the change. Card payments always succeed: the external terminal
// is assumed to have authorized before this point. Cash must cover the total.
func ValidatePayment(req PaymentRequest, totalDue decimal.Decimal) PaymentResult {
	switch req.Method {
	case MethodCard:
		return PaymentResult{Success: true, Received: totalDue, Change: decimal.Zero}
	case MethodCash:
		received := totalDue
		if req.ReceivedAmount != nil {
			received = *req.ReceivedAmount
		}
		if received.LessThan(totalDue) {
			return PaymentResult{Received: received, Reason: ReasonInsufficientFunds}
		}
		return PaymentResult{
			Success:  true,
			Received: received,
			Change:   received.Sub(totalDue).Round(2),
		}
	default:
		return PaymentResult{Reason: ReasonUnknownMethod}
	}
}
