package service_test

import (
	"context"
	"testing"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type returnFixture struct {
	svc      service.ReturnService
	returns  *stubReturnRepo
	txRepo   *stubTransactionRepo
	products *stubProductRepo
}

func buildReturns(t *testing.T) *returnFixture {
	t.Helper()
	f := &returnFixture{
		returns:  newStubReturnRepo(),
		txRepo:   newStubTransactionRepo(),
		products: newStubProductRepo(),
	}
	f.svc = service.NewReturnService(f.returns, f.txRepo, f.products)
	return f
}

// seedSale stores a completed sale of the given quantities directly into the
// stubs, as settlement would have left it.
func (f *returnFixture) seedSale(t *testing.T, lines ...model.TransactionItem) *model.Transaction {
	t.Helper()
	txn := &model.Transaction{
		ReceiptNumber: "RCP-1756700000000-042",
		ShiftID:       uuid.New(),
		UserID:        uuid.New(),
		PaymentMethod: "cash",
		Status:        "completed",
		Items:         lines,
	}
	subtotal := dec("0")
	for i := range txn.Items {
		subtotal = subtotal.Add(txn.Items[i].TotalPrice)
	}
	txn.Subtotal = subtotal
	txn.Tax = subtotal.Mul(dec("0.12")).Round(2)
	txn.Total = txn.Subtotal.Add(txn.Tax)
	require.NoError(t, f.txRepo.CreateTx(nil, txn))
	return txn
}

func soldLine(productID uuid.UUID, qty int, unitPrice string) model.TransactionItem {
	unit := dec(unitPrice)
	return model.TransactionItem{
		ProductID:  productID,
		Quantity:   qty,
		UnitPrice:  unit,
		TotalPrice: unit.Mul(decimal.NewFromInt(int64(qty))).Round(2),
	}
}

func TestCreateReturnFull(t *testing.T) {
	f := buildReturns(t)
	p1 := f.products.seed("Kettle", "KT-001", 100, 0)
	p2 := f.products.seed("Mug", "MG-001", 49.99, 0)
	sale := f.seedSale(t,
		soldLine(p1.ID, 3, "100"),
		soldLine(p2.ID, 1, "49.99"),
	)

	resp, err := f.svc.Create(context.Background(), uuid.New(), dto.CreateReturnRequest{
		OriginalTransactionID: sale.ID.String(),
		Reason:                "damaged in transit",
		RefundMethod:          "cash",
		Items: []dto.ReturnItemRequest{
			{ProductID: p1.ID.String(), Quantity: 3},
			{ProductID: p2.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	// Refund at the original sale prices.
	assert.Equal(t, "349.99", resp.RefundAmount.StringFixed(2))
	assert.Equal(t, sale.ReceiptNumber, resp.ReceiptNumber)

	// Stock restored and original flipped to refunded, atomically.
	assert.Equal(t, 3, p1.Stock)
	assert.Equal(t, 1, p2.Stock)
	stored, err := f.txRepo.FindByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "refunded", stored.Status)
}

func TestCreateReturnPartial(t *testing.T) {
	f := buildReturns(t)
	p1 := f.products.seed("Kettle", "KT-001", 100, 0)
	sale := f.seedSale(t, soldLine(p1.ID, 3, "100"))

	resp, err := f.svc.Create(context.Background(), uuid.New(), dto.CreateReturnRequest{
		OriginalTransactionID: sale.ID.String(),
		Reason:                "one unit defective",
		RefundMethod:          "card",
		Items:                 []dto.ReturnItemRequest{{ProductID: p1.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", resp.RefundAmount.StringFixed(2))
	assert.Equal(t, 1, p1.Stock)
}

func TestCreateReturnRejectsOverQuantity(t *testing.T) {
	f := buildReturns(t)
	p1 := f.products.seed("Kettle", "KT-001", 100, 0)
	sale := f.seedSale(t, soldLine(p1.ID, 2, "100"))

	_, err := f.svc.Create(context.Background(), uuid.New(), dto.CreateReturnRequest{
		OriginalTransactionID: sale.ID.String(),
		Reason:                "change of mind",
		RefundMethod:          "cash",
		Items:                 []dto.ReturnItemRequest{{ProductID: p1.ID.String(), Quantity: 3}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds original quantity")
	assert.Contains(t, err.Error(), p1.ID.String())

	// Nothing changed.
	assert.Equal(t, 0, p1.Stock)
	stored, _ := f.txRepo.FindByID(context.Background(), sale.ID)
	assert.Equal(t, "completed", stored.Status)
}

func TestCreateReturnRejectsForeignProduct(t *testing.T) {
	f := buildReturns(t)
	p1 := f.products.seed("Kettle", "KT-001", 100, 0)
	other := f.products.seed("Toaster", "TO-001", 60, 0)
	sale := f.seedSale(t, soldLine(p1.ID, 1, "100"))

	_, err := f.svc.Create(context.Background(), uuid.New(), dto.CreateReturnRequest{
		OriginalTransactionID: sale.ID.String(),
		Reason:                "wrong receipt",
		RefundMethod:          "cash",
		Items:                 []dto.ReturnItemRequest{{ProductID: other.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not part of the original sale")
}

func TestCreateReturnRejectsNonCompletedOriginal(t *testing.T) {
	f := buildReturns(t)
	p1 := f.products.seed("Kettle", "KT-001", 100, 0)
	sale := f.seedSale(t, soldLine(p1.ID, 1, "100"))
	sale.Status = "refunded"

	_, err := f.svc.Create(context.Background(), uuid.New(), dto.CreateReturnRequest{
		OriginalTransactionID: sale.ID.String(),
		Reason:                "second attempt",
		RefundMethod:          "cash",
		Items:                 []dto.ReturnItemRequest{{ProductID: p1.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be returned")
}

func TestCreateReturnRejectsUnknownTransaction(t *testing.T) {
	f := buildReturns(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), dto.CreateReturnRequest{
		OriginalTransactionID: uuid.NewString(),
		Reason:                "no such sale",
		RefundMethod:          "cash",
		Items:                 []dto.ReturnItemRequest{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "original transaction not found", err.Error())
}
