package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the sale as a PDF
// receipt and mails it to the customer.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tillpos/internal/infra"
	"tillpos/internal/repository"

	"github.com/google/uuid"
)

// ReceiptJob is the payload enqueued after a sale commits.
type ReceiptJob struct {
	TransactionID string `json:"transaction_id"`
	Email         string `json:"email"`
}

type ReceiptWorker struct {
	txRepo    repository.TransactionRepository
	mailer    *infra.Mailer
	breaker   *infra.CircuitBreaker
	storeName string
}

func NewReceiptWorker(txRepo repository.TransactionRepository, mailer *infra.Mailer, storeName string) *ReceiptWorker {
	return &ReceiptWorker{
		txRepo:    txRepo,
		mailer:    mailer,
		breaker:   infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		storeName: storeName,
	}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job ReceiptJob
	if err := json.Unmarshal(raw, &job); err != nil {
		// A malformed payload will never succeed, don't retry it.
		return nil
	}
	if job.Email == "" {
		return nil
	}

	id, err := uuid.Parse(job.TransactionID)
	if err != nil {
		return nil
	}
	txn, err := w.txRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("receipt_worker: load transaction %s: %w", job.TransactionID, err)
	}

	pdf, err := infra.RenderReceiptPDF(txn, w.storeName)
	if err != nil {
		return fmt.Errorf("receipt_worker: render pdf: %w", err)
	}

	if w.mailer == nil {
		return errors.New("receipt_worker: mailer not configured")
	}
	subject := fmt.Sprintf("Your receipt %s", txn.ReceiptNumber)
	body := fmt.Sprintf("Thank you for shopping at %s. Your receipt is attached.", w.storeName)
	filename := txn.ReceiptNumber + ".pdf"
	// A dead SMTP relay fast-fails through the breaker; the pool's retry
	// and DLQ handling takes over from there.
	err = w.breaker.Execute(func() error {
		return w.mailer.SendReceipt(job.Email, subject, body, pdf, filename)
	})
	if err != nil {
		return fmt.Errorf("receipt_worker: send email: %w", err)
	}
	return nil
}
