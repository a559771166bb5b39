package repository

import (
	"context"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// CreateTx inserts the transaction and its items inside the caller's
	// transaction; the settlement service owns the transaction boundary.
	CreateTx(tx *gorm.DB, t *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*model.Transaction, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)
	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	// Items ride along via the association, one insert batch per table,
	// both inside the surrounding DB transaction.
	return tx.Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&t, id).Error
	return &t, err
}

func (r *transactionRepo) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Preload("Items.Product").
		Where("receipt_number = ?", receiptNumber).First(&t).Error
	return &t, err
}

func (r *transactionRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Transaction{}).Where("id = ?", id).Update("status", status).Error
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var transactions []model.Transaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Transaction{})

	if filter.ShiftID != "" {
		q = q.Where("shift_id = ?", filter.ShiftID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		if day, err := time.Parse("2006-01-02", filter.Date); err == nil {
			q = q.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&transactions).Error
	return transactions, total, err
}
