package repository

import (
	"context"

	"tillpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShiftTotals are the reconciliation inputs for one shift, recomputed from
// the transactions table on every call so they stay consistent with the log
// even for an open shift queried mid-session. Cancelled transactions are
// excluded; refunded ones still count (the original money entered the till).
type ShiftTotals struct {
	TotalSales        decimal.Decimal
	CashSales         decimal.Decimal
	CardSales         decimal.Decimal
	TotalTransactions int64
}

type ShiftRepository interface {
	Create(ctx context.Context, s *model.Shift) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.Shift, error)
	Update(ctx context.Context, s *model.Shift) error
	SumTransactions(ctx context.Context, shiftID uuid.UUID) (*ShiftTotals, error)
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) Create(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shiftRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *shiftRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).Where("user_id = ? AND status = 'open'", userID).First(&s).Error
	return &s, err
}

func (r *shiftRepo) Update(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *shiftRepo) SumTransactions(ctx context.Context, shiftID uuid.UUID) (*ShiftTotals, error) {
	var row struct {
		TotalSales        decimal.Decimal
		CashSales         decimal.Decimal
		CardSales         decimal.Decimal
		TotalTransactions int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total), 0)                                              AS total_sales,
			COALESCE(SUM(total) FILTER (WHERE payment_method = 'cash'), 0)       AS cash_sales,
			COALESCE(SUM(total) FILTER (WHERE payment_method = 'card'), 0)       AS card_sales,
			COUNT(*)                                                             AS total_transactions
		FROM transactions
		WHERE shift_id = ? AND status <> 'cancelled'`, shiftID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &ShiftTotals{
		TotalSales:        row.TotalSales,
		CashSales:         row.CashSales,
		CardSales:         row.CardSales,
		TotalTransactions: row.TotalTransactions,
	}, nil
}
