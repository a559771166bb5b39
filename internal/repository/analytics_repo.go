package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailySalesRow aggregates completed transactions for one day.
type DailySalesRow struct {
	Revenue      decimal.Decimal
	Transactions int64
}

// TopProductRow is one entry of the top-products ranking.
type TopProductRow struct {
	ProductID string
	SKU       string
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}

// AnalyticsRepository serves read-only aggregates, computed fresh from the
// transaction log on every call.
type AnalyticsRepository interface {
	DailySales(ctx context.Context, day time.Time) (*DailySalesRow, error)
	TopProducts(ctx context.Context, limit int) ([]TopProductRow, error)
}

type analyticsRepo struct{ db *gorm.DB }

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository { return &analyticsRepo{db: db} }

func (r *analyticsRepo) DailySales(ctx context.Context, day time.Time) (*DailySalesRow, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var row DailySalesRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS transactions
		FROM transactions
		WHERE status = 'completed' AND created_at >= ? AND created_at < ?`,
		start, end).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *analyticsRepo) TopProducts(ctx context.Context, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id, p.sku, p.name,
		       SUM(ti.quantity)    AS quantity,
		       SUM(ti.total_price) AS revenue
		FROM transaction_items ti
		JOIN transactions t ON t.id = ti.transaction_id AND t.status = 'completed'
		JOIN products p     ON p.id = ti.product_id
		GROUP BY p.id, p.sku, p.name
		ORDER BY quantity DESC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}
