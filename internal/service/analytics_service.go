package service

import (
	"context"
	"errors"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/repository"

	"github.com/shopspring/decimal"
)

type AnalyticsService interface {
	DailySales(ctx context.Context, date string) (*dto.DailySalesResponse, error)
	TopProducts(ctx context.Context, limit int) ([]dto.TopProductResponse, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) DailySales(ctx context.Context, date string) (*dto.DailySalesResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}
	row, err := s.repo.DailySales(ctx, day)
	if err != nil {
		return nil, err
	}
	// Average check on an empty day is zero, not a division error.
	avg := decimal.Zero
	if row.Transactions > 0 {
		avg = row.Revenue.Div(decimal.NewFromInt(row.Transactions)).Round(2)
	}
	return &dto.DailySalesResponse{
		Date:         date,
		Revenue:      row.Revenue.Round(2),
		Transactions: row.Transactions,
		AverageCheck: avg,
	}, nil
}

func (s *analyticsService) TopProducts(ctx context.Context, limit int) ([]dto.TopProductResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	rows, err := s.repo.TopProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TopProductResponse, len(rows))
	for i, r := range rows {
		items[i] = dto.TopProductResponse{
			ProductID:    r.ProductID,
			SKU:          r.SKU,
			Name:         r.Name,
			QuantitySold: r.Quantity,
			Revenue:      r.Revenue.Round(2),
		}
	}
	return items, nil
}
