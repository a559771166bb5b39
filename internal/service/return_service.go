package service

import (
	"context"
	"errors"
	"fmt"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/pos"
	"tillpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

type ReturnService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateReturnRequest) (*dto.ReturnResponse, error)
	List(ctx context.Context) ([]dto.ReturnResponse, error)
}

type returnService struct {
	repo            repository.ReturnRepository
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
}

func NewReturnService(
	repo repository.ReturnRepository,
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
) ReturnService {
	return &returnService{repo: repo, transactionRepo: transactionRepo, productRepo: productRepo}
}

// Create validates the requested return against the original sale (pure,
// before any persistence), then commits return + items + stock restore +
// status flip as one atomic unit.
func (s *returnService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	originalID, err := uuid.Parse(req.OriginalTransactionID)
	if err != nil {
		return nil, fmt.Errorf("invalid original_transaction_id: %w", err)
	}

	original, err := s.transactionRepo.FindByID(ctx, originalID)
	if err != nil {
		return nil, errors.New("original transaction not found")
	}
	if original.Status != "completed" {
		return nil, fmt.Errorf("transaction is %s and cannot be returned", original.Status)
	}

	sold := make([]pos.SoldItem, 0, len(original.Items))
	for _, item := range original.Items {
		sold = append(sold, pos.SoldItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	requested := make([]pos.ReturnLine, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		requested = append(requested, pos.ReturnLine{ProductID: pid, Quantity: item.Quantity})
	}

	if v := pos.ValidateReturn(sold, requested); !v.Valid {
		return nil, errors.New(v.Reason)
	}
	refund := pos.CalculateRefundAmount(sold, requested)

	soldPrices := make(map[uuid.UUID]pos.SoldItem, len(sold))
	for _, item := range sold {
		soldPrices[item.ProductID] = item
	}

	ret := &model.Return{
		OriginalTransactionID: originalID,
		UserID:                userID,
		Reason:                req.Reason,
		RefundAmount:          refund,
		RefundMethod:          req.RefundMethod,
	}
	for _, line := range requested {
		unit := soldPrices[line.ProductID].UnitPrice
		ret.Items = append(ret.Items, model.ReturnItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(decimalFromInt(line.Quantity)).Round(2),
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, ret); err != nil {
			return err
		}
		for _, line := range requested {
			if err := s.productRepo.IncrementStockTx(tx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("stock restore for %s: %w", line.ProductID, err)
			}
		}
		return s.transactionRepo.UpdateStatusTx(tx, originalID, "refunded")
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := returnToResponse(ret)
	resp.ReceiptNumber = original.ReceiptNumber
	return resp, nil
}

func (s *returnService) List(ctx context.Context) ([]dto.ReturnResponse, error) {
	returns, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ReturnResponse, 0, len(returns))
	for i := range returns {
		r := returnToResponse(&returns[i])
		if returns[i].OriginalTransaction != nil {
			r.ReceiptNumber = returns[i].OriginalTransaction.ReceiptNumber
		}
		resp = append(resp, *r)
	}
	return resp, nil
}

func returnToResponse(ret *model.Return) *dto.ReturnResponse {
	items := make([]dto.ReturnItemResponse, 0, len(ret.Items))
	for _, item := range ret.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.ReturnItemResponse{
			ProductID:  item.ProductID.String(),
			Product:    name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return &dto.ReturnResponse{
		ID:                    ret.ID.String(),
		OriginalTransactionID: ret.OriginalTransactionID.String(),
		UserID:                ret.UserID.String(),
		Reason:                ret.Reason,
		RefundAmount:          ret.RefundAmount,
		RefundMethod:          ret.RefundMethod,
		Items:                 items,
		CreatedAt:             ret.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
