package service

import (
	"context"
	"errors"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/google/uuid"
)

type ShiftService interface {
	Open(ctx context.Context, req dto.OpenShiftRequest) (*dto.ShiftResponse, error)
	Close(ctx context.Context, id uuid.UUID, req dto.CloseShiftRequest) (*dto.ShiftResponse, error)
	Current(ctx context.Context, userID uuid.UUID) (*dto.ShiftResponse, error)
	Summary(ctx context.Context, id uuid.UUID) (*dto.ShiftSummaryResponse, error)
}

type shiftService struct {
	repo repository.ShiftRepository
}

func NewShiftService(repo repository.ShiftRepository) ShiftService {
	return &shiftService{repo: repo}
}

// Open starts a new cash-drawer session. The query-before-insert gives a
// clean error message; the partial unique index on (user_id WHERE
// status='open') closes the remaining race window at the database.
func (s *shiftService) Open(ctx context.Context, req dto.OpenShiftRequest) (*dto.ShiftResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.New("invalid user_id")
	}
	if req.StartingCash.IsNegative() {
		return nil, errors.New("starting cash cannot be negative")
	}

	if existing, err := s.repo.FindOpenByUser(ctx, userID); err == nil && existing != nil {
		return nil, errors.New("user already has an open shift")
	}

	shift := &model.Shift{
		UserID:       userID,
		StartTime:    time.Now(),
		StartingCash: req.StartingCash,
		Status:       "open",
	}
	if err := s.repo.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shiftToResponse(shift), nil
}

// Close is irreversible: it records the counted drawer and terminates the
// session. The shift row is immutable afterwards.
func (s *shiftService) Close(ctx context.Context, id uuid.UUID, req dto.CloseShiftRequest) (*dto.ShiftResponse, error) {
	shift, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("shift not found")
	}
	if shift.Status != "open" {
		return nil, errors.New("shift is already closed")
	}
	if req.EndingCash.IsNegative() {
		return nil, errors.New("ending cash cannot be negative")
	}

	now := time.Now()
	ending := req.EndingCash
	shift.EndTime = &now
	shift.EndingCash = &ending
	shift.Status = "closed"

	if err := s.repo.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shiftToResponse(shift), nil
}

func (s *shiftService) Current(ctx context.Context, userID uuid.UUID) (*dto.ShiftResponse, error) {
	shift, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil || shift == nil {
		return nil, errors.New("no open shift")
	}
	return shiftToResponse(shift), nil
}

// Summary recomputes the reconciliation figures from the transactions table
// on every call; valid for open and closed shifts alike.
func (s *shiftService) Summary(ctx context.Context, id uuid.UUID) (*dto.ShiftSummaryResponse, error) {
	shift, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("shift not found")
	}
	totals, err := s.repo.SumTransactions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ShiftSummaryResponse{
		ShiftID:           shift.ID.String(),
		TotalSales:        totals.TotalSales,
		CashSales:         totals.CashSales,
		CardSales:         totals.CardSales,
		TotalTransactions: totals.TotalTransactions,
		StartingCash:      shift.StartingCash,
		ExpectedCash:      shift.StartingCash.Add(totals.CashSales),
	}, nil
}

func shiftToResponse(shift *model.Shift) *dto.ShiftResponse {
	resp := &dto.ShiftResponse{
		ID:           shift.ID.String(),
		UserID:       shift.UserID.String(),
		StartTime:    shift.StartTime.Format("2006-01-02T15:04:05Z"),
		StartingCash: shift.StartingCash,
		EndingCash:   shift.EndingCash,
		Status:       shift.Status,
	}
	if shift.EndTime != nil {
		t := shift.EndTime.Format("2006-01-02T15:04:05Z")
		resp.EndTime = &t
	}
	return resp
}
