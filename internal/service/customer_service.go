package service

import (
	"context"
	"errors"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	GetByPhone(ctx context.Context, phone string) (*dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	resp := customerToResponse(c)
	return &resp, nil
}

// GetByPhone is the till-side lookup: cashiers key in the phone number the
// customer gives at checkout.
func (s *customerService) GetByPhone(ctx context.Context, phone string) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		items[i] = customerToResponse(&customers[i])
	}
	return items, nil
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:     c.ID.String(),
		Name:   c.Name,
		Phone:  c.Phone,
		Email:  c.Email,
		Points: c.Points,
	}
}
