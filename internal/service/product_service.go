package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// productCacheTTL keeps the price-lookup hot path cheap without risking a
// stale price surviving long after an update (writes also invalidate).
const productCacheTTL = 60 * time.Second

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	ListExpiring(ctx context.Context, days int) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	AdjustStock(ctx context.Context, id uuid.UUID, stock int) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		SKU:      req.SKU,
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		IsActive: true,
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, errors.New("invalid category_id")
		}
		p.CategoryID = &cid
	}
	if req.ExpirationDate != nil {
		exp, err := time.Parse("2006-01-02", *req.ExpirationDate)
		if err != nil {
			return nil, errors.New("invalid expiration_date")
		}
		p.ExpirationDate = &exp
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	if cached := s.fromCache(ctx, cacheKey(id.String())); cached != nil {
		return cached, nil
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	resp := productToResponse(p)
	s.toCache(ctx, cacheKey(id.String()), &resp)
	return &resp, nil
}

func (s *productService) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	if cached := s.fromCache(ctx, cacheKey("sku:"+sku)); cached != nil {
		return cached, nil
	}
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, errors.New("product not found")
	}
	resp := productToResponse(p)
	s.toCache(ctx, cacheKey("sku:"+sku), &resp)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, len(products))
	for i := range products {
		items[i] = productToResponse(&products[i])
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) ListExpiring(ctx context.Context, days int) ([]dto.ProductResponse, error) {
	if days < 1 {
		days = 7
	}
	products, err := s.repo.ListExpiring(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, len(products))
	for i := range products {
		items[i] = productToResponse(&products[i])
	}
	return items, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, errors.New("invalid category_id")
		}
		p.CategoryID = &cid
	}
	if req.ExpirationDate != nil {
		exp, err := time.Parse("2006-01-02", *req.ExpirationDate)
		if err != nil {
			return nil, errors.New("invalid expiration_date")
		}
		p.ExpirationDate = &exp
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p)
	resp := productToResponse(p)
	return &resp, nil
}

// AdjustStock is the administrative override path. It sets the absolute
// quantity and does not go through the settlement decrement.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, stock int) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("product not found")
	}
	if err := s.repo.SetStock(ctx, id, stock); err != nil {
		return err
	}
	s.invalidate(ctx, p)
	return nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("product not found")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, p)
	return nil
}

// ── Cache helpers ─────────────────────────────────────────────────────────────
// Cache misses and Redis outages degrade to DB reads; never to failures.

func cacheKey(suffix string) string { return fmt.Sprintf("product:%s", suffix) }

func (s *productService) fromCache(ctx context.Context, key string) *dto.ProductResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var resp dto.ProductResponse
	if json.Unmarshal([]byte(raw), &resp) != nil {
		return nil
	}
	return &resp
}

func (s *productService) toCache(ctx context.Context, key string, resp *dto.ProductResponse) {
	if s.rdb == nil {
		return
	}
	if data, err := json.Marshal(resp); err == nil {
		_ = s.rdb.Set(ctx, key, data, productCacheTTL).Err()
	}
}

func (s *productService) invalidate(ctx context.Context, p *model.Product) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, cacheKey(p.ID.String()), cacheKey("sku:"+p.SKU)).Err()
}

func productToResponse(p *model.Product) dto.ProductResponse {
	var categoryID *string
	if p.CategoryID != nil {
		cid := p.CategoryID.String()
		categoryID = &cid
	}
	var expiration *string
	if p.ExpirationDate != nil {
		e := p.ExpirationDate.Format("2006-01-02")
		expiration = &e
	}
	return dto.ProductResponse{
		ID:             p.ID.String(),
		SKU:            p.SKU,
		Name:           p.Name,
		Price:          p.Price.Round(2),
		Stock:          p.Stock,
		CategoryID:     categoryID,
		IsActive:       p.IsActive,
		ExpirationDate: expiration,
	}
}
