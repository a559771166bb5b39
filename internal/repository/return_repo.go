package repository

import (
	"context"

	"tillpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReturnRepository interface {
	CreateTx(tx *gorm.DB, ret *model.Return) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Return, error)
	List(ctx context.Context) ([]model.Return, error)
	DB() *gorm.DB
}

type returnRepo struct{ db *gorm.DB }

func NewReturnRepository(db *gorm.DB) ReturnRepository { return &returnRepo{db: db} }

func (r *returnRepo) DB() *gorm.DB { return r.db }

func (r *returnRepo) CreateTx(tx *gorm.DB, ret *model.Return) error {
	return tx.Create(ret).Error
}

func (r *returnRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Return, error) {
	var ret model.Return
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&ret, id).Error
	return &ret, err
}

func (r *returnRepo) List(ctx context.Context) ([]model.Return, error) {
	var returns []model.Return
	err := r.db.WithContext(ctx).Preload("Items.Product").Preload("OriginalTransaction").
		Order("created_at DESC").Find(&returns).Error
	return returns, err
}
