package repository

import (
	"context"
	"errors"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Repository[model.Supplier]
	WithTx(tx *gorm.DB) SupplierRepository
	FindByEmail(ctx context.Context, email string) (*model.Supplier, error)
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}

type supplierRepo struct {
	store[model.Supplier]
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{newStore[model.Supplier](db, "Supplier", nil)}
}

func (r *supplierRepo) WithTx(tx *gorm.DB) SupplierRepository {
	return &supplierRepo{r.withDB(tx)}
}

func (r *supplierRepo) FindByEmail(ctx context.Context, email string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.conn(ctx).First(&supplier, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.Persistence(err)
	}
	return &supplier, nil
}

func (r *supplierRepo) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &model.Product{}, "supplier_id = ?", id)
}
