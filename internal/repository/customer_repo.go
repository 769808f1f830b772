package repository

import (
	"context"
	"errors"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Repository[model.Customer]
	WithTx(tx *gorm.DB) CustomerRepository
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	HasInvoices(ctx context.Context, id uuid.UUID) (bool, error)
}

type customerRepo struct {
	store[model.Customer]
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{newStore[model.Customer](db, "Customer", nil)}
}

func (r *customerRepo) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepo{r.withDB(tx)}
}

// FindByEmail returns (nil, nil) when no customer uses the address
func (r *customerRepo) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.conn(ctx).First(&customer, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.Persistence(err)
	}
	return &customer, nil
}

func (r *customerRepo) HasInvoices(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &model.Invoice{}, "customer_id = ?", id)
}
