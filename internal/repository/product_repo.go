package repository

import (
	"context"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Repository[model.Product]
	WithTx(tx *gorm.DB) ProductRepository
	FindLowStock(ctx context.Context, threshold int) ([]model.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	IsInvoiced(ctx context.Context, id uuid.UUID) (bool, error)
}

type productRepo struct {
	store[model.Product]
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	s := newStore[model.Product](db, "Product", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Supplier")
	})
	// stock only moves through the statements below
	s.readOnly = []string{"stock"}
	return &productRepo{s}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{r.withDB(tx)}
}

func (r *productRepo) FindLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	products := []model.Product{}
	err := r.scope(r.conn(ctx)).
		Where("stock < ?", threshold).
		Order("stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return products, nil
}

// DecrementStock subtracts quantity only when the current stock covers it.
// The check and the write are one statement, so two concurrent callers can
// never both pass the check on the same units. Returns false when no row
// qualified (unknown product or not enough stock).
func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	result := r.conn(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, apperror.Persistence(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *productRepo) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	result := r.conn(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return false, apperror.Persistence(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// SetStock overwrites the stock level, for explicit catalog corrections.
func (r *productRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	result := r.conn(ctx).Model(&model.Product{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return apperror.Persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Product with ID %s not found", id)
	}
	return nil
}

func (r *productRepo) IsInvoiced(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &model.InvoiceItem{}, "product_id = ?", id)
}
