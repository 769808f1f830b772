package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Repository[model.Invoice]
	WithTx(tx *gorm.DB) InvoiceRepository
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Invoice, error)
	NextInvoiceNumber(ctx context.Context, day time.Time) (string, error)
	UpdateTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error

	CreateItem(ctx context.Context, item *model.InvoiceItem) error
	FindItems(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error)
	DeleteItems(ctx context.Context, invoiceID uuid.UUID) error
}

type invoiceRepo struct {
	store[model.Invoice]
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items.Product").Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("invoice_items.created_at ASC")
	})
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	s := newStore[model.Invoice](db, "Invoice", func(db *gorm.DB) *gorm.DB {
		return preloadItems(db.Preload("Customer"))
	})
	s.order = "date DESC, created_at DESC"
	s.readOnly = []string{"total"}
	return &invoiceRepo{s}
}

func (r *invoiceRepo) WithTx(tx *gorm.DB) InvoiceRepository {
	return &invoiceRepo{r.withDB(tx)}
}

func (r *invoiceRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Invoice, error) {
	invoices := []model.Invoice{}
	err := preloadItems(r.conn(ctx)).
		Where("customer_id = ?", customerID).
		Order(r.order).
		Find(&invoices).Error
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return invoices, nil
}

// NextInvoiceNumber returns INV-YYYYMMDD-NNNN where NNNN follows the highest
// sequence already issued for that day.
func (r *invoiceRepo) NextInvoiceNumber(ctx context.Context, day time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", day.UTC().Format("20060102"))

	var last string
	err := r.conn(ctx).Model(&model.Invoice{}).
		Select("invoice_number").
		Where("invoice_number LIKE ?", prefix+"%").
		Order("LENGTH(invoice_number) DESC, invoice_number DESC").
		Limit(1).
		Row().Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", apperror.Persistence(err)
	}

	seq := 1
	if last != "" {
		n, convErr := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if convErr != nil {
			return "", apperror.Persistence(fmt.Errorf("malformed invoice number %q", last))
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (r *invoiceRepo) UpdateTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	result := r.conn(ctx).Model(&model.Invoice{}).Where("id = ?", id).Update("total", total)
	if result.Error != nil {
		return apperror.Persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Invoice with ID %s not found", id)
	}
	return nil
}

func (r *invoiceRepo) CreateItem(ctx context.Context, item *model.InvoiceItem) error {
	return apperror.Wrap(r.conn(ctx).Omit("Product").Create(item).Error)
}

func (r *invoiceRepo) FindItems(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error) {
	items := []model.InvoiceItem{}
	err := r.conn(ctx).Preload("Product").
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return items, nil
}

func (r *invoiceRepo) DeleteItems(ctx context.Context, invoiceID uuid.UUID) error {
	return apperror.Wrap(r.conn(ctx).Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceItem{}).Error)
}
