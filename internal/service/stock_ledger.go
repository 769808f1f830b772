package service

import (
	"context"
	"errors"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"
	"salesnexus/internal/repository"
	"salesnexus/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockLedger is the only code path that moves product stock for invoice items.
type StockLedger struct {
	products repository.ProductRepository
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewStockLedger(products repository.ProductRepository, m *metrics.Metrics, log *zap.Logger) *StockLedger {
	return &StockLedger{products: products, metrics: m, log: log.Named("stock")}
}

// Reserve takes quantity units of product inside tx. On success product.Stock
// holds the new level. On failure nothing is written.
func (l *StockLedger) Reserve(ctx context.Context, tx *gorm.DB, product *model.Product, quantity int) (int, error) {
	if quantity < 1 {
		return 0, apperror.Validation("Quantity must be at least 1")
	}
	repo := l.products.WithTx(tx)

	ok, err := repo.DecrementStock(ctx, product.ID, quantity)
	if err != nil {
		l.metrics.ObserveReservation("error")
		return 0, err
	}

	current, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		result := "error"
		if errors.Is(err, apperror.ErrNotFound) {
			result = "not_found"
		}
		l.metrics.ObserveReservation(result)
		return 0, err
	}
	product.Stock = current.Stock

	if !ok {
		l.metrics.ObserveReservation("insufficient")
		l.log.Info("Stock reservation rejected",
			zap.String("product_id", product.ID.String()),
			zap.Int("available", current.Stock),
			zap.Int("requested", quantity),
		)
		return current.Stock, apperror.InsufficientStock(product.ID.String(), current.Name, current.Stock, quantity)
	}

	l.metrics.ObserveReservation("ok")
	return current.Stock, nil
}

// Release puts quantity units back. A product that no longer exists is skipped.
func (l *StockLedger) Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) error {
	ok, err := l.products.WithTx(tx).IncrementStock(ctx, productID, quantity)
	if err != nil {
		return err
	}
	if !ok {
		l.log.Warn("Stock release skipped, product missing", zap.String("product_id", productID.String()))
	}
	return nil
}
