package service

import (
	"context"
	"strings"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"
	"salesnexus/internal/repository"
	"salesnexus/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Category    string           `json:"category" validate:"max=50"`
	Status      string           `json:"status" validate:"omitempty,max=20"`
	SupplierID  uuid.UUID        `json:"supplier_id" validate:"uuid_required"`
}

type ProductService interface {
	Create(ctx context.Context, req *ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	suppliers repository.SupplierRepository
	sales     config.SalesConfig
	events    EventPublisher
	log       *zap.Logger
}

func NewProductService(repo repository.ProductRepository, suppliers repository.SupplierRepository, sales config.SalesConfig, events EventPublisher, log *zap.Logger) ProductService {
	return &productService{
		repo:      repo,
		suppliers: suppliers,
		sales:     sales,
		events:    publisherOrNop(events),
		log:       log.Named("product"),
	}
}

func (s *productService) Create(ctx context.Context, req *ProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.suppliers.FindByID(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	product := &model.Product{Status: model.ProductStatusActive}
	applyProduct(product, req)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.log.Info("Product created", zap.String("id", product.ID.String()), zap.Int("stock", product.Stock))
	return s.repo.FindByID(ctx, product.ID)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SupplierID != product.SupplierID {
		if _, err := s.suppliers.FindByID(ctx, req.SupplierID); err != nil {
			return nil, err
		}
	}

	oldStock := product.Stock
	applyProduct(product, req)
	product.Supplier = nil
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	// Stock is written only when the request carries it
	if req.Stock != nil {
		if err := s.repo.SetStock(ctx, id, *req.Stock); err != nil {
			return nil, err
		}
		if *req.Stock != oldStock {
			s.events.Publish(EventStockUpdate, map[string]interface{}{
				"product_id": product.ID,
				"name":       product.Name,
				"old_stock":  oldStock,
				"stock":      *req.Stock,
			})
		}
	}
	return s.repo.FindByID(ctx, id)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.FindAll(ctx)
}

// LowStock lists products under threshold, or under the configured default when threshold <= 0.
func (s *productService) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	if threshold <= 0 {
		threshold = s.sales.LowStockThreshold
	}
	return s.repo.FindLowStock(ctx, threshold)
}

// Delete refuses products referenced by invoice lines
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	used, err := s.repo.IsInvoiced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apperror.Validation("Product appears on invoices and cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}

func applyProduct(p *model.Product, req *ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = req.Price.Round(2)
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	p.Category = req.Category
	if req.Status != "" {
		p.Status = req.Status
	}
	p.SupplierID = req.SupplierID
}
