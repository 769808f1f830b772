package service

import (
	"context"
	"time"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"
	"salesnexus/internal/repository"
	"salesnexus/pkg/config"
	"salesnexus/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceItemRequest is one requested line. Price defaults to the product's current price.
type InvoiceItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Quantity  int              `json:"quantity" validate:"required,gte=1"`
	Price     *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

type CreateInvoiceRequest struct {
	CustomerID  uuid.UUID            `json:"customer_id" validate:"uuid_required"`
	Date        *time.Time           `json:"date"`
	DueDate     *time.Time           `json:"due_date"`
	Status      model.InvoiceStatus  `json:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
	PaymentDate *time.Time           `json:"payment_date"`
	Total       *decimal.Decimal     `json:"total"`
	Items       []InvoiceItemRequest `json:"items" validate:"dive"`
	ItemsData   []InvoiceItemRequest `json:"items_data" validate:"dive"` // legacy client key
}

func (r *CreateInvoiceRequest) lines() []InvoiceItemRequest {
	if len(r.Items) == 0 {
		return r.ItemsData
	}
	return r.Items
}

// UpdateInvoiceRequest only touches the fields that are present.
// A non-nil Items replaces every existing line.
type UpdateInvoiceRequest struct {
	CustomerID  *uuid.UUID            `json:"customer_id"`
	Date        *time.Time            `json:"date"`
	DueDate     *time.Time            `json:"due_date"`
	Status      *model.InvoiceStatus  `json:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
	PaymentDate *time.Time            `json:"payment_date"`
	Total       *decimal.Decimal      `json:"total"`
	Items       *[]InvoiceItemRequest `json:"items" validate:"omitempty,dive"`
}

type InvoiceService interface {
	Create(ctx context.Context, req *CreateInvoiceRequest) (*model.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateInvoiceRequest) (*model.Invoice, error)
	AddItem(ctx context.Context, invoiceID uuid.UUID, req *InvoiceItemRequest) (*model.InvoiceItem, error)
	ListItems(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context) ([]model.Invoice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	db        *gorm.DB
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	ledger    *StockLedger
	events    EventPublisher
	sales     config.SalesConfig
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

func NewInvoiceService(
	db *gorm.DB,
	iRepo repository.InvoiceRepository,
	cRepo repository.CustomerRepository,
	pRepo repository.ProductRepository,
	ledger *StockLedger,
	events EventPublisher,
	sales config.SalesConfig,
	m *metrics.Metrics,
	log *zap.Logger,
) InvoiceService {
	return &invoiceService{
		db:        db,
		invoices:  iRepo,
		customers: cRepo,
		products:  pRepo,
		ledger:    ledger,
		events:    publisherOrNop(events),
		sales:     sales,
		metrics:   m,
		log:       log.Named("invoice"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var errTotalReadOnly = apperror.ValidationWithDetails(
	map[string]string{"total": "derived from items"},
	"Invoice total is computed from its items and cannot be set",
)

func (s *invoiceService) Create(ctx context.Context, req *CreateInvoiceRequest) (*model.Invoice, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Total != nil {
		return nil, errTotalReadOnly
	}

	var (
		invoiceID uuid.UUID
		added     []model.InvoiceItem
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.customers.WithTx(tx).FindByID(ctx, req.CustomerID); err != nil {
			return err
		}
		invoices := s.invoices.WithTx(tx)

		now := s.now()
		number, err := invoices.NextInvoiceNumber(ctx, now)
		if err != nil {
			return err
		}

		invoice := &model.Invoice{
			InvoiceNumber: number,
			Date:          now,
			CustomerID:    req.CustomerID,
			Status:        model.InvoicePending,
			Total:         decimal.Zero,
			PaymentDate:   req.PaymentDate,
		}
		if req.Date != nil {
			invoice.Date = req.Date.UTC()
		}
		invoice.DueDate = invoice.Date.AddDate(0, 0, s.sales.InvoiceDueDays)
		if req.DueDate != nil {
			invoice.DueDate = req.DueDate.UTC()
		}
		if req.Status != "" {
			invoice.Status = req.Status
		}
		s.stampPayment(invoice)

		if err := invoices.Create(ctx, invoice); err != nil {
			return err
		}

		added, err = s.addItems(ctx, tx, invoice.ID, req.lines())
		if err != nil {
			return err
		}
		if _, err := s.recompute(ctx, tx, invoice.ID); err != nil {
			return err
		}
		invoiceID = invoice.ID
		return nil
	})
	if err != nil {
		s.log.Debug("Invoice creation rolled back", zap.Error(err))
		return nil, apperror.Wrap(err)
	}

	created, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveInvoiceCreated()
	s.log.Info("Invoice created",
		zap.String("invoice_number", created.InvoiceNumber),
		zap.Int("items", len(created.Items)),
		zap.String("total", created.Total.StringFixed(2)),
	)
	s.events.Publish(EventInvoiceCreated, created)
	s.publishStock(added)
	return created, nil
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, req *UpdateInvoiceRequest) (*model.Invoice, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Total != nil {
		return nil, errTotalReadOnly
	}

	var added []model.InvoiceItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoices := s.invoices.WithTx(tx)
		invoice, err := invoices.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if req.CustomerID != nil && *req.CustomerID != invoice.CustomerID {
			if _, err := s.customers.WithTx(tx).FindByID(ctx, *req.CustomerID); err != nil {
				return err
			}
			invoice.CustomerID = *req.CustomerID
			invoice.Customer = nil
		}
		if req.Date != nil {
			invoice.Date = req.Date.UTC()
		}
		if req.DueDate != nil {
			invoice.DueDate = req.DueDate.UTC()
		}
		if req.PaymentDate != nil {
			paid := req.PaymentDate.UTC()
			invoice.PaymentDate = &paid
		}
		if req.Status != nil {
			invoice.Status = *req.Status
		}
		s.stampPayment(invoice)

		if err := invoices.Update(ctx, invoice); err != nil {
			return err
		}

		if req.Items == nil {
			return nil
		}

		// Replace every line: give back old stock per policy, then reserve the new batch
		old, err := invoices.FindItems(ctx, id)
		if err != nil {
			return err
		}
		if err := invoices.DeleteItems(ctx, id); err != nil {
			return err
		}
		if s.sales.RestoreStock() {
			for _, item := range old {
				if err := s.ledger.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		added, err = s.addItems(ctx, tx, id, *req.Items)
		if err != nil {
			return err
		}
		_, err = s.recompute(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, apperror.Wrap(err)
	}

	updated, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("Invoice updated",
		zap.String("invoice_number", updated.InvoiceNumber),
		zap.Bool("items_replaced", req.Items != nil),
	)
	s.events.Publish(EventInvoiceUpdated, updated)
	s.publishStock(added)
	return updated, nil
}

func (s *invoiceService) AddItem(ctx context.Context, invoiceID uuid.UUID, req *InvoiceItemRequest) (*model.InvoiceItem, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var added []model.InvoiceItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.invoices.WithTx(tx).FindByID(ctx, invoiceID); err != nil {
			return err
		}
		var err error
		added, err = s.addItems(ctx, tx, invoiceID, []InvoiceItemRequest{*req})
		if err != nil {
			return err
		}
		_, err = s.recompute(ctx, tx, invoiceID)
		return err
	})
	if err != nil {
		return nil, apperror.Wrap(err)
	}

	s.publishStock(added)
	if invoice, err := s.invoices.FindByID(ctx, invoiceID); err == nil {
		s.events.Publish(EventInvoiceUpdated, invoice)
	}
	return &added[0], nil
}

func (s *invoiceService) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error) {
	if _, err := s.invoices.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.invoices.FindItems(ctx, invoiceID)
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context) ([]model.Invoice, error) {
	return s.invoices.FindAll(ctx)
}

func (s *invoiceService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Invoice, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.invoices.FindByCustomer(ctx, customerID)
}

// Delete removes the invoice and its items together, restoring stock per policy.
func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	var number string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoices := s.invoices.WithTx(tx)
		invoice, err := invoices.FindByID(ctx, id)
		if err != nil {
			return err
		}
		number = invoice.InvoiceNumber

		if s.sales.RestoreStock() {
			for _, item := range invoice.Items {
				if err := s.ledger.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		if err := invoices.DeleteItems(ctx, id); err != nil {
			return err
		}
		return invoices.Delete(ctx, id)
	})
	if err != nil {
		return apperror.Wrap(err)
	}

	s.log.Info("Invoice deleted", zap.String("invoice_number", number))
	s.events.Publish(EventInvoiceDeleted, map[string]interface{}{"id": id, "invoice_number": number})
	return nil
}

// addItems reserves stock and persists each line in order. The first failure aborts the batch.
func (s *invoiceService) addItems(ctx context.Context, tx *gorm.DB, invoiceID uuid.UUID, lines []InvoiceItemRequest) ([]model.InvoiceItem, error) {
	products := s.products.WithTx(tx)
	invoices := s.invoices.WithTx(tx)

	added := make([]model.InvoiceItem, 0, len(lines))
	for _, line := range lines {
		product, err := products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		price := product.Price
		if line.Price != nil {
			price = line.Price.Round(2)
		}

		if _, err := s.ledger.Reserve(ctx, tx, product, line.Quantity); err != nil {
			return nil, err
		}

		item := model.InvoiceItem{
			InvoiceID: invoiceID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     price,
		}
		if err := invoices.CreateItem(ctx, &item); err != nil {
			return nil, err
		}
		item.Product = product
		added = append(added, item)
	}
	return added, nil
}

// recompute rewrites the stored total from the persisted items.
func (s *invoiceService) recompute(ctx context.Context, tx *gorm.DB, invoiceID uuid.UUID) (decimal.Decimal, error) {
	invoices := s.invoices.WithTx(tx)
	items, err := invoices.FindItems(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	total := ComputeTotal(items)
	return total, invoices.UpdateTotal(ctx, invoiceID, total)
}

// stampPayment records today as payment date when an invoice turns paid without one.
func (s *invoiceService) stampPayment(invoice *model.Invoice) {
	if invoice.Status == model.InvoicePaid && invoice.PaymentDate == nil {
		now := s.now()
		invoice.PaymentDate = &now
	}
}

func (s *invoiceService) publishStock(items []model.InvoiceItem) {
	for _, item := range items {
		p := item.Product
		if p == nil {
			continue
		}
		s.events.Publish(EventStockUpdate, map[string]interface{}{
			"product_id": p.ID,
			"name":       p.Name,
			"stock":      p.Stock,
		})
		if p.Stock < s.sales.LowStockThreshold {
			s.log.Warn("Product stock below threshold",
				zap.String("product_id", p.ID.String()),
				zap.String("name", p.Name),
				zap.Int("stock", p.Stock),
			)
			s.events.Publish(EventLowStock, map[string]interface{}{
				"product_id": p.ID,
				"name":       p.Name,
				"stock":      p.Stock,
				"threshold":  s.sales.LowStockThreshold,
			})
		}
	}
}
