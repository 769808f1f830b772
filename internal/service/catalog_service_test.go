package service

import (
	"context"
	"errors"
	"testing"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"
	"salesnexus/internal/repository"
	"salesnexus/internal/testutil"
	"salesnexus/pkg/config"
	"salesnexus/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestCustomerServiceEmailUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCustomerService(repository.NewCustomerRepo(db), zap.NewNop())
	ctx := context.Background()

	ada, err := svc.Create(ctx, &CustomerRequest{Name: "Ada", Email: "Ada@Example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ada.Email != "ada@example.com" {
		t.Fatalf("email not normalised: %s", ada.Email)
	}

	_, err = svc.Create(ctx, &CustomerRequest{Name: "Impostor", Email: "ada@example.com"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected duplicate email rejection, got %v", err)
	}

	// keeping your own email on update is fine
	updated, err := svc.Update(ctx, ada.ID, &CustomerRequest{Name: "Ada L.", Email: "ada@example.com", Phone: "555"})
	if err != nil || updated.Name != "Ada L." {
		t.Fatalf("update: %v %+v", err, updated)
	}

	if _, err := svc.Create(ctx, &CustomerRequest{Name: "", Email: "not-an-email"}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), &CustomerRequest{Name: "X", Email: "x@example.com"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCustomerServiceDeleteGuard(t *testing.T) {
	f := newFixture(t, config.RestorePolicyRestore)
	svc := NewCustomerService(repository.NewCustomerRepo(f.db), zap.NewNop())
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, &CreateInvoiceRequest{CustomerID: f.customer.ID}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if err := svc.Delete(ctx, f.customer.ID); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("customer with invoices must not be deleted, got %v", err)
	}

	lonely := testutil.SeedCustomer(t, f.db, "Lonely")
	if err := svc.Delete(ctx, lonely.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, lonely.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestSupplierService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSupplierService(repository.NewSupplierRepo(db), zap.NewNop())
	ctx := context.Background()

	acme, err := svc.Create(ctx, &SupplierRequest{Name: "Acme", Email: "sales@acme.test", RelationshipStatus: "active"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, &SupplierRequest{Name: "Acme 2", Email: "sales@acme.test"}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected duplicate email rejection, got %v", err)
	}

	testutil.SeedProduct(t, db, acme.ID, "Widget", "1.00", 1)
	if err := svc.Delete(ctx, acme.ID); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("supplier with products must not be deleted, got %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %d %v", len(list), err)
	}
}

func TestProductService(t *testing.T) {
	db := testutil.NewDB(t)
	supplier := testutil.SeedSupplier(t, db, "Acme")
	events := &recordingPublisher{}
	sales := config.SalesConfig{LowStockThreshold: 10}
	svc := NewProductService(repository.NewProductRepo(db), repository.NewSupplierRepo(db), sales, events, zap.NewNop())
	ctx := context.Background()

	price := decimal.RequireFromString("12.345")
	stock := 4
	p, err := svc.Create(ctx, &ProductRequest{Name: "Widget", Price: &price, Stock: &stock, SupplierID: supplier.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.Price.Equal(decimal.RequireFromString("12.35")) || p.Status != "active" {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Supplier == nil || p.Supplier.ID != supplier.ID {
		t.Fatalf("supplier not loaded")
	}

	negative := decimal.NewFromInt(-1)
	if _, err := svc.Create(ctx, &ProductRequest{Name: "Bad", Price: &negative, SupplierID: supplier.ID}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
	zero := decimal.Zero
	if _, err := svc.Create(ctx, &ProductRequest{Name: "Free", Price: &zero, SupplierID: supplier.ID}); err != nil {
		t.Fatalf("zero price should be accepted: %v", err)
	}
	if _, err := svc.Create(ctx, &ProductRequest{Name: "Orphan", Price: &price, SupplierID: uuid.New()}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected supplier not found, got %v", err)
	}

	low, err := svc.LowStock(ctx, 0)
	if err != nil || len(low) != 2 {
		t.Fatalf("low stock: %d %v", len(low), err)
	}

	restock := 40
	updated, err := svc.Update(ctx, p.ID, &ProductRequest{Name: "Widget", Price: &price, Stock: &restock, SupplierID: supplier.ID})
	if err != nil || updated.Stock != 40 {
		t.Fatalf("update: %v %+v", err, updated)
	}
	if events.count(EventStockUpdate) != 1 {
		t.Fatalf("stock change should publish an event")
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

// interleavedProducts runs before ahead of every Update, standing in for a
// write that commits between the catalog's read and its write.
type interleavedProducts struct {
	repository.ProductRepository
	before func()
}

func (r interleavedProducts) Update(ctx context.Context, p *model.Product) error {
	r.before()
	return r.ProductRepository.Update(ctx, p)
}

func TestProductUpdateKeepsConcurrentReservation(t *testing.T) {
	db := testutil.NewDB(t)
	supplier := testutil.SeedSupplier(t, db, "Acme")
	p := testutil.SeedProduct(t, db, supplier.ID, "Widget", "10.00", 10)
	ctx := context.Background()

	products := repository.NewProductRepo(db)
	ledger := NewStockLedger(products, nil, zap.NewNop())
	reserved := false
	repo := interleavedProducts{products, func() {
		if reserved {
			return
		}
		reserved = true
		target := p
		if _, err := ledger.Reserve(ctx, db, &target, 3); err != nil {
			t.Fatalf("reserve: %v", err)
		}
	}}
	events := &recordingPublisher{}
	svc := NewProductService(repo, repository.NewSupplierRepo(db), config.SalesConfig{LowStockThreshold: 5}, events, zap.NewNop())

	price := decimal.RequireFromString("12.00")
	renamed, err := svc.Update(ctx, p.ID, &ProductRequest{Name: "Widget Pro", Price: &price, SupplierID: supplier.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if renamed.Name != "Widget Pro" || !renamed.Price.Equal(price) {
		t.Fatalf("header not written: %+v", renamed)
	}
	if stock := testutil.Stock(t, db, p.ID); stock != 7 {
		t.Fatalf("stock = %d, want 7: an update without stock must not overwrite it", stock)
	}
	if events.count(EventStockUpdate) != 0 {
		t.Fatalf("no stock event expected without a stock change")
	}

	restock := 20
	if _, err := svc.Update(ctx, p.ID, &ProductRequest{Name: "Widget Pro", Price: &price, Stock: &restock, SupplierID: supplier.ID}); err != nil {
		t.Fatalf("restock: %v", err)
	}
	if stock := testutil.Stock(t, db, p.ID); stock != 20 {
		t.Fatalf("explicit stock = %d, want 20", stock)
	}
	if events.count(EventStockUpdate) != 1 {
		t.Fatalf("explicit stock change should publish stock_update")
	}
}

func TestValidationMessageKeptVerbatim(t *testing.T) {
	req := &CustomerRequest{Name: "", Email: "not-an-email"}
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		t.Fatalf("request should fail validation")
	}
	appErr := apperror.From(validate(req))
	if appErr.Kind != apperror.KindValidation || appErr.Message != validator.Message(errs) {
		t.Fatalf("message = %q, want %q", appErr.Message, validator.Message(errs))
	}
}
