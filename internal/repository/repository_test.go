package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"
	"salesnexus/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestFindByIDNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCustomerRepo(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Delete(context.Background(), uuid.New()); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestCustomerCRUD(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCustomerRepo(db)
	ctx := context.Background()

	c := &model.Customer{Name: "Ada", Email: "ada@example.com"}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	c.Phone = "555-0100"
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByEmail(ctx, "ada@example.com")
	if err != nil || got == nil || got.Phone != "555-0100" {
		t.Fatalf("find by email: %v %+v", err, got)
	}
	if missing, err := repo.FindByEmail(ctx, "nobody@example.com"); err != nil || missing != nil {
		t.Fatalf("expected nil for unknown email, got %+v %v", missing, err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ := repo.FindAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty list, got %d", len(all))
	}
}

func TestDecrementStockIsConditional(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.SeedSupplier(t, db, "Acme")
	p := testutil.SeedProduct(t, db, s.ID, "Widget", "10.00", 5)
	repo := NewProductRepo(db)
	ctx := context.Background()

	ok, err := repo.DecrementStock(ctx, p.ID, 3)
	if err != nil || !ok {
		t.Fatalf("first decrement: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DecrementStock(ctx, p.ID, 3)
	if err != nil || ok {
		t.Fatalf("second decrement should not apply: ok=%v err=%v", ok, err)
	}
	if stock := testutil.Stock(t, db, p.ID); stock != 2 {
		t.Fatalf("stock = %d, want 2", stock)
	}

	ok, err = repo.IncrementStock(ctx, p.ID, 4)
	if err != nil || !ok {
		t.Fatalf("increment: ok=%v err=%v", ok, err)
	}
	if stock := testutil.Stock(t, db, p.ID); stock != 6 {
		t.Fatalf("stock = %d, want 6", stock)
	}
	if ok, _ := repo.DecrementStock(ctx, uuid.New(), 1); ok {
		t.Fatalf("unknown product must not be decremented")
	}
}

func TestFindLowStock(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.SeedSupplier(t, db, "Acme")
	testutil.SeedProduct(t, db, s.ID, "Plenty", "1.00", 50)
	low := testutil.SeedProduct(t, db, s.ID, "Scarce", "1.00", 3)

	products, err := NewProductRepo(db).FindLowStock(context.Background(), 10)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(products) != 1 || products[0].ID != low.ID {
		t.Fatalf("unexpected low stock result %+v", products)
	}
	if products[0].Supplier == nil || products[0].Supplier.Name != "Acme" {
		t.Fatalf("supplier not preloaded")
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	db := testutil.NewDB(t)
	customer := testutil.SeedCustomer(t, db, "Ada")
	repo := NewInvoiceRepo(db)
	ctx := context.Background()
	day := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

	first, err := repo.NextInvoiceNumber(ctx, day)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if first != "INV-20240309-0001" {
		t.Fatalf("first number = %s", first)
	}

	inv := &model.Invoice{InvoiceNumber: first, Date: day, CustomerID: customer.ID, Status: model.InvoicePending, DueDate: day}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	second, _ := repo.NextInvoiceNumber(ctx, day)
	if second != "INV-20240309-0002" {
		t.Fatalf("second number = %s", second)
	}
	other, _ := repo.NextInvoiceNumber(ctx, day.AddDate(0, 0, 1))
	if other != "INV-20240310-0001" {
		t.Fatalf("next day number = %s", other)
	}
}

func TestNextInvoiceNumberPastFourDigits(t *testing.T) {
	db := testutil.NewDB(t)
	customer := testutil.SeedCustomer(t, db, "Ada")
	repo := NewInvoiceRepo(db)
	ctx := context.Background()
	day := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

	for _, number := range []string{"INV-20240309-9999", "INV-20240309-10000"} {
		inv := &model.Invoice{InvoiceNumber: number, Date: day, CustomerID: customer.ID, Status: model.InvoicePending, DueDate: day}
		if err := repo.Create(ctx, inv); err != nil {
			t.Fatalf("create %s: %v", number, err)
		}
	}
	next, err := repo.NextInvoiceNumber(ctx, day)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != "INV-20240309-10001" {
		t.Fatalf("next number = %s, want INV-20240309-10001", next)
	}
}

func TestUpdateLeavesLedgerColumns(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.SeedSupplier(t, db, "Acme")
	p := testutil.SeedProduct(t, db, s.ID, "Widget", "10.00", 10)
	repo := NewProductRepo(db)
	ctx := context.Background()

	stale, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ok, err := repo.DecrementStock(ctx, p.ID, 4); err != nil || !ok {
		t.Fatalf("decrement: %v %v", ok, err)
	}
	stale.Name = "Widget v2"
	stale.Supplier = nil
	if err := repo.Update(ctx, stale); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.FindByID(ctx, p.ID)
	if got.Name != "Widget v2" || got.Stock != 6 {
		t.Fatalf("after update name=%q stock=%d, want Widget v2 and 6", got.Name, got.Stock)
	}

	if err := repo.SetStock(ctx, p.ID, 15); err != nil {
		t.Fatalf("set stock: %v", err)
	}
	if got, _ := repo.FindByID(ctx, p.ID); got.Stock != 15 {
		t.Fatalf("set stock = %d, want 15", got.Stock)
	}
	if err := repo.SetStock(ctx, uuid.New(), 1); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvoiceItemsAndTotal(t *testing.T) {
	db := testutil.NewDB(t)
	customer := testutil.SeedCustomer(t, db, "Ada")
	s := testutil.SeedSupplier(t, db, "Acme")
	p := testutil.SeedProduct(t, db, s.ID, "Widget", "10.00", 5)
	repo := NewInvoiceRepo(db)
	ctx := context.Background()

	now := time.Now().UTC()
	inv := &model.Invoice{InvoiceNumber: "INV-1", Date: now, CustomerID: customer.ID, Status: model.InvoicePending, DueDate: now}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	item := &model.InvoiceItem{InvoiceID: inv.ID, ProductID: p.ID, Quantity: 2, Price: decimal.RequireFromString("10.00")}
	if err := repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := repo.UpdateTotal(ctx, inv.ID, decimal.RequireFromString("20.00")); err != nil {
		t.Fatalf("update total: %v", err)
	}

	loaded, err := repo.FindByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !loaded.Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("total = %s", loaded.Total)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Product == nil || loaded.Customer == nil {
		t.Fatalf("associations not preloaded: %+v", loaded)
	}

	byCustomer, _ := repo.FindByCustomer(ctx, customer.ID)
	if len(byCustomer) != 1 {
		t.Fatalf("expected one invoice for customer, got %d", len(byCustomer))
	}
	if has, _ := NewCustomerRepo(db).HasInvoices(ctx, customer.ID); !has {
		t.Fatalf("customer should report invoices")
	}
	if used, _ := NewProductRepo(db).IsInvoiced(ctx, p.ID); !used {
		t.Fatalf("product should report invoice usage")
	}

	if err := repo.DeleteItems(ctx, inv.ID); err != nil {
		t.Fatalf("delete items: %v", err)
	}
	items, _ := repo.FindItems(ctx, inv.ID)
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}
