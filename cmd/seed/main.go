// Command seed loads a small demo catalogue. Running it twice is harmless:
// records are matched by email or name before being created.
package main

import (
	"context"
	"errors"
	"log"

	"salesnexus/internal/model"
	"salesnexus/internal/repository"
	"salesnexus/internal/service"
	"salesnexus/pkg/config"
	"salesnexus/pkg/database"
	"salesnexus/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type demoProduct struct {
	name     string
	category string
	price    string
	stock    int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zapLog, err := logger.New(logger.Config{Level: cfg.Log.Level, Environment: cfg.Server.Env, ServiceName: "salesnexus-seed"})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLog.Sync()

	db, err := database.Connect(&cfg.DB, zapLog)
	if err != nil {
		zapLog.Fatal("Database unavailable", zap.Error(err))
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		zapLog.Fatal("Migration failed", zap.Error(err))
	}

	if err := seed(context.Background(), db, cfg, zapLog); err != nil {
		zapLog.Fatal("Seeding failed", zap.Error(err))
	}
	zapLog.Info("Seed complete")
}

func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	customerRepo := repository.NewCustomerRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)

	supplier, err := supplierRepo.FindByEmail(ctx, "orders@northwind.example.com")
	if err != nil {
		return err
	}
	if supplier == nil {
		supplier = &model.Supplier{
			Name:               "Northwind Traders",
			Email:              "orders@northwind.example.com",
			RelationshipStatus: "active",
			AccountManager:     "Demo Manager",
		}
		if err := supplierRepo.Create(ctx, supplier); err != nil {
			return err
		}
		log.Info("Supplier created", zap.String("name", supplier.Name))
	}

	products := []demoProduct{
		{"Laptop Stand", "Accessories", "39.90", 25},
		{"USB-C Hub", "Accessories", "24.50", 40},
		{"Mechanical Keyboard", "Peripherals", "89.00", 12},
		{"Wireless Mouse", "Peripherals", "19.99", 6},
	}
	var productIDs []uuid.UUID
	for _, p := range products {
		var existing model.Product
		err := db.WithContext(ctx).Where("name = ?", p.name).First(&existing).Error
		if err == nil {
			productIDs = append(productIDs, existing.ID)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		product := &model.Product{
			Name:       p.name,
			Category:   p.category,
			Price:      decimal.RequireFromString(p.price),
			Stock:      p.stock,
			Status:     model.ProductStatusActive,
			SupplierID: supplier.ID,
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		productIDs = append(productIDs, product.ID)
	}

	customer, err := customerRepo.FindByEmail(ctx, "jane.doe@example.com")
	if err != nil {
		return err
	}
	if customer != nil {
		log.Info("Demo data already present, skipping invoice")
		return nil
	}
	customer = &model.Customer{Name: "Jane Doe", Email: "jane.doe@example.com", Phone: "555-0100", Address: "1 Demo Street"}
	if err := customerRepo.Create(ctx, customer); err != nil {
		return err
	}

	// Goes through the invoice service so stock is reserved like any real sale
	invoices := service.NewInvoiceService(db, invoiceRepo, customerRepo, productRepo,
		service.NewStockLedger(productRepo, nil, log), nil, cfg.Sales, nil, log)
	invoice, err := invoices.Create(ctx, &service.CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items: []service.InvoiceItemRequest{
			{ProductID: productIDs[0], Quantity: 2},
			{ProductID: productIDs[2], Quantity: 1},
		},
	})
	if err != nil {
		return err
	}
	log.Info("Demo invoice created", zap.String("invoice_number", invoice.InvoiceNumber), zap.String("total", invoice.Total.StringFixed(2)))
	return nil
}
