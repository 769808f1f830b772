// Package testutil opens throwaway sqlite databases and seeds fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"salesnexus/internal/model"
	"salesnexus/pkg/config"
	"salesnexus/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory database private to the calling test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.DBConfig{
		Driver:     "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		LogLevel:   "silent",
	}
	db, err := database.Connect(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func SeedCustomer(t *testing.T, db *gorm.DB, name string) model.Customer {
	t.Helper()
	c := model.Customer{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func SeedSupplier(t *testing.T, db *gorm.DB, name string) model.Supplier {
	t.Helper()
	s := model.Supplier{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@supplier.example.com",
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return s
}

func SeedProduct(t *testing.T, db *gorm.DB, supplierID uuid.UUID, name, price string, stock int) model.Product {
	t.Helper()
	p := model.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		SupplierID: supplierID,
		Status:     model.ProductStatusActive,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// Stock reads the persisted stock, bypassing any cached record.
func Stock(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var p model.Product
	if err := db.First(&p, "id = ?", productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return p.Stock
}
