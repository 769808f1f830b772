package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const ProductStatusActive = "active"

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"` // never negative, see repository.DecrementStock
	Category    string          `gorm:"type:varchar(50)" json:"category"`
	Status      string          `gorm:"type:varchar(20);default:'active'" json:"status"`

	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier   *Supplier `json:"supplier,omitempty"`
}
