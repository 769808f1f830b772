package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type Invoice struct {
	BaseModel
	InvoiceNumber string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"invoice_number"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer      *Customer       `json:"customer,omitempty"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total"` // Derived from Items, never set from input
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DueDate       time.Time       `json:"due_date"`
	PaymentDate   *time.Time      `json:"payment_date"`

	Items []InvoiceItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
}

type InvoiceItem struct {
	BaseModel
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // Snapshot at sale time, not linked to Product.Price
}

// Subtotal is price x quantity for this line
func (i InvoiceItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MarshalJSON adds the derived subtotal to the item payload
func (i InvoiceItem) MarshalJSON() ([]byte, error) {
	type item InvoiceItem
	return json.Marshal(struct {
		item
		Subtotal decimal.Decimal `json:"subtotal"`
	}{item(i), i.Subtotal()})
}

// ValidInvoiceStatus reports whether s is one of the known lifecycle states
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}
