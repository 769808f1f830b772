package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity is implemented by every persisted record so repositories can be written once.
type Entity interface {
	GetID() uuid.UUID
}

// BaseModel handles ID (UUID) and timestamps for all entities
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (base BaseModel) GetID() uuid.UUID {
	return base.ID
}

// BeforeCreate generates the UUID unless the caller already picked one
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// All lists the models managed by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&Supplier{},
		&Product{},
		&Invoice{},
		&InvoiceItem{},
	}
}
