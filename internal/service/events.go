package service

import (
	"salesnexus/internal/apperror"
	"salesnexus/pkg/validator"
)

// Event types pushed to websocket subscribers
const (
	EventInvoiceCreated = "invoice_created"
	EventInvoiceUpdated = "invoice_updated"
	EventInvoiceDeleted = "invoice_deleted"
	EventStockUpdate    = "stock_update"
	EventLowStock       = "low_stock"
)

// EventPublisher fans domain events out to live clients. Implementations must not block.
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// validate runs struct tags and converts failures into a validation error
func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperror.ValidationWithDetails(errs, "%s", validator.Message(errs))
	}
	return nil
}
