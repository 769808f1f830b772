package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindPersistence Kind = iota
	KindNotFound
	KindValidation
	KindInsufficientStock
)

// Wire codes used in the error envelope
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeDatabase          = "DATABASE_ERROR"
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so errors.Is(err, apperror.ErrNotFound) works for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return 404
	case KindValidation, KindInsufficientStock:
		return 400
	default:
		return 500
	}
}

// Kind-only sentinels for errors.Is
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrPersistence       = &Error{Kind: KindPersistence}
)

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails carries field level failures to the client.
func ValidationWithDetails(details interface{}, format string, args ...interface{}) *Error {
	e := Validation(format, args...)
	e.Details = details
	return e
}

// InsufficientStock identifies the product whose stock cannot cover the request.
func InsufficientStock(productID, productName string, available, requested int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for product %s", productName),
		Details: map[string]interface{}{
			"product_id": productID,
			"available":  available,
			"requested":  requested,
		},
	}
}

// Persistence wraps an underlying storage failure, keeping its message.
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Code: CodeDatabase, Message: err.Error(), Err: err}
}

// Wrap passes *Error values through untouched and turns anything else into a persistence error.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Persistence(err)
}

// From extracts the *Error from a chain, wrapping foreign errors as persistence failures.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Persistence(err)
}
