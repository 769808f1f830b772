package service

import (
	"salesnexus/internal/model"

	"github.com/shopspring/decimal"
)

// ComputeTotal sums price x quantity over items with exact decimal arithmetic.
func ComputeTotal(items []model.InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}
