package repository

import (
	"context"
	"time"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository holds the read-only aggregate queries behind the dashboard.
type DashboardRepository interface {
	GetCounts(ctx context.Context) (*EntityCounts, error)
	SumSales(ctx context.Context, window *TimeWindow) (decimal.Decimal, error)
	AverageInvoiceValue(ctx context.Context) (decimal.Decimal, error)
	CountInvoicesByStatus(ctx context.Context, status model.InvoiceStatus) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	CountCustomersSince(ctx context.Context, since time.Time) (int64, error)
	CountPurchasingCustomers(ctx context.Context) (int64, error)
	GetTopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	GetRecentInvoices(ctx context.Context, limit int, byCreation bool) ([]model.Invoice, error)
	GetRecentCustomers(ctx context.Context, limit int) ([]model.Customer, error)
}

// TimeWindow is the half-open interval [Start, End)
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// EntityCounts are the headline totals of the overview
type EntityCounts struct {
	Customers int64
	Products  int64
	Invoices  int64
}

// TopProduct is one row of the best sellers ranking
type TopProduct struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	TotalSold    int64           `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) GetCounts(ctx context.Context) (*EntityCounts, error) {
	var counts EntityCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Customer{}).Count(&counts.Customers).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := db.Model(&model.Product{}).Count(&counts.Products).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := db.Model(&model.Invoice{}).Count(&counts.Invoices).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	return &counts, nil
}

// SumSales totals invoices dated inside window, or all invoices when window is nil.
func (r *dashboardRepo) SumSales(ctx context.Context, window *TimeWindow) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{}).Select("COALESCE(SUM(total), 0)")
	if window != nil {
		q = q.Where("date >= ? AND date < ?", window.Start, window.End)
	}
	return scanDecimal(q)
}

func (r *dashboardRepo) AverageInvoiceValue(ctx context.Context) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{}).Select("COALESCE(AVG(total), 0)")
	return scanDecimal(q)
}

func (r *dashboardRepo) CountInvoicesByStatus(ctx context.Context, status model.InvoiceStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).Where("status = ?", status).Count(&count).Error
	return count, apperror.Wrap(err)
}

func (r *dashboardRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("stock < ?", threshold).Count(&count).Error
	return count, apperror.Wrap(err)
}

func (r *dashboardRepo) CountCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Where("created_at >= ?", since).Count(&count).Error
	return count, apperror.Wrap(err)
}

func (r *dashboardRepo) CountPurchasingCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Select("COUNT(DISTINCT customer_id)").
		Row().Scan(&count)
	return count, apperror.Wrap(err)
}

func (r *dashboardRepo) GetTopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	rows, err := r.db.WithContext(ctx).Table("invoice_items AS ii").
		Select(`
			p.id AS id,
			p.name AS name,
			SUM(ii.quantity) AS total_sold,
			SUM(ii.quantity * ii.price) AS total_revenue
		`).
		Joins("JOIN products AS p ON p.id = ii.product_id").
		Group("p.id, p.name").
		Order("total_sold DESC, p.name ASC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	defer rows.Close()

	results := []TopProduct{}
	for rows.Next() {
		var row TopProduct
		if err := rows.Scan(&row.ID, &row.Name, &row.TotalSold, &row.TotalRevenue); err != nil {
			return nil, apperror.Persistence(err)
		}
		row.TotalRevenue = row.TotalRevenue.Round(2)
		results = append(results, row)
	}
	return results, apperror.Wrap(rows.Err())
}

// GetRecentInvoices orders by invoice date, or by insertion time when byCreation is set.
func (r *dashboardRepo) GetRecentInvoices(ctx context.Context, limit int, byCreation bool) ([]model.Invoice, error) {
	order := "date DESC, created_at DESC"
	if byCreation {
		order = "created_at DESC"
	}
	invoices := []model.Invoice{}
	err := r.db.WithContext(ctx).Preload("Customer").Order(order).Limit(limit).Find(&invoices).Error
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return invoices, nil
}

func (r *dashboardRepo) GetRecentCustomers(ctx context.Context, limit int) ([]model.Customer, error) {
	customers := []model.Customer{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&customers).Error
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return customers, nil
}

func scanDecimal(q *gorm.DB) (decimal.Decimal, error) {
	var value decimal.Decimal
	if err := q.Row().Scan(&value); err != nil {
		return decimal.Zero, apperror.Persistence(err)
	}
	return value.Round(2), nil
}
