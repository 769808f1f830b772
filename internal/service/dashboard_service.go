package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"salesnexus/internal/model"
	"salesnexus/internal/repository"
	"salesnexus/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sales grouping periods accepted by SalesByPeriod
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

type DashboardStats struct {
	TotalCustomers   int64           `json:"total_customers"`
	TotalProducts    int64           `json:"total_products"`
	TotalInvoices    int64           `json:"total_invoices"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	MonthlySales     decimal.Decimal `json:"monthly_sales"`
	PendingInvoices  int64           `json:"pending_invoices"`
	AvgInvoiceValue  decimal.Decimal `json:"avg_invoice_value"`
	LowStockProducts int64           `json:"low_stock_products"`
}

type ChartDataset struct {
	Label string            `json:"label"`
	Data  []decimal.Decimal `json:"data"`
}

type SalesChart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type Activity struct {
	Type        string    `json:"type"`
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// RecentInvoice is the flattened row shown in the latest invoices widget
type RecentInvoice struct {
	ID            uuid.UUID           `json:"id"`
	InvoiceNumber string              `json:"invoice_number"`
	Date          time.Time           `json:"date"`
	CustomerName  string              `json:"customer_name"`
	Total         decimal.Decimal     `json:"total"`
	Status        model.InvoiceStatus `json:"status"`
}

type SalesSummary struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalOrders       int64           `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	PaidInvoices      int64           `json:"paid_invoices"`
	PendingInvoices   int64           `json:"pending_invoices"`
}

type PeriodSales struct {
	Label string          `json:"label"`
	Start time.Time       `json:"start"`
	Value decimal.Decimal `json:"value"`
}

// CustomerStatistics counts repeat customers as those with at least one invoice.
type CustomerStatistics struct {
	TotalCustomers    int64 `json:"total_customers"`
	NewCustomers      int64 `json:"new_customers"`
	RepeatCustomers   int64 `json:"repeat_customers"`
	InactiveCustomers int64 `json:"inactive_customers"`
}

type DashboardService interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	GetSalesChart(ctx context.Context) (*SalesChart, error)
	GetTopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error)
	GetRecentInvoices(ctx context.Context, limit int) ([]RecentInvoice, error)
	GetRecentActivities(ctx context.Context) ([]Activity, error)
	GetSalesSummary(ctx context.Context) (*SalesSummary, error)
	GetSalesByPeriod(ctx context.Context, period string) (string, []PeriodSales, error)
	GetCustomerStatistics(ctx context.Context) (*CustomerStatistics, error)
}

type dashboardService struct {
	repo  repository.DashboardRepository
	sales config.SalesConfig
	now   func() time.Time
}

// NewDashboardService uses now as its clock; nil means the wall clock in UTC.
func NewDashboardService(repo repository.DashboardRepository, sales config.SalesConfig, now func() time.Time) DashboardService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &dashboardService{repo: repo, sales: sales, now: now}
}

func (s *dashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.repo.GetCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{
		TotalCustomers: counts.Customers,
		TotalProducts:  counts.Products,
		TotalInvoices:  counts.Invoices,
	}

	if stats.TotalSales, err = s.repo.SumSales(ctx, nil); err != nil {
		return nil, err
	}
	month := monthWindow(startOfMonth(s.now()))
	if stats.MonthlySales, err = s.repo.SumSales(ctx, &month); err != nil {
		return nil, err
	}
	if stats.PendingInvoices, err = s.repo.CountInvoicesByStatus(ctx, model.InvoicePending); err != nil {
		return nil, err
	}
	if stats.AvgInvoiceValue, err = s.repo.AverageInvoiceValue(ctx); err != nil {
		return nil, err
	}
	if stats.LowStockProducts, err = s.repo.CountLowStock(ctx, s.sales.LowStockThreshold); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetSalesChart returns monthly sales for the current month and the five before it.
func (s *dashboardService) GetSalesChart(ctx context.Context) (*SalesChart, error) {
	current := startOfMonth(s.now())
	chart := &SalesChart{
		Labels:   make([]string, 0, 6),
		Datasets: []ChartDataset{{Label: "Sales", Data: make([]decimal.Decimal, 0, 6)}},
	}
	for i := 5; i >= 0; i-- {
		window := monthWindow(current.AddDate(0, -i, 0))
		total, err := s.repo.SumSales(ctx, &window)
		if err != nil {
			return nil, err
		}
		chart.Labels = append(chart.Labels, window.Start.Month().String())
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, total)
	}
	return chart, nil
}

func (s *dashboardService) GetTopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.GetTopProducts(ctx, limit)
}

func (s *dashboardService) GetRecentInvoices(ctx context.Context, limit int) ([]RecentInvoice, error) {
	if limit <= 0 {
		limit = 5
	}
	invoices, err := s.repo.GetRecentInvoices(ctx, limit, false)
	if err != nil {
		return nil, err
	}
	rows := make([]RecentInvoice, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, RecentInvoice{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Date:          inv.Date,
			CustomerName:  customerName(&inv, "N/A"),
			Total:         inv.Total,
			Status:        inv.Status,
		})
	}
	return rows, nil
}

func customerName(inv *model.Invoice, fallback string) string {
	if inv.Customer == nil {
		return fallback
	}
	return inv.Customer.Name
}

// GetRecentActivities merges the three latest customers and invoices, newest first.
func (s *dashboardService) GetRecentActivities(ctx context.Context) ([]Activity, error) {
	customers, err := s.repo.GetRecentCustomers(ctx, 3)
	if err != nil {
		return nil, err
	}
	invoices, err := s.repo.GetRecentInvoices(ctx, 3, true)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(customers)+len(invoices))
	for _, c := range customers {
		activities = append(activities, Activity{
			Type:        "customer",
			ID:          c.ID,
			Name:        c.Name,
			Date:        c.CreatedAt,
			Description: fmt.Sprintf("New customer: %s", c.Name),
		})
	}
	for _, inv := range invoices {
		activities = append(activities, Activity{
			Type:        "invoice",
			ID:          inv.ID,
			Name:        inv.InvoiceNumber,
			Date:        inv.CreatedAt,
			Description: fmt.Sprintf("New invoice: %s for %s", inv.InvoiceNumber, customerName(&inv, "N/A")),
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Date.After(activities[j].Date)
	})
	if len(activities) > 10 {
		activities = activities[:10]
	}
	return activities, nil
}

func (s *dashboardService) GetSalesSummary(ctx context.Context) (*SalesSummary, error) {
	counts, err := s.repo.GetCounts(ctx)
	if err != nil {
		return nil, err
	}
	summary := &SalesSummary{TotalOrders: counts.Invoices}

	if summary.TotalSales, err = s.repo.SumSales(ctx, nil); err != nil {
		return nil, err
	}
	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalSales.Div(decimal.NewFromInt(summary.TotalOrders)).Round(2)
	}
	if summary.PaidInvoices, err = s.repo.CountInvoicesByStatus(ctx, model.InvoicePaid); err != nil {
		return nil, err
	}
	if summary.PendingInvoices, err = s.repo.CountInvoicesByStatus(ctx, model.InvoicePending); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetSalesByPeriod buckets recent sales: the last 7 days, last 4 weeks or last 6 months, oldest first.
// Unknown periods fall back to day; the period actually used is returned.
func (s *dashboardService) GetSalesByPeriod(ctx context.Context, period string) (string, []PeriodSales, error) {
	now := s.now()
	today := startOfDay(now)

	var windows []repository.TimeWindow
	var label func(i int, w repository.TimeWindow) string

	if period != PeriodWeek && period != PeriodMonth {
		period = PeriodDay
	}

	switch period {
	case PeriodDay:
		for i := 6; i >= 0; i-- {
			start := today.AddDate(0, 0, -i)
			windows = append(windows, repository.TimeWindow{Start: start, End: start.AddDate(0, 0, 1)})
		}
		label = func(_ int, w repository.TimeWindow) string { return w.Start.Format("2006-01-02") }
	case PeriodWeek:
		first := today.AddDate(0, 0, -27)
		for i := 0; i < 4; i++ {
			start := first.AddDate(0, 0, 7*i)
			windows = append(windows, repository.TimeWindow{Start: start, End: start.AddDate(0, 0, 7)})
		}
		label = func(i int, _ repository.TimeWindow) string { return fmt.Sprintf("Week %d", i+1) }
	case PeriodMonth:
		current := startOfMonth(now)
		for i := 5; i >= 0; i-- {
			windows = append(windows, monthWindow(current.AddDate(0, -i, 0)))
		}
		label = func(_ int, w repository.TimeWindow) string { return w.Start.Format("January 2006") }
	}

	out := make([]PeriodSales, 0, len(windows))
	for i, w := range windows {
		w := w
		total, err := s.repo.SumSales(ctx, &w)
		if err != nil {
			return period, nil, err
		}
		out = append(out, PeriodSales{Label: label(i, w), Start: w.Start, Value: total})
	}
	return period, out, nil
}

func (s *dashboardService) GetCustomerStatistics(ctx context.Context) (*CustomerStatistics, error) {
	counts, err := s.repo.GetCounts(ctx)
	if err != nil {
		return nil, err
	}
	newThisMonth, err := s.repo.CountCustomersSince(ctx, startOfMonth(s.now()))
	if err != nil {
		return nil, err
	}
	purchasing, err := s.repo.CountPurchasingCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerStatistics{
		TotalCustomers:    counts.Customers,
		NewCustomers:      newThisMonth,
		RepeatCustomers:   purchasing,
		InactiveCustomers: counts.Customers - purchasing,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthWindow(start time.Time) repository.TimeWindow {
	return repository.TimeWindow{Start: start, End: start.AddDate(0, 1, 0)}
}
