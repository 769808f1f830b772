package handler

import (
	"salesnexus/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) Register(r fiber.Router) {
	r.Get("/stats", h.GetDashboardStats)
	r.Get("/sales-chart", h.GetSalesChart)
	r.Get("/top-products", h.GetTopProducts)
	r.Get("/recent-invoices", h.GetRecentInvoices)
	r.Get("/activities", h.GetRecentActivities)
	r.Get("/recent-activities", h.GetRecentActivities)
	r.Get("/sales-summary", h.GetSalesSummary)
	r.Get("/sales-by-period", h.GetSalesByPeriod)
	r.Get("/customer-statistics", h.GetCustomerStatistics)
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, stats)
}

// GetSalesChart returns monthly sales for the last six months
func (h *DashboardHandler) GetSalesChart(c *fiber.Ctx) error {
	chart, err := h.service.GetSalesChart(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, chart)
}

// GetTopProducts returns the best sellers
// Query params: limit (default 5)
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	products, err := h.service.GetTopProducts(c.UserContext(), c.QueryInt("limit", 5))
	if err != nil {
		return err
	}
	return ok(c, products)
}

// Query params: limit (default 5)
func (h *DashboardHandler) GetRecentInvoices(c *fiber.Ctx) error {
	invoices, err := h.service.GetRecentInvoices(c.UserContext(), c.QueryInt("limit", 5))
	if err != nil {
		return err
	}
	return ok(c, invoices)
}

func (h *DashboardHandler) GetRecentActivities(c *fiber.Ctx) error {
	activities, err := h.service.GetRecentActivities(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, activities)
}

func (h *DashboardHandler) GetSalesSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetSalesSummary(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, summary)
}

// GetSalesByPeriod groups sales by ?period=day|week|month (default day)
func (h *DashboardHandler) GetSalesByPeriod(c *fiber.Ctx) error {
	period, data, err := h.service.GetSalesByPeriod(c.UserContext(), c.Query("period", service.PeriodDay))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"period":  period,
		"data":    data,
	})
}

func (h *DashboardHandler) GetCustomerStatistics(c *fiber.Ctx) error {
	stats, err := h.service.GetCustomerStatistics(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, stats)
}
