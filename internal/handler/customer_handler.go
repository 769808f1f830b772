package handler

import (
	"salesnexus/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service  service.CustomerService
	invoices service.InvoiceService
}

func NewCustomerHandler(s service.CustomerService, invoices service.InvoiceService) *CustomerHandler {
	return &CustomerHandler{service: s, invoices: invoices}
}

func (h *CustomerHandler) Register(r fiber.Router) {
	r.Get("/", h.GetCustomers)
	r.Post("/", h.CreateCustomer)
	r.Get("/:id", h.GetCustomer)
	r.Put("/:id", h.UpdateCustomer)
	r.Delete("/:id", h.DeleteCustomer)
	r.Get("/:id/invoices", h.GetCustomerInvoices)
}

func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, customers)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	customer, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, customer)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, customer, "Customer created")
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ok(c, customer)
}

func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Customer deleted")
}

func (h *CustomerHandler) GetCustomerInvoices(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	invoices, err := h.invoices.ListByCustomer(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, invoices)
}
