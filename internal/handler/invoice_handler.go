package handler

import (
	"salesnexus/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InvoiceHandler struct {
	service service.InvoiceService
}

func NewInvoiceHandler(s service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

func (h *InvoiceHandler) Register(r fiber.Router) {
	r.Get("/", h.GetInvoices)
	r.Post("/", h.CreateInvoice)
	r.Get("/:id", h.GetInvoice)
	r.Put("/:id", h.UpdateInvoice)
	r.Delete("/:id", h.DeleteInvoice)
	r.Get("/:id/items", h.GetInvoiceItems)
	r.Post("/:id/items", h.AddInvoiceItem)
}

func (h *InvoiceHandler) GetInvoices(c *fiber.Ctx) error {
	invoices, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, invoices)
}

func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, invoice)
}

func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	var req service.CreateInvoiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	invoice, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, invoice, "Invoice created")
}

func (h *InvoiceHandler) UpdateInvoice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateInvoiceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	invoice, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ok(c, invoice)
}

func (h *InvoiceHandler) DeleteInvoice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Invoice deleted")
}

func (h *InvoiceHandler) GetInvoiceItems(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.service.ListItems(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, items)
}

func (h *InvoiceHandler) AddInvoiceItem(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.InvoiceItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	item, err := h.service.AddItem(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return created(c, item, "Item added")
}
