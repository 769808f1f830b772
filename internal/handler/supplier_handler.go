package handler

import (
	"salesnexus/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

func (h *SupplierHandler) Register(r fiber.Router) {
	r.Get("/", h.GetSuppliers)
	r.Post("/", h.CreateSupplier)
	r.Get("/:id", h.GetSupplier)
	r.Put("/:id", h.UpdateSupplier)
	r.Delete("/:id", h.DeleteSupplier)
}

func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, suppliers)
}

func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	supplier, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, supplier)
}

func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, supplier, "Supplier created")
}

func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	supplier, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ok(c, supplier)
}

func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Supplier deleted")
}
