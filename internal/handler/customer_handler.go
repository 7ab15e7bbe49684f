package handler

import (
	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create adds a customer to the owner's list
// POST /api/v1/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, err := h.customerService.Add(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(customer)
}

// GetAll lists the owner's customers
// GET /api/v1/customers
func (h *CustomerHandler) GetAll(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	customers, err := h.customerService.GetAll(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customers)
}

// GetByID fetches a single customer
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	customer, err := h.customerService.GetByID(id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

// Update modifies a customer
// PUT /api/v1/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, err := h.customerService.Update(id, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

// Delete removes a customer
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.customerService.Delete(id, userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted successfully"})
}
