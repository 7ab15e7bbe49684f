package handler

import (
	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// AdminLoginRequest represents the admin login body
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a support admin
// POST /api/v1/admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	response, err := h.adminService.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response)
}

// ListUsers returns every registered account
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// DeleteUser removes an account and everything it owns
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// ListComplaints returns every complaint with its owner
// GET /api/v1/admin/complaints
func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	complaints, err := h.adminService.ListComplaints()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(complaints)
}

// UpdateComplaint sets complaint status and the developer response
// PATCH /api/v1/admin/complaints/:id
func (h *AdminHandler) UpdateComplaint(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req service.ComplaintUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	complaint, err := h.adminService.UpdateComplaint(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(complaint)
}
