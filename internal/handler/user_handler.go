package handler

import (
	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the authenticated user's account
// GET /api/v1/users/me
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

// UpdateAccount updates account and business details
// PUT /api/v1/users/me
func (h *UserHandler) UpdateAccount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req service.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	profile, err := h.userService.UpdateAccount(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

// CheckUsername reports whether a username is free to take
// GET /api/v1/users/check-username?username=...
func (h *UserHandler) CheckUsername(c *fiber.Ctx) error {
	available, err := h.userService.IsUsernameAvailable(c.Query("username"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"available": available})
}

// DeleteAccount removes the account and all owned data
// DELETE /api/v1/users/me
func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteAccount(userID); err != nil {
		return fail(c, err)
	}

	clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}
