package handler

import (
	"go-invoicehub/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// fail translates a service error into an HTTP response. Unknown errors are
// reported as a generic 500 so internals never leak to clients.
func fail(c *fiber.Ctx, err error) error {
	status := 500
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidInput, apperr.CodeInsufficientStock:
		status = 400
	case apperr.CodeUnauthorized:
		status = 401
	case apperr.CodeNotFound:
		status = 404
	case apperr.CodeAlreadyExists:
		status = 409
	case apperr.CodeUpstream:
		status = 502
	}

	if status == 500 {
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// currentUserID reads the authenticated user's ID set by the auth middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(401, "Unauthorized")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(401, "Unauthorized")
	}
	return id, nil
}

// pathID parses a UUID route parameter.
func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(400, "Invalid ID")
	}
	return id, nil
}
