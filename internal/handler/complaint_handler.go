package handler

import (
	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ComplaintHandler struct {
	complaintService service.ComplaintService
}

func NewComplaintHandler(complaintService service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// Submit files a support complaint with an optional screenshot
// POST /api/v1/complaints
func (h *ComplaintHandler) Submit(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req service.ComplaintRequest
	var image []byte
	var ext string

	if form, formErr := c.MultipartForm(); formErr == nil && form != nil {
		req.Subject = formValue(form.Value, "subject")
		req.Description = formValue(form.Value, "description")
		image, ext, err = readFormFile(c, "image")
		if err != nil {
			return err
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	complaint, err := h.complaintService.Submit(userID, &req, image, ext)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(complaint)
}

// GetMine lists the authenticated user's complaints
// GET /api/v1/complaints
func (h *ComplaintHandler) GetMine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	complaints, err := h.complaintService.GetMine(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(complaints)
}
