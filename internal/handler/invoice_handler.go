package handler

import (
	"fmt"

	"go-invoicehub/internal/model"
	"go-invoicehub/internal/pdf"
	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create issues an invoice and deducts stock
// POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req service.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	invoice, err := h.invoiceService.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(invoice)
}

// GetAll lists the owner's invoices
// GET /api/v1/invoices
func (h *InvoiceHandler) GetAll(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	invoices, err := h.invoiceService.GetAll(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(invoices)
}

// GetByID fetches a single invoice with its line items
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	invoice, err := h.invoiceService.GetByID(id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(invoice)
}

// UpdateStatusRequest represents the status change request body
type UpdateStatusRequest struct {
	Status model.InvoiceStatus `json:"status"`
}

// UpdateStatus moves an invoice through its lifecycle, reconciling stock on
// cancellation and reactivation
// PATCH /api/v1/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	invoice, err := h.invoiceService.UpdateStatus(id, userID, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(invoice)
}

// SendReminder emails the invoice PDF to the customer
// POST /api/v1/invoices/:id/remind
func (h *InvoiceHandler) SendReminder(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.invoiceService.SendReminder(id, userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reminder sent successfully"})
}

// Download returns the invoice PDF as an attachment
// GET /api/v1/invoices/:id/download
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	return h.servePDF(c, "attachment")
}

// View returns the invoice PDF for inline display
// GET /api/v1/invoices/:id/view
func (h *InvoiceHandler) View(c *fiber.Ctx) error {
	return h.servePDF(c, "inline")
}

func (h *InvoiceHandler) servePDF(c *fiber.Ctx, disposition string) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	data, err := h.invoiceService.RenderPDF(id, userID)
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`%s; filename="invoice-%s.pdf"`, disposition, pdf.ShortNumber(id.String())))
	return c.Send(data)
}
