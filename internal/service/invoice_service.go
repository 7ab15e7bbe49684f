package service

import (
	"errors"
	"time"

	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/mailer"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/pdf"
	"go-invoicehub/internal/repository"
	"go-invoicehub/internal/ws"
	"go-invoicehub/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a row-level lock so concurrent stock reads within
// parallel transactions serialize instead of double-deducting.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type InvoiceService interface {
	Create(ownerID uuid.UUID, req *CreateInvoiceRequest) (*model.Invoice, error)
	GetAll(ownerID uuid.UUID) ([]model.Invoice, error)
	GetByID(id, ownerID uuid.UUID) (*model.Invoice, error)
	UpdateStatus(id, ownerID uuid.UUID, status model.InvoiceStatus) (*model.Invoice, error)
	SendReminder(id, ownerID uuid.UUID) error
	RenderPDF(id, ownerID uuid.UUID) ([]byte, error)
}

type CreateInvoiceRequest struct {
	CustomerID  uuid.UUID            `json:"customer_id" validate:"uuid_required"`
	Items       []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount    int64                `json:"discount" validate:"gte=0"`
	Status      model.InvoiceStatus  `json:"status"`
	InvoiceDate *time.Time           `json:"invoice_date"`
	DueDate     *time.Time           `json:"due_date"`
}

type InvoiceItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

type invoiceService struct {
	db           *gorm.DB
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	userRepo     repository.UserRepository
	renderer     pdf.Renderer
	mail         mailer.Mailer
	hub          *ws.Hub
	log          *zap.Logger
}

func NewInvoiceService(
	db *gorm.DB,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	userRepo repository.UserRepository,
	renderer pdf.Renderer,
	mail mailer.Mailer,
	hub *ws.Hub,
	log *zap.Logger,
) InvoiceService {
	return &invoiceService{
		db:           db,
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		renderer:     renderer,
		mail:         mail,
		hub:          hub,
		log:          log,
	}
}

// truncateDay drops the time-of-day; due-date ordering is compared at day
// granularity.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *invoiceService) Create(ownerID uuid.UUID, req *CreateInvoiceRequest) (*model.Invoice, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.InvalidInput("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	if !model.ValidStatus(status) {
		return nil, apperr.InvalidInput("invalid status %q", status)
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	if req.DueDate != nil {
		dueDay := truncateDay(*req.DueDate)
		invoiceDay := truncateDay(invoiceDate)
		today := truncateDay(time.Now())

		if dueDay.Before(invoiceDay) {
			return nil, apperr.InvalidInput("due date cannot be earlier than invoice date")
		}
		// Auto-overdue: a Pending invoice whose due day has already passed.
		if status == model.StatusPending && dueDay.Before(today) {
			status = model.StatusOverdue
		}
	}

	// A Cancelled invoice records the sale without touching inventory.
	deductStock := status != model.StatusCancelled

	var invoice *model.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer model.Customer
		if err := tx.First(&customer, "id = ? AND owner_id = ?", req.CustomerID, ownerID).Error; err != nil {
			return apperr.NotFound("customer not found")
		}

		var items []model.InvoiceItem
		var totalAmount int64

		for _, item := range req.Items {
			var product model.Product
			if err := lockForUpdate(tx).
				First(&product, "id = ? AND owner_id = ?", item.ProductID, ownerID).Error; err != nil {
				return apperr.NotFound("product %s not found", item.ProductID)
			}

			if deductStock {
				if product.Stock < item.Quantity {
					return apperr.InsufficientStock("insufficient stock for %s, available: %d", product.Name, product.Stock)
				}
				if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock-item.Quantity); err != nil {
					return err
				}
			}

			totalAmount += product.Price * int64(item.Quantity)

			// Snapshot; later product edits never alter this invoice.
			items = append(items, model.InvoiceItem{
				ProductID: product.ID,
				Name:      product.Name,
				Barcode:   product.Barcode,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		invoice = &model.Invoice{
			OwnerID:     ownerID,
			CustomerID:  customer.ID,
			Items:       items,
			TotalAmount: totalAmount,
			Discount:    req.Discount,
			FinalAmount: totalAmount - req.Discount,
			Status:      status,
			InvoiceDate: invoiceDate,
			DueDate:     req.DueDate,
		}
		return tx.Create(invoice).Error
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(ws.Event{
			Type:    ws.EventInvoiceCreated,
			OwnerID: ownerID.String(),
			Payload: map[string]interface{}{
				"invoice_id":   invoice.ID,
				"final_amount": invoice.FinalAmount,
				"status":       invoice.Status,
			},
		})
	}

	return invoice, nil
}

func (s *invoiceService) GetAll(ownerID uuid.UUID) ([]model.Invoice, error) {
	return s.invoiceRepo.FindAllByOwner(ownerID)
}

func (s *invoiceService) GetByID(id, ownerID uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return nil, apperr.NotFound("invoice not found")
	}
	return invoice, nil
}

// UpdateStatus applies the explicit status change plus its stock side
// effects. The whole transition runs in one transaction: re-activating a
// Cancelled invoice either deducts stock for every line item or for none.
func (s *invoiceService) UpdateStatus(id, ownerID uuid.UUID, status model.InvoiceStatus) (*model.Invoice, error) {
	if !model.ValidStatus(status) {
		return nil, apperr.InvalidInput("invalid status %q", status)
	}

	var invoice model.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&invoice, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
			return apperr.NotFound("invoice not found")
		}

		switch {
		case status == model.StatusCancelled && invoice.Status != model.StatusCancelled:
			// Cancelling restores every line item's stock.
			for _, item := range invoice.Items {
				var product model.Product
				err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // product deleted since invoicing
				}
				if err != nil {
					return err
				}
				if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock+item.Quantity); err != nil {
					return err
				}
			}

		case invoice.Status == model.StatusCancelled && status != model.StatusCancelled:
			// Re-activating deducts stock again; any shortfall aborts the
			// whole transition.
			for _, item := range invoice.Items {
				var product model.Product
				err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				if product.Stock < item.Quantity {
					return apperr.InsufficientStock("cannot reactivate invoice, insufficient stock for %s", product.Name)
				}
				if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock-item.Quantity); err != nil {
					return err
				}
			}
		}

		invoice.Status = status
		return tx.Model(&invoice).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(ws.Event{
			Type:    ws.EventInvoiceStatus,
			OwnerID: ownerID.String(),
			Payload: map[string]interface{}{
				"invoice_id": invoice.ID,
				"status":     invoice.Status,
			},
		})
	}

	return &invoice, nil
}

func (s *invoiceService) SendReminder(id, ownerID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return apperr.NotFound("invoice not found")
	}
	if invoice.Customer == nil || invoice.Customer.Email == "" {
		return apperr.InvalidInput("customer does not have an email address")
	}

	owner, err := s.userRepo.FindByID(ownerID)
	if err != nil {
		return apperr.NotFound("user not found")
	}

	pdfBytes, err := s.renderer.RenderInvoice(invoice, owner)
	if err != nil {
		s.log.Error("invoice pdf render failed", zap.String("invoice_id", id.String()), zap.Error(err))
		return apperr.Upstream("failed to render invoice document")
	}

	invoiceNo := pdf.ShortNumber(invoice.ID.String())
	body := mailer.ReminderBody(
		owner.BusinessName,
		invoice.Customer.Name,
		invoiceNo,
		invoice.InvoiceDate.Format("02 Jan 2006"),
		string(invoice.Status),
		pdf.FormatAmount(invoice.FinalAmount),
	)

	if err := s.mail.SendWithAttachment(
		invoice.Customer.Email,
		"Invoice #"+invoiceNo+" from "+owner.BusinessName,
		body,
		pdfBytes,
		"invoice-"+invoice.ID.String()+".pdf",
	); err != nil {
		s.log.Error("invoice reminder email failed", zap.String("invoice_id", id.String()), zap.Error(err))
		return apperr.Upstream("failed to send invoice email")
	}

	return s.invoiceRepo.IncrementReminderCount(invoice.ID)
}

func (s *invoiceService) RenderPDF(id, ownerID uuid.UUID) ([]byte, error) {
	invoice, err := s.invoiceRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return nil, apperr.NotFound("invoice not found")
	}

	owner, err := s.userRepo.FindByID(ownerID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}

	pdfBytes, err := s.renderer.RenderInvoice(invoice, owner)
	if err != nil {
		return nil, apperr.Upstream("failed to render invoice document")
	}
	return pdfBytes, nil
}
