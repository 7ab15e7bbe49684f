package model

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	StatusPending   InvoiceStatus = "Pending"
	StatusPaid      InvoiceStatus = "Paid"
	StatusOverdue   InvoiceStatus = "Overdue"
	StatusCancelled InvoiceStatus = "Cancelled"
)

// ValidStatus reports whether s is one of the four invoice states.
func ValidStatus(s InvoiceStatus) bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// InvoiceItem is a snapshot of a product at the moment the invoice was
// created. Later edits to the Product never alter historical invoices.
type InvoiceItem struct {
	BaseModel
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Barcode   string    `gorm:"type:varchar(20)" json:"barcode"`
	Quantity  int       `gorm:"not null" json:"quantity" validate:"required,gte=1"`
	Price     int64     `gorm:"not null" json:"price"` // Unit price snapshot
}

type Invoice struct {
	BaseModel
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner      *User     `gorm:"foreignKey:OwnerID" json:"-"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`

	TotalAmount int64 `gorm:"not null" json:"total_amount"`
	Discount    int64 `gorm:"default:0" json:"discount"`
	// FinalAmount is always recomputed as TotalAmount - Discount,
	// never edited independently.
	FinalAmount int64 `gorm:"not null" json:"final_amount"`

	Status        InvoiceStatus `gorm:"type:varchar(20);default:'Pending'" json:"status"`
	InvoiceDate   time.Time     `json:"invoice_date"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	ReminderCount int           `gorm:"default:0" json:"reminder_count"`
}
