package repository

import (
	"time"

	"go-invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	FindAllByOwner(ownerID uuid.UUID) ([]model.Invoice, error)
	FindByIDAndOwner(id, ownerID uuid.UUID) (*model.Invoice, error)
	IncrementReminderCount(id uuid.UUID) error
	RecentByOwner(ownerID uuid.UUID, limit int) ([]model.Invoice, error)
	PendingByOwner(ownerID uuid.UUID, limit int) ([]model.Invoice, error)

	OwnerStats(ownerID uuid.UUID) (*OwnerInvoiceStats, error)
	WindowKPI(ownerID uuid.UUID, start, end time.Time) (*WindowKPI, error)
	RevenueByDay(ownerID uuid.UUID, start, end time.Time) ([]DailyRevenue, error)
	TopProducts(ownerID uuid.UUID, start, end time.Time, limit int) ([]TopProduct, error)
	TopCustomers(ownerID uuid.UUID, start, end time.Time, limit int) ([]TopCustomer, error)
}

// OwnerInvoiceStats is the all-time rollup for the dashboard cards.
type OwnerInvoiceStats struct {
	TotalRevenue  int64 `json:"total_revenue"`
	TotalInvoices int64 `json:"total_invoices"`
	PaidCount     int64 `json:"paid_count"`
	PendingCount  int64 `json:"pending_count"`
}

// WindowKPI is the windowed rollup for the analytics report. Cancelled
// invoices are excluded before these figures are computed.
type WindowKPI struct {
	Revenue       int64 `json:"revenue"`
	InvoiceCount  int64 `json:"invoice_count"`
	AvgOrderValue int64 `json:"avg_order_value"`
	PaidAmount    int64 `json:"paid_amount"`
	PendingAmount int64 `json:"pending_amount"`
}

// DailyRevenue is one bucket of the day-grouped revenue series.
type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	TotalSold int64     `json:"total_sold"`
	Revenue   int64     `json:"revenue"`
}

type TopCustomer struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	Name         string    `json:"name"`
	TotalSpent   int64     `json:"total_spent"`
	InvoiceCount int64     `json:"invoice_count"`
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

func (r *invoiceRepo) FindAllByOwner(ownerID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.Preload("Customer").Preload("Items").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindByIDAndOwner(id, ownerID uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.Preload("Customer").Preload("Items").
		First(&invoice, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) IncrementReminderCount(id uuid.UUID) error {
	return r.db.Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("reminder_count", gorm.Expr("reminder_count + 1")).Error
}

func (r *invoiceRepo) RecentByOwner(ownerID uuid.UUID, limit int) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.Preload("Customer").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error
	return invoices, err
}

// PendingByOwner returns open invoices (Pending or Overdue) with their
// customers, used by the AI context assembler.
func (r *invoiceRepo) PendingByOwner(ownerID uuid.UUID, limit int) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.Preload("Customer").
		Where("owner_id = ? AND status IN ?", ownerID, []model.InvoiceStatus{model.StatusPending, model.StatusOverdue}).
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) OwnerStats(ownerID uuid.UUID) (*OwnerInvoiceStats, error) {
	var stats OwnerInvoiceStats
	err := r.db.Model(&model.Invoice{}).
		Select(`
			COALESCE(SUM(final_amount), 0) as total_revenue,
			COUNT(*) as total_invoices,
			COALESCE(SUM(CASE WHEN status = 'Paid' THEN 1 ELSE 0 END), 0) as paid_count,
			COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0) as pending_count
		`).
		Where("owner_id = ?", ownerID).
		Scan(&stats).Error
	return &stats, err
}

func (r *invoiceRepo) WindowKPI(ownerID uuid.UUID, start, end time.Time) (*WindowKPI, error) {
	var kpi WindowKPI
	err := r.db.Model(&model.Invoice{}).
		Select(`
			COALESCE(SUM(final_amount), 0) as revenue,
			COUNT(*) as invoice_count,
			COALESCE(AVG(final_amount), 0) as avg_order_value,
			COALESCE(SUM(CASE WHEN status = 'Paid' THEN final_amount ELSE 0 END), 0) as paid_amount,
			COALESCE(SUM(CASE WHEN status <> 'Paid' THEN final_amount ELSE 0 END), 0) as pending_amount
		`).
		Where("owner_id = ? AND status <> ? AND created_at BETWEEN ? AND ?",
			ownerID, model.StatusCancelled, start, end).
		Scan(&kpi).Error
	return &kpi, err
}

func (r *invoiceRepo) RevenueByDay(ownerID uuid.UUID, start, end time.Time) ([]DailyRevenue, error) {
	var results []DailyRevenue

	rows, err := r.db.Model(&model.Invoice{}).
		Select(`DATE(created_at) as date, COALESCE(SUM(final_amount), 0) as revenue`).
		Where("owner_id = ? AND status <> ? AND created_at BETWEEN ? AND ?",
			ownerID, model.StatusCancelled, start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyRevenue
		if err := rows.Scan(&data.Date, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *invoiceRepo) TopProducts(ownerID uuid.UUID, start, end time.Time, limit int) ([]TopProduct, error) {
	var results []TopProduct
	err := r.db.Model(&model.InvoiceItem{}).
		Select(`
			invoice_items.product_id as product_id,
			MAX(invoice_items.name) as name,
			COALESCE(SUM(invoice_items.quantity), 0) as total_sold,
			COALESCE(SUM(invoice_items.price * invoice_items.quantity), 0) as revenue
		`).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.owner_id = ? AND invoices.status <> ? AND invoices.created_at BETWEEN ? AND ?",
			ownerID, model.StatusCancelled, start, end).
		Group("invoice_items.product_id").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

func (r *invoiceRepo) TopCustomers(ownerID uuid.UUID, start, end time.Time, limit int) ([]TopCustomer, error) {
	var results []TopCustomer
	err := r.db.Model(&model.Invoice{}).
		Select(`
			invoices.customer_id as customer_id,
			MAX(customers.name) as name,
			COALESCE(SUM(invoices.final_amount), 0) as total_spent,
			COUNT(*) as invoice_count
		`).
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.owner_id = ? AND invoices.status <> ? AND invoices.created_at BETWEEN ? AND ?",
			ownerID, model.StatusCancelled, start, end).
		Group("invoices.customer_id").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}
