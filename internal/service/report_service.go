package service

import (
	"time"

	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// defaultReportDays is the window used when the client does not pick one.
const defaultReportDays = 30

type ReportService interface {
	GetReport(ownerID uuid.UUID, start, end *time.Time) (*ReportResponse, error)
}

type ReportResponse struct {
	Period        ReportPeriod              `json:"period"`
	Revenue       int64                     `json:"revenue"`
	InvoiceCount  int64                     `json:"invoice_count"`
	AvgOrderValue int64                     `json:"avg_order_value"`
	PaidAmount    int64                     `json:"paid_amount"`
	PendingAmount int64                     `json:"pending_amount"`
	DailyRevenue  []repository.DailyRevenue `json:"daily_revenue"`
	TopProducts   []repository.TopProduct   `json:"top_products"`
	TopCustomers  []repository.TopCustomer  `json:"top_customers"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
}

func NewReportService(invoiceRepo repository.InvoiceRepository) ReportService {
	return &reportService{invoiceRepo: invoiceRepo}
}

func (s *reportService) GetReport(ownerID uuid.UUID, start, end *time.Time) (*ReportResponse, error) {
	to := time.Now()
	if end != nil {
		to = *end
	}
	from := to.AddDate(0, 0, -defaultReportDays)
	if start != nil {
		from = *start
	}
	if from.After(to) {
		return nil, apperr.InvalidInput("start date must be before end date")
	}

	resp := &ReportResponse{Period: ReportPeriod{Start: from, End: to}}

	var g errgroup.Group

	g.Go(func() error {
		kpi, err := s.invoiceRepo.WindowKPI(ownerID, from, to)
		if err != nil {
			return err
		}
		resp.Revenue = kpi.Revenue
		resp.InvoiceCount = kpi.InvoiceCount
		resp.AvgOrderValue = kpi.AvgOrderValue
		resp.PaidAmount = kpi.PaidAmount
		resp.PendingAmount = kpi.PendingAmount
		return nil
	})

	g.Go(func() error {
		daily, err := s.invoiceRepo.RevenueByDay(ownerID, from, to)
		if err != nil {
			return err
		}
		resp.DailyRevenue = daily
		return nil
	})

	g.Go(func() error {
		products, err := s.invoiceRepo.TopProducts(ownerID, from, to, 5)
		if err != nil {
			return err
		}
		resp.TopProducts = products
		return nil
	})

	g.Go(func() error {
		customers, err := s.invoiceRepo.TopCustomers(ownerID, from, to, 5)
		if err != nil {
			return err
		}
		resp.TopCustomers = customers
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
