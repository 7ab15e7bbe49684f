package service

import (
	"time"

	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// lowStockThreshold marks products the dashboard flags for restocking.
const lowStockThreshold = 5

type DashboardService interface {
	GetDashboard(ownerID uuid.UUID) (*DashboardResponse, error)
}

type DashboardResponse struct {
	TotalRevenue    int64            `json:"total_revenue"`
	TotalInvoices   int64            `json:"total_invoices"`
	PaidInvoices    int64            `json:"paid_invoices"`
	PendingInvoices int64            `json:"pending_invoices"`
	TotalProducts   int64            `json:"total_products"`
	TotalCustomers  int64            `json:"total_customers"`
	LowStock        []model.Product  `json:"low_stock_products"`
	MonthlyRevenue  []MonthlyRevenue `json:"monthly_revenue"`
	RecentInvoices  []model.Invoice  `json:"recent_invoices"`
}

// MonthlyRevenue is one bucket of the six-month trend series.
type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

type dashboardService struct {
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

func NewDashboardService(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) DashboardService {
	return &dashboardService{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

func (s *dashboardService) GetDashboard(ownerID uuid.UUID) (*DashboardResponse, error) {
	resp := &DashboardResponse{}

	var g errgroup.Group

	g.Go(func() error {
		stats, err := s.invoiceRepo.OwnerStats(ownerID)
		if err != nil {
			return err
		}
		resp.TotalRevenue = stats.TotalRevenue
		resp.TotalInvoices = stats.TotalInvoices
		resp.PaidInvoices = stats.PaidCount
		resp.PendingInvoices = stats.PendingCount
		return nil
	})

	g.Go(func() error {
		count, err := s.productRepo.CountByOwner(ownerID)
		if err != nil {
			return err
		}
		resp.TotalProducts = count
		return nil
	})

	g.Go(func() error {
		count, err := s.customerRepo.CountByOwner(ownerID)
		if err != nil {
			return err
		}
		resp.TotalCustomers = count
		return nil
	})

	g.Go(func() error {
		low, err := s.productRepo.LowStockByOwner(ownerID, lowStockThreshold, 10)
		if err != nil {
			return err
		}
		resp.LowStock = low
		return nil
	})

	g.Go(func() error {
		trend, err := s.monthlyTrend(ownerID)
		if err != nil {
			return err
		}
		resp.MonthlyRevenue = trend
		return nil
	})

	g.Go(func() error {
		recent, err := s.invoiceRepo.RecentByOwner(ownerID, 5)
		if err != nil {
			return err
		}
		resp.RecentInvoices = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

// monthlyTrend folds the day-grouped revenue of the last six months into
// per-month buckets. Months with no invoices still appear with zero revenue.
func (s *dashboardService) monthlyTrend(ownerID uuid.UUID) ([]MonthlyRevenue, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	daily, err := s.invoiceRepo.RevenueByDay(ownerID, start, now)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]int64, 6)
	for _, day := range daily {
		// Dates arrive as "2006-01-02"; everything beyond the month is noise here.
		if len(day.Date) < 7 {
			continue
		}
		byMonth[day.Date[:7]] += day.Revenue
	}

	trend := make([]MonthlyRevenue, 0, 6)
	for i := 0; i < 6; i++ {
		month := start.AddDate(0, i, 0)
		key := month.Format("2006-01")
		trend = append(trend, MonthlyRevenue{
			Month:   month.Format("Jan 2006"),
			Revenue: byMonth[key],
		})
	}
	return trend, nil
}
