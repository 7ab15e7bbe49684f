package handler

import (
	"time"

	"go-invoicehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	reportService    service.ReportService
}

func NewDashboardHandler(dashboardService service.DashboardService, reportService service.ReportService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		reportService:    reportService,
	}
}

// GetDashboard returns the owner's headline stats, low stock, the monthly
// revenue trend and recent invoices
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	dashboard, err := h.dashboardService.GetDashboard(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dashboard)
}

// GetReport returns windowed analytics. Defaults to the last 30 days when no
// range is given.
// GET /api/v1/reports?start=2026-08-01&end=2026-08-31
func (h *DashboardHandler) GetReport(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	start, err := parseDateQuery(c, "start")
	if err != nil {
		return err
	}
	end, err := parseDateQuery(c, "end")
	if err != nil {
		return err
	}

	report, err := h.reportService.GetReport(userID, start, end)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fiber.NewError(400, name+" must be in YYYY-MM-DD format")
	}
	if name == "end" {
		// An end date covers its whole day.
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
