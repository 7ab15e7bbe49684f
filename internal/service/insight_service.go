package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-invoicehub/internal/ai"
	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/pdf"
	"go-invoicehub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InsightService interface {
	GetInsights(ctx context.Context, ownerID uuid.UUID) (*InsightResponse, error)
	Chat(ctx context.Context, ownerID uuid.UUID, message string) (string, error)
}

type InsightResponse struct {
	Insights []string `json:"insights"`
	Actions  []string `json:"actions"`
}

type insightService struct {
	generator    ai.TextGenerator
	userRepo     repository.UserRepository
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	log          *zap.Logger
}

func NewInsightService(
	generator ai.TextGenerator,
	userRepo repository.UserRepository,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	log *zap.Logger,
) InsightService {
	return &insightService{
		generator:    generator,
		userRepo:     userRepo,
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		log:          log,
	}
}

// GetInsights asks the model for observations and next steps. A model or
// parse failure degrades to an empty response so the dashboard never breaks
// over an upstream hiccup.
func (s *insightService) GetInsights(ctx context.Context, ownerID uuid.UUID) (*InsightResponse, error) {
	businessContext, err := s.assembleContext(ownerID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are a business analyst for a small business. Based on the data below, respond with ONLY a JSON object of the form {"insights": ["..."], "actions": ["..."]} with at most 4 short insights and 3 concrete actions. No markdown, no prose outside the JSON.

%s`, businessContext)

	raw, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		s.log.Warn("insight generation failed", zap.String("owner", ownerID.String()), zap.Error(err))
		return &InsightResponse{Insights: []string{}, Actions: []string{}}, nil
	}

	resp := parseInsightJSON(raw)
	if resp == nil {
		s.log.Warn("insight response was not valid JSON", zap.String("owner", ownerID.String()))
		return &InsightResponse{Insights: []string{}, Actions: []string{}}, nil
	}
	return resp, nil
}

// Chat answers a free-form question about the owner's business. Unlike
// insights, a model failure here is surfaced to the caller.
func (s *insightService) Chat(ctx context.Context, ownerID uuid.UUID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperr.InvalidInput("message is required")
	}

	businessContext, err := s.assembleContext(ownerID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are a helpful assistant for a small business owner. Use the business data below to answer their question. Keep answers short and practical.

%s

Question: %s`, businessContext, message)

	answer, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrNoCredentials) {
			return "", apperr.Upstream("AI assistant is not configured")
		}
		return "", apperr.Upstream("AI assistant is unavailable, please try again")
	}
	return answer, nil
}

// assembleContext compacts the owner's current standing into a few lines of
// plain text for the model: headline totals, low stock, open invoices and the
// biggest customers.
func (s *insightService) assembleContext(ownerID uuid.UUID) (string, error) {
	user, err := s.userRepo.FindByID(ownerID)
	if err != nil {
		return "", apperr.NotFound("user not found")
	}

	stats, err := s.invoiceRepo.OwnerStats(ownerID)
	if err != nil {
		return "", err
	}
	productCount, err := s.productRepo.CountByOwner(ownerID)
	if err != nil {
		return "", err
	}
	customerCount, err := s.customerRepo.CountByOwner(ownerID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s (%s)\n", user.BusinessName, user.BusinessCategory)
	fmt.Fprintf(&b, "Total revenue: %s across %d invoices (%d paid, %d pending)\n",
		pdf.FormatAmount(stats.TotalRevenue), stats.TotalInvoices, stats.PaidCount, stats.PendingCount)
	fmt.Fprintf(&b, "Catalog: %d products, %d customers\n", productCount, customerCount)

	if low, err := s.productRepo.LowStockByOwner(ownerID, lowStockThreshold, 5); err == nil && len(low) > 0 {
		b.WriteString("Low stock:\n")
		for _, p := range low {
			fmt.Fprintf(&b, "- %s: %d left\n", p.Name, p.Stock)
		}
	}

	if pending, err := s.invoiceRepo.PendingByOwner(ownerID, 5); err == nil && len(pending) > 0 {
		b.WriteString("Open invoices:\n")
		for _, inv := range pending {
			fmt.Fprintf(&b, "- #%s %s for %s (%s)\n",
				pdf.ShortNumber(inv.ID.String()), pdf.FormatAmount(inv.FinalAmount), inv.Customer.Name, inv.Status)
		}
	}

	since := time.Now().AddDate(0, -3, 0)
	if top, err := s.invoiceRepo.TopCustomers(ownerID, since, time.Now(), 3); err == nil && len(top) > 0 {
		b.WriteString("Top customers (last 3 months):\n")
		for _, c := range top {
			fmt.Fprintf(&b, "- %s: %s over %d invoices\n", c.Name, pdf.FormatAmount(c.TotalSpent), c.InvoiceCount)
		}
	}

	return b.String(), nil
}

// parseInsightJSON tolerates models that wrap the JSON in a code fence or
// stray prose: it strips fences, then trims to the outermost brace pair.
func parseInsightJSON(raw string) *InsightResponse {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil
	}

	var resp InsightResponse
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &resp); err != nil {
		return nil
	}
	if resp.Insights == nil {
		resp.Insights = []string{}
	}
	if resp.Actions == nil {
		resp.Actions = []string{}
	}
	return &resp
}
