package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stocklens/internal/core/apperror"
	"stocklens/pkg/logger"
)

// defaultWindowDays is the reporting window applied when callers omit dates.
const defaultWindowDays = 30

// Service provides the stock analytics operations. It is stateless: every
// query is independent, so concurrent requests need no locking here.
type Service struct {
	repo Repository
}

// NewService creates a new analytics service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FinancialSummaryWAC produces the period financial summary under the
// weighted average cost method. from/to are calendar dates (inclusive).
func (s *Service) FinancialSummaryWAC(ctx context.Context, from, to time.Time, supplierID string) (FinancialSummary, error) {
	if from.IsZero() || to.IsZero() {
		return FinancialSummary{}, apperror.NewValidation("from and to are required")
	}
	if from.After(to) {
		return FinancialSummary{}, apperror.NewInvalidRange(formatDate(from), formatDate(to))
	}

	start := startOfDay(from)
	end := endOfDay(to)

	stream, err := s.repo.StreamEvents(ctx, end, normalizeSupplier(supplierID))
	if err != nil {
		return FinancialSummary{}, fmt.Errorf("stream events: %w", err)
	}

	summary, err := ComputeFinancialSummary(ctx, stream, start, end)
	if err != nil {
		return FinancialSummary{}, err
	}
	summary.FromDate = startOfDay(from)
	summary.ToDate = startOfDay(to)

	logger.Debug(ctx, "computed financial summary",
		"events", len(stream),
		"from", formatDate(from),
		"to", formatDate(to),
	)

	return summary, nil
}

// MonthlyMovement returns stock-in/out totals per month. A missing window
// defaults to the last 30 days.
func (s *Service) MonthlyMovement(ctx context.Context, from, to time.Time, supplierID string) ([]MonthlyMovement, error) {
	from, to, err := defaultAndValidateWindow(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.MonthlyMovement(ctx, startOfDay(from), endOfDay(to), normalizeSupplier(supplierID))
	if err != nil {
		return nil, fmt.Errorf("monthly movement: %w", err)
	}
	return rows, nil
}

// DailyValuation returns the total inventory value per day over the window.
func (s *Service) DailyValuation(ctx context.Context, from, to time.Time, supplierID string) ([]DailyValuationPoint, error) {
	from, to, err := defaultAndValidateWindow(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.DailyValuation(ctx, startOfDay(from), endOfDay(to), normalizeSupplier(supplierID))
	if err != nil {
		return nil, fmt.Errorf("daily valuation: %w", err)
	}
	return rows, nil
}

// PriceTrend returns per-day average transaction price for one item.
func (s *Service) PriceTrend(ctx context.Context, itemID, supplierID string, from, to time.Time) ([]PricePoint, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, apperror.NewValidation("itemId is required")
	}

	from, to, err := defaultAndValidateWindow(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.PriceTrend(ctx, strings.TrimSpace(itemID), normalizeSupplier(supplierID), startOfDay(from), endOfDay(to))
	if err != nil {
		return nil, fmt.Errorf("price trend: %w", err)
	}
	return rows, nil
}

// StockPerSupplier returns current stock totals grouped by supplier.
func (s *Service) StockPerSupplier(ctx context.Context) ([]SupplierStock, error) {
	rows, err := s.repo.StockPerSupplier(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock per supplier: %w", err)
	}
	return rows, nil
}

// ItemUpdateFrequency counts ledger entries per item for one supplier.
func (s *Service) ItemUpdateFrequency(ctx context.Context, supplierID string) ([]ItemActivity, error) {
	if strings.TrimSpace(supplierID) == "" {
		return nil, apperror.NewValidation("supplierId is required")
	}

	rows, err := s.repo.ItemUpdateFrequency(ctx, normalizeSupplier(supplierID))
	if err != nil {
		return nil, fmt.Errorf("item update frequency: %w", err)
	}
	return rows, nil
}

// ItemsBelowMinimum lists items under their minimum stock threshold.
func (s *Service) ItemsBelowMinimum(ctx context.Context, supplierID string) ([]LowStockItem, error) {
	rows, err := s.repo.ItemsBelowMinimum(ctx, normalizeSupplier(supplierID))
	if err != nil {
		return nil, fmt.Errorf("items below minimum: %w", err)
	}
	return rows, nil
}

// LowStockCount returns the number of items under threshold.
func (s *Service) LowStockCount(ctx context.Context) (int64, error) {
	n, err := s.repo.LowStockCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("low stock count: %w", err)
	}
	return n, nil
}

// GetDashboard composes the headline widgets: financial summary, monthly
// movement, low stock list.
func (s *Service) GetDashboard(ctx context.Context, from, to time.Time, supplierID string) (Dashboard, error) {
	from, to, err := defaultAndValidateWindow(from, to)
	if err != nil {
		return Dashboard{}, err
	}

	summary, err := s.FinancialSummaryWAC(ctx, from, to, supplierID)
	if err != nil {
		return Dashboard{}, err
	}

	movement, err := s.MonthlyMovement(ctx, from, to, supplierID)
	if err != nil {
		return Dashboard{}, err
	}

	lowStock, err := s.ItemsBelowMinimum(ctx, supplierID)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Summary:         summary,
		MonthlyMovement: movement,
		LowStock:        lowStock,
	}, nil
}

// --- window helpers ---

// defaultAndValidateWindow fills a missing window with the last
// defaultWindowDays days and rejects an inverted one before any query runs.
func defaultAndValidateWindow(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultWindowDays)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, apperror.NewInvalidRange(formatDate(from), formatDate(to))
	}
	return from, to, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// normalizeSupplier trims and lowercases an optional supplier filter; blank
// means all suppliers. The filter is case-insensitive exact by contract.
func normalizeSupplier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
