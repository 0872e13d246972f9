package analytics

import (
	"context"
	"time"

	"stocklens/internal/domain/events"
)

// Repository defines analytics data access. Two implementations exist
// (Postgres for production, SQLite for tests); both must produce numerically
// identical results from their dialect-specific queries, and the shared
// conformance suite holds them to that.
type Repository interface {
	events.Store

	// MonthlyMovement groups events by "YYYY-MM" label and sums inbound and
	// outbound quantities separately. Ascending by label. Blank supplierID
	// means all suppliers.
	MonthlyMovement(ctx context.Context, start, end time.Time, supplierID string) ([]MonthlyMovement, error)

	// DailyValuation computes end-of-day inventory value per calendar day
	// via a running balance over each item's ordered events plus a
	// last-event-of-day pick.
	DailyValuation(ctx context.Context, start, end time.Time, supplierID string) ([]DailyValuationPoint, error)

	// PriceTrend returns per-day average recorded price for one item.
	PriceTrend(ctx context.Context, itemID, supplierID string, start, end time.Time) ([]PricePoint, error)

	// StockPerSupplier returns current quantities grouped by supplier,
	// ordered by quantity descending.
	StockPerSupplier(ctx context.Context) ([]SupplierStock, error)

	// ItemUpdateFrequency counts ledger entries per item for a supplier,
	// ordered by count descending.
	ItemUpdateFrequency(ctx context.Context, supplierID string) ([]ItemActivity, error)

	// ItemsBelowMinimum lists items under their minimum stock threshold,
	// ordered by quantity ascending.
	ItemsBelowMinimum(ctx context.Context, supplierID string) ([]LowStockItem, error)

	// LowStockCount returns the number of items under threshold.
	LowStockCount(ctx context.Context) (int64, error)
}
