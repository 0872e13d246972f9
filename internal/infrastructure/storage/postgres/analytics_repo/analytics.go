// Package analytics_repo provides the PostgreSQL implementation of the
// analytics repository (production dialect).
//
// The window-function queries are kept as native SQL: the running-balance +
// last-event-per-day shape does not decompose into a builder, and the two
// dialects (this one and the SQLite test backend) carry one implementation
// each behind the shared interface.
package analytics_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stocklens/internal/core/types"
	"stocklens/internal/domain/analytics"
	"stocklens/internal/domain/events"
	"stocklens/internal/infrastructure/storage/postgres"
)

var tracer = otel.Tracer("stocklens/postgres")

const (
	eventsTable    = "stock_events"
	itemsTable     = "inventory_items"
	suppliersTable = "suppliers"
)

// AnalyticsRepo implements analytics.Repository against PostgreSQL.
type AnalyticsRepo struct {
	pool    *postgres.Pool
	builder squirrel.StatementBuilderType
}

// New creates a new analytics repository.
func New(pool *postgres.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
	))
}

// nullable maps a blank optional filter to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// StreamEvents returns the ordered event stream up to cutoff.
//
// Ordering is (item_id, created_at, id); the id tiebreak keeps replay
// deterministic for same-timestamp events. Supplier attribution falls back
// to the owning item's current supplier when the event carries none.
func (r *AnalyticsRepo) StreamEvents(ctx context.Context, cutoff time.Time, supplierID string) ([]events.StockEvent, error) {
	ctx, span := startSpan(ctx, "analytics.StreamEvents")
	defer span.End()

	const sql = `
		SELECT e.id,
		       e.item_id,
		       COALESCE(NULLIF(e.supplier_id, ''), i.supplier_id) AS supplier_id,
		       e.created_at,
		       e.quantity_change,
		       e.price_at_change::float8 AS price_at_change,
		       e.reason,
		       COALESCE(e.created_by, '') AS created_by
		FROM stock_events e
		JOIN inventory_items i ON i.id = e.item_id
		WHERE e.created_at <= $1
		  AND ($2::text IS NULL OR LOWER(e.supplier_id) = $2)
		ORDER BY e.item_id ASC, e.created_at ASC, e.id ASC
	`

	var rows []eventRow
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, cutoff, nullable(supplierID)); err != nil {
		return nil, fmt.Errorf("stream events: %w", err)
	}

	stream := make([]events.StockEvent, 0, len(rows))
	for _, row := range rows {
		stream = append(stream, row.toEvent())
	}
	return stream, nil
}

// MonthlyMovement groups events into "YYYY-MM" buckets, summing inbound and
// outbound quantities separately. Lexicographic order on the label is
// chronological.
func (r *AnalyticsRepo) MonthlyMovement(ctx context.Context, start, end time.Time, supplierID string) ([]analytics.MonthlyMovement, error) {
	ctx, span := startSpan(ctx, "analytics.MonthlyMovement")
	defer span.End()

	const sql = `
		SELECT TO_CHAR(e.created_at, 'YYYY-MM') AS month,
		       COALESCE(SUM(CASE WHEN e.quantity_change > 0 THEN e.quantity_change ELSE 0 END), 0) AS stock_in,
		       COALESCE(SUM(CASE WHEN e.quantity_change < 0 THEN ABS(e.quantity_change) ELSE 0 END), 0) AS stock_out
		FROM stock_events e
		JOIN inventory_items i ON i.id = e.item_id
		WHERE e.created_at BETWEEN $1 AND $2
		  AND ($3::text IS NULL OR LOWER(i.supplier_id) = $3)
		GROUP BY TO_CHAR(e.created_at, 'YYYY-MM')
		ORDER BY 1
	`

	var rows []analytics.MonthlyMovement
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, start, end, nullable(supplierID)); err != nil {
		return nil, fmt.Errorf("monthly movement: %w", err)
	}
	return rows, nil
}

// DailyValuation computes end-of-day inventory value per calendar day.
//
// Two window passes are required: a cumulative sum rebuilds each item's
// running balance, then a rank picks the last event per (day, item). A naive
// day-level SUM would double count quantity carried over from prior days.
func (r *AnalyticsRepo) DailyValuation(ctx context.Context, start, end time.Time, supplierID string) ([]analytics.DailyValuationPoint, error) {
	ctx, span := startSpan(ctx, "analytics.DailyValuation")
	defer span.End()

	const sql = `
		WITH ordered AS (
			SELECT CAST(e.created_at AS DATE) AS day,
			       e.item_id,
			       e.price_at_change,
			       SUM(e.quantity_change) OVER (
			           PARTITION BY e.item_id
			           ORDER BY e.created_at, e.id
			           ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
			       ) AS qty_after,
			       ROW_NUMBER() OVER (
			           PARTITION BY CAST(e.created_at AS DATE), e.item_id
			           ORDER BY e.created_at DESC, e.id DESC
			       ) AS rn
			FROM stock_events e
			JOIN inventory_items i ON i.id = e.item_id
			WHERE e.created_at BETWEEN $1 AND $2
			  AND ($3::text IS NULL OR LOWER(i.supplier_id) = $3)
		)
		SELECT o.day,
		       SUM(COALESCE(o.qty_after, 0) * COALESCE(o.price_at_change, i.price, 0))::float8 AS total_value
		FROM ordered o
		JOIN inventory_items i ON i.id = o.item_id
		WHERE o.rn = 1
		GROUP BY o.day
		ORDER BY o.day
	`

	var rows []valuationRow
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, start, end, nullable(supplierID)); err != nil {
		return nil, fmt.Errorf("daily valuation: %w", err)
	}

	points := make([]analytics.DailyValuationPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, analytics.DailyValuationPoint{
			Day:        row.Day,
			TotalValue: types.NewMoney(row.TotalValue),
		})
	}
	return points, nil
}

// PriceTrend averages recorded prices per day for one item. Days without a
// recorded price are omitted.
func (r *AnalyticsRepo) PriceTrend(ctx context.Context, itemID, supplierID string, start, end time.Time) ([]analytics.PricePoint, error) {
	ctx, span := startSpan(ctx, "analytics.PriceTrend")
	defer span.End()

	const sql = `
		SELECT CAST(e.created_at AS DATE) AS day,
		       AVG(e.price_at_change)::float8 AS average_price
		FROM stock_events e
		JOIN inventory_items i ON i.id = e.item_id
		WHERE e.item_id = $1
		  AND e.created_at BETWEEN $2 AND $3
		  AND ($4::text IS NULL OR LOWER(i.supplier_id) = $4)
		  AND e.price_at_change IS NOT NULL
		GROUP BY CAST(e.created_at AS DATE)
		ORDER BY 1
	`

	var rows []trendRow
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, itemID, start, end, nullable(supplierID)); err != nil {
		return nil, fmt.Errorf("price trend: %w", err)
	}

	points := make([]analytics.PricePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, analytics.PricePoint{
			Day:          row.Day,
			AveragePrice: types.NewMoney(row.AveragePrice),
		})
	}
	return points, nil
}

// StockPerSupplier returns current quantities grouped by supplier.
func (r *AnalyticsRepo) StockPerSupplier(ctx context.Context) ([]analytics.SupplierStock, error) {
	ctx, span := startSpan(ctx, "analytics.StockPerSupplier")
	defer span.End()

	q := r.builder.
		Select("s.name AS supplier_name", "COALESCE(SUM(i.quantity), 0) AS total_quantity").
		From(suppliersTable + " s").
		Join(itemsTable + " i ON i.supplier_id = s.id").
		GroupBy("s.name").
		OrderBy("total_quantity DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []analytics.SupplierStock
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("stock per supplier: %w", err)
	}
	return rows, nil
}

// ItemUpdateFrequency counts ledger entries per item.
func (r *AnalyticsRepo) ItemUpdateFrequency(ctx context.Context, supplierID string) ([]analytics.ItemActivity, error) {
	ctx, span := startSpan(ctx, "analytics.ItemUpdateFrequency")
	defer span.End()

	q := r.builder.
		Select("i.name AS item_name", "COUNT(e.id) AS update_count").
		From(itemsTable + " i").
		Join(eventsTable + " e ON e.item_id = i.id").
		GroupBy("i.name").
		OrderBy("update_count DESC")

	if supplierID != "" {
		q = q.Where("LOWER(i.supplier_id) = ?", supplierID)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []analytics.ItemActivity
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("item update frequency: %w", err)
	}
	return rows, nil
}

// ItemsBelowMinimum lists items under their minimum stock threshold.
func (r *AnalyticsRepo) ItemsBelowMinimum(ctx context.Context, supplierID string) ([]analytics.LowStockItem, error) {
	ctx, span := startSpan(ctx, "analytics.ItemsBelowMinimum")
	defer span.End()

	q := r.builder.
		Select("i.name", "i.quantity", "i.minimum_quantity").
		From(itemsTable + " i").
		Where("i.quantity < i.minimum_quantity").
		OrderBy("i.quantity ASC")

	if supplierID != "" {
		q = q.Where("LOWER(i.supplier_id) = ?", supplierID)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []analytics.LowStockItem
	if err := pgxscan.Select(ctx, r.pool, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("items below minimum: %w", err)
	}
	return rows, nil
}

// LowStockCount returns the number of items under threshold.
func (r *AnalyticsRepo) LowStockCount(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, "analytics.LowStockCount")
	defer span.End()

	q := r.builder.
		Select("COUNT(*)").
		From(itemsTable + " i").
		Where("i.quantity < i.minimum_quantity")

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("low stock count: %w", err)
	}
	return count, nil
}

// --- row types ---

type eventRow struct {
	ID             string     `db:"id"`
	ItemID         string     `db:"item_id"`
	SupplierID     *string    `db:"supplier_id"`
	CreatedAt      time.Time  `db:"created_at"`
	QuantityChange int64      `db:"quantity_change"`
	PriceAtChange  *float64   `db:"price_at_change"`
	Reason         string     `db:"reason"`
	CreatedBy      string     `db:"created_by"`
}

func (r eventRow) toEvent() events.StockEvent {
	e := events.StockEvent{
		ID:             r.ID,
		ItemID:         r.ItemID,
		CreatedAt:      r.CreatedAt,
		QuantityChange: r.QuantityChange,
		Reason:         events.Reason(r.Reason),
		CreatedBy:      r.CreatedBy,
	}
	if r.SupplierID != nil {
		e.SupplierID = *r.SupplierID
	}
	if r.PriceAtChange != nil {
		e.PriceAtChange = types.MoneyPtr(types.NewMoney(*r.PriceAtChange))
	}
	return e
}

type valuationRow struct {
	Day        time.Time `db:"day"`
	TotalValue float64   `db:"total_value"`
}

type trendRow struct {
	Day          time.Time `db:"day"`
	AveragePrice float64   `db:"average_price"`
}

// Ensure interface compliance
var _ analytics.Repository = (*AnalyticsRepo)(nil)
