package sqlite

import (
	"context"
	"fmt"
	"time"

	"stocklens/internal/core/types"
	"stocklens/internal/domain/analytics"
	"stocklens/internal/domain/events"
)

// AnalyticsRepo implements analytics.Repository against SQLite.
//
// Query shapes mirror the PostgreSQL backend; only the dialect differs
// (strftime/date instead of TO_CHAR/CAST AS DATE, ? placeholders, and
// timestamps bound as TimeLayout strings).
type AnalyticsRepo struct {
	store *Store
}

// NewAnalyticsRepo creates the SQLite analytics repository.
func NewAnalyticsRepo(store *Store) *AnalyticsRepo {
	return &AnalyticsRepo{store: store}
}

// StreamEvents returns the ordered event stream up to cutoff.
func (r *AnalyticsRepo) StreamEvents(ctx context.Context, cutoff time.Time, supplierID string) ([]events.StockEvent, error) {
	const query = `
		SELECT e.id,
		       e.item_id,
		       COALESCE(NULLIF(e.supplier_id, ''), i.supplier_id),
		       e.created_at,
		       e.quantity_change,
		       e.price_at_change,
		       e.reason,
		       COALESCE(e.created_by, '')
		FROM stock_events e
		JOIN inventory_items i ON i.id = e.item_id
		WHERE e.created_at <= ?
		  AND (? = '' OR LOWER(e.supplier_id) = ?)
		ORDER BY e.item_id ASC, e.created_at ASC, e.id ASC
	`

	rows, err := r.store.db.QueryContext(ctx, query, cutoff.Format(TimeLayout), supplierID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("stream events: %w", err)
	}
	defer rows.Close()

	var stream []events.StockEvent
	for rows.Next() {
		var (
			e         events.StockEvent
			createdAt string
			price     *float64
			reason    string
		)
		if err := rows.Scan(&e.ID, &e.ItemID, &e.SupplierID, &createdAt, &e.QuantityChange, &price, &reason, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ts, err := time.ParseInLocation(TimeLayout, createdAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		e.CreatedAt = ts
		e.Reason = events.Reason(reason)
		if price != nil {
			e.PriceAtChange = types.MoneyPtr(types.NewMoney(*price))
		}
		stream = append(stream, e)
	}
	return stream, rows.Err()
}

// MonthlyMovement groups events into "YYYY-MM" buckets.
func (r *AnalyticsRepo) MonthlyMovement(ctx context.Context, start, end time.Time, supplierID string) ([]analytics.MonthlyMovement, error) {
	const query = `
		SELECT strftime('%Y-%m', e.created_at) AS month,
		       COALESCE(SUM(CASE WHEN e.quantity_change > 0 THEN e.quantity_change ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN e.quantity_change < 0 THEN ABS(e.quantity_change) ELSE 0 END), 0)
		FROM stock_events e
		JOIN inventory_items i ON i.id = e.item_id
		WHERE e.created_at BETWEEN ? AND ?
		  AND (? = '' OR LOWER(i.supplier_id) = ?)
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.store.db.QueryContext(ctx, query,
		start.Format(TimeLayout), end.Format(TimeLayout), supplierID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("monthly movement: %w", err)
	}
	defer rows.Close()

	var out []analytics.MonthlyMovement
	for rows.Next() {
		var m analytics.MonthlyMovement
		if err := rows.Scan(&m.Month, &m.StockIn, &m.StockOut); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DailyValuation computes end-of-day inventory value per calendar day.
func (r *AnalyticsRepo) DailyValuation(ctx context.Context, start, end time.Time, supplierID string) ([]analytics.DailyValuationPoint, error) {
	const query = `
		WITH ordered AS (
			SELECT date(e.created_at) AS day,
			       e.item_id,
			       e.price_at_change,
			       SUM(e.quantity_change) OVER (
			           PARTITION BY e.item_id
			           ORDER BY e.created_at, e.id
			           ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
			       ) AS qty_after,
			       ROW_NUMBER() OVER (
			           PARTITION BY date(e.created_at), e.item_id
			           ORDER BY e.created_at DESC, e.id DESC
			       ) AS rn
			FROM stock_events e
			JOIN inventory_items i ON i.id = e.item_id
			WHERE e.created_at BETWEEN ? AND ?
			  AND (? = '' OR LOWER(i.supplier_id) = ?)
		)
		SELECT o.day,
		       SUM(COALESCE(o.qty_after, 0) * COALESCE(o.price_at_change, i.price, 0))
		FROM ordered o
		JOIN inventory_items i ON i.id = o.item_id
		WHERE o.rn = 1
		GROUP BY o.day
		ORDER BY o.day
	`

	rows, err := r.store.db.QueryContext(ctx, query,
		start.Format(TimeLayout), end.Format(TimeLayout), supplierID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("daily valuation: %w", err)
	}
	defer rows.Close()

	var out []analytics.DailyValuationPoint
	for rows.Next() {
		var (
			day   string
			total float64
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		d, err := time.ParseInLocation(DayLayout, day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		out = append(out, analytics.DailyValuationPoint{
			Day:        d,
			TotalValue: types.NewMoney(total),
		})
	}
	return out, rows.Err()
}

// PriceTrend averages recorded prices per day for one item.
func (r *AnalyticsRepo) PriceTrend(ctx context.Context, itemID, supplierID string, start, end time.Time) ([]analytics.PricePoint, error) {
	const query = `
		SELECT date(e.created_at) AS day,
		       AVG(e.price_at_change)
		FROM stock_events e
		JOIN inventory_items i ON i.id = e.item_id
		WHERE e.item_id = ?
		  AND e.created_at BETWEEN ? AND ?
		  AND (? = '' OR LOWER(i.supplier_id) = ?)
		  AND e.price_at_change IS NOT NULL
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.store.db.QueryContext(ctx, query,
		itemID, start.Format(TimeLayout), end.Format(TimeLayout), supplierID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("price trend: %w", err)
	}
	defer rows.Close()

	var out []analytics.PricePoint
	for rows.Next() {
		var (
			day string
			avg float64
		)
		if err := rows.Scan(&day, &avg); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		d, err := time.ParseInLocation(DayLayout, day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		out = append(out, analytics.PricePoint{
			Day:          d,
			AveragePrice: types.NewMoney(avg),
		})
	}
	return out, rows.Err()
}

// StockPerSupplier returns current quantities grouped by supplier.
func (r *AnalyticsRepo) StockPerSupplier(ctx context.Context) ([]analytics.SupplierStock, error) {
	const query = `
		SELECT s.name,
		       COALESCE(SUM(i.quantity), 0) AS total_quantity
		FROM suppliers s
		JOIN inventory_items i ON i.supplier_id = s.id
		GROUP BY s.name
		ORDER BY total_quantity DESC
	`

	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock per supplier: %w", err)
	}
	defer rows.Close()

	var out []analytics.SupplierStock
	for rows.Next() {
		var s analytics.SupplierStock
		if err := rows.Scan(&s.SupplierName, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan supplier stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ItemUpdateFrequency counts ledger entries per item.
func (r *AnalyticsRepo) ItemUpdateFrequency(ctx context.Context, supplierID string) ([]analytics.ItemActivity, error) {
	const query = `
		SELECT i.name,
		       COUNT(e.id) AS update_count
		FROM inventory_items i
		JOIN stock_events e ON e.item_id = i.id
		WHERE (? = '' OR LOWER(i.supplier_id) = ?)
		GROUP BY i.name
		ORDER BY update_count DESC
	`

	rows, err := r.store.db.QueryContext(ctx, query, supplierID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("item update frequency: %w", err)
	}
	defer rows.Close()

	var out []analytics.ItemActivity
	for rows.Next() {
		var a analytics.ItemActivity
		if err := rows.Scan(&a.ItemName, &a.UpdateCount); err != nil {
			return nil, fmt.Errorf("scan item activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ItemsBelowMinimum lists items under their minimum stock threshold.
func (r *AnalyticsRepo) ItemsBelowMinimum(ctx context.Context, supplierID string) ([]analytics.LowStockItem, error) {
	const query = `
		SELECT i.name, i.quantity, i.minimum_quantity
		FROM inventory_items i
		WHERE i.quantity < i.minimum_quantity
		  AND (? = '' OR LOWER(i.supplier_id) = ?)
		ORDER BY i.quantity ASC
	`

	rows, err := r.store.db.QueryContext(ctx, query, supplierID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("items below minimum: %w", err)
	}
	defer rows.Close()

	var out []analytics.LowStockItem
	for rows.Next() {
		var it analytics.LowStockItem
		if err := rows.Scan(&it.Name, &it.Quantity, &it.MinimumQuantity); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// LowStockCount returns the number of items under threshold.
func (r *AnalyticsRepo) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory_items WHERE quantity < minimum_quantity`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("low stock count: %w", err)
	}
	return count, nil
}

var _ analytics.Repository = (*AnalyticsRepo)(nil)
