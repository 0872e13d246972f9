package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/core/types"
	"stocklens/internal/domain/analytics"
	"stocklens/internal/domain/events"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedSupplier(t *testing.T, s *Store, id, name string) {
	t.Helper()
	_, err := s.DB().Exec(`INSERT INTO suppliers (id, name) VALUES (?, ?)`, id, name)
	require.NoError(t, err)
}

func seedItem(t *testing.T, s *Store, id, name, supplierID string, price float64, qty, minQty int64) {
	t.Helper()
	_, err := s.DB().Exec(
		`INSERT INTO inventory_items (id, name, supplier_id, price, quantity, minimum_quantity) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, supplierID, price, qty, minQty)
	require.NoError(t, err)
}

func seedEvent(t *testing.T, s *Store, itemID, supplierID string, at time.Time, qtyChange int64, price *float64, reason events.Reason) string {
	t.Helper()
	id := uuid.NewString()
	_, err := s.DB().Exec(
		`INSERT INTO stock_events (id, item_id, supplier_id, created_at, quantity_change, price_at_change, reason, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, '')`,
		id, itemID, supplierID, at.Format(TimeLayout), qtyChange, price, string(reason))
	require.NoError(t, err)
	return id
}

func fptr(f float64) *float64 { return &f }

func decimalFrom(f float64) types.Money {
	return types.NewMoney(f)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh int) time.Time {
	return time.Date(y, m, d, hh, 0, 0, 0, time.UTC)
}

func TestStreamEvents_OrderingAndSupplierFallback(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedItem(t, store, "item-a", "Widget", "sup-1", 2.50, 10, 2)
	seedItem(t, store, "item-b", "Gadget", "sup-1", 4.00, 5, 2)

	// Same timestamp for both item-a events; id tiebreak keeps order stable.
	ts := at(2026, 3, 10, 9)
	seedEvent(t, store, "item-b", "sup-1", at(2026, 3, 9, 8), 5, fptr(4.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "", ts, 10, fptr(2.50), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "", ts, -3, nil, events.ReasonSold)

	stream, err := repo.StreamEvents(context.Background(), at(2026, 3, 31, 23), "")
	require.NoError(t, err)
	require.Len(t, stream, 3)

	// Grouped per item: all item-a events precede item-b's.
	assert.Equal(t, "item-a", stream[0].ItemID)
	assert.Equal(t, "item-a", stream[1].ItemID)
	assert.Equal(t, "item-b", stream[2].ItemID)

	// Event carried no supplier, so the item's current supplier is attributed.
	assert.Equal(t, "sup-1", stream[0].SupplierID)
	require.NotNil(t, stream[0].PriceAtChange)
	assert.True(t, stream[0].PriceAtChange.Equal(decimalFrom(2.50)))
	assert.Nil(t, stream[1].PriceAtChange)
}

func TestStreamEvents_CutoffExcludesLater(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedItem(t, store, "item-a", "Widget", "sup-1", 1.00, 0, 0)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 1, 10, 12), 5, fptr(1.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 2, 10, 12), 5, fptr(1.00), events.ReasonManualUpdate)

	stream, err := repo.StreamEvents(context.Background(), at(2026, 1, 31, 23), "")
	require.NoError(t, err)
	require.Len(t, stream, 1)
	assert.Equal(t, at(2026, 1, 10, 12), stream[0].CreatedAt)
}

func TestStreamEvents_SupplierFilterIsOnEventSupplier(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedSupplier(t, store, "sup-2", "Globex")
	seedItem(t, store, "item-a", "Widget", "sup-1", 1.00, 0, 0)
	seedEvent(t, store, "item-a", "SUP-1", at(2026, 1, 5, 9), 3, fptr(1.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "sup-2", at(2026, 1, 6, 9), 2, fptr(1.00), events.ReasonManualUpdate)
	// Blank supplier on the event: excluded by a supplier filter even though
	// the owning item belongs to sup-1.
	seedEvent(t, store, "item-a", "", at(2026, 1, 7, 9), 1, fptr(1.00), events.ReasonManualUpdate)

	stream, err := repo.StreamEvents(context.Background(), at(2026, 12, 31, 23), "sup-1")
	require.NoError(t, err)
	require.Len(t, stream, 1)
	assert.Equal(t, int64(3), stream[0].QuantityChange)
}

func TestMonthlyMovement_GroupsAndSplitsDirection(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedItem(t, store, "item-a", "Widget", "sup-1", 1.00, 0, 0)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 1, 5, 9), 10, fptr(1.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 1, 20, 9), -4, nil, events.ReasonSold)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 2, 2, 9), 6, fptr(1.00), events.ReasonManualUpdate)

	got, err := repo.MonthlyMovement(context.Background(), day(2026, 1, 1), at(2026, 2, 28, 23), "")
	require.NoError(t, err)
	require.Equal(t, []analytics.MonthlyMovement{
		{Month: "2026-01", StockIn: 10, StockOut: 4},
		{Month: "2026-02", StockIn: 6, StockOut: 0},
	}, got)
}

func TestDailyValuation_RunningBalanceCarriesAcrossDays(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedItem(t, store, "item-a", "Widget", "sup-1", 3.00, 0, 0)

	// Day 1: +10 @ 2.00 then -2 (priceless outflow, valued at item price 3.00).
	seedEvent(t, store, "item-a", "sup-1", at(2026, 4, 1, 9), 10, fptr(2.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 4, 1, 15), -2, nil, events.ReasonSold)
	// Day 3: -3 more. Day 2 has no events and yields no point.
	seedEvent(t, store, "item-a", "sup-1", at(2026, 4, 3, 10), -3, nil, events.ReasonSold)

	got, err := repo.DailyValuation(context.Background(), day(2026, 4, 1), at(2026, 4, 30, 23), "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Last event of day 1 leaves balance 8, priced at the item's current
	// price because the outflow recorded none: 8 * 3.00.
	assert.Equal(t, day(2026, 4, 1), got[0].Day)
	assert.True(t, got[0].TotalValue.Equal(decimalFrom(24.00)), "got %s", got[0].TotalValue)

	// Day 3 balance is 5 = 10 - 2 - 3: the day 1 outflow carries over.
	assert.Equal(t, day(2026, 4, 3), got[1].Day)
	assert.True(t, got[1].TotalValue.Equal(decimalFrom(15.00)), "got %s", got[1].TotalValue)
}

func TestDailyValuation_SumsAcrossItems(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedItem(t, store, "item-a", "Widget", "sup-1", 1.00, 0, 0)
	seedItem(t, store, "item-b", "Gadget", "sup-1", 1.00, 0, 0)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 5, 1, 9), 4, fptr(2.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-b", "sup-1", at(2026, 5, 1, 10), 3, fptr(5.00), events.ReasonManualUpdate)

	got, err := repo.DailyValuation(context.Background(), day(2026, 5, 1), at(2026, 5, 1, 23), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].TotalValue.Equal(decimalFrom(23.00)), "got %s", got[0].TotalValue)
}

func TestPriceTrend_OmitsPricelessDays(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedItem(t, store, "item-a", "Widget", "sup-1", 1.00, 0, 0)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 6, 1, 9), 5, fptr(2.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 6, 1, 14), 5, fptr(4.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 6, 2, 9), -3, nil, events.ReasonSold)

	got, err := repo.PriceTrend(context.Background(), "item-a", "", day(2026, 6, 1), at(2026, 6, 30, 23))
	require.NoError(t, err)
	require.Len(t, got, 1, "the priceless day must be omitted, not zeroed")
	assert.Equal(t, day(2026, 6, 1), got[0].Day)
	assert.True(t, got[0].AveragePrice.Equal(decimalFrom(3.00)), "got %s", got[0].AveragePrice)
}

func TestStockPerSupplier_OrdersByQuantityDesc(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedSupplier(t, store, "sup-2", "Globex")
	seedItem(t, store, "item-a", "Widget", "sup-1", 1.00, 3, 0)
	seedItem(t, store, "item-b", "Gadget", "sup-2", 1.00, 7, 0)
	seedItem(t, store, "item-c", "Sprocket", "sup-2", 1.00, 2, 0)

	got, err := repo.StockPerSupplier(context.Background())
	require.NoError(t, err)
	require.Equal(t, []analytics.SupplierStock{
		{SupplierName: "Globex", TotalQuantity: 9},
		{SupplierName: "Acme", TotalQuantity: 3},
	}, got)
}

func TestItemUpdateFrequency_FiltersBySupplier(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedSupplier(t, store, "sup-2", "Globex")
	seedItem(t, store, "item-a", "Widget", "sup-1", 1.00, 0, 0)
	seedItem(t, store, "item-b", "Gadget", "sup-2", 1.00, 0, 0)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 1, 1, 9), 1, fptr(1.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-a", "sup-1", at(2026, 1, 2, 9), 1, fptr(1.00), events.ReasonManualUpdate)
	seedEvent(t, store, "item-b", "sup-2", at(2026, 1, 3, 9), 1, fptr(1.00), events.ReasonManualUpdate)

	got, err := repo.ItemUpdateFrequency(context.Background(), "sup-1")
	require.NoError(t, err)
	require.Equal(t, []analytics.ItemActivity{{ItemName: "Widget", UpdateCount: 2}}, got)
}

func TestLowStock_ThresholdIsStrict(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)

	seedSupplier(t, store, "sup-1", "Acme")
	seedItem(t, store, "item-a", "Widget", "sup-1", 1.00, 1, 5)
	seedItem(t, store, "item-b", "Gadget", "sup-1", 1.00, 5, 5) // at minimum, not below
	seedItem(t, store, "item-c", "Sprocket", "sup-1", 1.00, 0, 2)

	items, err := repo.ItemsBelowMinimum(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []analytics.LowStockItem{
		{Name: "Sprocket", Quantity: 0, MinimumQuantity: 2},
		{Name: "Widget", Quantity: 1, MinimumQuantity: 5},
	}, items)

	count, err := repo.LowStockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFinancialSummary_EndToEndThroughStore(t *testing.T) {
	store := openTestStore(t)
	repo := NewAnalyticsRepo(store)
	svc := analytics.NewService(repo)

	seedSupplier(t, store, "sup-1", "Acme")
	seedItem(t, store, "item-a", "Widget", "sup-1", 5.00, 6, 0)

	// Opening: 10 @ 5.00 before the period.
	seedEvent(t, store, "item-a", "sup-1", at(2026, 2, 10, 9), 10, fptr(5.00), events.ReasonManualUpdate)
	// In period: sell 4 at the running average.
	seedEvent(t, store, "item-a", "sup-1", at(2026, 3, 5, 9), -4, nil, events.ReasonSold)

	sum, err := svc.FinancialSummaryWAC(context.Background(), day(2026, 3, 1), day(2026, 3, 31), "")
	require.NoError(t, err)

	assert.Equal(t, int64(10), sum.OpeningQty)
	assert.True(t, sum.OpeningValue.Equal(decimalFrom(50.00)), "opening %s", sum.OpeningValue)
	assert.Equal(t, int64(4), sum.CogsQty)
	assert.True(t, sum.CogsCost.Equal(decimalFrom(20.00)), "cogs %s", sum.CogsCost)
	assert.Equal(t, int64(6), sum.EndingQty)
	assert.True(t, sum.EndingValue.Equal(decimalFrom(30.00)), "ending %s", sum.EndingValue)
}
