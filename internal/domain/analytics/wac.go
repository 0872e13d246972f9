package analytics

import (
	"context"
	"time"

	"stocklens/internal/core/apperror"
	"stocklens/internal/core/types"
	"stocklens/internal/domain/events"
	"stocklens/pkg/logger"
)

// wacState is the running position of a single item: quantity on hand and
// the weighted average unit cost of that quantity.
type wacState struct {
	qty     int64
	avgCost types.Money
}

// applyInbound adds stock and re-averages the unit cost:
//
//	newAvg = (oldQty*oldAvg + inQty*unitCost) / (oldQty + inQty)
//
// rounded half-up at types.MoneyScale digits. The average must be
// recomputed after every single event in timestamp order; batching
// same-day events produces a different (wrong) average.
func applyInbound(st wacState, qtyIn int64, unitCost types.Money) wacState {
	q1 := st.qty + qtyIn
	v0 := types.MulInt(st.avgCost, st.qty)
	vin := types.MulInt(unitCost, qtyIn)
	return wacState{
		qty:     q1,
		avgCost: types.DivIntRound(v0.Add(vin), q1),
	}
}

// issueAt removes stock at the current weighted average cost. The average
// itself is unchanged; only quantity drops. Quantity is clamped at zero when
// the issue exceeds the position - the ledger does not reject negative
// stock, that is a business-layer concern upstream.
func issueAt(st wacState, qtyOut int64) (wacState, types.Money) {
	q1 := st.qty - qtyOut
	if q1 < 0 {
		q1 = 0
	}
	cost := types.MulInt(st.avgCost, qtyOut)
	return wacState{qty: q1, avgCost: st.avgCost}, cost
}

// inboundUnitCost resolves the unit cost of an inbound event: the recorded
// price when present, otherwise the item's current average (zero for a
// first-ever inbound without a price).
func inboundUnitCost(e events.StockEvent, st wacState) types.Money {
	if e.PriceAtChange != nil {
		return *e.PriceAtChange
	}
	return st.avgCost
}

// cancelCheckInterval bounds how many events replay between context checks.
const cancelCheckInterval = 1024

// ComputeFinancialSummary folds an ordered event stream into a period
// financial summary under the weighted average cost method.
//
// The stream must contain every event up to the period end (it is the
// caller's job to fetch with cutoff = end of period) ordered by (itemId,
// timestamp, id). Events before `from` rebuild the opening position per
// item; events inside [from, to] are classified into purchases, customer
// returns, COGS and write-offs, re-averaging after each one.
//
// A malformed event (zero timestamp, empty item id) aborts the whole
// computation: a partial summary is financially misleading. An empty stream
// is not an error and yields an all-zero summary.
func ComputeFinancialSummary(ctx context.Context, stream []events.StockEvent, from, to time.Time) (FinancialSummary, error) {
	summary := FinancialSummary{
		Method:        "WAC",
		FromDate:      from,
		ToDate:        to,
		OpeningValue:  types.Zero(),
		PurchasesCost: types.Zero(),
		ReturnsInCost: types.Zero(),
		CogsCost:      types.Zero(),
		WriteOffCost:  types.Zero(),
		EndingValue:   types.Zero(),
	}

	if err := validateStream(stream); err != nil {
		return FinancialSummary{}, err
	}

	state := make(map[string]wacState)

	// Phase 1: opening position. Replay everything strictly before the
	// period to establish per-item quantity and average cost.
	for i, e := range stream {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return FinancialSummary{}, err
			}
		}
		if !e.CreatedAt.Before(from) {
			continue
		}

		st := state[e.ItemID]
		switch {
		case e.Inbound():
			state[e.ItemID] = applyInbound(st, e.QuantityChange, inboundUnitCost(e, st))
		case e.Outbound():
			st, _ := issueAt(st, -e.QuantityChange)
			state[e.ItemID] = st
		}
	}

	for _, st := range state {
		summary.OpeningQty += st.qty
		summary.OpeningValue = summary.OpeningValue.Add(types.MulInt(st.avgCost, st.qty))
	}

	// Phase 2: classify events inside the period, re-averaging after each.
	for i, e := range stream {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return FinancialSummary{}, err
			}
		}
		if e.CreatedAt.Before(from) {
			continue
		}

		st := state[e.ItemID]

		switch {
		case e.Inbound():
			unit := inboundUnitCost(e, st)
			state[e.ItemID] = applyInbound(st, e.QuantityChange, unit)

			if e.Reason.IsReturnIn() {
				summary.ReturnsInQty += e.QuantityChange
				summary.ReturnsInCost = summary.ReturnsInCost.Add(types.MulInt(unit, e.QuantityChange))
			} else if e.PriceAtChange != nil || e.Reason == events.ReasonInitialStock {
				// Priceless inbound adjustments re-average the position but
				// are not booked as purchases.
				summary.PurchasesQty += e.QuantityChange
				summary.PurchasesCost = summary.PurchasesCost.Add(types.MulInt(unit, e.QuantityChange))
			}

		case e.Outbound():
			out := -e.QuantityChange

			if st.qty == 0 && st.avgCost.IsZero() {
				// No cost basis: the outflow is costed at zero. Flagged for
				// observability rather than silently ignored.
				logger.Warn(ctx, "outflow without cost basis costed at zero",
					"event_id", e.ID,
					"item_id", e.ItemID,
					"quantity", out,
					"reason", e.Reason,
				)
			}

			next, cost := issueAt(st, out)
			state[e.ItemID] = next

			switch {
			case e.Reason.IsReturnToSupplier():
				// Returning to supplier reverses a purchase.
				summary.PurchasesQty -= out
				summary.PurchasesCost = summary.PurchasesCost.Sub(cost)
			case e.Reason.IsWriteOff():
				summary.WriteOffQty += out
				summary.WriteOffCost = summary.WriteOffCost.Add(cost)
			default:
				summary.CogsQty += out
				summary.CogsCost = summary.CogsCost.Add(cost)
			}
		}
	}

	// Phase 3: ending position.
	for _, st := range state {
		summary.EndingQty += st.qty
		summary.EndingValue = summary.EndingValue.Add(types.MulInt(st.avgCost, st.qty))
	}

	return summary, nil
}

// validateStream rejects events that would break replay ordering before any
// figures are accumulated.
func validateStream(stream []events.StockEvent) error {
	for _, e := range stream {
		if e.CreatedAt.IsZero() {
			return apperror.NewMalformedEvent(e.ID, "missing timestamp")
		}
		if e.ItemID == "" {
			return apperror.NewMalformedEvent(e.ID, "missing item id")
		}
	}
	return nil
}
