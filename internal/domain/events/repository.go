package events

import (
	"context"
	"time"
)

// Store reads the ordered event stream from the ledger.
//
// Implementations must return events ordered ascending by (item_id,
// created_at, id). The trailing id tiebreak makes replay deterministic for
// same-timestamp events; downstream consumers rely on the ordering and do
// not re-sort. Snapshot consistency for the duration of one call is the
// implementation's concern (read transaction or equivalent), not the
// caller's.
type Store interface {
	// StreamEvents returns all events with created_at <= cutoff, optionally
	// filtered by supplier (case-insensitive exact; blank means all).
	// An empty stream is a valid result, not an error.
	StreamEvents(ctx context.Context, cutoff time.Time, supplierID string) ([]StockEvent, error)
}
