// Package events defines the append-only stock event ledger.
//
// A StockEvent is an immutable fact recorded when a stock mutation happens
// elsewhere in the system. Events are never updated or deleted; every derived
// figure (balances, valuations, weighted average costs) is reconstructed by
// replaying the ordered stream.
package events

import (
	"time"

	"stocklens/internal/core/types"
)

// Reason categorizes a stock change. Values mirror the ledger source and are
// stored as-is in the event table.
type Reason string

const (
	ReasonInitialStock       Reason = "INITIAL_STOCK"
	ReasonManualUpdate       Reason = "MANUAL_UPDATE"
	ReasonPriceChange        Reason = "PRICE_CHANGE"
	ReasonSold               Reason = "SOLD"
	ReasonScrapped           Reason = "SCRAPPED"
	ReasonDestroyed          Reason = "DESTROYED"
	ReasonDamaged            Reason = "DAMAGED"
	ReasonExpired            Reason = "EXPIRED"
	ReasonLost               Reason = "LOST"
	ReasonReturnedToSupplier Reason = "RETURNED_TO_SUPPLIER"
	ReasonReturnedByCustomer Reason = "RETURNED_BY_CUSTOMER"
)

// IsWriteOff reports whether an outbound event with this reason is booked as
// a write-off rather than cost of goods sold.
func (r Reason) IsWriteOff() bool {
	switch r {
	case ReasonDamaged, ReasonDestroyed, ReasonScrapped, ReasonExpired, ReasonLost:
		return true
	}
	return false
}

// IsReturnIn reports whether an inbound event with this reason is booked as
// a customer return rather than a purchase.
func (r Reason) IsReturnIn() bool {
	return r == ReasonReturnedByCustomer
}

// IsReturnToSupplier reports whether an outbound event with this reason
// reverses a purchase instead of producing COGS.
func (r Reason) IsReturnToSupplier() bool {
	return r == ReasonReturnedToSupplier
}

// StockEvent is one inventory change. QuantityChange is signed: positive
// inbound, negative outbound. PriceAtChange is the unit price effective at
// the moment of the event and may be absent (e.g. a sale recorded without a
// price, costed at the running average instead).
type StockEvent struct {
	ID     string `json:"id"`
	ItemID string `json:"itemId"`

	// SupplierID is the event's supplier attribution. When the ledger row
	// carries none, the store resolves it from the owning item's current
	// supplier. The item's *current* supplier is used even for historical
	// events - there is no per-event supplier snapshot, so reports
	// misattribute history when an item changed supplier. Known precision
	// gap, kept deliberately.
	SupplierID string `json:"supplierId,omitempty"`

	CreatedAt      time.Time    `json:"createdAt"`
	QuantityChange int64        `json:"quantityChange"`
	PriceAtChange  *types.Money `json:"priceAtChange,omitempty"`
	Reason         Reason       `json:"reason"`
	CreatedBy      string       `json:"createdBy,omitempty"`
}

// Inbound reports whether the event adds stock.
func (e StockEvent) Inbound() bool { return e.QuantityChange > 0 }

// Outbound reports whether the event removes stock.
func (e StockEvent) Outbound() bool { return e.QuantityChange < 0 }
