// Package analytics provides stock valuation and cost-flow reporting.
package analytics

import (
	"time"

	"stocklens/internal/core/types"
)

// MonthlyMovement is total stock-in/stock-out for one calendar month.
// Month is formatted "YYYY-MM"; lexicographic order on this label is
// chronological order.
type MonthlyMovement struct {
	Month    string `json:"month"`
	StockIn  int64  `json:"stockIn"`
	StockOut int64  `json:"stockOut"`
}

// DailyValuationPoint is the total inventory value at the end of one day:
// for every item, the running balance after its last event of the day times
// the price at that event (falling back to the item's current price when the
// event carries none), summed across items.
type DailyValuationPoint struct {
	Day        time.Time   `json:"day"`
	TotalValue types.Money `json:"totalValue"`
}

// PricePoint is the average recorded transaction price of one item on one
// day. Days without any recorded price are omitted, never fabricated as
// zero.
type PricePoint struct {
	Day          time.Time   `json:"day"`
	AveragePrice types.Money `json:"averagePrice"`
}

// FinancialSummary is a period cost-flow summary under the weighted average
// cost method. Computed fresh per query; never persisted.
//
// Invariant: EndingQty = OpeningQty + PurchasesQty + ReturnsInQty - CogsQty
// - WriteOffQty, and the same additive identity holds for the value fields
// up to WAC rounding.
type FinancialSummary struct {
	Method   string    `json:"method"`
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	OpeningQty   int64       `json:"openingQty"`
	OpeningValue types.Money `json:"openingValue"`

	PurchasesQty  int64       `json:"purchasesQty"`
	PurchasesCost types.Money `json:"purchasesCost"`

	ReturnsInQty  int64       `json:"returnsInQty"`
	ReturnsInCost types.Money `json:"returnsInCost"`

	CogsQty  int64       `json:"cogsQty"`
	CogsCost types.Money `json:"cogsCost"`

	WriteOffQty  int64       `json:"writeOffQty"`
	WriteOffCost types.Money `json:"writeOffCost"`

	EndingQty   int64       `json:"endingQty"`
	EndingValue types.Money `json:"endingValue"`
}

// SupplierStock is the current total quantity held per supplier.
type SupplierStock struct {
	SupplierName  string `json:"supplierName"`
	TotalQuantity int64  `json:"totalQuantity"`
}

// ItemActivity counts ledger entries per item; a higher count means a more
// active product.
type ItemActivity struct {
	ItemName    string `json:"itemName"`
	UpdateCount int64  `json:"updateCount"`
}

// LowStockItem is an item whose current quantity is below its configured
// minimum.
type LowStockItem struct {
	Name            string `json:"name"`
	Quantity        int64  `json:"quantity"`
	MinimumQuantity int64  `json:"minimumQuantity"`
}

// Dashboard composes the headline widgets into one response.
type Dashboard struct {
	Summary         FinancialSummary  `json:"summary"`
	MonthlyMovement []MonthlyMovement `json:"monthlyMovement"`
	LowStock        []LowStockItem    `json:"lowStock"`
}
