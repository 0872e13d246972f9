package dto

import (
	"time"

	"stocklens/internal/domain/analytics"
)

const dateLayout = "2006-01-02"

// --- Requests ---

// RangeRequest carries the common reporting window query parameters.
// Dates are calendar dates ("2006-01-02"); both optional unless the
// endpoint says otherwise, supplierId blank means all suppliers.
type RangeRequest struct {
	From       string `form:"from"`
	To         string `form:"to"`
	SupplierID string `form:"supplierId"`
}

// PriceTrendRequest extends the window with the mandatory item.
type PriceTrendRequest struct {
	RangeRequest
	ItemID string `form:"itemId"`
}

// --- Responses ---

// FinancialSummaryResponse is the period cost-flow summary. Monetary values
// are decimal strings to avoid client-side float drift.
type FinancialSummaryResponse struct {
	Method   string `json:"method"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`

	OpeningQty   int64  `json:"openingQty"`
	OpeningValue string `json:"openingValue"`

	PurchasesQty  int64  `json:"purchasesQty"`
	PurchasesCost string `json:"purchasesCost"`

	ReturnsInQty  int64  `json:"returnsInQty"`
	ReturnsInCost string `json:"returnsInCost"`

	CogsQty  int64  `json:"cogsQty"`
	CogsCost string `json:"cogsCost"`

	WriteOffQty  int64  `json:"writeOffQty"`
	WriteOffCost string `json:"writeOffCost"`

	EndingQty   int64  `json:"endingQty"`
	EndingValue string `json:"endingValue"`
}

// FromFinancialSummary converts the domain summary to its response DTO.
func FromFinancialSummary(s analytics.FinancialSummary) FinancialSummaryResponse {
	return FinancialSummaryResponse{
		Method:        s.Method,
		FromDate:      s.FromDate.Format(dateLayout),
		ToDate:        s.ToDate.Format(dateLayout),
		OpeningQty:    s.OpeningQty,
		OpeningValue:  s.OpeningValue.String(),
		PurchasesQty:  s.PurchasesQty,
		PurchasesCost: s.PurchasesCost.String(),
		ReturnsInQty:  s.ReturnsInQty,
		ReturnsInCost: s.ReturnsInCost.String(),
		CogsQty:       s.CogsQty,
		CogsCost:      s.CogsCost.String(),
		WriteOffQty:   s.WriteOffQty,
		WriteOffCost:  s.WriteOffCost.String(),
		EndingQty:     s.EndingQty,
		EndingValue:   s.EndingValue.String(),
	}
}

// MonthlyMovementResponse is one month's stock-in/out totals.
type MonthlyMovementResponse struct {
	Month    string `json:"month"`
	StockIn  int64  `json:"stockIn"`
	StockOut int64  `json:"stockOut"`
}

// FromMonthlyMovement converts domain rows to response DTOs.
func FromMonthlyMovement(rows []analytics.MonthlyMovement) []MonthlyMovementResponse {
	out := make([]MonthlyMovementResponse, len(rows))
	for i, r := range rows {
		out[i] = MonthlyMovementResponse{Month: r.Month, StockIn: r.StockIn, StockOut: r.StockOut}
	}
	return out
}

// DailyValuationResponse is one day's total inventory value.
type DailyValuationResponse struct {
	Day        string `json:"day"`
	TotalValue string `json:"totalValue"`
}

// FromDailyValuation converts domain points to response DTOs.
func FromDailyValuation(points []analytics.DailyValuationPoint) []DailyValuationResponse {
	out := make([]DailyValuationResponse, len(points))
	for i, p := range points {
		out[i] = DailyValuationResponse{Day: p.Day.Format(dateLayout), TotalValue: p.TotalValue.String()}
	}
	return out
}

// PricePointResponse is one day's average recorded price.
type PricePointResponse struct {
	Day          string `json:"day"`
	AveragePrice string `json:"averagePrice"`
}

// FromPriceTrend converts domain points to response DTOs.
func FromPriceTrend(points []analytics.PricePoint) []PricePointResponse {
	out := make([]PricePointResponse, len(points))
	for i, p := range points {
		out[i] = PricePointResponse{Day: p.Day.Format(dateLayout), AveragePrice: p.AveragePrice.String()}
	}
	return out
}

// SupplierStockResponse is one supplier's current stock total.
type SupplierStockResponse struct {
	SupplierName  string `json:"supplierName"`
	TotalQuantity int64  `json:"totalQuantity"`
}

// FromSupplierStock converts domain rows to response DTOs.
func FromSupplierStock(rows []analytics.SupplierStock) []SupplierStockResponse {
	out := make([]SupplierStockResponse, len(rows))
	for i, r := range rows {
		out[i] = SupplierStockResponse{SupplierName: r.SupplierName, TotalQuantity: r.TotalQuantity}
	}
	return out
}

// ItemActivityResponse is one item's ledger entry count.
type ItemActivityResponse struct {
	ItemName    string `json:"itemName"`
	UpdateCount int64  `json:"updateCount"`
}

// FromItemActivity converts domain rows to response DTOs.
func FromItemActivity(rows []analytics.ItemActivity) []ItemActivityResponse {
	out := make([]ItemActivityResponse, len(rows))
	for i, r := range rows {
		out[i] = ItemActivityResponse{ItemName: r.ItemName, UpdateCount: r.UpdateCount}
	}
	return out
}

// LowStockItemResponse is one item under its minimum threshold.
type LowStockItemResponse struct {
	Name            string `json:"name"`
	Quantity        int64  `json:"quantity"`
	MinimumQuantity int64  `json:"minimumQuantity"`
}

// FromLowStock converts domain rows to response DTOs.
func FromLowStock(rows []analytics.LowStockItem) []LowStockItemResponse {
	out := make([]LowStockItemResponse, len(rows))
	for i, r := range rows {
		out[i] = LowStockItemResponse{Name: r.Name, Quantity: r.Quantity, MinimumQuantity: r.MinimumQuantity}
	}
	return out
}

// LowStockCountResponse is the number of items under threshold.
type LowStockCountResponse struct {
	Count int64 `json:"count"`
}

// DashboardResponse composes the headline widgets into one payload.
type DashboardResponse struct {
	Summary         FinancialSummaryResponse  `json:"summary"`
	MonthlyMovement []MonthlyMovementResponse `json:"monthlyMovement"`
	LowStock        []LowStockItemResponse    `json:"lowStock"`
}

// FromDashboard converts the domain dashboard to its response DTO.
func FromDashboard(d analytics.Dashboard) DashboardResponse {
	return DashboardResponse{
		Summary:         FromFinancialSummary(d.Summary),
		MonthlyMovement: FromMonthlyMovement(d.MonthlyMovement),
		LowStock:        FromLowStock(d.LowStock),
	}
}

// ParseDate parses an optional calendar date parameter. Blank yields the
// zero time, which downstream services treat as "not provided".
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
