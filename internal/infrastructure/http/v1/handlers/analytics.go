package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stocklens/internal/core/apperror"
	"stocklens/internal/domain/analytics"
	"stocklens/internal/infrastructure/http/v1/dto"
)

// AnalyticsHandler handles HTTP requests for stock analytics and valuation.
type AnalyticsHandler struct {
	*BaseHandler
	service *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(base *BaseHandler, service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// parseRange extracts and parses the common window parameters. Returns false
// after registering a validation error when a date fails to parse.
func (h *AnalyticsHandler) parseRange(c *gin.Context, req dto.RangeRequest) (time.Time, time.Time, bool) {
	from, ok := dto.ParseDate(req.From)
	if !ok {
		h.Error(c, apperror.NewValidation("invalid from date, expected YYYY-MM-DD"))
		return time.Time{}, time.Time{}, false
	}
	to, ok := dto.ParseDate(req.To)
	if !ok {
		h.Error(c, apperror.NewValidation("invalid to date, expected YYYY-MM-DD"))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// GetFinancialSummary handles GET /analytics/financial/summary
func (h *AnalyticsHandler) GetFinancialSummary(c *gin.Context) {
	var req dto.RangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	from, to, ok := h.parseRange(c, req)
	if !ok {
		return
	}

	summary, err := h.service.FinancialSummaryWAC(c.Request.Context(), from, to, req.SupplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromFinancialSummary(summary))
}

// GetMonthlyMovement handles GET /analytics/monthly-movement
func (h *AnalyticsHandler) GetMonthlyMovement(c *gin.Context) {
	var req dto.RangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	from, to, ok := h.parseRange(c, req)
	if !ok {
		return
	}

	rows, err := h.service.MonthlyMovement(c.Request.Context(), from, to, req.SupplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMonthlyMovement(rows))
}

// GetDailyValuation handles GET /analytics/daily-valuation
func (h *AnalyticsHandler) GetDailyValuation(c *gin.Context) {
	var req dto.RangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	from, to, ok := h.parseRange(c, req)
	if !ok {
		return
	}

	points, err := h.service.DailyValuation(c.Request.Context(), from, to, req.SupplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDailyValuation(points))
}

// GetPriceTrend handles GET /analytics/price-trend
func (h *AnalyticsHandler) GetPriceTrend(c *gin.Context) {
	var req dto.PriceTrendRequest
	if !h.BindQuery(c, &req) {
		return
	}
	from, to, ok := h.parseRange(c, req.RangeRequest)
	if !ok {
		return
	}

	points, err := h.service.PriceTrend(c.Request.Context(), req.ItemID, req.SupplierID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPriceTrend(points))
}

// GetStockPerSupplier handles GET /analytics/stock-per-supplier
func (h *AnalyticsHandler) GetStockPerSupplier(c *gin.Context) {
	rows, err := h.service.StockPerSupplier(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSupplierStock(rows))
}

// GetItemUpdateFrequency handles GET /analytics/item-update-frequency
func (h *AnalyticsHandler) GetItemUpdateFrequency(c *gin.Context) {
	rows, err := h.service.ItemUpdateFrequency(c.Request.Context(), c.Query("supplierId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromItemActivity(rows))
}

// GetLowStock handles GET /analytics/low-stock
func (h *AnalyticsHandler) GetLowStock(c *gin.Context) {
	rows, err := h.service.ItemsBelowMinimum(c.Request.Context(), c.Query("supplierId"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromLowStock(rows))
}

// GetLowStockCount handles GET /analytics/low-stock/count
func (h *AnalyticsHandler) GetLowStockCount(c *gin.Context) {
	count, err := h.service.LowStockCount(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LowStockCountResponse{Count: count})
}

// GetDashboard handles GET /analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	var req dto.RangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	from, to, ok := h.parseRange(c, req)
	if !ok {
		return
	}

	dashboard, err := h.service.GetDashboard(c.Request.Context(), from, to, req.SupplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDashboard(dashboard))
}
