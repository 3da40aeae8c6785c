package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailops/ledgercore/internal/apperrors"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/dto"
	"github.com/retailops/ledgercore/internal/middleware"
)

// reportingHandler handles aggregate report requests.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// registerReportingRoutes registers the stats and trial-balance routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}

	rg.GET("/stats", h.getStats)
	rg.GET("/trial-balance", h.getTrialBalance)
}

// getStats godoc
// @Summary Get accounting statistics
// @Description Returns account/entry counts and per-type balance totals from posted entries
// @Tags reporting
// @Produce  json
// @Param   fromDate query string false "Earliest entry date (YYYY-MM-DD)"
// @Param   toDate query string false "Latest entry date (YYYY-MM-DD)"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute statistics"
// @Failure 503 {object} map[string]string "Ledger store temporarily unavailable"
// @Security BearerAuth
// @Router /stats [get]
func (h *reportingHandler) getStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.StatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetStats", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	stats, err := h.reportingService.GetStats(c.Request.Context(), params.FromDate, params.ToDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			logger.Error("Ledger store unavailable computing stats", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger store temporarily unavailable"})
			return
		}
		logger.Error("Failed to compute accounting stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{Stats: *stats})
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Returns per-account posted debit/credit sums as of a date
// @Tags reporting
// @Produce  json
// @Param   asOf query string false "Cutoff entry date (YYYY-MM-DD); all time when absent"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build trial balance"
// @Failure 503 {object} map[string]string "Ledger store temporarily unavailable"
// @Security BearerAuth
// @Router /trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetTrialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rows, err := h.reportingService.GetTrialBalance(c.Request.Context(), params.AsOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			logger.Error("Ledger store unavailable building trial balance", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger store temporarily unavailable"})
			return
		}
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build trial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.TrialBalanceResponse{Rows: rows})
}
