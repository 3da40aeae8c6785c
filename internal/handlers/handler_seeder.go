package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailops/ledgercore/internal/apperrors"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/middleware"
)

// seederHandler exposes the default chart seeding for manual invocation. The
// same service runs on bootstrap; this route re-runs it, which is harmless.
type seederHandler struct {
	seederService portssvc.SeederSvcFacade
}

// registerSeederRoutes registers the seed route.
func registerSeederRoutes(rg *gin.RouterGroup, seederService portssvc.SeederSvcFacade) {
	h := &seederHandler{seederService: seederService}
	rg.POST("/seed", h.seedDefaultAccounts)
}

// seedDefaultAccounts godoc
// @Summary Seed the default chart of accounts
// @Description Creates any missing system accounts of the default chart; idempotent
// @Tags admin
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to seed default accounts"
// @Failure 503 {object} map[string]string "Ledger store temporarily unavailable"
// @Security BearerAuth
// @Router /seed [post]
func (h *seederHandler) seedDefaultAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.seederService.SeedDefaultAccounts(c.Request.Context()); err != nil {
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			logger.Error("Ledger store unavailable seeding accounts", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger store temporarily unavailable"})
			return
		}
		logger.Error("Failed to seed default accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed default accounts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Default chart of accounts is in place"})
}
