package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/dto"
	"github.com/retailops/ledgercore/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/unpost", h.unpostEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Creates a journal entry in DRAFT status, or directly POSTED with post=true
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Entry number already exists"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Failure 503 {object} map[string]string "Ledger store temporarily unavailable"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate entry number", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
			// Unknown line accounts are a request problem.
			logger.Warn("Validation error creating entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrStoreUnavailable):
			logger.Error("Ledger store unavailable creating entry", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger store temporarily unavailable"})
		default:
			logger.Error("Failed to create journal entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal entry"})
		}
		return
	}

	logger.Info("Journal entry created successfully", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a token-paginated page of entries, newest first
// @Tags journal-entries
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Param   status query string false "Filter by status (DRAFT or POSTED)"
// @Param   sourceModule query string false "Filter by source module"
// @Param   fromDate query string false "Earliest entry date (YYYY-MM-DD)"
// @Param   toDate query string false "Latest entry date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Failure 503 {object} map[string]string "Ledger store temporarily unavailable"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing entries", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrStoreUnavailable) {
			logger.Error("Ledger store unavailable listing entries", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger store temporarily unavailable"})
		} else {
			logger.Error("Failed to list journal entries from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journal entries"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Description Retrieves an entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Failure 503 {object} map[string]string "Ledger store temporarily unavailable"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal entry not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else if errors.Is(err, apperrors.ErrStoreUnavailable) {
			logger.Error("Ledger store unavailable fetching entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger store temporarily unavailable"})
		} else {
			logger.Error("Failed to get journal entry from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Transitions a DRAFT entry to POSTED and applies its effect to account balances
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is already posted"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Failure 503 {object} map[string]string "Ledger store temporarily unavailable"
// @Security BearerAuth
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	h.transition(c, h.journalService.PostEntry, "post")
}

// unpostEntry godoc
// @Summary Unpost a journal entry
// @Description Reverts a POSTED entry to DRAFT, subtracting its effect from account balances
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not posted or is system-protected"
// @Failure 500 {object} map[string]string "Failed to unpost journal entry"
// @Failure 503 {object} map[string]string "Ledger store temporarily unavailable"
// @Security BearerAuth
// @Router /journal-entries/{id}/unpost [post]
func (h *journalHandler) unpostEntry(c *gin.Context) {
	h.transition(c, h.journalService.UnpostEntry, "unpost")
}

// transition runs a status-changing operation with shared error mapping.
func (h *journalHandler) transition(c *gin.Context, op func(ctx context.Context, entryID, userID string) (*domain.JournalEntry, error), verb string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := op(c.Request.Context(), entryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Journal entry not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		case errors.Is(err, apperrors.ErrStateConflict):
			logger.Warn("Journal entry state conflict", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrStoreUnavailable):
			logger.Error("Ledger store unavailable during "+verb, slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger store temporarily unavailable"})
		default:
			logger.Error("Failed to "+verb+" journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + verb + " journal entry"})
		}
		return
	}

	logger.Info("Journal entry "+verb+"ed successfully", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}
