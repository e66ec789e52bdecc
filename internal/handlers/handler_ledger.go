package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fintrack/fintrack_backend/internal/apperrors"
	portssvc "github.com/fintrack/fintrack_backend/internal/core/ports/services"
	"github.com/fintrack/fintrack_backend/internal/dto"
	"github.com/fintrack/fintrack_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for the balance audit ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers the ledger read routes under accounts.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.GET("/accounts/:id/ledger", h.listLedgerEntries)
}

// listLedgerEntries godoc
// @Summary List ledger entries for an account
// @Description Retrieves a token-paginated page of the account's balance audit trail, oldest first, so consecutive entries chain balance_after to balance_before
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list ledger entries"
// @Security BearerAuth
// @Router /accounts/{id}/ledger [get]
func (h *ledgerHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListLedgerEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to list ledger entries", slog.Int("limit", params.Limit))

	resp, err := h.ledgerService.ListEntriesForAccount(c.Request.Context(), ownerID, accountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for ledger listing")
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token for ListLedgerEntries", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list ledger entries from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		}
		return
	}

	logger.Info("Ledger entries listed successfully", slog.Int("count", len(resp.Entries)))
	c.JSON(http.StatusOK, resp)
}
