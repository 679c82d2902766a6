package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/workprior/crypto-backtest/internal/api/models"
	"github.com/workprior/crypto-backtest/internal/store"
)

type ResultsHandler struct {
	store *store.Store
}

func NewResultsHandler(st *store.Store) *ResultsHandler {
	return &ResultsHandler{store: st}
}

// ListResults handles GET /api/v1/results?limit=N.
func (h *ResultsHandler) ListResults(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "STORE_DISABLED", Message: "results store is not configured"},
		})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INVALID_LIMIT", Message: "limit must be a positive integer"},
			})
			return
		}
		limit = n
	}

	rows, err := h.store.ListSummaries(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "STORE_READ_ERROR", Message: err.Error()},
		})
		return
	}

	out := make([]models.SummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toSummaryResponse(r))
	}
	c.JSON(http.StatusOK, out)
}
