package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/workprior/crypto-backtest/internal/api/models"
	"github.com/workprior/crypto-backtest/internal/data"
)

type RankHandler struct {
	ranker data.SymbolRanker
}

func NewRankHandler(ranker data.SymbolRanker) *RankHandler {
	return &RankHandler{ranker: ranker}
}

// RankSymbols handles GET /api/v1/rank?n=20&reverse=false. This queries the
// exchange live, so it can take a while for large universes.
func (h *RankHandler) RankSymbols(c *gin.Context) {
	n := 20
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INVALID_N", Message: "n must be a positive integer"},
			})
			return
		}
		n = v
	}
	reverse := c.Query("reverse") == "true"

	symbols, err := h.ranker.TopSymbols(n, reverse)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "RANK_ERROR", Message: err.Error()},
		})
		return
	}

	out := make([]models.RankEntry, 0, len(symbols))
	for i, sym := range symbols {
		out = append(out, models.RankEntry{Rank: i + 1, Symbol: sym})
	}
	c.JSON(http.StatusOK, out)
}
