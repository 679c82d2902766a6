package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workprior/crypto-backtest/internal/api/models"
	"github.com/workprior/crypto-backtest/internal/config"
	"github.com/workprior/crypto-backtest/internal/strategy"
)

type StrategyHandler struct {
	cfg *config.Config
}

func NewStrategyHandler(cfg *config.Config) *StrategyHandler {
	return &StrategyHandler{cfg: cfg}
}

// ListStrategies handles GET /api/v1/strategies.
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	s := h.cfg.Strategies
	c.JSON(http.StatusOK, []models.StrategyInfo{
		{
			Name: strategy.NameVWAPReversion,
			Params: map[string]any{
				"deviation_threshold": s.VWAPReversion.DeviationThreshold,
			},
		},
		{
			Name: strategy.NameRSIBollinger,
			Params: map[string]any{
				"rsi_period": s.RSIBollinger.RSIPeriod,
				"bb_period":  s.RSIBollinger.BBPeriod,
				"bb_std":     s.RSIBollinger.BBStd,
				"oversold":   s.RSIBollinger.Oversold,
				"overbought": s.RSIBollinger.Overbought,
			},
		},
		{
			Name: strategy.NameSMACrossover,
			Params: map[string]any{
				"fast_window": s.SMACrossover.FastWindow,
				"slow_window": s.SMACrossover.SlowWindow,
			},
		},
	})
}
