package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workprior/crypto-backtest/internal/api/models"
	"github.com/workprior/crypto-backtest/internal/backtest"
	"github.com/workprior/crypto-backtest/internal/config"
	"github.com/workprior/crypto-backtest/internal/data"
	"github.com/workprior/crypto-backtest/internal/model"
	"github.com/workprior/crypto-backtest/internal/store"
	"github.com/workprior/crypto-backtest/internal/strategy"
)

// BacktestHandler runs single (symbol, strategy) backtests against the
// on-disk cache. The API never fetches remote data; run the CLI batch first
// to populate the cache.
type BacktestHandler struct {
	cfg   *config.Config
	cache *data.Cache
	store *store.Store // may be nil
}

func NewBacktestHandler(cfg *config.Config, cache *data.Cache, st *store.Store) *BacktestHandler {
	return &BacktestHandler{cfg: cfg, cache: cache, store: st}
}

// RunBacktest handles POST /api/v1/backtest.
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	strat, err := strategy.ForName(req.Strategy, h.cfg.Strategies)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNKNOWN_STRATEGY", Message: err.Error()},
		})
		return
	}

	series, err := h.cache.Load(req.Symbol)
	if err != nil {
		status := http.StatusInternalServerError
		code := "CACHE_READ_ERROR"
		if errors.Is(err, model.ErrDataUnavailable) {
			status = http.StatusNotFound
			code = "DATA_UNAVAILABLE"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	signals, err := strat.Signals(series)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SIGNAL_ERROR", Message: err.Error()},
		})
		return
	}

	opts := backtest.Options{
		InitCash:       h.cfg.Backtest.InitCash,
		Fees:           h.cfg.Backtest.Fees,
		Slippage:       h.cfg.Backtest.Slippage,
		PeriodsPerYear: h.cfg.Backtest.PeriodsPerYear,
	}
	if req.InitCash > 0 {
		opts.InitCash = req.InitCash
	}
	if req.Fees > 0 {
		opts.Fees = req.Fees
	}
	if req.Slippage > 0 {
		opts.Slippage = req.Slippage
	}

	res, err := backtest.New(opts).Run(series, signals, strat.Name())
	if err != nil {
		var misaligned *model.MisalignedSeriesError
		code := "BACKTEST_ERROR"
		if errors.As(err, &misaligned) {
			code = "MISALIGNED_SERIES"
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	sum := res.Summary()
	if h.store != nil {
		// Best effort; an unpersisted ad-hoc run is still a valid response.
		_ = h.store.RecordSummary(sum)
	}

	resp := models.BacktestResponse{Summary: toSummaryResponse(sum)}
	if req.IncludeTrades {
		resp.Trades = make([]models.TradeResponse, 0, len(res.Trades))
		for _, t := range res.Trades {
			resp.Trades = append(resp.Trades, models.TradeResponse{
				EntryTime:  t.EntryTime,
				ExitTime:   t.ExitTime,
				EntryPrice: t.EntryPrice,
				ExitPrice:  t.ExitPrice,
				Size:       t.Size,
				PnL:        t.PnL,
				ReturnPct:  t.ReturnPct,
			})
		}
	}
	c.JSON(http.StatusOK, resp)
}

func toSummaryResponse(s model.PerformanceSummary) models.SummaryResponse {
	return models.SummaryResponse{
		Symbol:          s.Symbol,
		Strategy:        s.Strategy,
		TotalReturnPct:  s.TotalReturnPct,
		SharpeRatio:     s.SharpeRatio,
		MaxDrawdownPct:  s.MaxDrawdownPct,
		WinRatePct:      s.WinRatePct,
		Expectancy:      s.Expectancy,
		ExposureTimePct: s.ExposureTimePct,
		TradeCount:      s.TradeCount,
	}
}
