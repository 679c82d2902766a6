package models

import "time"

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TradeResponse struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Size       float64   `json:"size"`
	PnL        float64   `json:"pnl"`
	ReturnPct  float64   `json:"return_pct"`
}

type SummaryResponse struct {
	Symbol          string  `json:"symbol"`
	Strategy        string  `json:"strategy"`
	TotalReturnPct  float64 `json:"total_return_pct"`
	SharpeRatio     float64 `json:"sharpe_ratio"`
	MaxDrawdownPct  float64 `json:"max_drawdown_pct"`
	WinRatePct      float64 `json:"win_rate_pct"`
	Expectancy      float64 `json:"expectancy"`
	ExposureTimePct float64 `json:"exposure_time_pct"`
	TradeCount      int     `json:"trade_count"`
}

type BacktestResponse struct {
	Summary SummaryResponse `json:"summary"`
	Trades  []TradeResponse `json:"trades,omitempty"`
}

type StrategyInfo struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

type RankEntry struct {
	Rank   int    `json:"rank"`
	Symbol string `json:"symbol"`
}
