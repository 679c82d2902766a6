package models

// BacktestRequest runs one (symbol, strategy) pair against cached data.
type BacktestRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Strategy string `json:"strategy" binding:"required"`

	// Optional engine overrides; zero values fall back to the server config.
	InitCash float64 `json:"init_cash,omitempty"`
	Fees     float64 `json:"fees,omitempty"`
	Slippage float64 `json:"slippage,omitempty"`

	IncludeTrades bool `json:"include_trades,omitempty"`
}
