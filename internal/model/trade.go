package model

import "time"

// TradeRecord is one completed round trip produced by the backtest engine.
// Read-only output; prices include slippage, PnL includes fees.
type TradeRecord struct {
	Symbol     string
	Strategy   string
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Size       float64
	PnL        float64
	ReturnPct  float64
}

// EquityPoint is the account value at one bar close.
type EquityPoint struct {
	Time  time.Time
	Value float64
}

type EquityCurve []EquityPoint

// PerformanceSummary aggregates one (symbol, strategy) backtest.
// Column set matches the metrics CSV layout.
type PerformanceSummary struct {
	Symbol          string
	Strategy        string
	TotalReturnPct  float64
	SharpeRatio     float64
	MaxDrawdownPct  float64
	WinRatePct      float64
	Expectancy      float64
	ExposureTimePct float64
	TradeCount      int
}
