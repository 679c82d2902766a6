package backtest

import (
	"errors"

	"github.com/workprior/crypto-backtest/internal/model"
)

// Options control the simulation: all-in sizing, fills at the signal bar's
// close, proportional fees, slippage that worsens the fill price.
type Options struct {
	InitCash float64
	Fees     float64
	Slippage float64
	// PeriodsPerYear annualizes the Sharpe ratio (525600 for 1m bars).
	PeriodsPerYear float64
}

func DefaultOptions() Options {
	return Options{
		InitCash:       1000,
		Fees:           0.001,
		Slippage:       0.001,
		PeriodsPerYear: 525600,
	}
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if opts.InitCash <= 0 {
		opts.InitCash = 1000
	}
	if opts.PeriodsPerYear <= 0 {
		opts.PeriodsPerYear = 525600
	}
	return &Engine{opts: opts}
}

// Run simulates one (symbol, strategy) pair. signals must be index-aligned
// with series; a length mismatch returns a MisalignedSeriesError and aborts
// only this pair.
func (e *Engine) Run(series *model.PriceSeries, signals model.SignalSeries, strategyName string) (*Result, error) {
	if series == nil || series.Len() == 0 {
		return nil, errors.New("empty price series")
	}
	if len(signals) != series.Len() {
		return nil, &model.MisalignedSeriesError{
			Symbol:    series.Symbol,
			PriceLen:  series.Len(),
			SignalLen: len(signals),
		}
	}

	cash := e.opts.InitCash
	size := 0.0 // base-asset position
	var entryPrice float64
	var entryIndex int
	barsInPosition := 0

	trades := make([]model.TradeRecord, 0)
	equity := make(model.EquityCurve, 0, series.Len())

	for i, bar := range series.Bars {
		switch signals[i] {
		case model.LongEntry:
			// Duplicate entries are already suppressed upstream; ignore
			// defensively if one slips through.
			if size == 0 {
				fill := bar.Close * (1 + e.opts.Slippage)
				if fill > 0 {
					size = cash / (fill * (1 + e.opts.Fees))
					cash = 0
					entryPrice = fill
					entryIndex = i
				}
			}
		case model.LongExit:
			if size > 0 {
				fill := bar.Close * (1 - e.opts.Slippage)
				proceeds := size * fill * (1 - e.opts.Fees)
				cost := size * entryPrice * (1 + e.opts.Fees)
				trades = append(trades, model.TradeRecord{
					Symbol:     series.Symbol,
					Strategy:   strategyName,
					EntryTime:  series.Bars[entryIndex].OpenTime,
					ExitTime:   bar.OpenTime,
					EntryPrice: entryPrice,
					ExitPrice:  fill,
					Size:       size,
					PnL:        proceeds - cost,
					ReturnPct:  (proceeds/cost - 1) * 100,
				})
				cash = proceeds
				size = 0
			}
		}

		if size > 0 {
			barsInPosition++
		}
		equity = append(equity, model.EquityPoint{
			Time:  bar.OpenTime,
			Value: cash + size*bar.Close,
		})
	}

	return &Result{
		Symbol:         series.Symbol,
		Strategy:       strategyName,
		Trades:         trades,
		Equity:         equity,
		InitCash:       e.opts.InitCash,
		BarsInPosition: barsInPosition,
		PeriodsPerYear: e.opts.PeriodsPerYear,
	}, nil
}
