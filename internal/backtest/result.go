package backtest

import (
	"math"

	"github.com/workprior/crypto-backtest/internal/model"
)

// Result is the read-only output of one (symbol, strategy) simulation.
// An open position at the last bar stays open; the equity curve marks it to
// market at each close.
type Result struct {
	Symbol   string
	Strategy string
	Trades   []model.TradeRecord
	Equity   model.EquityCurve

	InitCash       float64
	BarsInPosition int
	PeriodsPerYear float64
}

// Summary condenses the result into the reported metric set.
func (r *Result) Summary() model.PerformanceSummary {
	s := model.PerformanceSummary{
		Symbol:     r.Symbol,
		Strategy:   r.Strategy,
		TradeCount: len(r.Trades),
	}

	if len(r.Equity) > 0 && r.InitCash > 0 {
		final := r.Equity[len(r.Equity)-1].Value
		s.TotalReturnPct = (final/r.InitCash - 1) * 100
		s.ExposureTimePct = float64(r.BarsInPosition) / float64(len(r.Equity)) * 100
	}
	s.SharpeRatio = sharpe(r.Equity, r.PeriodsPerYear)
	s.MaxDrawdownPct = maxDrawdown(r.Equity)

	wins := 0
	pnlSum := 0.0
	for _, t := range r.Trades {
		if t.PnL > 0 {
			wins++
		}
		pnlSum += t.PnL
	}
	if len(r.Trades) > 0 {
		s.WinRatePct = float64(wins) / float64(len(r.Trades)) * 100
		s.Expectancy = pnlSum / float64(len(r.Trades))
	}
	return s
}

// sharpe annualizes the mean/stddev of per-bar equity returns. Zero when the
// curve is too short or has zero variance.
func sharpe(equity model.EquityCurve, periodsPerYear float64) float64 {
	if len(equity) < 3 || periodsPerYear <= 0 {
		return 0
	}
	rets := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev <= 0 {
			continue
		}
		rets = append(rets, equity[i].Value/prev-1)
	}
	if len(rets) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	variance := 0.0
	for _, r := range rets {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(rets) - 1)
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(periodsPerYear)
}

// maxDrawdown returns the largest peak-to-trough equity decline in percent.
func maxDrawdown(equity model.EquityCurve) float64 {
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			dd := (peak - p.Value) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
