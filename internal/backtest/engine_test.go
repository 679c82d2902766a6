package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/workprior/crypto-backtest/internal/model"
)

func mkSeries(closes []float64) *model.PriceSeries {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			OpenTime: start.Add(time.Duration(i) * time.Minute),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			Volume:   1000,
		}
	}
	return &model.PriceSeries{Symbol: "TESTBTC", Bars: bars}
}

func signalsFor(n int, at map[int]model.Signal) model.SignalSeries {
	out := make(model.SignalSeries, n)
	for i, s := range at {
		out[i] = s
	}
	return out
}

func TestRun_MisalignedSignals(t *testing.T) {
	series := mkSeries([]float64{100, 101, 102})
	signals := make(model.SignalSeries, 2)

	_, err := New(DefaultOptions()).Run(series, signals, "test")
	var misaligned *model.MisalignedSeriesError
	if !errors.As(err, &misaligned) {
		t.Fatalf("got %v, want MisalignedSeriesError", err)
	}
	if misaligned.PriceLen != 3 || misaligned.SignalLen != 2 {
		t.Errorf("error lengths = %d/%d, want 3/2", misaligned.PriceLen, misaligned.SignalLen)
	}
}

func TestRun_EmptySeries(t *testing.T) {
	if _, err := New(DefaultOptions()).Run(&model.PriceSeries{Symbol: "X"}, nil, "test"); err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestRun_FrictionlessRoundTrip(t *testing.T) {
	closes := []float64{100, 100, 110, 110}
	series := mkSeries(closes)
	signals := signalsFor(4, map[int]model.Signal{1: model.LongEntry, 2: model.LongExit})

	opts := Options{InitCash: 1000, Fees: 0, Slippage: 0, PeriodsPerYear: 525600}
	res, err := New(opts).Run(series, signals, "test")
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(res.Trades))
	}
	tr := res.Trades[0]
	if math.Abs(tr.Size-10) > 1e-9 {
		t.Errorf("size = %v, want 10", tr.Size)
	}
	if math.Abs(tr.PnL-100) > 1e-9 {
		t.Errorf("pnl = %v, want 100", tr.PnL)
	}
	if math.Abs(tr.ReturnPct-10) > 1e-9 {
		t.Errorf("return = %v%%, want 10%%", tr.ReturnPct)
	}

	final := res.Equity[len(res.Equity)-1].Value
	if math.Abs(final-1100) > 1e-9 {
		t.Errorf("final equity = %v, want 1100", final)
	}
}

func TestRun_FeesAndSlippageWorsenFills(t *testing.T) {
	closes := []float64{100, 100}
	series := mkSeries(closes)
	signals := signalsFor(2, map[int]model.Signal{0: model.LongEntry, 1: model.LongExit})

	opts := Options{InitCash: 1000, Fees: 0.001, Slippage: 0.001, PeriodsPerYear: 525600}
	res, err := New(opts).Run(series, signals, "test")
	if err != nil {
		t.Fatal(err)
	}

	tr := res.Trades[0]
	if tr.EntryPrice <= 100 {
		t.Errorf("entry fill %v should be above close 100 (slippage)", tr.EntryPrice)
	}
	if tr.ExitPrice >= 100 {
		t.Errorf("exit fill %v should be below close 100 (slippage)", tr.ExitPrice)
	}
	if tr.PnL >= 0 {
		t.Errorf("flat-price round trip must lose the friction, got pnl %v", tr.PnL)
	}

	// size = 1000 / (100.1 * 1.001)
	wantSize := 1000.0 / (100.1 * 1.001)
	if math.Abs(tr.Size-wantSize) > 1e-9 {
		t.Errorf("size = %v, want %v", tr.Size, wantSize)
	}
}

func TestRun_OpenPositionMarkedToMarket(t *testing.T) {
	closes := []float64{100, 100, 120}
	series := mkSeries(closes)
	signals := signalsFor(3, map[int]model.Signal{1: model.LongEntry})

	opts := Options{InitCash: 1000, Fees: 0, Slippage: 0, PeriodsPerYear: 525600}
	res, err := New(opts).Run(series, signals, "test")
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Trades) != 0 {
		t.Fatalf("open position must not produce a closed trade, got %d", len(res.Trades))
	}
	final := res.Equity[len(res.Equity)-1].Value
	if math.Abs(final-1200) > 1e-9 {
		t.Errorf("final equity = %v, want 1200 (10 units at 120)", final)
	}
	if res.BarsInPosition != 2 {
		t.Errorf("bars in position = %d, want 2", res.BarsInPosition)
	}
}

func TestSummary_Metrics(t *testing.T) {
	closes := []float64{100, 100, 110, 110, 110}
	series := mkSeries(closes)
	signals := signalsFor(5, map[int]model.Signal{1: model.LongEntry, 2: model.LongExit})

	opts := Options{InitCash: 1000, Fees: 0, Slippage: 0, PeriodsPerYear: 525600}
	res, err := New(opts).Run(series, signals, "test")
	if err != nil {
		t.Fatal(err)
	}

	s := res.Summary()
	if math.Abs(s.TotalReturnPct-10) > 1e-9 {
		t.Errorf("total return = %v, want 10", s.TotalReturnPct)
	}
	if math.Abs(s.WinRatePct-100) > 1e-9 {
		t.Errorf("win rate = %v, want 100", s.WinRatePct)
	}
	if math.Abs(s.Expectancy-100) > 1e-9 {
		t.Errorf("expectancy = %v, want 100", s.Expectancy)
	}
	if math.Abs(s.ExposureTimePct-40) > 1e-9 {
		t.Errorf("exposure = %v, want 40 (2 of 5 bars)", s.ExposureTimePct)
	}
	if s.MaxDrawdownPct != 0 {
		t.Errorf("max drawdown = %v, want 0 for monotone curve", s.MaxDrawdownPct)
	}
	if s.TradeCount != 1 {
		t.Errorf("trade count = %d, want 1", s.TradeCount)
	}
}

func TestSummary_MaxDrawdown(t *testing.T) {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	curve := model.EquityCurve{}
	for i, v := range []float64{1000, 1200, 900, 1100} {
		curve = append(curve, model.EquityPoint{Time: start.Add(time.Duration(i) * time.Minute), Value: v})
	}
	res := &Result{Equity: curve, InitCash: 1000, PeriodsPerYear: 525600}

	got := res.Summary().MaxDrawdownPct
	want := (1200.0 - 900.0) / 1200.0 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("max drawdown = %v, want %v", got, want)
	}
}

func TestSummary_NoTrades(t *testing.T) {
	series := mkSeries([]float64{100, 100, 100})
	res, err := New(DefaultOptions()).Run(series, make(model.SignalSeries, 3), "test")
	if err != nil {
		t.Fatal(err)
	}
	s := res.Summary()
	if s.TradeCount != 0 || s.WinRatePct != 0 || s.Expectancy != 0 {
		t.Errorf("no-trade summary should zero trade metrics, got %+v", s)
	}
	if s.SharpeRatio != 0 {
		t.Errorf("zero-variance curve should give zero Sharpe, got %v", s.SharpeRatio)
	}
}

func TestSharpe_PositiveForSteadyGains(t *testing.T) {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	curve := model.EquityCurve{}
	v := 1000.0
	for i := 0; i < 50; i++ {
		// Alternating small gains keeps variance non-zero with positive mean.
		if i%2 == 0 {
			v *= 1.002
		} else {
			v *= 1.001
		}
		curve = append(curve, model.EquityPoint{Time: start.Add(time.Duration(i) * time.Minute), Value: v})
	}
	if got := sharpe(curve, 525600); got <= 0 {
		t.Errorf("sharpe = %v, want > 0 for steadily rising curve", got)
	}
}
