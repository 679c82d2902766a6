package strategy

import (
	"github.com/workprior/crypto-backtest/internal/indicator"
	"github.com/workprior/crypto-backtest/internal/model"
)

const NameRSIBollinger = "rsi_bollinger"

// RSIBollinger enters long when RSI is oversold and price closes below the
// lower Bollinger Band; it exits when RSI is overbought and price closes
// above the upper band.
type RSIBollinger struct {
	RSIPeriod  int
	BBPeriod   int
	BBStd      float64
	Oversold   float64
	Overbought float64
}

func NewRSIBollinger(rsiPeriod, bbPeriod int, bbStd, oversold, overbought float64) *RSIBollinger {
	s := &RSIBollinger{
		RSIPeriod:  rsiPeriod,
		BBPeriod:   bbPeriod,
		BBStd:      bbStd,
		Oversold:   oversold,
		Overbought: overbought,
	}
	if s.RSIPeriod < 1 {
		s.RSIPeriod = 14
	}
	if s.BBPeriod < 1 {
		s.BBPeriod = 20
	}
	if s.BBStd <= 0 {
		s.BBStd = 2
	}
	if s.Oversold <= 0 {
		s.Oversold = 30
	}
	if s.Overbought <= 0 {
		s.Overbought = 70
	}
	return s
}

func (s *RSIBollinger) Name() string { return NameRSIBollinger }

func (s *RSIBollinger) Signals(series *model.PriceSeries) (model.SignalSeries, error) {
	closes := series.Closes()
	rsi := indicator.RSI(closes, s.RSIPeriod)
	upper, _, lower := indicator.Bollinger(closes, s.BBPeriod, s.BBStd)

	// NaN warm-up values fail every comparison, so no signal fires before
	// both indicators have history.
	entries := make([]bool, len(closes))
	exits := make([]bool, len(closes))
	for i, c := range closes {
		entries[i] = rsi[i] < s.Oversold && c < lower[i]
		exits[i] = rsi[i] > s.Overbought && c > upper[i]
	}
	return applyPosition(entries, exits), nil
}
