package strategy

import (
	"math"

	"github.com/workprior/crypto-backtest/internal/indicator"
	"github.com/workprior/crypto-backtest/internal/model"
)

const NameSMACrossover = "sma_crossover"

// SMACrossover enters long when the fast SMA crosses above the slow SMA and
// exits on the opposite cross. A series shorter than the slow window never
// produces a signal.
type SMACrossover struct {
	FastWindow int
	SlowWindow int
}

func NewSMACrossover(fast, slow int) *SMACrossover {
	if fast < 1 {
		fast = 150
	}
	if slow <= fast {
		slow = fast + 100
	}
	return &SMACrossover{FastWindow: fast, SlowWindow: slow}
}

func (s *SMACrossover) Name() string { return NameSMACrossover }

func (s *SMACrossover) Signals(series *model.PriceSeries) (model.SignalSeries, error) {
	closes := series.Closes()
	fast := indicator.SMA(closes, s.FastWindow)
	slow := indicator.SMA(closes, s.SlowWindow)

	entries := make([]bool, len(closes))
	exits := make([]bool, len(closes))
	for i := 1; i < len(closes); i++ {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) ||
			math.IsNaN(fast[i-1]) || math.IsNaN(slow[i-1]) {
			continue
		}
		entries[i] = fast[i] > slow[i] && fast[i-1] <= slow[i-1]
		exits[i] = fast[i] < slow[i] && fast[i-1] >= slow[i-1]
	}
	return applyPosition(entries, exits), nil
}
