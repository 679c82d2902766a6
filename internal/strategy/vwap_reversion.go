package strategy

import (
	"math"

	"github.com/workprior/crypto-backtest/internal/indicator"
	"github.com/workprior/crypto-backtest/internal/model"
)

const NameVWAPReversion = "vwap_reversion"

// VWAPReversion enters long when price trades below the cumulative VWAP by
// more than the deviation threshold and exits when it trades above VWAP by
// the same margin.
type VWAPReversion struct {
	Threshold float64
}

func NewVWAPReversion(threshold float64) *VWAPReversion {
	if threshold <= 0 {
		threshold = 0.01
	}
	return &VWAPReversion{Threshold: threshold}
}

func (s *VWAPReversion) Name() string { return NameVWAPReversion }

func (s *VWAPReversion) Signals(series *model.PriceSeries) (model.SignalSeries, error) {
	dev := indicator.VWAPDeviation(series)

	entries := make([]bool, series.Len())
	exits := make([]bool, series.Len())
	for i := range dev {
		if math.IsNaN(dev[i]) {
			continue
		}
		entries[i] = dev[i] < -s.Threshold
		exits[i] = dev[i] > s.Threshold
	}
	return applyPosition(entries, exits), nil
}
