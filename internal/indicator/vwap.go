package indicator

import (
	"math"

	"github.com/workprior/crypto-backtest/internal/model"
)

// VWAP computes the cumulative volume-weighted average price over the whole
// series: cum(close*volume) / cum(volume). Outputs are NaN until the first
// bar with non-zero cumulative volume.
func VWAP(series *model.PriceSeries) []float64 {
	out := nanSlice(series.Len())
	cumVol, cumPV := 0.0, 0.0
	for i, b := range series.Bars {
		cumVol += b.Volume
		cumPV += b.Close * b.Volume
		if cumVol > 0 {
			out[i] = cumPV / cumVol
		}
	}
	return out
}

// VWAPDeviation returns (close - vwap) / vwap per bar, NaN where VWAP is NaN
// or zero.
func VWAPDeviation(series *model.PriceSeries) []float64 {
	vwap := VWAP(series)
	out := nanSlice(series.Len())
	for i, b := range series.Bars {
		if math.IsNaN(vwap[i]) || vwap[i] == 0 {
			continue
		}
		out[i] = (b.Close - vwap[i]) / vwap[i]
	}
	return out
}
