package indicator

import "math"

// Bollinger computes Bollinger Bands: rolling mean ± k standard deviations
// (population stddev over the window). The first window-1 outputs of each
// band are NaN.
func Bollinger(values []float64, window int, k float64) (upper, middle, lower []float64) {
	n := len(values)
	upper, middle, lower = nanSlice(n), nanSlice(n), nanSlice(n)
	if window < 1 || window > n {
		return upper, middle, lower
	}

	// Rolling sum and sum of squares keep this a single pass.
	sum, sumSq := 0.0, 0.0
	for i, v := range values {
		sum += v
		sumSq += v * v
		if i >= window {
			old := values[i-window]
			sum -= old
			sumSq -= old * old
		}
		if i < window-1 {
			continue
		}
		mean := sum / float64(window)
		variance := sumSq/float64(window) - mean*mean
		if variance < 0 {
			variance = 0 // float drift
		}
		sd := math.Sqrt(variance)
		middle[i] = mean
		upper[i] = mean + k*sd
		lower[i] = mean - k*sd
	}
	return upper, middle, lower
}
