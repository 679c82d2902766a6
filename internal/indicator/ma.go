package indicator

import "math"

// nanSlice returns a slice of n NaNs. Warm-up outputs are NaN so results stay
// index-aligned with their input series.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA computes a simple moving average with a rolling sum.
// The first window-1 outputs are NaN. A window outside [1, len(values)]
// yields an all-NaN series.
func SMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 1 || window > len(values) {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// EMA computes an exponential moving average seeded with the SMA of the first
// window values. The first window-1 outputs are NaN.
func EMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 1 || window > len(values) {
		return out
	}
	seed := 0.0
	for i := 0; i < window; i++ {
		seed += values[i]
	}
	seed /= float64(window)
	out[window-1] = seed

	alpha := 2.0 / float64(window+1)
	prev := seed
	for i := window; i < len(values); i++ {
		prev = prev + alpha*(values[i]-prev)
		out[i] = prev
	}
	return out
}
