package model

import (
	"errors"
	"fmt"
	"time"
)

// Bar is one OHLCV candle. OpenTime is the bar's open timestamp (UTC).
// Prices are quote-asset denominated, Volume is base-asset volume.
type Bar struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// PriceSeries is the full candle history for one trading pair.
// Bars are ordered by strictly increasing OpenTime and are not mutated
// after loading.
type PriceSeries struct {
	Symbol string
	Bars   []Bar
}

func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close prices as a flat slice, index-aligned with Bars.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the traded volumes, index-aligned with Bars.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Validate checks the series invariants: non-empty symbol, at least one bar,
// strictly increasing timestamps.
func (s *PriceSeries) Validate() error {
	if s.Symbol == "" {
		return errors.New("price series has empty symbol")
	}
	if len(s.Bars) == 0 {
		return fmt.Errorf("price series %s has no bars", s.Symbol)
	}
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].OpenTime.After(s.Bars[i-1].OpenTime) {
			return fmt.Errorf("price series %s: timestamps not strictly increasing at index %d (%s -> %s)",
				s.Symbol, i, s.Bars[i-1].OpenTime.Format(time.RFC3339), s.Bars[i].OpenTime.Format(time.RFC3339))
		}
	}
	return nil
}
