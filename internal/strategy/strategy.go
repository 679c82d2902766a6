package strategy

import (
	"fmt"

	"github.com/workprior/crypto-backtest/internal/config"
	"github.com/workprior/crypto-backtest/internal/model"
)

// Strategy maps a price series to a per-bar signal series. Implementations
// are pure: same series in, same signals out.
type Strategy interface {
	Name() string
	Signals(series *model.PriceSeries) (model.SignalSeries, error)
}

// position is the per-symbol state machine that turns raw entry/exit
// conditions into signals. Only a flat book accepts an entry and only an open
// book accepts an exit, so a signal series never holds two LongEntry values
// without an intervening LongExit.
type position int8

const (
	flat position = iota
	long
)

// applyPosition walks the raw per-bar conditions through the {flat, long}
// state machine. entries and exits must be index-aligned with the bars.
func applyPosition(entries, exits []bool) model.SignalSeries {
	out := make(model.SignalSeries, len(entries))
	state := flat
	for i := range entries {
		switch {
		case state == flat && entries[i]:
			out[i] = model.LongEntry
			state = long
		case state == long && exits[i]:
			out[i] = model.LongExit
			state = flat
		default:
			out[i] = model.Flat
		}
	}
	return out
}

// Build returns the enabled strategy set in config order.
func Build(cfg config.StrategiesConfig) ([]Strategy, error) {
	out := make([]Strategy, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		s, err := ForName(name, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ForName builds a single strategy variant by its config name.
func ForName(name string, cfg config.StrategiesConfig) (Strategy, error) {
	switch name {
	case NameVWAPReversion:
		return NewVWAPReversion(cfg.VWAPReversion.DeviationThreshold), nil
	case NameRSIBollinger:
		c := cfg.RSIBollinger
		return NewRSIBollinger(c.RSIPeriod, c.BBPeriod, c.BBStd, c.Oversold, c.Overbought), nil
	case NameSMACrossover:
		return NewSMACrossover(cfg.SMACrossover.FastWindow, cfg.SMACrossover.SlowWindow), nil
	default:
		return nil, fmt.Errorf("unsupported strategy: %q", name)
	}
}
