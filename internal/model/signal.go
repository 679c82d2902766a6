package model

// Signal is the per-bar decision emitted by a strategy.
type Signal int8

const (
	Flat Signal = iota
	LongEntry
	LongExit
)

func (s Signal) String() string {
	switch s {
	case LongEntry:
		return "LONG_ENTRY"
	case LongExit:
		return "LONG_EXIT"
	default:
		return "FLAT"
	}
}

// SignalSeries is index-aligned with the PriceSeries it was derived from.
// A well-formed series never contains two LongEntry values without an
// intervening LongExit.
type SignalSeries []Signal

// AllFlat reports whether the series contains no entries or exits.
func (ss SignalSeries) AllFlat() bool {
	for _, s := range ss {
		if s != Flat {
			return false
		}
	}
	return true
}
