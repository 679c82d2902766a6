package model

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable means a requested symbol (or the whole universe) has no
// historical data. Callers skip the symbol and continue; a run with zero
// loadable symbols fails with this error.
var ErrDataUnavailable = errors.New("historical data unavailable")

// MisalignedSeriesError reports a signal series whose length does not match
// its price series. It aborts that one (symbol, strategy) pair only.
type MisalignedSeriesError struct {
	Symbol    string
	PriceLen  int
	SignalLen int
}

func (e *MisalignedSeriesError) Error() string {
	return fmt.Sprintf("misaligned series for %s: %d price bars vs %d signals",
		e.Symbol, e.PriceLen, e.SignalLen)
}
