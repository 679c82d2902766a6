package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/workprior/crypto-backtest/internal/model"
)

// Cache persists one CSV file per symbol under a directory. Floats are
// written with strconv's shortest round-trip format, so a reloaded series is
// bit-identical to the one that was stored. The cache is written once at
// load time and read-only for the rest of the run.
type Cache struct {
	Dir string
}

func NewCache(dir string) *Cache {
	return &Cache{Dir: dir}
}

func (c *Cache) Path(symbol string) string {
	return filepath.Join(c.Dir, symbol+".csv")
}

// Has reports whether a cached series exists for the symbol.
func (c *Cache) Has(symbol string) bool {
	_, err := os.Stat(c.Path(symbol))
	return err == nil
}

// Store writes the series, creating the cache directory if needed.
func (c *Cache) Store(series *model.PriceSeries) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}

	f, err := os.Create(c.Path(series.Symbol))
	if err != nil {
		return errors.Wrapf(err, "create cache file for %s", series.Symbol)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"open_time_ms", "open", "high", "low", "close", "volume"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, b := range series.Bars {
		row := []string{
			strconv.FormatInt(b.OpenTime.UnixMilli(), 10),
			cacheFloat(b.Open),
			cacheFloat(b.High),
			cacheFloat(b.Low),
			cacheFloat(b.Close),
			cacheFloat(b.Volume),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// Load reads a cached series. A missing file wraps model.ErrDataUnavailable.
func (c *Cache) Load(symbol string) (*model.PriceSeries, error) {
	f, err := os.Open(c.Path(symbol))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(model.ErrDataUnavailable, "no cached data for %s", symbol)
		}
		return nil, errors.Wrapf(err, "open cache for %s", symbol)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read cache for %s", symbol)
	}
	if len(rows) < 2 {
		return nil, errors.Wrapf(model.ErrDataUnavailable, "empty cache for %s", symbol)
	}

	bars := make([]model.Bar, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != 6 {
			return nil, fmt.Errorf("cache row for %s has %d columns, want 6", symbol, len(row))
		}
		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse cached timestamp %q", row[0])
		}
		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			vals[i], err = strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parse cached value %q", row[i+1])
			}
		}
		bars = append(bars, model.Bar{
			OpenTime: time.UnixMilli(ts).UTC(),
			Open:     vals[0],
			High:     vals[1],
			Low:      vals[2],
			Close:    vals[3],
			Volume:   vals[4],
		})
	}

	series := &model.PriceSeries{Symbol: symbol, Bars: bars}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// cacheFloat uses the shortest representation that parses back to the exact
// same float64.
func cacheFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
