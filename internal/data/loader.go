package data

import (
	"github.com/pkg/errors"

	"github.com/workprior/crypto-backtest/internal/model"
	"github.com/workprior/crypto-backtest/pkg/logger"
)

// SymbolRanker picks the symbol universe for a run.
type SymbolRanker interface {
	TopSymbols(n int, reverse bool) ([]string, error)
}

// SeriesFetcher retrieves one symbol's history from the remote source.
type SeriesFetcher interface {
	FetchSeries(symbol string) (*model.PriceSeries, error)
}

// Loader resolves the symbol universe and loads each symbol's history,
// cache first with a single remote fetch as fallback. A symbol that fails to
// load is skipped and logged; only a completely empty result fails the run.
type Loader struct {
	Ranker  SymbolRanker
	Fetcher SeriesFetcher
	Cache   *Cache
}

func NewLoader(ranker SymbolRanker, fetcher SeriesFetcher, cache *Cache) *Loader {
	return &Loader{Ranker: ranker, Fetcher: fetcher, Cache: cache}
}

// LoadOrGet returns price series for the top numSymbols pairs by traded
// volume (lowest-volume first when reverse is set).
func (l *Loader) LoadOrGet(numSymbols int, reverse bool) (map[string]*model.PriceSeries, error) {
	symbols, err := l.Ranker.TopSymbols(numSymbols, reverse)
	if err != nil {
		return nil, errors.Wrap(err, "rank symbols")
	}

	out := make(map[string]*model.PriceSeries, len(symbols))
	for _, symbol := range symbols {
		series, err := l.loadOne(symbol)
		if err != nil {
			logger.Warn("skipping %s: %v", symbol, err)
			continue
		}
		out[symbol] = series
	}
	if len(out) == 0 {
		return nil, errors.Wrap(model.ErrDataUnavailable, "no symbol could be loaded")
	}
	logger.Info("loaded %d of %d symbols", len(out), len(symbols))
	return out, nil
}

func (l *Loader) loadOne(symbol string) (*model.PriceSeries, error) {
	if l.Cache != nil && l.Cache.Has(symbol) {
		series, err := l.Cache.Load(symbol)
		if err == nil {
			return series, nil
		}
		logger.Warn("cache read failed for %s, refetching: %v", symbol, err)
	}

	series, err := l.Fetcher.FetchSeries(symbol)
	if err != nil {
		return nil, err
	}
	if l.Cache != nil {
		if err := l.Cache.Store(series); err != nil {
			// Cache write failures are IO errors and fatal per policy: a run
			// that cannot persist what it fetched will refetch forever.
			return nil, errors.Wrapf(err, "cache %s", symbol)
		}
	}
	return series, nil
}
