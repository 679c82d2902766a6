package runner

import (
	"errors"
	"sort"

	"github.com/workprior/crypto-backtest/internal/backtest"
	"github.com/workprior/crypto-backtest/internal/config"
	"github.com/workprior/crypto-backtest/internal/model"
	"github.com/workprior/crypto-backtest/internal/report"
	"github.com/workprior/crypto-backtest/internal/store"
	"github.com/workprior/crypto-backtest/internal/strategy"
	"github.com/workprior/crypto-backtest/pkg/logger"
)

// SeriesLoader abstracts the data layer so the batch can run against the
// real loader or a fixture in tests.
type SeriesLoader interface {
	LoadOrGet(numSymbols int, reverse bool) (map[string]*model.PriceSeries, error)
}

// Runner executes the whole batch: load the universe, run every enabled
// strategy over every symbol, write reports, persist summaries. Pairs run
// sequentially; a failed pair is logged and skipped, a failed report write
// aborts the run.
type Runner struct {
	cfg    *config.Config
	loader SeriesLoader
	store  *store.Store // nil disables persistence
}

func New(cfg *config.Config, loader SeriesLoader, st *store.Store) *Runner {
	return &Runner{cfg: cfg, loader: loader, store: st}
}

// Run executes one full batch and returns the combined summaries.
func (r *Runner) Run() ([]model.PerformanceSummary, error) {
	strategies, err := strategy.Build(r.cfg.Strategies)
	if err != nil {
		return nil, err
	}

	universe, err := r.loader.LoadOrGet(r.cfg.Data.NumSymbols, r.cfg.Data.Reverse)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(universe))
	for sym := range universe {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	engine := backtest.New(backtest.Options{
		InitCash:       r.cfg.Backtest.InitCash,
		Fees:           r.cfg.Backtest.Fees,
		Slippage:       r.cfg.Backtest.Slippage,
		PeriodsPerYear: r.cfg.Backtest.PeriodsPerYear,
	})

	resultsDir := r.cfg.Output.ResultsDir
	var combined []model.PerformanceSummary

	for _, strat := range strategies {
		logger.Info("running strategy %s over %d symbols", strat.Name(), len(symbols))
		var rows []model.PerformanceSummary

		for _, sym := range symbols {
			series := universe[sym]
			res, err := r.runPair(engine, strat, series)
			if err != nil {
				// Misaligned or otherwise broken pair: abort this pair only.
				logger.Error("backtest failed for %s/%s: %v", sym, strat.Name(), err)
				pairsFailed.WithLabelValues(strat.Name()).Inc()
				continue
			}
			pairsProcessed.WithLabelValues(strat.Name()).Inc()

			sum := res.Summary()
			rows = append(rows, sum)

			plotPath := report.EquityCurvePath(resultsDir, sym, strat.Name())
			if err := report.PlotEquityCurve(plotPath, sym, strat.Name(), res.Equity); err != nil {
				return nil, err
			}
		}

		if err := report.WriteMetricsCSV(report.MetricsCSVPath(resultsDir, strat.Name()), rows); err != nil {
			return nil, err
		}
		if err := report.WriteStrategyReport(resultsDir, strat.Name(), rows); err != nil {
			return nil, err
		}
		combined = append(combined, rows...)
	}

	if len(combined) == 0 {
		return nil, errors.New("no (symbol, strategy) pair completed")
	}

	if err := report.WriteCombinedReport(resultsDir, combined); err != nil {
		return nil, err
	}

	if r.store != nil {
		for _, sum := range combined {
			if err := r.store.RecordSummary(sum); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("batch complete: %d summaries written to %s", len(combined), resultsDir)
	return combined, nil
}

func (r *Runner) runPair(engine *backtest.Engine, strat strategy.Strategy, series *model.PriceSeries) (*backtest.Result, error) {
	signals, err := strat.Signals(series)
	if err != nil {
		return nil, err
	}
	return engine.Run(series, signals, strat.Name())
}
