package runner

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/workprior/crypto-backtest/internal/config"
	"github.com/workprior/crypto-backtest/internal/model"
	"github.com/workprior/crypto-backtest/internal/report"
	"github.com/workprior/crypto-backtest/internal/store"
)

type fixtureLoader struct {
	universe map[string]*model.PriceSeries
	err      error
}

func (f *fixtureLoader) LoadOrGet(numSymbols int, reverse bool) (map[string]*model.PriceSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.universe, nil
}

func oscillatingSeries(symbol string, n int) *model.PriceSeries {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		price := 100 + 10*math.Sin(float64(i)/25)
		bars[i] = model.Bar{
			OpenTime: start.Add(time.Duration(i) * time.Minute),
			Open:     price,
			High:     price * 1.001,
			Low:      price * 0.999,
			Close:    price,
			Volume:   1000,
		}
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Data.NumSymbols = 2
	cfg.Output.ResultsDir = t.TempDir()
	cfg.Output.Database = ""
	return cfg
}

func TestRun_WritesAllArtifacts(t *testing.T) {
	cfg := testConfig(t)
	loader := &fixtureLoader{universe: map[string]*model.PriceSeries{
		"AAABTC": oscillatingSeries("AAABTC", 600),
		"BBBBTC": oscillatingSeries("BBBBTC", 600),
	}}

	summaries, err := New(cfg, loader, nil).Run()
	if err != nil {
		t.Fatal(err)
	}

	// 2 symbols x 3 strategies.
	if len(summaries) != 6 {
		t.Fatalf("got %d summaries, want 6", len(summaries))
	}

	for _, strat := range cfg.Strategies.Enabled {
		if _, err := os.Stat(report.MetricsCSVPath(cfg.Output.ResultsDir, strat)); err != nil {
			t.Errorf("missing metrics CSV for %s: %v", strat, err)
		}
		if _, err := os.Stat(filepath.Join(report.StatisticDir(cfg.Output.ResultsDir), strat+"_report.html")); err != nil {
			t.Errorf("missing HTML report for %s: %v", strat, err)
		}
		for sym := range loader.universe {
			if _, err := os.Stat(report.EquityCurvePath(cfg.Output.ResultsDir, sym, strat)); err != nil {
				t.Errorf("missing equity curve for %s/%s: %v", sym, strat, err)
			}
		}
	}
	if _, err := os.Stat(filepath.Join(report.StatisticDir(cfg.Output.ResultsDir), "metrics_report.html")); err != nil {
		t.Errorf("missing combined report: %v", err)
	}
}

func TestRun_PersistsToStore(t *testing.T) {
	cfg := testConfig(t)
	loader := &fixtureLoader{universe: map[string]*model.PriceSeries{
		"AAABTC": oscillatingSeries("AAABTC", 400),
	}}

	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	summaries, err := New(cfg, loader, st).Run()
	if err != nil {
		t.Fatal(err)
	}

	rows, err := st.ListSummaries(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(summaries) {
		t.Fatalf("store holds %d rows, want %d", len(rows), len(summaries))
	}
}

func TestRun_LoaderErrorIsFatal(t *testing.T) {
	cfg := testConfig(t)
	loader := &fixtureLoader{err: model.ErrDataUnavailable}

	if _, err := New(cfg, loader, nil).Run(); err == nil {
		t.Fatal("expected error when the universe cannot be loaded")
	}
}

func TestRun_UnknownStrategyFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Strategies.Enabled = []string{"momentum"}
	loader := &fixtureLoader{universe: map[string]*model.PriceSeries{
		"AAABTC": oscillatingSeries("AAABTC", 100),
	}}

	if _, err := New(cfg, loader, nil).Run(); err == nil {
		t.Fatal("expected error for unknown strategy name")
	}
}
