package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/workprior/crypto-backtest/internal/model"
)

var metricsHeader = []string{
	"symbol",
	"strategy_name",
	"total_return_pct",
	"sharpe_ratio",
	"max_drawdown_pct",
	"win_rate_pct",
	"expectancy",
	"exposure_time_pct",
	"trade_count",
}

// MetricsCSVPath returns the per-strategy metrics file under the results dir.
func MetricsCSVPath(resultsDir, strategy string) string {
	return filepath.Join(resultsDir, slug(strategy)+"_metrics.csv")
}

// WriteMetricsCSV writes one strategy's summaries, one row per symbol.
// Any write failure is fatal to the run: a partially written report cannot
// be trusted.
func WriteMetricsCSV(path string, rows []model.PerformanceSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create results dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(metricsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Symbol,
			r.Strategy,
			fmtMetric(r.TotalReturnPct),
			fmtMetric(r.SharpeRatio),
			fmtMetric(r.MaxDrawdownPct),
			fmtMetric(r.WinRatePct),
			fmtMetric(r.Expectancy),
			fmtMetric(r.ExposureTimePct),
			strconv.Itoa(r.TradeCount),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

// LoadAllMetrics reads every *_metrics.csv in the results directory and
// combines the rows, mirroring the combined-report input.
func LoadAllMetrics(resultsDir string) ([]model.PerformanceSummary, error) {
	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		return nil, errors.Wrapf(err, "read results dir %s", resultsDir)
	}

	var out []model.PerformanceSummary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "_metrics.csv") {
			continue
		}
		rows, err := readMetricsCSV(filepath.Join(resultsDir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func readMetricsCSV(path string) ([]model.PerformanceSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(records) < 2 {
		return nil, nil
	}

	out := make([]model.PerformanceSummary, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(metricsHeader) {
			return nil, errors.Errorf("%s: row has %d columns, want %d", path, len(rec), len(metricsHeader))
		}
		vals := make([]float64, 6)
		for i := 0; i < 6; i++ {
			vals[i], err = strconv.ParseFloat(rec[i+2], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: parse %q", path, rec[i+2])
			}
		}
		count, err := strconv.Atoi(rec[8])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: parse trade count %q", path, rec[8])
		}
		out = append(out, model.PerformanceSummary{
			Symbol:          rec[0],
			Strategy:        rec[1],
			TotalReturnPct:  vals[0],
			SharpeRatio:     vals[1],
			MaxDrawdownPct:  vals[2],
			WinRatePct:      vals[3],
			Expectancy:      vals[4],
			ExposureTimePct: vals[5],
			TradeCount:      count,
		})
	}
	return out, nil
}

func fmtMetric(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// slug converts a strategy name into a filesystem-safe fragment.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
