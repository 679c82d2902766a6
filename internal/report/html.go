package report

import (
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/workprior/crypto-backtest/internal/analysis"
	"github.com/workprior/crypto-backtest/internal/model"
)

// StatisticDir is where HTML reports land, relative to the results dir.
func StatisticDir(resultsDir string) string {
	return filepath.Join(resultsDir, "statistic")
}

var strategyTmpl = template.Must(template.New("strategy").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Strategy}} — backtest report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th { background: #f0f0f0; }
td:first-child { text-align: left; }
</style>
</head>
<body>
<h1>{{.Strategy}}</h1>
<p>{{len .Rows}} symbols</p>
<table>
<tr>
<th>Symbol</th><th>Total Return [%]</th><th>Sharpe Ratio</th>
<th>Max Drawdown [%]</th><th>Win Rate [%]</th><th>Expectancy</th>
<th>Exposure Time [%]</th><th>Trades</th>
</tr>
{{range .Rows}}
<tr>
<td>{{.Symbol}}</td>
<td>{{printf "%.2f" .TotalReturnPct}}</td>
<td>{{printf "%.3f" .SharpeRatio}}</td>
<td>{{printf "%.2f" .MaxDrawdownPct}}</td>
<td>{{printf "%.2f" .WinRatePct}}</td>
<td>{{printf "%.4f" .Expectancy}}</td>
<td>{{printf "%.2f" .ExposureTimePct}}</td>
<td>{{.TradeCount}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

var combinedTmpl = template.Must(template.New("combined").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Backtest metrics report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th { background: #f0f0f0; }
td:first-child, td:nth-child(2) { text-align: left; }
</style>
</head>
<body>
<h1>Backtest metrics report</h1>

<h2>Best performers by total return</h2>
<table>
<tr><th>Rank</th><th>Symbol</th><th>Strategy</th><th>Total Return [%]</th><th>Win Rate [%]</th><th>Trades</th></tr>
{{range $i, $r := .Ranked}}
<tr>
<td>{{inc $i}}</td>
<td>{{$r.Symbol}}</td>
<td>{{$r.Strategy}}</td>
<td>{{printf "%.2f" $r.TotalReturnPct}}</td>
<td>{{printf "%.2f" $r.WinRatePct}}</td>
<td>{{$r.TradeCount}}</td>
</tr>
{{end}}
</table>

<h2>Best performers by win rate</h2>
<table>
<tr><th>Rank</th><th>Symbol</th><th>Strategy</th><th>Win Rate [%]</th><th>Total Return [%]</th><th>Trades</th></tr>
{{range $i, $r := .WinRanked}}
<tr>
<td>{{inc $i}}</td>
<td>{{$r.Symbol}}</td>
<td>{{$r.Strategy}}</td>
<td>{{printf "%.2f" $r.WinRatePct}}</td>
<td>{{printf "%.2f" $r.TotalReturnPct}}</td>
<td>{{$r.TradeCount}}</td>
</tr>
{{end}}
</table>

{{range .Strategies}}
<h2>{{.Name}}</h2>
<table>
<tr>
<th>Symbol</th><th>Total Return [%]</th><th>Sharpe Ratio</th>
<th>Max Drawdown [%]</th><th>Win Rate [%]</th><th>Expectancy</th>
<th>Exposure Time [%]</th><th>Trades</th>
</tr>
{{range .Rows}}
<tr>
<td>{{.Symbol}}</td>
<td>{{printf "%.2f" .TotalReturnPct}}</td>
<td>{{printf "%.3f" .SharpeRatio}}</td>
<td>{{printf "%.2f" .MaxDrawdownPct}}</td>
<td>{{printf "%.2f" .WinRatePct}}</td>
<td>{{printf "%.4f" .Expectancy}}</td>
<td>{{printf "%.2f" .ExposureTimePct}}</td>
<td>{{.TradeCount}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

type strategyPage struct {
	Strategy string
	Rows     []model.PerformanceSummary
}

type strategySection struct {
	Name string
	Rows []model.PerformanceSummary
}

type combinedPage struct {
	Ranked     []model.PerformanceSummary
	WinRanked  []model.PerformanceSummary
	Strategies []strategySection
}

// WriteStrategyReport renders one strategy's HTML summary into the statistic
// subdirectory.
func WriteStrategyReport(resultsDir, strategy string, rows []model.PerformanceSummary) error {
	dir := StatisticDir(resultsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create statistic dir")
	}

	sorted := append([]model.PerformanceSummary(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	path := filepath.Join(dir, slug(strategy)+"_report.html")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	return strategyTmpl.Execute(f, strategyPage{Strategy: strategy, Rows: sorted})
}

// WriteCombinedReport renders the all-strategies report
// (statistic/metrics_report.html) from the combined metric rows.
func WriteCombinedReport(resultsDir string, rows []model.PerformanceSummary) error {
	dir := StatisticDir(resultsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create statistic dir")
	}

	byStrategy := map[string][]model.PerformanceSummary{}
	var names []string
	for _, r := range rows {
		if _, seen := byStrategy[r.Strategy]; !seen {
			names = append(names, r.Strategy)
		}
		byStrategy[r.Strategy] = append(byStrategy[r.Strategy], r)
	}
	sort.Strings(names)

	page := combinedPage{
		Ranked:    analysis.RankByTotalReturn(rows, 10),
		WinRanked: analysis.RankByWinRate(rows, 10),
	}
	for _, name := range names {
		section := byStrategy[name]
		sort.Slice(section, func(i, j int) bool { return section[i].Symbol < section[j].Symbol })
		page.Strategies = append(page.Strategies, strategySection{Name: name, Rows: section})
	}

	path := filepath.Join(dir, "metrics_report.html")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	return combinedTmpl.Execute(f, page)
}
