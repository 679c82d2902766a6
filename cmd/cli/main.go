package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/workprior/crypto-backtest/internal/analysis"
	"github.com/workprior/crypto-backtest/internal/config"
	"github.com/workprior/crypto-backtest/internal/data"
	"github.com/workprior/crypto-backtest/internal/model"
	"github.com/workprior/crypto-backtest/internal/report"
	"github.com/workprior/crypto-backtest/internal/runner"
	"github.com/workprior/crypto-backtest/internal/store"
	"github.com/workprior/crypto-backtest/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	case "report":
		cmdReport(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli backtest --config examples/config.yaml")
	fmt.Println("  cli rank --config examples/config.yaml --n 20")
	fmt.Println("  cli report --config examples/config.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - backtest runs every enabled strategy over the top symbols by monthly volume")
	fmt.Println("  - rank prints the volume ranking without running any backtests")
	fmt.Println("  - report rebuilds the HTML reports from existing metrics CSVs")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("load config: %v", err)
	}
	return cfg
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (defaults apply when empty)")
	debug := fs.Bool("debug", false, "Verbose logging")
	_ = fs.Parse(args)

	logger.Init(*debug)
	logger.SetServiceName("cli")
	defer logger.Sync()

	cfg := loadConfig(*cfgPath)

	ranker := data.NewSymbolSelector(cfg.Data.MarketType, cfg.Data.QuoteAsset, cfg.Data.Year, cfg.Data.Month)
	fetcher := data.NewVisionClient(cfg.Data.MarketType, cfg.Data.Interval, cfg.Data.Year, cfg.Data.Month)
	cache := data.NewCache(cfg.Data.CacheDir)
	loader := data.NewLoader(ranker, fetcher, cache)

	var st *store.Store
	if cfg.Output.Database != "" {
		var err error
		st, err = store.Open(cfg.Output.Database)
		if err != nil {
			logger.Fatal("open results store: %v", err)
		}
		defer st.Close()
	}

	summaries, err := runner.New(cfg, loader, st).Run()
	if err != nil {
		logger.Fatal("batch failed: %v", err)
	}

	top := analysis.RankByTotalReturn(summaries, 10)
	fmt.Printf("%-4s %-12s %-18s %-10s %-8s %-8s\n", "rank", "symbol", "strategy", "return%", "sharpe", "trades")
	for i, s := range top {
		fmt.Printf("%-4d %-12s %-18s %-10.2f %-8.2f %-8d\n",
			i+1, s.Symbol, s.Strategy, s.TotalReturnPct, s.SharpeRatio, s.TradeCount)
	}
	fmt.Printf("Wrote %d summaries to %s\n", len(summaries), cfg.Output.ResultsDir)
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (defaults apply when empty)")
	n := fs.Int("n", 0, "Number of symbols (0 = config value)")
	reverse := fs.Bool("reverse", false, "Rank by lowest volume instead of highest")
	debug := fs.Bool("debug", false, "Verbose logging")
	_ = fs.Parse(args)

	logger.Init(*debug)
	logger.SetServiceName("cli")
	defer logger.Sync()

	cfg := loadConfig(*cfgPath)
	count := cfg.Data.NumSymbols
	if *n > 0 {
		count = *n
	}

	ranker := data.NewSymbolSelector(cfg.Data.MarketType, cfg.Data.QuoteAsset, cfg.Data.Year, cfg.Data.Month)
	symbols, err := ranker.TopSymbols(count, *reverse)
	if err != nil {
		logger.Fatal("rank symbols: %v", err)
	}

	fmt.Printf("top %d %s pairs by %d-%02d volume:\n", len(symbols), cfg.Data.QuoteAsset, cfg.Data.Year, cfg.Data.Month)
	for i, sym := range symbols {
		fmt.Printf("%4d  %s\n", i+1, sym)
	}
}

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (defaults apply when empty)")
	debug := fs.Bool("debug", false, "Verbose logging")
	_ = fs.Parse(args)

	logger.Init(*debug)
	logger.SetServiceName("cli")
	defer logger.Sync()

	cfg := loadConfig(*cfgPath)
	rows, err := report.LoadAllMetrics(cfg.Output.ResultsDir)
	if err != nil {
		logger.Fatal("load metrics: %v", err)
	}
	if len(rows) == 0 {
		logger.Fatal("no metrics CSVs under %s; run `cli backtest` first", cfg.Output.ResultsDir)
	}

	byStrategy := map[string][]model.PerformanceSummary{}
	for _, r := range rows {
		byStrategy[r.Strategy] = append(byStrategy[r.Strategy], r)
	}
	for strat, sub := range byStrategy {
		if err := report.WriteStrategyReport(cfg.Output.ResultsDir, strat, sub); err != nil {
			logger.Fatal("write %s report: %v", strat, err)
		}
	}

	if err := report.WriteCombinedReport(cfg.Output.ResultsDir, rows); err != nil {
		logger.Fatal("write combined report: %v", err)
	}
	fmt.Printf("Rebuilt %s from %d metric rows\n", report.StatisticDir(cfg.Output.ResultsDir), len(rows))
}
