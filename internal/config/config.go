package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Backtest   BacktestConfig   `yaml:"backtest"`
	Strategies StrategiesConfig `yaml:"strategies"`
	Output     OutputConfig     `yaml:"output"`
}

// DataConfig selects the symbol universe and the kline archive month.
type DataConfig struct {
	MarketType string `yaml:"market_type"` // "spot" or "futures"
	Interval   string `yaml:"interval"`    // e.g. "1m"
	Year       int    `yaml:"year"`
	Month      int    `yaml:"month"`
	QuoteAsset string `yaml:"quote_asset"`
	NumSymbols int    `yaml:"num_symbols"`
	Reverse    bool   `yaml:"reverse"` // true = lowest-volume symbols first
	CacheDir   string `yaml:"cache_dir"`
}

type BacktestConfig struct {
	InitCash float64 `yaml:"init_cash"`
	Fees     float64 `yaml:"fees"`     // proportional, e.g. 0.001
	Slippage float64 `yaml:"slippage"` // proportional, e.g. 0.001
	// PeriodsPerYear annualizes the Sharpe ratio; 525600 for 1m bars.
	PeriodsPerYear float64 `yaml:"periods_per_year"`
}

type StrategiesConfig struct {
	Enabled       []string            `yaml:"enabled"`
	VWAPReversion VWAPReversionConfig `yaml:"vwap_reversion"`
	RSIBollinger  RSIBollingerConfig  `yaml:"rsi_bollinger"`
	SMACrossover  SMACrossoverConfig  `yaml:"sma_crossover"`
}

type VWAPReversionConfig struct {
	DeviationThreshold float64 `yaml:"deviation_threshold"`
}

type RSIBollingerConfig struct {
	RSIPeriod  int     `yaml:"rsi_period"`
	BBPeriod   int     `yaml:"bb_period"`
	BBStd      float64 `yaml:"bb_std"`
	Oversold   float64 `yaml:"oversold"`
	Overbought float64 `yaml:"overbought"`
}

type SMACrossoverConfig struct {
	FastWindow int `yaml:"fast_window"`
	SlowWindow int `yaml:"slow_window"`
}

type OutputConfig struct {
	ResultsDir string `yaml:"results_dir"`
	// Database is the SQLite results store. Empty disables persistence.
	Database string `yaml:"database"`
}

// Default returns a fully populated configuration matching the documented
// defaults, so the CLI can run without a config file.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			MarketType: "spot",
			Interval:   "1m",
			Year:       2025,
			Month:      2,
			QuoteAsset: "BTC",
			NumSymbols: 20,
			Reverse:    false,
			CacheDir:   "data/cache",
		},
		Backtest: BacktestConfig{
			InitCash:       1000,
			Fees:           0.001,
			Slippage:       0.001,
			PeriodsPerYear: 525600,
		},
		Strategies: StrategiesConfig{
			Enabled: []string{"vwap_reversion", "rsi_bollinger", "sma_crossover"},
			VWAPReversion: VWAPReversionConfig{
				DeviationThreshold: 0.01,
			},
			RSIBollinger: RSIBollingerConfig{
				RSIPeriod:  14,
				BBPeriod:   20,
				BBStd:      2,
				Oversold:   30,
				Overbought: 70,
			},
			SMACrossover: SMACrossoverConfig{
				FastWindow: 150,
				SlowWindow: 250,
			},
		},
		Output: OutputConfig{
			ResultsDir: "results",
			Database:   "results/backtests.db",
		},
	}
}

// Load reads the YAML config at path, fills unset fields from Default, and
// validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// applyDefaults fills fields an explicit empty YAML section may have zeroed.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Data.MarketType == "" {
		c.Data.MarketType = d.Data.MarketType
	}
	if c.Data.Interval == "" {
		c.Data.Interval = d.Data.Interval
	}
	if c.Data.QuoteAsset == "" {
		c.Data.QuoteAsset = d.Data.QuoteAsset
	}
	if c.Data.CacheDir == "" {
		c.Data.CacheDir = d.Data.CacheDir
	}
	if c.Data.NumSymbols == 0 {
		c.Data.NumSymbols = d.Data.NumSymbols
	}
	if c.Backtest.InitCash == 0 {
		c.Backtest.InitCash = d.Backtest.InitCash
	}
	if c.Backtest.PeriodsPerYear == 0 {
		c.Backtest.PeriodsPerYear = d.Backtest.PeriodsPerYear
	}
	if len(c.Strategies.Enabled) == 0 {
		c.Strategies.Enabled = d.Strategies.Enabled
	}
	if c.Output.ResultsDir == "" {
		c.Output.ResultsDir = d.Output.ResultsDir
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Data.MarketType != "spot" && c.Data.MarketType != "futures" {
		return fmt.Errorf("data.market_type must be \"spot\" or \"futures\", got %q", c.Data.MarketType)
	}
	if c.Data.Year < 2017 {
		return fmt.Errorf("data.year %d predates available kline archives", c.Data.Year)
	}
	if c.Data.Month < 1 || c.Data.Month > 12 {
		return fmt.Errorf("data.month must be in [1, 12], got %d", c.Data.Month)
	}
	if c.Data.NumSymbols < 1 {
		return fmt.Errorf("data.num_symbols must be >= 1, got %d", c.Data.NumSymbols)
	}
	if c.Backtest.InitCash <= 0 {
		return errors.New("backtest.init_cash must be > 0")
	}
	if c.Backtest.Fees < 0 || c.Backtest.Fees >= 1 {
		return errors.New("backtest.fees must be in [0, 1)")
	}
	if c.Backtest.Slippage < 0 || c.Backtest.Slippage >= 1 {
		return errors.New("backtest.slippage must be in [0, 1)")
	}
	if c.Strategies.VWAPReversion.DeviationThreshold <= 0 {
		return errors.New("strategies.vwap_reversion.deviation_threshold must be > 0")
	}
	if c.Strategies.RSIBollinger.RSIPeriod < 1 || c.Strategies.RSIBollinger.BBPeriod < 1 {
		return errors.New("strategies.rsi_bollinger periods must be >= 1")
	}
	if c.Strategies.RSIBollinger.BBStd <= 0 {
		return errors.New("strategies.rsi_bollinger.bb_std must be > 0")
	}
	if c.Strategies.RSIBollinger.Oversold >= c.Strategies.RSIBollinger.Overbought {
		return errors.New("strategies.rsi_bollinger oversold must be below overbought")
	}
	if c.Strategies.SMACrossover.FastWindow < 1 || c.Strategies.SMACrossover.SlowWindow < 1 {
		return errors.New("strategies.sma_crossover windows must be >= 1")
	}
	if c.Strategies.SMACrossover.FastWindow >= c.Strategies.SMACrossover.SlowWindow {
		return errors.New("strategies.sma_crossover fast_window must be below slow_window")
	}
	known := map[string]bool{"vwap_reversion": true, "rsi_bollinger": true, "sma_crossover": true}
	for _, name := range c.Strategies.Enabled {
		if !known[name] {
			return fmt.Errorf("unknown strategy %q in strategies.enabled", name)
		}
	}
	return nil
}
