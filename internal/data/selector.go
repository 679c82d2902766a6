package data

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/workprior/crypto-backtest/pkg/logger"
)

const (
	spotAPIBase    = "https://api.binance.com"
	futuresAPIBase = "https://fapi.binance.com"
)

// SymbolSelector ranks the exchange's trading pairs by total traded volume
// over one month, restricted to a single quote asset.
type SymbolSelector struct {
	APIBase    string
	MarketType string
	Interval   string // ranking interval, e.g. "1d"
	QuoteAsset string
	Year       int
	Month      int
	HTTPClient *http.Client
}

func NewSymbolSelector(marketType, quoteAsset string, year, month int) *SymbolSelector {
	base := spotAPIBase
	if marketType == "futures" {
		base = futuresAPIBase
	}
	return &SymbolSelector{
		APIBase:    base,
		MarketType: marketType,
		Interval:   "1d",
		QuoteAsset: quoteAsset,
		Year:       year,
		Month:      month,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type exchangeInfo struct {
	Symbols []struct {
		Symbol     string `json:"symbol"`
		QuoteAsset string `json:"quoteAsset"`
		Status     string `json:"status"`
	} `json:"symbols"`
}

type rankedSymbol struct {
	Symbol string
	Volume float64
}

// TopSymbols returns the n highest-volume symbols for the configured month,
// or the n lowest-volume symbols when reverse is true. Equal volumes break
// ties by symbol name ascending so the selection is deterministic.
func (s *SymbolSelector) TopSymbols(n int, reverse bool) ([]string, error) {
	symbols, err := s.allSymbols()
	if err != nil {
		return nil, err
	}
	logger.Info("fetching monthly volume for %d %s pairs", len(symbols), s.QuoteAsset)

	ranked := make([]rankedSymbol, 0, len(symbols))
	for _, sym := range symbols {
		vol, err := s.monthlyVolume(sym)
		if err != nil {
			logger.Warn("volume fetch failed for %s: %v", sym, err)
			continue
		}
		if vol > 0 {
			ranked = append(ranked, rankedSymbol{Symbol: sym, Volume: vol})
		}
	}
	if len(ranked) == 0 {
		return nil, errors.New("no symbols with volume data")
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Volume != ranked[j].Volume {
			if reverse {
				return ranked[i].Volume < ranked[j].Volume
			}
			return ranked[i].Volume > ranked[j].Volume
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].Symbol
	}
	return out, nil
}

func (s *SymbolSelector) allSymbols() ([]string, error) {
	path := "/api/v3/exchangeInfo"
	if s.MarketType == "futures" {
		path = "/fapi/v1/exchangeInfo"
	}
	raw, err := s.get(s.APIBase + path)
	if err != nil {
		return nil, err
	}

	var info exchangeInfo
	if err := sonic.Unmarshal(raw, &info); err != nil {
		return nil, errors.Wrap(err, "decode exchangeInfo")
	}

	var out []string
	for _, sym := range info.Symbols {
		if sym.QuoteAsset == s.QuoteAsset && sym.Status == "TRADING" {
			out = append(out, sym.Symbol)
		}
	}
	if len(out) == 0 {
		return nil, errors.Errorf("no trading pairs with quote asset %s", s.QuoteAsset)
	}
	return out, nil
}

// monthlyVolume sums base-asset volume over the month's daily klines.
// Kline rows are JSON arrays of mixed types; volume is the string at index 5.
func (s *SymbolSelector) monthlyVolume(symbol string) (float64, error) {
	start, end := s.timeRange()

	path := "/api/v3/klines"
	if s.MarketType == "futures" {
		path = "/fapi/v1/klines"
	}
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", s.Interval)
	q.Set("startTime", strconv.FormatInt(start, 10))
	q.Set("endTime", strconv.FormatInt(end, 10))
	q.Set("limit", "1000")

	raw, err := s.get(s.APIBase + path + "?" + q.Encode())
	if err != nil {
		return 0, err
	}

	var rows [][]interface{}
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return 0, errors.Wrapf(err, "decode klines for %s", symbol)
	}

	sum := 0.0
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		volStr, ok := row[5].(string)
		if !ok {
			continue
		}
		vol, err := strconv.ParseFloat(volStr, 64)
		if err != nil {
			continue
		}
		sum += vol
	}
	return sum, nil
}

// timeRange returns the month's [start, end) boundaries in epoch millis.
func (s *SymbolSelector) timeRange() (int64, int64) {
	start := time.Date(s.Year, time.Month(s.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start.UnixMilli(), end.UnixMilli()
}

func (s *SymbolSelector) get(u string) ([]byte, error) {
	resp, err := s.HTTPClient.Get(u)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", u)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, u)
	}
	return io.ReadAll(resp.Body)
}
