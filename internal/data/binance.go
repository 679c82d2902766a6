package data

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/workprior/crypto-backtest/internal/model"
	"github.com/workprior/crypto-backtest/pkg/logger"
)

const (
	spotVisionBase    = "https://data.binance.vision/data/spot/monthly/klines"
	futuresVisionBase = "https://data.binance.vision/data/futures/um/monthly/klines"
)

// VisionClient downloads monthly kline archives from Binance Data Vision.
// Each archive is a zip holding one CSV with twelve columns per row; only
// the first six (open time + OHLCV) are kept.
type VisionClient struct {
	BaseURL    string
	Interval   string
	Year       int
	Month      int
	HTTPClient *http.Client
}

// NewVisionClient builds a client for the given market type ("spot" or
// "futures") and archive month.
func NewVisionClient(marketType, interval string, year, month int) *VisionClient {
	base := spotVisionBase
	if marketType == "futures" {
		base = futuresVisionBase
	}
	return &VisionClient{
		BaseURL:  base,
		Interval: interval,
		Year:     year,
		Month:    month,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchSeries downloads and parses one symbol's monthly archive.
// A missing archive (404) wraps model.ErrDataUnavailable so callers can skip
// the symbol and continue the batch.
func (c *VisionClient) FetchSeries(symbol string) (*model.PriceSeries, error) {
	fileName := fmt.Sprintf("%s-%s-%d-%02d.zip", symbol, c.Interval, c.Year, c.Month)
	url := fmt.Sprintf("%s/%s/%s/%s", c.BaseURL, symbol, c.Interval, fileName)

	body, err := c.get(url)
	if err != nil {
		return nil, err
	}

	// Checksum sidecar: a failed fetch only logs a warning, a mismatch is a
	// hard error for the symbol.
	if sum, err := c.get(url + ".CHECKSUM"); err != nil {
		logger.Warn("skipping checksum validation for %s: %v", symbol, err)
	} else if err := verifyChecksum(sum, body); err != nil {
		return nil, errors.Wrapf(err, "checksum mismatch for %s", symbol)
	}

	bars, err := parseKlineZip(body)
	if err != nil {
		return nil, errors.Wrapf(err, "parse archive for %s", symbol)
	}
	if len(bars) == 0 {
		return nil, errors.Wrapf(model.ErrDataUnavailable, "empty archive for %s", symbol)
	}

	series := &model.PriceSeries{Symbol: symbol, Bars: bars}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

func (c *VisionClient) get(url string) ([]byte, error) {
	resp, err := c.HTTPClient.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(model.ErrDataUnavailable, "HTTP 404 for %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// verifyChecksum compares the SHA256 from a Data Vision .CHECKSUM sidecar
// ("<hex>  <filename>") against the archive bytes.
func verifyChecksum(sidecar, archive []byte) error {
	fields := strings.Fields(string(sidecar))
	if len(fields) == 0 {
		return errors.New("empty checksum file")
	}
	expected := strings.ToLower(fields[0])
	actual := sha256.Sum256(archive)
	if expected != hex.EncodeToString(actual[:]) {
		return errors.Errorf("expected %s, got %s", expected, hex.EncodeToString(actual[:]))
	}
	return nil
}

func parseKlineZip(raw []byte) ([]model.Bar, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, errors.Wrap(err, "open zip")
	}
	if len(zr.File) == 0 {
		return nil, errors.New("zip archive is empty")
	}

	f, err := zr.File[0].Open()
	if err != nil {
		return nil, errors.Wrap(err, "open csv entry")
	}
	defer f.Close()

	return parseKlineCSV(f)
}

// parseKlineCSV reads Data Vision kline rows: open_time, open, high, low,
// close, volume, close_time, quote_volume, num_trades, taker_base_vol,
// taker_quote_vol, ignore. Some archives carry a header row; it is skipped.
func parseKlineCSV(r io.Reader) ([]model.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var bars []model.Bar
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		if len(rec) < 7 {
			return nil, errors.Errorf("malformed kline row with %d columns", len(rec))
		}

		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			// Header row.
			if strings.EqualFold(rec[0], "open_time") {
				continue
			}
			return nil, errors.Wrapf(err, "parse open time %q", rec[0])
		}

		open, err := parseFloat(rec[1])
		if err != nil {
			return nil, err
		}
		high, err := parseFloat(rec[2])
		if err != nil {
			return nil, err
		}
		low, err := parseFloat(rec[3])
		if err != nil {
			return nil, err
		}
		cls, err := parseFloat(rec[4])
		if err != nil {
			return nil, err
		}
		vol, err := parseFloat(rec[5])
		if err != nil {
			return nil, err
		}

		bars = append(bars, model.Bar{
			OpenTime: time.UnixMilli(normalizeMillis(ts)).UTC(),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    cls,
			Volume:   vol,
		})
	}
	return bars, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse float %q", s)
	}
	return v, nil
}

// normalizeMillis fixes archives whose open times are in nanoseconds,
// microseconds, or seconds instead of milliseconds.
func normalizeMillis(ts int64) int64 {
	switch {
	case ts > 1e17: // nanoseconds
		return ts / 1_000_000
	case ts > 1e14: // microseconds
		return ts / 1_000
	case ts < 1e12 && ts > 0: // seconds
		return ts * 1000
	default:
		return ts
	}
}
