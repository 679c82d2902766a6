package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/workprior/crypto-backtest/internal/api/models"
	"github.com/workprior/crypto-backtest/internal/config"
	"github.com/workprior/crypto-backtest/internal/data"
	"github.com/workprior/crypto-backtest/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seededCache(t *testing.T) *data.Cache {
	t.Helper()
	cache := data.NewCache(t.TempDir())

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 300)
	for i := range bars {
		price := 100 + 10*math.Sin(float64(i)/20)
		bars[i] = model.Bar{
			OpenTime: start.Add(time.Duration(i) * time.Minute),
			Open:     price,
			High:     price * 1.001,
			Low:      price * 0.999,
			Close:    price,
			Volume:   1000,
		}
	}
	if err := cache.Store(&model.PriceSeries{Symbol: "AAABTC", Bars: bars}); err != nil {
		t.Fatal(err)
	}
	return cache
}

func backtestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	h := NewBacktestHandler(config.Default(), seededCache(t), nil)
	r := gin.New()
	r.POST("/api/v1/backtest", h.RunBacktest)
	return r
}

func doBacktest(t *testing.T, router *gin.Engine, req models.BacktestRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)
	return w
}

func TestRunBacktest_OK(t *testing.T) {
	router := backtestRouter(t)
	w := doBacktest(t, router, models.BacktestRequest{
		Symbol:   "AAABTC",
		Strategy: "vwap_reversion",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp models.BacktestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Summary.Symbol != "AAABTC" || resp.Summary.Strategy != "vwap_reversion" {
		t.Errorf("summary identity wrong: %+v", resp.Summary)
	}
	if resp.Trades != nil {
		t.Error("trades returned without include_trades")
	}
}

func TestRunBacktest_IncludeTrades(t *testing.T) {
	router := backtestRouter(t)
	w := doBacktest(t, router, models.BacktestRequest{
		Symbol:        "AAABTC",
		Strategy:      "vwap_reversion",
		IncludeTrades: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp models.BacktestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Trades) != resp.Summary.TradeCount {
		t.Errorf("got %d trades, summary says %d", len(resp.Trades), resp.Summary.TradeCount)
	}
}

func TestRunBacktest_UnknownStrategy(t *testing.T) {
	router := backtestRouter(t)
	w := doBacktest(t, router, models.BacktestRequest{
		Symbol:   "AAABTC",
		Strategy: "momentum",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRunBacktest_UncachedSymbol(t *testing.T) {
	router := backtestRouter(t)
	w := doBacktest(t, router, models.BacktestRequest{
		Symbol:   "NOPEBTC",
		Strategy: "vwap_reversion",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRunBacktest_MissingFields(t *testing.T) {
	router := backtestRouter(t)
	w := doBacktest(t, router, models.BacktestRequest{Symbol: "AAABTC"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing strategy", w.Code)
	}
}
