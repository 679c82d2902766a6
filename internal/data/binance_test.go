package data

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/workprior/crypto-backtest/internal/model"
)

func klineZip(t *testing.T, csv string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("klines.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(csv)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const sampleCSV = "1738368000000,0.05,0.06,0.04,0.055,100,1738368059999,5.5,10,50,2.75,0\n" +
	"1738368060000,0.055,0.07,0.05,0.06,200,1738368119999,12,20,100,6,0\n"

func TestParseKlineCSV_SkipsHeader(t *testing.T) {
	csv := "open_time,open,high,low,close,volume,close_time,quote_volume,count,taker_base,taker_quote,ignore\n" + sampleCSV
	bars, err := parseKlineCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	want := time.UnixMilli(1738368000000).UTC()
	if !bars[0].OpenTime.Equal(want) {
		t.Errorf("open time = %v, want %v", bars[0].OpenTime, want)
	}
	if bars[1].Volume != 200 {
		t.Errorf("volume = %v, want 200", bars[1].Volume)
	}
}

func TestParseKlineCSV_MalformedRow(t *testing.T) {
	if _, err := parseKlineCSV(strings.NewReader("1,2,3\n")); err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestNormalizeMillis(t *testing.T) {
	cases := []struct {
		in, want int64
	}{
		{1738368000000, 1738368000000},          // already millis
		{1738368000, 1738368000000},             // seconds
		{1738368000000000, 1738368000000},       // microseconds
		{1738368000000000000, 1738368000000},    // nanoseconds
	}
	for _, c := range cases {
		if got := normalizeMillis(c.in); got != c.want {
			t.Errorf("normalizeMillis(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("archive-bytes")
	sum := sha256.Sum256(data)
	sidecar := []byte(hex.EncodeToString(sum[:]) + "  archive.zip\n")

	if err := verifyChecksum(sidecar, data); err != nil {
		t.Fatalf("valid checksum rejected: %v", err)
	}
	if err := verifyChecksum(sidecar, []byte("tampered")); err == nil {
		t.Fatal("tampered archive accepted")
	}
	if err := verifyChecksum([]byte("   "), data); err == nil {
		t.Fatal("empty sidecar accepted")
	}
}

func visionTestClient(srv *httptest.Server) *VisionClient {
	c := NewVisionClient("spot", "1m", 2025, 2)
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()
	return c
}

func TestFetchSeries_ParsesArchive(t *testing.T) {
	archive := klineZip(t, sampleCSV)
	sum := sha256.Sum256(archive)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ".CHECKSUM"):
			fmt.Fprintf(w, "%s  ETHBTC-1m-2025-02.zip\n", hex.EncodeToString(sum[:]))
		case strings.HasSuffix(r.URL.Path, ".zip"):
			w.Write(archive)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	series, err := visionTestClient(srv).FetchSeries("ETHBTC")
	if err != nil {
		t.Fatal(err)
	}
	if series.Symbol != "ETHBTC" || series.Len() != 2 {
		t.Fatalf("got %s with %d bars, want ETHBTC with 2", series.Symbol, series.Len())
	}
}

func TestFetchSeries_MissingArchive(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := visionTestClient(srv).FetchSeries("GONEBTC")
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("got %v, want ErrDataUnavailable for 404", err)
	}
}

func TestFetchSeries_ChecksumMismatch(t *testing.T) {
	archive := klineZip(t, sampleCSV)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".CHECKSUM") {
			fmt.Fprintln(w, strings.Repeat("0", 64)+"  ETHBTC-1m-2025-02.zip")
			return
		}
		w.Write(archive)
	}))
	defer srv.Close()

	if _, err := visionTestClient(srv).FetchSeries("ETHBTC"); err == nil {
		t.Fatal("checksum mismatch must fail the symbol")
	}
}

func TestFetchSeries_MissingChecksumIsNotFatal(t *testing.T) {
	archive := klineZip(t, sampleCSV)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".CHECKSUM") {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	}))
	defer srv.Close()

	if _, err := visionTestClient(srv).FetchSeries("ETHBTC"); err != nil {
		t.Fatalf("missing sidecar should only warn, got %v", err)
	}
}
