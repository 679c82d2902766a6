package data

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func selectorTestServer(t *testing.T, volumes map[string]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/exchangeInfo":
			fmt.Fprint(w, `{"symbols":[`)
			first := true
			for sym := range volumes {
				if !first {
					fmt.Fprint(w, ",")
				}
				first = false
				fmt.Fprintf(w, `{"symbol":%q,"quoteAsset":"BTC","status":"TRADING"}`, sym)
			}
			// One pair that must be filtered out on each axis.
			fmt.Fprint(w, `,{"symbol":"ETHUSDT","quoteAsset":"USDT","status":"TRADING"}`)
			fmt.Fprint(w, `,{"symbol":"OLDBTC","quoteAsset":"BTC","status":"BREAK"}]}`)
		case "/api/v3/klines":
			sym := r.URL.Query().Get("symbol")
			vol, ok := volumes[sym]
			if !ok {
				fmt.Fprint(w, `[]`)
				return
			}
			// Two daily rows; volume is the string at index 5.
			fmt.Fprintf(w, `[[1738368000000,"1","1","1","1","%g",0,"0",0,"0","0","0"],`, vol/2)
			fmt.Fprintf(w, `[1738454400000,"1","1","1","1","%g",0,"0",0,"0","0","0"]]`, vol/2)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testSelector(srv *httptest.Server) *SymbolSelector {
	s := NewSymbolSelector("spot", "BTC", 2025, 2)
	s.APIBase = srv.URL
	s.HTTPClient = srv.Client()
	return s
}

func TestTopSymbols_RanksByVolume(t *testing.T) {
	srv := selectorTestServer(t, map[string]float64{
		"AAABTC": 300,
		"BBBBTC": 100,
		"CCCBTC": 200,
	})
	defer srv.Close()

	got, err := testSelector(srv).TopSymbols(2, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"AAABTC", "CCCBTC"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTopSymbols_Reverse(t *testing.T) {
	srv := selectorTestServer(t, map[string]float64{
		"AAABTC": 300,
		"BBBBTC": 100,
		"CCCBTC": 200,
	})
	defer srv.Close()

	got, err := testSelector(srv).TopSymbols(2, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"BBBBTC", "CCCBTC"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTopSymbols_TieBreaksBySymbol(t *testing.T) {
	srv := selectorTestServer(t, map[string]float64{
		"ZZZBTC": 100,
		"AAABTC": 100,
	})
	defer srv.Close()

	got, err := testSelector(srv).TopSymbols(2, false)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "AAABTC" || got[1] != "ZZZBTC" {
		t.Fatalf("equal volumes must order by symbol ascending, got %v", got)
	}
}

func TestTopSymbols_NLargerThanUniverse(t *testing.T) {
	srv := selectorTestServer(t, map[string]float64{"AAABTC": 100})
	defer srv.Close()

	got, err := testSelector(srv).TopSymbols(50, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d symbols, want 1", len(got))
	}
}
