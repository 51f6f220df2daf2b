package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{BaseURL: baseURL, TimeoutSeconds: 1, MaxRetries: 2})
}

func TestGetTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("unexpected symbol param %q", got)
		}
		fmt.Fprint(w, `{"symbol":"BTCUSDT","price":"43250.10"}`)
	}))
	defer srv.Close()

	quote, err := newTestClient(srv.URL).GetTicker(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("get ticker: %v", err)
	}
	if quote.Symbol != "BTCUSDT" || !quote.Price.Equal(decimal.RequireFromString("43250.10")) {
		t.Errorf("unexpected quote: %+v", quote)
	}
}

func TestGetTickerRetriesTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"symbol":"BTCUSDT","price":"43250.10"}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetTicker(context.Background(), "BTCUSDT"); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if atomic.LoadInt32(&calls) < 2 {
		t.Errorf("expected at least 2 requests, got %d", calls)
	}
}

func TestGetTickerNonPositivePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"symbol":"BTCUSDT","price":"0"}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetTicker(context.Background(), "BTCUSDT"); err == nil {
		t.Fatal("expected error for non-positive price")
	}
}

func TestGetTickerServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetTicker(context.Background(), "BTCUSDT"); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}
