package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"challenge-monitor/internal/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{
		ID:            "acc-1",
		ChallengeID:   "ch-1",
		AccountNumber: "700123",
		Server:        "Demo-01",
		Balance:       10000,
	}
}

func TestHTTPSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/700123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("server"); got != "Demo-01" {
			t.Errorf("expected server=Demo-01, got %s", got)
		}

		resp := map[string]interface{}{
			"balance":              10250.5,
			"equity":               10300.0,
			"margin":               120.0,
			"free_margin":          10180.0,
			"margin_level":         858.3,
			"open_positions":       2,
			"profit":               300.0,
			"profit_percent":       3.0,
			"daily_profit":         -150.0,
			"daily_profit_percent": -1.5,
			"total_trades":         14,
			"max_drawdown_percent": 0.0,
			"trades": []map[string]interface{}{
				{
					"ticket":        int64(900001),
					"symbol":        "EURUSD",
					"side":          "buy",
					"volume":        0.5,
					"open_price":    1.0850,
					"current_price": 1.0862,
					"profit":        60.0,
					"opened_at":     int64(1700000000000),
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, nil)
	sample, err := source.Fetch(context.Background(), testAccount())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if sample.Balance != 10250.5 {
		t.Errorf("Balance: got %f, want 10250.5", sample.Balance)
	}
	if sample.DailyProfitPct != -1.5 {
		t.Errorf("DailyProfitPct: got %f, want -1.5", sample.DailyProfitPct)
	}
	if len(sample.Trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(sample.Trades))
	}
	trade := sample.Trades[0]
	if trade.Ticket != 900001 || trade.Side != domain.TradeSideBuy {
		t.Errorf("Trade mismatch: %+v", trade)
	}
}

func TestHTTPSource_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, nil)
	_, err := source.Fetch(context.Background(), testAccount())
	if !errors.Is(err, ErrNoSample) {
		t.Errorf("Expected ErrNoSample, got %v", err)
	}
}

func TestHTTPSource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, nil)
	_, err := source.Fetch(context.Background(), testAccount())
	if err == nil {
		t.Fatal("Expected error on 500 response")
	}
}
