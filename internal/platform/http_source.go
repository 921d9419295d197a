package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"challenge-monitor/internal/domain"
)

// HTTPSource fetches account samples from a platform bridge exposing a
// JSON API. Requests are rate-limited to stay within the bridge's quota.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// HTTPSourceConfig configures the bridge client.
type HTTPSourceConfig struct {
	// RequestsPerSecond caps outbound request rate. Defaults to 10.
	RequestsPerSecond float64
	// Timeout is the per-request timeout. Defaults to 10s.
	Timeout time.Duration
}

// NewHTTPSource creates a bridge client for the given base URL.
func NewHTTPSource(baseURL string, config *HTTPSourceConfig) *HTTPSource {
	rps := 10.0
	timeout := 10 * time.Second
	if config != nil {
		if config.RequestsPerSecond > 0 {
			rps = config.RequestsPerSecond
		}
		if config.Timeout > 0 {
			timeout = config.Timeout
		}
	}

	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// sampleResponse is the bridge's wire format for one account sample.
type sampleResponse struct {
	Balance        float64       `json:"balance"`
	Equity         float64       `json:"equity"`
	Margin         float64       `json:"margin"`
	FreeMargin     float64       `json:"free_margin"`
	MarginLevel    float64       `json:"margin_level"`
	OpenPositions  int           `json:"open_positions"`
	ProfitAbs      float64       `json:"profit"`
	ProfitPct      float64       `json:"profit_percent"`
	DailyProfitAbs float64       `json:"daily_profit"`
	DailyProfitPct float64       `json:"daily_profit_percent"`
	TotalTrades    int           `json:"total_trades"`
	MaxDrawdownPct float64       `json:"max_drawdown_percent"`
	Trades         []wireTradeDT `json:"trades"`
}

type wireTradeDT struct {
	Ticket       int64   `json:"ticket"`
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`
	Volume       float64 `json:"volume"`
	OpenPrice    float64 `json:"open_price"`
	CurrentPrice float64 `json:"current_price"`
	Profit       float64 `json:"profit"`
	OpenedAt     int64   `json:"opened_at"`
}

// Fetch retrieves the sample for one account from the bridge.
func (s *HTTPSource) Fetch(ctx context.Context, account *domain.Account) (*domain.AccountSample, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/accounts/%s?server=%s",
		s.baseURL, url.PathEscape(account.AccountNumber), url.QueryEscape(account.Server))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch account %s: %w", account.AccountNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoSample
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch account %s: unexpected status %d", account.AccountNumber, resp.StatusCode)
	}

	var wire sampleResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}

	return wire.toDomain(), nil
}

func (w *sampleResponse) toDomain() *domain.AccountSample {
	sample := &domain.AccountSample{
		Balance:        w.Balance,
		Equity:         w.Equity,
		Margin:         w.Margin,
		FreeMargin:     w.FreeMargin,
		MarginLevel:    w.MarginLevel,
		OpenPositions:  w.OpenPositions,
		ProfitAbs:      w.ProfitAbs,
		ProfitPct:      w.ProfitPct,
		DailyProfitAbs: w.DailyProfitAbs,
		DailyProfitPct: w.DailyProfitPct,
		TotalTrades:    w.TotalTrades,
		MaxDrawdownPct: w.MaxDrawdownPct,
		FetchedAt:      time.Now().UnixMilli(),
	}
	for _, t := range w.Trades {
		sample.Trades = append(sample.Trades, domain.PlatformTrade{
			Ticket:       t.Ticket,
			Symbol:       t.Symbol,
			Side:         domain.TradeSide(t.Side),
			Volume:       t.Volume,
			OpenPrice:    t.OpenPrice,
			CurrentPrice: t.CurrentPrice,
			Profit:       t.Profit,
			OpenedAt:     t.OpenedAt,
		})
	}
	return sample
}

var _ AccountDataSource = (*HTTPSource)(nil)
