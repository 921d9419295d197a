package platform

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"challenge-monitor/internal/domain"
)

// RandomSource generates randomized account samples around the account's
// last known balance. It stands in for the real platform bridge in
// environments without one; production behavior beyond the sample shape
// is unspecified.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a randomized source. seed 0 uses the current time.
func NewRandomSource(seed int64) *RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

// Fetch returns a randomized sample for the account.
func (s *RandomSource) Fetch(_ context.Context, account *domain.Account) (*domain.AccountSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := account.Balance
	if base <= 0 {
		base = 10000
	}

	// Drift balance by up to ±2%, equity by a further ±1% of balance.
	balance := base * (1 + (s.rng.Float64()-0.5)*0.04)
	equity := balance * (1 + (s.rng.Float64()-0.5)*0.02)

	profitAbs := equity - base
	profitPct := profitAbs / base * 100
	dailyAbs := balance * (s.rng.Float64() - 0.5) * 0.02
	dailyPct := dailyAbs / base * 100

	openPositions := s.rng.Intn(4)
	trades := make([]domain.PlatformTrade, 0, openPositions)
	now := time.Now().UnixMilli()
	for i := 0; i < openPositions; i++ {
		side := domain.TradeSideBuy
		if s.rng.Intn(2) == 1 {
			side = domain.TradeSideSell
		}
		openPrice := 1.05 + s.rng.Float64()*0.1
		trades = append(trades, domain.PlatformTrade{
			Ticket:       s.rng.Int63n(9_000_000) + 1_000_000,
			Symbol:       "EURUSD",
			Side:         side,
			Volume:       float64(s.rng.Intn(10)+1) / 10,
			OpenPrice:    openPrice,
			CurrentPrice: openPrice * (1 + (s.rng.Float64()-0.5)*0.002),
			Profit:       (s.rng.Float64() - 0.5) * 100,
			OpenedAt:     now - int64(s.rng.Intn(3600_000)),
		})
	}

	drawdown := 0.0
	if profitPct < 0 {
		drawdown = -profitPct
	}

	return &domain.AccountSample{
		Balance:        balance,
		Equity:         equity,
		Margin:         balance * 0.01 * float64(openPositions),
		FreeMargin:     equity - balance*0.01*float64(openPositions),
		MarginLevel:    100 + s.rng.Float64()*900,
		OpenPositions:  openPositions,
		ProfitAbs:      profitAbs,
		ProfitPct:      profitPct,
		DailyProfitAbs: dailyAbs,
		DailyProfitPct: dailyPct,
		TotalTrades:    openPositions + s.rng.Intn(50),
		MaxDrawdownPct: drawdown,
		Trades:         trades,
		FetchedAt:      now,
	}, nil
}

var _ AccountDataSource = (*RandomSource)(nil)
