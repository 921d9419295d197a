// Package ingest records newly observed trades exactly once.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// Ingestor deduplicates and records trades reported by the platform
// feed. The venue ticket is the dedup key: re-observing the same ticket
// across cycles never creates a duplicate row.
type Ingestor struct {
	trades storage.TradeStore
	logger *log.Logger
	now    func() time.Time
}

// NewIngestor creates a trade ingestor.
func NewIngestor(trades storage.TradeStore, logger *log.Logger) *Ingestor {
	if logger == nil {
		logger = log.Default()
	}
	return &Ingestor{trades: trades, logger: logger, now: time.Now}
}

// WithClock overrides the clock, for deterministic tests.
func (i *Ingestor) WithClock(now func() time.Time) *Ingestor {
	i.now = now
	return i
}

// Ingest inserts each trade absent from the store and returns the count
// of newly recorded trades. A duplicate ticket reported by the feed is
// treated as already-ingested, not as an error.
func (i *Ingestor) Ingest(ctx context.Context, account *domain.Account, trades []domain.PlatformTrade) (int, error) {
	inserted := 0
	now := i.now().UnixMilli()

	for _, pt := range trades {
		// Cheap pre-check; the insert's duplicate mapping below stays the
		// authoritative guard against concurrent writers.
		seen, err := i.trades.ExistsByTicket(ctx, pt.Ticket)
		if err != nil {
			return inserted, fmt.Errorf("check trade %d: %w", pt.Ticket, err)
		}
		if seen {
			continue
		}

		trade := &domain.Trade{
			Ticket:       pt.Ticket,
			AccountID:    account.ID,
			ChallengeID:  account.ChallengeID,
			Symbol:       pt.Symbol,
			Side:         pt.Side,
			Volume:       pt.Volume,
			OpenPrice:    pt.OpenPrice,
			CurrentPrice: pt.CurrentPrice,
			Profit:       pt.Profit,
			Status:       domain.TradeStatusOpen,
			OpenedAt:     pt.OpenedAt,
			CreatedAt:    now,
		}

		if err := i.trades.Insert(ctx, trade); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			return inserted, fmt.Errorf("insert trade %d: %w", pt.Ticket, err)
		}
		inserted++
	}

	if inserted > 0 {
		i.logger.Printf("[ingest] account %s: %d new trade(s)", account.ID, inserted)
	}
	return inserted, nil
}
