package memory

import (
	"context"
	"errors"
	"testing"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

func TestTradeStore_InsertAndGet(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trade := &domain.Trade{
		Ticket:      100001,
		AccountID:   "acc-1",
		ChallengeID: "ch-1",
		Symbol:      "EURUSD",
		Side:        domain.TradeSideBuy,
		Volume:      0.5,
		OpenPrice:   1.0850,
		Profit:      12.40,
		Status:      domain.TradeStatusOpen,
		OpenedAt:    1000,
	}

	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByChallengeID(ctx, "ch-1")
	if err != nil {
		t.Fatalf("GetByChallengeID failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(got))
	}
	if got[0].Ticket != 100001 {
		t.Errorf("Ticket mismatch: got %d, want 100001", got[0].Ticket)
	}
}

func TestTradeStore_DuplicateTicket(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trade := &domain.Trade{Ticket: 42, AccountID: "acc-1", ChallengeID: "ch-1"}
	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, trade)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeStore_ExistsByTicket(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	exists, err := store.ExistsByTicket(ctx, 7)
	if err != nil {
		t.Fatalf("ExistsByTicket failed: %v", err)
	}
	if exists {
		t.Error("Expected ticket 7 to not exist")
	}

	if err := store.Insert(ctx, &domain.Trade{Ticket: 7, ChallengeID: "ch-1"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	exists, err = store.ExistsByTicket(ctx, 7)
	if err != nil {
		t.Fatalf("ExistsByTicket failed: %v", err)
	}
	if !exists {
		t.Error("Expected ticket 7 to exist")
	}
}

func TestTradeStore_Ordering(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trades := []*domain.Trade{
		{Ticket: 3, ChallengeID: "ch-1", OpenedAt: 300},
		{Ticket: 1, ChallengeID: "ch-1", OpenedAt: 100},
		{Ticket: 2, ChallengeID: "ch-1", OpenedAt: 200},
	}
	for _, tr := range trades {
		if err := store.Insert(ctx, tr); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByChallengeID(ctx, "ch-1")
	if err != nil {
		t.Fatalf("GetByChallengeID failed: %v", err)
	}
	for i, want := range []int64{1, 2, 3} {
		if got[i].Ticket != want {
			t.Errorf("Position %d: got ticket %d, want %d", i, got[i].Ticket, want)
		}
	}
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Trade{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero ticket, got %v", err)
	}
}
