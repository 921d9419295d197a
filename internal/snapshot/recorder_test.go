package snapshot

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage/memory"
)

func testClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:          "acc-1",
		ChallengeID: "ch-1",
		Balance:     10000,
		Equity:      10000,
		Status:      domain.AccountStatusActive,
	}
}

func testSample() *domain.AccountSample {
	return &domain.AccountSample{
		Balance:        10250,
		Equity:         10300,
		Margin:         500,
		FreeMargin:     9800,
		ProfitPct:      2.5,
		DailyProfitPct: 1.1,
		OpenPositions:  2,
		TotalTrades:    7,
		MaxDrawdownPct: 0.8,
	}
}

func TestRecord(t *testing.T) {
	snapshots := memory.NewSnapshotStore()
	accounts := memory.NewAccountStore()
	ctx := context.Background()

	account := testAccount()
	if err := accounts.Insert(ctx, account); err != nil {
		t.Fatalf("insert account: %v", err)
	}

	recorder := NewRecorder(snapshots, accounts, nil, nil).WithClock(testClock)

	snap, err := recorder.Record(ctx, account, testSample())
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if snap.ID == "" {
		t.Error("snapshot must get an ID")
	}
	if !snap.IsLatest {
		t.Error("new snapshot must be flagged latest")
	}
	if snap.RecordedAt != testClock().UnixMilli() {
		t.Errorf("RecordedAt: got %d, want %d", snap.RecordedAt, testClock().UnixMilli())
	}
	if snap.Balance != 10250 || snap.Equity != 10300 || snap.DrawdownPct != 0.8 {
		t.Errorf("snapshot fields mismatch: %+v", snap)
	}

	stored, err := snapshots.GetLatest(ctx, "ch-1")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if stored.ID != snap.ID {
		t.Errorf("stored latest mismatch: %s vs %s", stored.ID, snap.ID)
	}

	updated, err := accounts.GetByID(ctx, "acc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Balance != 10250 || updated.Equity != 10300 {
		t.Errorf("account balances not refreshed: %+v", updated)
	}
}

func TestRecord_LatestSupersedesPrevious(t *testing.T) {
	snapshots := memory.NewSnapshotStore()
	accounts := memory.NewAccountStore()
	ctx := context.Background()

	account := testAccount()
	if err := accounts.Insert(ctx, account); err != nil {
		t.Fatalf("insert account: %v", err)
	}

	recorder := NewRecorder(snapshots, accounts, nil, nil).WithClock(testClock)

	first, err := recorder.Record(ctx, account, testSample())
	if err != nil {
		t.Fatalf("first Record: %v", err)
	}

	second := testSample()
	second.Balance = 10400
	latest, err := recorder.Record(ctx, account, second)
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}

	stored, err := snapshots.GetLatest(ctx, "ch-1")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if stored.ID != latest.ID {
		t.Errorf("latest must point at second snapshot, got %s", stored.ID)
	}

	all, err := snapshots.GetByChallengeID(ctx, "ch-1")
	if err != nil {
		t.Fatalf("GetByChallengeID: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("history must keep both snapshots, got %d", len(all))
	}
	for _, s := range all {
		if s.ID == first.ID && s.IsLatest {
			t.Error("previous snapshot must lose the latest flag")
		}
	}
}

func TestRecord_EquityPointWritten(t *testing.T) {
	snapshots := memory.NewSnapshotStore()
	accounts := memory.NewAccountStore()
	equity := memory.NewEquityPointStore()
	ctx := context.Background()

	account := testAccount()
	if err := accounts.Insert(ctx, account); err != nil {
		t.Fatalf("insert account: %v", err)
	}

	recorder := NewRecorder(snapshots, accounts, equity, nil).WithClock(testClock)
	if _, err := recorder.Record(ctx, account, testSample()); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	points, err := equity.GetByChallengeID(ctx, "ch-1")
	if err != nil {
		t.Fatalf("GetByChallengeID: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 equity point, got %d", len(points))
	}
	if points[0].Equity != 10300 || points[0].TimestampMs != testClock().UnixMilli() {
		t.Errorf("equity point mismatch: %+v", points[0])
	}
}

type failingEquityStore struct{}

func (failingEquityStore) Insert(context.Context, *domain.EquityPoint) error {
	return errors.New("sink unavailable")
}

func (failingEquityStore) GetByChallengeID(context.Context, string) ([]*domain.EquityPoint, error) {
	return nil, errors.New("sink unavailable")
}

func TestRecord_EquitySinkFailureIsBestEffort(t *testing.T) {
	snapshots := memory.NewSnapshotStore()
	accounts := memory.NewAccountStore()
	ctx := context.Background()

	account := testAccount()
	if err := accounts.Insert(ctx, account); err != nil {
		t.Fatalf("insert account: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	recorder := NewRecorder(snapshots, accounts, failingEquityStore{}, logger).WithClock(testClock)

	if _, err := recorder.Record(ctx, account, testSample()); err != nil {
		t.Fatalf("equity sink failure must not fail Record: %v", err)
	}

	if _, err := snapshots.GetLatest(ctx, "ch-1"); err != nil {
		t.Errorf("snapshot must still be written: %v", err)
	}
}
