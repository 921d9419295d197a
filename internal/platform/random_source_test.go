package platform

import (
	"context"
	"testing"
)

func TestRandomSource_SampleShape(t *testing.T) {
	source := NewRandomSource(42)
	ctx := context.Background()

	sample, err := source.Fetch(ctx, testAccount())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if sample.Balance <= 0 {
		t.Errorf("Balance must be positive, got %f", sample.Balance)
	}
	if sample.Equity <= 0 {
		t.Errorf("Equity must be positive, got %f", sample.Equity)
	}
	if len(sample.Trades) != sample.OpenPositions {
		t.Errorf("Trades/OpenPositions mismatch: %d vs %d", len(sample.Trades), sample.OpenPositions)
	}
	if sample.ProfitPct < 0 && sample.MaxDrawdownPct != -sample.ProfitPct {
		t.Errorf("Drawdown should mirror negative profit: %f vs %f", sample.MaxDrawdownPct, sample.ProfitPct)
	}
}

func TestRandomSource_DeterministicWithSeed(t *testing.T) {
	ctx := context.Background()

	a, err := NewRandomSource(7).Fetch(ctx, testAccount())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	b, err := NewRandomSource(7).Fetch(ctx, testAccount())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if a.Balance != b.Balance || a.Equity != b.Equity {
		t.Error("Same seed must produce the same sample")
	}
}
