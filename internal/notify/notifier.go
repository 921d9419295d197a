// Package notify delivers profit-target-achieved events. Delivery is
// fire-and-forget: a failing sink never fails a monitoring cycle.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// ProfitTargetEvent describes a profit target being met or exceeded.
type ProfitTargetEvent struct {
	ChallengeID string
	AccountID   string
	Phase       int
	TargetPct   float64
	ProfitPct   float64
	OccurredAt  time.Time
}

// Notifier receives profit-target events.
type Notifier interface {
	ProfitTarget(ctx context.Context, e ProfitTargetEvent) error
}

// Console writes events to a writer, one line per event.
type Console struct {
	out io.Writer
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// ProfitTarget prints the event.
func (c *Console) ProfitTarget(_ context.Context, e ProfitTargetEvent) error {
	_, err := fmt.Fprintf(c.out, "[%s] challenge %s phase %d hit profit target: %.2f%% >= %.2f%%\n",
		e.OccurredAt.Format("15:04:05"), e.ChallengeID, e.Phase, e.ProfitPct, e.TargetPct)
	return err
}

// Noop discards all events.
type Noop struct{}

// ProfitTarget does nothing.
func (Noop) ProfitTarget(context.Context, ProfitTargetEvent) error { return nil }

var (
	_ Notifier = (*Console)(nil)
	_ Notifier = Noop{}
)
