package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"challenge-monitor/internal/config"
	"challenge-monitor/internal/notify"
	"challenge-monitor/internal/observability"
	"challenge-monitor/internal/orchestrator"
	"challenge-monitor/internal/platform"
	"challenge-monitor/internal/storage"
	chstore "challenge-monitor/internal/storage/clickhouse"
	"challenge-monitor/internal/storage/memory"
	"challenge-monitor/internal/storage/migrations"
	pgstore "challenge-monitor/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	accountID := flag.String("account-id", "", "Monitor a single account")
	challengeID := flag.String("challenge-id", "", "Monitor the active account of a single challenge")
	once := flag.Bool("once", false, "Run one cycle and exit, regardless of configured interval")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for the random data source")

	flag.Parse()

	logger := log.New(os.Stdout, "[monitor] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	metrics := observability.NewMetrics("challenge_monitor")

	// Start metrics server if enabled
	if cfg.Server.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.Server.Addr)
			if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = run(ctx, logger, cfg, metrics, *accountID, *challengeID, *once, *seed)

	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// run wires the stores, the data source and the orchestrator, then
// executes one cycle or loops on the configured interval.
func run(ctx context.Context, logger *log.Logger, cfg *config.Config, metrics *observability.Metrics, accountID, challengeID string, once bool, seed int64) error {
	stores, cleanup, err := buildStores(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	source, sourceClose, err := buildSource(ctx, logger, cfg, seed)
	if err != nil {
		return err
	}
	defer sourceClose()

	orch := orchestrator.New(orchestrator.Options{
		AccountStore:     stores.accounts,
		ChallengeStore:   stores.challenges,
		SnapshotStore:    stores.snapshots,
		TradeStore:       stores.trades,
		ViolationStore:   stores.violations,
		AnalyticsStore:   stores.analytics,
		MonitorLogStore:  stores.monitorLog,
		EquityPointStore: stores.equity,
		Source:           source,
		Notifier:         notify.NewConsole(),
		Metrics:          metrics,
		BatchSize:        cfg.Monitor.BatchSize,
		Logger:           logger,
	})

	selector := orchestrator.Selector{AccountID: accountID, ChallengeID: challengeID}

	interval := cfg.Interval()
	if once || interval <= 0 {
		return runCycle(ctx, logger, orch, selector)
	}

	logger.Printf("Monitoring every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := runCycle(ctx, logger, orch, selector); err != nil {
		logger.Printf("Cycle error: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := runCycle(ctx, logger, orch, selector); err != nil {
				logger.Printf("Cycle error: %v", err)
			}
		}
	}
}

// runCycle executes one monitoring run and logs its report.
func runCycle(ctx context.Context, logger *log.Logger, orch *orchestrator.Orchestrator, selector orchestrator.Selector) error {
	report, err := orch.Run(ctx, selector)
	if err != nil {
		return err
	}

	failures := 0
	for _, r := range report.Results {
		if !r.Success {
			failures++
			logger.Printf("Account %s failed: %s", r.AccountID, r.Err)
		}
	}
	logger.Printf("Cycle done: %d accounts, %d failures", report.AccountsMonitored, failures)
	return nil
}

// storeSet groups every store the orchestrator needs.
type storeSet struct {
	accounts   storage.AccountStore
	challenges storage.ChallengeStore
	snapshots  storage.SnapshotStore
	trades     storage.TradeStore
	violations storage.ViolationStore
	analytics  storage.AnalyticsStore
	monitorLog storage.MonitorLogStore
	equity     storage.EquityPointStore // nil unless ClickHouse is configured
}

// buildStores creates the configured storage backend, running migrations
// for the SQL-backed drivers.
func buildStores(ctx context.Context, logger *log.Logger, cfg *config.Config) (*storeSet, func(), error) {
	cleanup := func() {}

	var stores *storeSet
	switch cfg.Storage.Driver {
	case "memory":
		stores = &storeSet{
			accounts:   memory.NewAccountStore(),
			challenges: memory.NewChallengeStore(),
			snapshots:  memory.NewSnapshotStore(),
			trades:     memory.NewTradeStore(),
			violations: memory.NewViolationStore(),
			analytics:  memory.NewAnalyticsStore(),
			monitorLog: memory.NewMonitorLogStore(),
		}

	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("storage driver postgres requires postgres_dsn")
		}
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		cleanup = pool.Close
		stores = &storeSet{
			accounts:   pgstore.NewAccountStore(pool),
			challenges: pgstore.NewChallengeStore(pool),
			snapshots:  pgstore.NewSnapshotStore(pool),
			trades:     pgstore.NewTradeStore(pool),
			violations: pgstore.NewViolationStore(pool),
			analytics:  pgstore.NewAnalyticsStore(pool),
			monitorLog: pgstore.NewMonitorLogStore(pool),
		}

	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	// Optional ClickHouse equity-curve sink, independent of the driver.
	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		stores.equity = chstore.NewEquityPointStore(conn)

		prevCleanup := cleanup
		cleanup = func() {
			if err := conn.Close(); err != nil {
				logger.Printf("Close clickhouse: %v", err)
			}
			prevCleanup()
		}
	}

	return stores, cleanup, nil
}

// buildSource creates the configured account data source.
func buildSource(ctx context.Context, logger *log.Logger, cfg *config.Config, seed int64) (platform.AccountDataSource, func(), error) {
	switch cfg.Platform.Source {
	case "random":
		return platform.NewRandomSource(seed), func() {}, nil

	case "http":
		if cfg.Platform.HTTPBase == "" {
			return nil, nil, fmt.Errorf("platform source http requires http_base")
		}
		source := platform.NewHTTPSource(cfg.Platform.HTTPBase, &platform.HTTPSourceConfig{
			RequestsPerSecond: cfg.Platform.RateLimit,
		})
		return source, func() {}, nil

	case "ws":
		if cfg.Platform.WSURL == "" {
			return nil, nil, fmt.Errorf("platform source ws requires ws_url")
		}
		source, err := platform.NewWSSource(ctx, cfg.Platform.WSURL, nil, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect platform stream: %w", err)
		}
		return source, func() { source.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown platform source: %s", cfg.Platform.Source)
	}
}
