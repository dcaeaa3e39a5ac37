// Command sync runs one account-and-transaction sync batch over every active
// user. It is meant to be invoked by a scheduler (Cloud Scheduler, cron); the
// process exits when the batch completes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/mono-mirror/internal/config"
	"github.com/dvloznov/mono-mirror/internal/logger"
	"github.com/dvloznov/mono-mirror/internal/monobank"
	fsstore "github.com/dvloznov/mono-mirror/internal/store/firestore"
	"github.com/dvloznov/mono-mirror/internal/syncer"
)

func main() {
	log := logger.New("syncd")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	store, err := fsstore.NewStore(ctx, cfg.FirestoreProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Firestore")
	}
	defer store.Close()

	bank := monobank.NewClient(cfg.MonoAPIURL, cfg.RequestTimeout)

	syncCfg := syncer.Config{
		Lookback:           time.Duration(cfg.SyncLookbackDays) * 24 * time.Hour,
		WindowSpan:         time.Duration(cfg.SyncWindowDays) * 24 * time.Hour,
		PageLimit:          cfg.StatementPageLimit,
		MinRequestInterval: cfg.MinRequestInterval,
		Concurrency:        cfg.SyncConcurrency,
		Retry: syncer.RetryPolicy{
			MaxAttempts:    cfg.RetryMaxAttempts,
			InitialBackoff: cfg.RetryInitialBackoff,
			MaxBackoff:     cfg.RetryMaxBackoff,
		},
	}

	engine := syncer.NewTransactionSyncer(bank, store, store, syncCfg)
	orchestrator := syncer.NewOrchestrator(store, store, bank, engine, syncCfg)

	summary, err := orchestrator.RunAccountSync(ctx)
	if err != nil {
		// Only a global input failure lands here; per-user errors are in
		// the summary.
		log.Fatal().Err(err).Msg("Sync run failed")
	}

	for _, r := range summary.Users {
		event := log.Info()
		if r.Failed() {
			event = log.Warn().Str("error", r.Error)
		}
		event.
			Str("run_id", summary.RunID).
			Str("user_id", r.UserID).
			Int("accounts", r.Accounts).
			Int("transactions", r.Transactions).
			Msg("User sync result")
	}

	if summary.FailedUsers > 0 {
		os.Exit(1)
	}
}
