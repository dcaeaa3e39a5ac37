package syncer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/dvloznov/mono-mirror/internal/domain"
	"github.com/dvloznov/mono-mirror/internal/logger"
	"github.com/dvloznov/mono-mirror/internal/mapper"
	"github.com/dvloznov/mono-mirror/internal/monobank"
	"github.com/dvloznov/mono-mirror/internal/store"
)

// BankClient is the external banking collaborator as the sync engine sees it.
type BankClient interface {
	ClientInfo(ctx context.Context, token string) (*monobank.ClientInfo, error)
	Statement(ctx context.Context, token, accountID string, from, to int64) ([]monobank.StatementItem, error)
}

// Config carries the sync engine's tuning knobs.
type Config struct {
	// Lookback bounds the first sync of an account with no watermark.
	Lookback time.Duration

	// WindowSpan caps a single statement request's time span.
	WindowSpan time.Duration

	// PageLimit is the provider's per-response item cap; a page of exactly
	// this size is treated as truncated.
	PageLimit int

	// MinRequestInterval spaces provider calls per credential.
	MinRequestInterval time.Duration

	// Concurrency bounds the orchestrator's user fan-out.
	Concurrency int

	Retry RetryPolicy
}

// AccountSyncResult reports one account's sync outcome.
type AccountSyncResult struct {
	AccountID string
	Pages     int
	Upserted  int
	Watermark int64
}

// TransactionSyncer pulls statement windows per account, upserts them
// idempotently, and advances the watermark only after a durable commit.
type TransactionSyncer struct {
	bank  BankClient
	txs   store.TransactionStore
	marks store.SyncStateStore
	cfg   Config

	// now is injectable for tests.
	now func() time.Time
}

// NewTransactionSyncer wires the engine.
func NewTransactionSyncer(bank BankClient, txs store.TransactionStore, marks store.SyncStateStore, cfg Config) *TransactionSyncer {
	return &TransactionSyncer{
		bank:  bank,
		txs:   txs,
		marks: marks,
		cfg:   cfg,
		now:   time.Now,
	}
}

// SyncAccountTransactions syncs one account forward from its watermark.
//
// Windows of at most WindowSpan advance from the watermark toward now. Each
// page is mapped, batch-upserted keyed by transaction id, and only then is
// the watermark set to the newest stored time, so a crash between fetch and
// commit re-delivers the window on the next run instead of losing it. Empty
// windows are walked over until now is reached; the watermark only ever
// moves on committed data.
func (s *TransactionSyncer) SyncAccountTransactions(ctx context.Context, user domain.User, account domain.Account, lim *rate.Limiter) (*AccountSyncResult, error) {
	log := logger.FromContext(ctx).With().
		Str("user_id", user.ID).
		Str("account_id", account.ID).
		Logger()

	now := s.now().Unix()

	watermark, found, err := s.marks.GetWatermark(ctx, user.ID, account.ID)
	if err != nil {
		return nil, fmt.Errorf("SyncAccountTransactions: reading watermark: %w", err)
	}

	cursor := watermark
	if !found {
		cursor = now - int64(s.cfg.Lookback.Seconds())
		log.Debug().Int64("from", cursor).Msg("No watermark yet, starting from lookback bound")
	}

	res := &AccountSyncResult{AccountID: account.ID, Watermark: watermark}

	for cursor < now {
		windowEnd := cursor + int64(s.cfg.WindowSpan.Seconds())
		if windowEnd > now {
			windowEnd = now
		}

		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return res, fmt.Errorf("SyncAccountTransactions: rate limiter: %w", err)
			}
		}

		var items []monobank.StatementItem
		err := s.cfg.Retry.Do(ctx, monobank.Retryable, func() error {
			var ferr error
			items, ferr = s.bank.Statement(ctx, user.Token, account.ID, cursor, windowEnd)
			return ferr
		})
		if err != nil {
			return res, fmt.Errorf("SyncAccountTransactions: fetching statement [%d, %d]: %w", cursor, windowEnd, err)
		}

		if len(items) == 0 {
			if windowEnd >= now {
				log.Debug().Int64("from", cursor).Int64("to", windowEnd).Msg("Empty statement page at the window head, done")
				break
			}
			// Quiet stretch shorter than the full range: hop over it.
			// Only committed data moves the watermark, so the hop is
			// in-memory only and a crash here costs nothing.
			cursor = windowEnd
			continue
		}

		page := mapper.Transactions(user.ID, account.ID, account.Currency, items)
		err = s.cfg.Retry.Do(ctx, alwaysRetryable, func() error {
			return s.txs.BatchUpsertTransactions(ctx, user.ID, account.ID, page)
		})
		if err != nil {
			// Watermark deliberately left behind: the next run re-fetches
			// this window and the keyed upsert absorbs the overlap.
			return res, fmt.Errorf("SyncAccountTransactions: committing page of %d: %w", len(page), err)
		}

		res.Pages++
		res.Upserted += len(page)

		maxTime := items[len(items)-1].Time
		if maxTime > res.Watermark {
			if err := s.marks.SetWatermark(ctx, user.ID, account.ID, maxTime); err != nil {
				return res, fmt.Errorf("SyncAccountTransactions: advancing watermark: %w", err)
			}
			res.Watermark = maxTime
		}

		truncated := s.cfg.PageLimit > 0 && len(items) >= s.cfg.PageLimit
		if truncated {
			// The window holds more items than one response carries;
			// re-request forward from the newest stored time. A full page
			// pinned entirely to the cursor second cannot page further,
			// so step past that second.
			if maxTime > cursor {
				cursor = maxTime
			} else {
				cursor = maxTime + 1
			}
			continue
		}
		if windowEnd >= now {
			break
		}
		cursor = windowEnd
	}

	log.Info().
		Int("pages", res.Pages).
		Int("upserted", res.Upserted).
		Int64("watermark", res.Watermark).
		Msg("Account transaction sync finished")

	return res, nil
}
