package syncer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/dvloznov/mono-mirror/internal/domain"
	"github.com/dvloznov/mono-mirror/internal/logger"
	"github.com/dvloznov/mono-mirror/internal/mapper"
	"github.com/dvloznov/mono-mirror/internal/monobank"
	"github.com/dvloznov/mono-mirror/internal/store"
)

// UserSyncResult is one user's slice of the run summary.
type UserSyncResult struct {
	UserID         string `json:"user_id"`
	Accounts       int    `json:"accounts"`
	Transactions   int    `json:"transactions"`
	FailedAccounts int    `json:"failed_accounts,omitempty"`

	// Error is empty on success. Per-account failures are folded in here
	// joined by "; " so the summary stays a flat record.
	Error string `json:"error,omitempty"`
}

// Failed reports whether anything went wrong for this user.
func (r UserSyncResult) Failed() bool { return r.Error != "" }

// SyncSummary is the whole run's outcome. RunAccountSync always returns one
// unless the user listing itself failed; per-user errors never escape it.
type SyncSummary struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Users      []UserSyncResult `json:"users"`

	SucceededUsers     int `json:"succeeded_users"`
	FailedUsers        int `json:"failed_users"`
	AccountsSynced     int `json:"accounts_synced"`
	TransactionsSynced int `json:"transactions_synced"`
}

// Orchestrator drives one bounded sync batch: list active users once, fan out
// per-user work under a concurrency cap, and fold every per-user failure into
// the summary.
type Orchestrator struct {
	users    store.UserDirectory
	accounts store.AccountStore
	bank     BankClient
	engine   *TransactionSyncer
	cfg      Config
}

// NewOrchestrator wires the orchestrator.
func NewOrchestrator(users store.UserDirectory, accounts store.AccountStore, bank BankClient, engine *TransactionSyncer, cfg Config) *Orchestrator {
	return &Orchestrator{
		users:    users,
		accounts: accounts,
		bank:     bank,
		engine:   engine,
		cfg:      cfg,
	}
}

// RunAccountSync syncs accounts and transactions for every active user.
// Only a failure to enumerate users is fatal; everything else lands in the
// summary.
func (o *Orchestrator) RunAccountSync(ctx context.Context) (*SyncSummary, error) {
	log := logger.FromContext(ctx)

	users, err := o.users.ListActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("RunAccountSync: listing active users: %w", err)
	}

	summary := &SyncSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Users:     make([]UserSyncResult, len(users)),
	}

	log.Info().
		Str("run_id", summary.RunID).
		Int("users", len(users)).
		Int("concurrency", o.cfg.Concurrency).
		Msg("Starting account sync run")

	// Per-user work is data-independent; the semaphore only caps our own
	// fan-out. Provider rate limits are per credential and enforced by the
	// per-user limiter inside syncUser.
	sem := semaphore.NewWeighted(int64(o.cfg.Concurrency))
	var wg sync.WaitGroup

	for i, u := range users {
		if err := sem.Acquire(ctx, 1); err != nil {
			summary.Users[i] = UserSyncResult{UserID: u.ID, Error: fmt.Sprintf("canceled before start: %v", err)}
			continue
		}
		wg.Add(1)
		go func(i int, u domain.User) {
			defer wg.Done()
			defer sem.Release(1)
			summary.Users[i] = o.syncUser(ctx, u)
		}(i, u)
	}
	wg.Wait()

	for _, r := range summary.Users {
		if r.Failed() {
			summary.FailedUsers++
		} else {
			summary.SucceededUsers++
		}
		summary.AccountsSynced += r.Accounts
		summary.TransactionsSynced += r.Transactions
	}
	summary.FinishedAt = time.Now().UTC()

	log.Info().
		Str("run_id", summary.RunID).
		Int("succeeded_users", summary.SucceededUsers).
		Int("failed_users", summary.FailedUsers).
		Int("accounts_synced", summary.AccountsSynced).
		Int("transactions_synced", summary.TransactionsSynced).
		Msg("Account sync run finished")

	return summary, nil
}

// syncUser handles one user end to end. Every error is caught here and
// returned inside the result; nothing propagates past the summary boundary.
func (o *Orchestrator) syncUser(ctx context.Context, u domain.User) UserSyncResult {
	log := logger.FromContext(ctx).With().Str("user_id", u.ID).Logger()
	res := UserSyncResult{UserID: u.ID}

	if !u.HasCredential() {
		log.Warn().Msg("Skipping user without provider credential")
		res.Error = "missing provider credential"
		return res
	}

	// One limiter per credential: the provider throttles per token, so two
	// users never contend with each other.
	lim := rate.NewLimiter(rate.Every(o.cfg.MinRequestInterval), 1)

	if err := lim.Wait(ctx); err != nil {
		res.Error = fmt.Sprintf("rate limiter: %v", err)
		return res
	}

	var info *monobank.ClientInfo
	err := o.cfg.Retry.Do(ctx, monobank.Retryable, func() error {
		var ferr error
		info, ferr = o.bank.ClientInfo(ctx, u.Token)
		return ferr
	})
	if err != nil {
		log.Error().Err(err).Msg("Fetching client info failed")
		res.Error = fmt.Sprintf("client info: %v", err)
		return res
	}

	// Fetch-before-merge: app-owned account fields come from the existing
	// documents, never from the provider.
	existingList, err := o.accounts.ListAccounts(ctx, u.ID)
	if err != nil {
		res.Error = fmt.Sprintf("listing stored accounts: %v", err)
		return res
	}
	existing := make(map[string]domain.Account, len(existingList))
	for _, acc := range existingList {
		existing[acc.ID] = acc
	}

	accounts := mapper.AccountsFromClientInfo(u.ID, info, existing)
	if len(accounts) == 0 {
		log.Info().Msg("User has no provider accounts")
		return res
	}

	err = o.cfg.Retry.Do(ctx, alwaysRetryable, func() error {
		return o.accounts.BatchUpsertAccounts(ctx, u.ID, accounts)
	})
	if err != nil {
		res.Error = fmt.Sprintf("upserting accounts: %v", err)
		return res
	}
	res.Accounts = len(accounts)

	// Transaction sync per account, sequential within the user so the
	// credential's limiter is the only pacing. Account failures are
	// isolated: the rest of the user's accounts still sync.
	var accErrs []string
	for _, acc := range accounts {
		r, err := o.engine.SyncAccountTransactions(ctx, u, acc, lim)
		if r != nil {
			res.Transactions += r.Upserted
		}
		if err != nil {
			log.Error().Err(err).Str("account_id", acc.ID).Msg("Account transaction sync failed")
			res.FailedAccounts++
			accErrs = append(accErrs, fmt.Sprintf("%s: %v", acc.ID, err))
		}
	}
	if len(accErrs) > 0 {
		res.Error = strings.Join(accErrs, "; ")
	}

	return res
}
