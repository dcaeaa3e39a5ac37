// Package store defines the gateway contracts between the sync/report core
// and the per-user document store. The core depends on these interfaces only;
// Firestore and in-memory implementations live in subpackages.
package store

import (
	"context"
	"errors"

	"github.com/dvloznov/mono-mirror/internal/domain"
)

// ErrNotFound is returned by point lookups for missing documents.
var ErrNotFound = errors.New("store: not found")

// UserDirectory enumerates the users eligible for sync. The set must be
// stable for the duration of one call; the orchestrator lists once per run.
type UserDirectory interface {
	ListActiveUsers(ctx context.Context) ([]domain.User, error)
}

// AccountStore is the gateway to users/{uid}/accounts. BatchUpsert is keyed
// by account id and must be idempotent per key.
type AccountStore interface {
	GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	BatchUpsertAccounts(ctx context.Context, userID string, accounts []domain.Account) error
}

// TransactionStore is the gateway to the per-account transaction partitions.
// BatchUpsert is keyed by transaction id: re-upserting an already-stored id
// overwrites provider-owned fields and is never a duplicate.
type TransactionStore interface {
	BatchUpsertTransactions(ctx context.Context, userID, accountID string, txs []domain.Transaction) error

	// ListTransactionsByTimeRange returns all of the user's transactions
	// across every account with from <= time <= to, ordered by time
	// ascending.
	ListTransactionsByTimeRange(ctx context.Context, userID string, from, to int64) ([]domain.Transaction, error)
}

// SyncStateStore tracks the per-(user, account) watermark: the unix time up
// to which the account's history is durably stored. Absent watermark means
// the account has never completed a page commit.
type SyncStateStore interface {
	GetWatermark(ctx context.Context, userID, accountID string) (int64, bool, error)
	SetWatermark(ctx context.Context, userID, accountID string, ts int64) error
}
