// Package memory implements the store gateways in process memory. It backs
// the test suites and makes local runs possible without a Firestore project.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dvloznov/mono-mirror/internal/domain"
	"github.com/dvloznov/mono-mirror/internal/store"
)

// Store is a mutex-guarded in-memory document store, partitioned the same way
// as the Firestore layout: per user, per account.
type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	accounts map[string]map[string]domain.Account            // userID -> accountID
	txs      map[string]map[string]map[string]domain.Transaction // userID -> accountID -> txID
	marks    map[string]map[string]int64                     // userID -> accountID
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		accounts: make(map[string]map[string]domain.Account),
		txs:      make(map[string]map[string]map[string]domain.Transaction),
		marks:    make(map[string]map[string]int64),
	}
}

// SeedUser inserts or replaces a user document.
func (s *Store) SeedUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// ListActiveUsers returns active users sorted by id for a stable iteration
// order.
func (s *Store) ListActiveUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []domain.User
	for _, u := range s.users {
		if u.Active {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// GetAccount fetches one account, or store.ErrNotFound.
func (s *Store) GetAccount(_ context.Context, userID, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[userID][accountID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &acc, nil
}

// ListAccounts returns the user's accounts sorted by id.
func (s *Store) ListAccounts(_ context.Context, userID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var accounts []domain.Account
	for _, acc := range s.accounts[userID] {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// BatchUpsertAccounts stores the accounts keyed by id.
func (s *Store) BatchUpsertAccounts(_ context.Context, userID string, accounts []domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accounts[userID] == nil {
		s.accounts[userID] = make(map[string]domain.Account)
	}
	for _, acc := range accounts {
		s.accounts[userID][acc.ID] = acc
	}
	return nil
}

// BatchUpsertTransactions stores the page keyed by transaction id.
func (s *Store) BatchUpsertTransactions(_ context.Context, userID, accountID string, txs []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.txs[userID] == nil {
		s.txs[userID] = make(map[string]map[string]domain.Transaction)
	}
	if s.txs[userID][accountID] == nil {
		s.txs[userID][accountID] = make(map[string]domain.Transaction)
	}
	for _, tx := range txs {
		s.txs[userID][accountID][tx.ID] = tx
	}
	return nil
}

// ListTransactionsByTimeRange returns the user's transactions across all
// accounts with from <= time <= to, ordered by time then id.
func (s *Store) ListTransactionsByTimeRange(_ context.Context, userID string, from, to int64) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Transaction
	for _, byAccount := range s.txs[userID] {
		for _, tx := range byAccount {
			if tx.Time >= from && tx.Time <= to {
				out = append(out, tx)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetWatermark returns the stored watermark for the account, if any.
func (s *Store) GetWatermark(_ context.Context, userID, accountID string) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.marks[userID][accountID]
	return ts, ok, nil
}

// SetWatermark stores the watermark for the account.
func (s *Store) SetWatermark(_ context.Context, userID, accountID string, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.marks[userID] == nil {
		s.marks[userID] = make(map[string]int64)
	}
	s.marks[userID][accountID] = ts
	return nil
}

// TransactionCount reports how many transactions are stored for the account.
// Test helper.
func (s *Store) TransactionCount(userID, accountID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs[userID][accountID])
}
