package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvloznov/mono-mirror/internal/domain"
	"github.com/dvloznov/mono-mirror/internal/monobank"
	"github.com/dvloznov/mono-mirror/internal/store/memory"
)

func newOrchestrator(st *memory.Store, bank *fakeBank) *Orchestrator {
	cfg := testConfig()
	engine := NewTransactionSyncer(bank, st, st, cfg)
	engine.now = fixedNow
	return NewOrchestrator(st, st, bank, engine, cfg)
}

func TestRunAccountSync_IsolatesUserFailures(t *testing.T) {
	st := memory.NewStore()
	st.SeedUser(domain.User{ID: "u1", Active: true, Token: "tok-good"})
	st.SeedUser(domain.User{ID: "u2", Active: true, Token: "tok-revoked"})
	st.SeedUser(domain.User{ID: "u3", Active: true}) // no credential

	bank := &fakeBank{
		info: map[string]*monobank.ClientInfo{
			"tok-good": {
				Accounts: []monobank.Card{{ID: "acc1", CurrencyCode: 980, Balance: 100000}},
				Jars:     []monobank.Jar{{ID: "jar1", CurrencyCode: 980, Title: "Deposit", Balance: 5000}},
			},
		},
		infoErr: map[string]error{"tok-revoked": monobank.ErrUnauthorized},
		items: map[string][]monobank.StatementItem{
			"acc1": {{ID: "t1", Time: nowUnix - 100, Amount: -4200, Balance: 95800}},
		},
	}

	summary, err := newOrchestrator(st, bank).RunAccountSync(context.Background())
	require.NoError(t, err, "per-user failures must not escape the summary")

	require.Len(t, summary.Users, 3)
	require.Equal(t, 1, summary.SucceededUsers)
	require.Equal(t, 2, summary.FailedUsers)
	require.Equal(t, 2, summary.AccountsSynced)
	require.Equal(t, 1, summary.TransactionsSynced)
	require.NotEmpty(t, summary.RunID)

	byUser := make(map[string]UserSyncResult)
	for _, r := range summary.Users {
		byUser[r.UserID] = r
	}
	require.False(t, byUser["u1"].Failed())
	require.True(t, byUser["u2"].Failed())
	require.Contains(t, byUser["u3"].Error, "credential")

	// The failed users' work must not have blocked u1's accounts.
	accounts, err := st.ListAccounts(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
}

func TestRunAccountSync_PreservesAppOwnedFields(t *testing.T) {
	st := memory.NewStore()
	st.SeedUser(domain.User{ID: "u1", Active: true, Token: "tok"})

	// The jar already exists with app-owned flags set through the
	// accounts API.
	require.NoError(t, st.BatchUpsertAccounts(context.Background(), "u1", []domain.Account{
		{ID: "jar1", UserID: "u1", Type: domain.AccountTypeJar, IsBudget: true, Invested: 120000, Balance: 1},
	}))

	bank := &fakeBank{
		info: map[string]*monobank.ClientInfo{
			"tok": {Jars: []monobank.Jar{{ID: "jar1", CurrencyCode: 980, Title: "Deposit", Balance: 99999}}},
		},
	}

	_, err := newOrchestrator(st, bank).RunAccountSync(context.Background())
	require.NoError(t, err)

	acc, err := st.GetAccount(context.Background(), "u1", "jar1")
	require.NoError(t, err)
	require.True(t, acc.IsBudget, "is_budget must survive the sync cycle")
	require.Equal(t, int64(120000), acc.Invested)
	require.Equal(t, int64(99999), acc.Balance, "provider-owned balance must refresh")
}

// failingDirectory cannot enumerate users at all.
type failingDirectory struct {
	*memory.Store
}

func (f *failingDirectory) ListActiveUsers(context.Context) ([]domain.User, error) {
	return nil, errors.New("directory offline")
}

func TestRunAccountSync_UserListingFailureIsFatal(t *testing.T) {
	st := memory.NewStore()
	cfg := testConfig()
	engine := NewTransactionSyncer(&fakeBank{}, st, st, cfg)
	o := NewOrchestrator(&failingDirectory{st}, st, &fakeBank{}, engine, cfg)

	summary, err := o.RunAccountSync(context.Background())
	require.Error(t, err)
	require.Nil(t, summary)
}

func TestRunAccountSync_AccountFailureDoesNotAbortSiblings(t *testing.T) {
	st := memory.NewStore()
	st.SeedUser(domain.User{ID: "u1", Active: true, Token: "tok"})

	// acc1's statement always rate-limits; acc2 syncs fine. Card order in
	// client-info is acc1 then acc2.
	bank := &fakeBank{
		info: map[string]*monobank.ClientInfo{
			"tok": {Accounts: []monobank.Card{
				{ID: "acc1", CurrencyCode: 980},
				{ID: "acc2", CurrencyCode: 980},
			}},
		},
		items: map[string][]monobank.StatementItem{
			"acc2": {{ID: "t1", Time: nowUnix - 10, Amount: 1500, Balance: 1500}},
		},
		statementErrs: []error{
			monobank.ErrRateLimited, monobank.ErrRateLimited, monobank.ErrRateLimited,
		},
	}

	summary, err := newOrchestrator(st, bank).RunAccountSync(context.Background())
	require.NoError(t, err)

	r := summary.Users[0]
	require.True(t, r.Failed())
	require.Equal(t, 1, r.FailedAccounts)
	require.Equal(t, 1, r.Transactions, "acc2 must still sync after acc1 fails")
	require.Equal(t, 1, st.TransactionCount("u1", "acc2"))
}
