// Package mapper translates provider payloads into canonical records. All
// functions are pure: the same input always produces the same output, which
// is what makes the store's keyed upserts idempotent.
package mapper

import (
	"github.com/dvloznov/mono-mirror/internal/domain"
	"github.com/dvloznov/mono-mirror/internal/monobank"
)

// Card maps a provider card onto a canonical account. When an existing
// record is given, the app-owned fields (is_budget, invested) carry over
// unchanged; the sync path never sets them. Provider-owned fields are always
// taken from the payload.
func Card(userID string, c monobank.Card, existing *domain.Account) domain.Account {
	acc := domain.Account{
		ID:       c.ID,
		UserID:   userID,
		Type:     domain.AccountTypeCard,
		SendID:   c.SendID,
		Currency: CurrencyFromCode(c.CurrencyCode),
		Balance:  c.Balance,
		Active:   true,
	}
	mergeAppOwned(&acc, existing)
	return acc
}

// Jar maps a provider jar onto a canonical account, carrying the jar-only
// provider fields (title, goal) and merging app-owned fields as Card does.
func Jar(userID string, j monobank.Jar, existing *domain.Account) domain.Account {
	acc := domain.Account{
		ID:       j.ID,
		UserID:   userID,
		Type:     domain.AccountTypeJar,
		SendID:   j.SendID,
		Currency: CurrencyFromCode(j.CurrencyCode),
		Balance:  j.Balance,
		Title:    j.Title,
		Goal:     j.Goal,
		Active:   true,
	}
	mergeAppOwned(&acc, existing)
	return acc
}

// mergeAppOwned is the fetch-then-merge step: a sync cycle that did not
// explicitly set is_budget or invested must leave them exactly as stored.
func mergeAppOwned(acc *domain.Account, existing *domain.Account) {
	if existing == nil {
		return
	}
	acc.IsBudget = existing.IsBudget
	acc.Invested = existing.Invested
}

// AccountsFromClientInfo maps a full client-info snapshot, looking each
// provider id up in the existing-by-id map for the app-owned merge. Cards
// come first, then jars, matching the provider's own ordering.
func AccountsFromClientInfo(userID string, info *monobank.ClientInfo, existing map[string]domain.Account) []domain.Account {
	out := make([]domain.Account, 0, len(info.Accounts)+len(info.Jars))
	for _, c := range info.Accounts {
		out = append(out, Card(userID, c, lookup(existing, c.ID)))
	}
	for _, j := range info.Jars {
		out = append(out, Jar(userID, j, lookup(existing, j.ID)))
	}
	return out
}

func lookup(existing map[string]domain.Account, id string) *domain.Account {
	if acc, ok := existing[id]; ok {
		return &acc
	}
	return nil
}

// Transaction maps one statement item 1:1 onto a canonical transaction. The
// provider id becomes the document id, the sign and minor-unit scale are
// preserved, and the owning account's currency is denormalized onto the
// record (the statement endpoint reports items in the account's currency).
func Transaction(userID, accountID string, cur domain.Currency, it monobank.StatementItem) domain.Transaction {
	return domain.Transaction{
		ID:              it.ID,
		UserID:          userID,
		AccountID:       accountID,
		Time:            it.Time,
		Description:     it.Description,
		Amount:          it.Amount,
		OperationAmount: it.OperationAmount,
		CommissionRate:  it.CommissionRate,
		CashbackAmount:  it.CashbackAmount,
		Balance:         it.Balance,
		Hold:            it.Hold,
		Currency:        cur,
		MCC:             it.MCC,
		Comment:         it.Comment,
	}
}

// Transactions maps a statement page in order.
func Transactions(userID, accountID string, cur domain.Currency, items []monobank.StatementItem) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(items))
	for _, it := range items {
		out = append(out, Transaction(userID, accountID, cur, it))
	}
	return out
}
