package domain

// AccountType distinguishes the two provider account sub-types. Jars carry
// goal/budget semantics, cards do not.
type AccountType string

const (
	AccountTypeJar  AccountType = "jar"
	AccountTypeCard AccountType = "card"
)

// Currency is the denormalized currency descriptor stored on accounts and
// transactions so documents are renderable without a lookup table.
type Currency struct {
	Code   int    `firestore:"code" json:"code"`
	Name   string `firestore:"name" json:"name"`
	Symbol string `firestore:"symbol" json:"symbol"`
	Flag   string `firestore:"flag" json:"flag"`
}

// Account is one canonical account document under users/{uid}/accounts.
// The document ID is the provider-assigned account id.
//
// Provider-owned fields (type, send_id, currency, balance, title, goal) are
// overwritten on every sync. App-owned fields (is_budget, invested) are set
// through the accounts API only and must survive any number of re-syncs; the
// mapper merges them from the existing document before upsert.
type Account struct {
	ID     string      `firestore:"-" json:"id"`
	UserID string      `firestore:"user_id" json:"user_id"`
	Type   AccountType `firestore:"type" json:"type"`
	SendID string      `firestore:"send_id,omitempty" json:"send_id,omitempty"`

	Currency Currency `firestore:"currency" json:"currency"`

	// Balance is in integer minor units (e.g. kopiykas), as everywhere else.
	Balance int64 `firestore:"balance" json:"balance"`
	Active  bool  `firestore:"is_active" json:"is_active"`

	// Jar-only, provider-owned.
	Title string `firestore:"title,omitempty" json:"title,omitempty"`
	Goal  int64  `firestore:"goal,omitempty" json:"goal,omitempty"`

	// App-owned.
	IsBudget bool  `firestore:"is_budget" json:"is_budget"`
	Invested int64 `firestore:"invested" json:"invested"`
}
