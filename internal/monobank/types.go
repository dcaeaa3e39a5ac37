// Package monobank is a thin adapter over the Monobank personal API. It only
// models the two calls the sync engine needs: the client-info snapshot
// (accounts and jars) and the per-account statement window.
package monobank

// ClientInfo is the provider's snapshot of a client: cards under accounts,
// jars separately.
type ClientInfo struct {
	ClientID string  `json:"clientId"`
	Name     string  `json:"name"`
	Accounts []Card  `json:"accounts"`
	Jars     []Jar   `json:"jars"`
}

// Card is one card account as the provider reports it.
type Card struct {
	ID           string   `json:"id"`
	SendID       string   `json:"sendId"`
	Balance      int64    `json:"balance"`
	CreditLimit  int64    `json:"creditLimit"`
	Type         string   `json:"type"`
	CurrencyCode int      `json:"currencyCode"`
	MaskedPan    []string `json:"maskedPan"`
	IBAN         string   `json:"iban"`
}

// Jar is one savings jar. Unlike cards, jars carry a title and a goal.
type Jar struct {
	ID           string `json:"id"`
	SendID       string `json:"sendId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CurrencyCode int    `json:"currencyCode"`
	Balance      int64  `json:"balance"`
	Goal         int64  `json:"goal"`
}

// StatementItem is a single transaction as returned by the statement
// endpoint. Amounts are signed integer minor units; time is unix seconds.
type StatementItem struct {
	ID              string `json:"id"`
	Time            int64  `json:"time"`
	Description     string `json:"description"`
	MCC             int    `json:"mcc"`
	OriginalMCC     int    `json:"originalMcc"`
	Hold            bool   `json:"hold"`
	Amount          int64  `json:"amount"`
	OperationAmount int64  `json:"operationAmount"`
	CurrencyCode    int    `json:"currencyCode"`
	CommissionRate  int64  `json:"commissionRate"`
	CashbackAmount  int64  `json:"cashbackAmount"`
	Balance         int64  `json:"balance"`
	Comment         string `json:"comment"`
}
