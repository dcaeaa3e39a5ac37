package domain

// Transaction is one canonical statement item stored under
// users/{uid}/accounts/{aid}/transactions. The document ID is the provider
// statement-item id, which makes re-ingesting the same item an idempotent
// upsert rather than a duplicate.
//
// UserID and AccountID are denormalized onto the document so day-level report
// queries can run as a single collection-group query across all of a user's
// accounts.
type Transaction struct {
	ID        string `firestore:"-" json:"id"`
	UserID    string `firestore:"user_id" json:"user_id"`
	AccountID string `firestore:"account_id" json:"account_id"`

	// Time is the provider's unix timestamp for the item.
	Time        int64  `firestore:"time" json:"time"`
	Description string `firestore:"description,omitempty" json:"description,omitempty"`

	// Amount is signed, in integer minor units: negative = spend,
	// positive = earn. The sign is preserved exactly as the provider
	// reported it.
	Amount          int64 `firestore:"amount" json:"amount"`
	OperationAmount int64 `firestore:"operation_amount,omitempty" json:"operation_amount,omitempty"`
	CommissionRate  int64 `firestore:"commission_rate,omitempty" json:"commission_rate,omitempty"`
	CashbackAmount  int64 `firestore:"cashback_amount,omitempty" json:"cashback_amount,omitempty"`

	// Balance is the account's running balance after this item.
	Balance int64 `firestore:"balance" json:"balance"`

	// Hold marks an in-flight authorization. Held items are excluded from
	// coverage until the provider settles them.
	Hold bool `firestore:"hold" json:"hold"`

	Currency Currency `firestore:"currency" json:"currency"`
	MCC      int      `firestore:"mcc_code,omitempty" json:"mcc_code,omitempty"`
	Comment  string   `firestore:"comment,omitempty" json:"comment,omitempty"`
}

// IsSpend reports whether the item moves money out of the account.
func (t Transaction) IsSpend() bool {
	return t.Amount < 0
}

// IsEarn reports whether the item moves money into the account.
func (t Transaction) IsEarn() bool {
	return t.Amount > 0
}

// Magnitude is the absolute amount in minor units.
func (t Transaction) Magnitude() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}
