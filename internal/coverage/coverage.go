// Package coverage computes the daily reconciliation facts: which spends
// were covered by the day's income and which were not.
//
// Allocation is a deterministic greedy FIFO: earns form a pool of slices in
// time order, and each spend consumes the earliest slices with remaining
// amount until fully allocated or the pool runs dry. This models "today's
// spending is covered by today's income as it arrives" and is reproducible
// from the raw transactions alone, so the report is derived on demand rather
// than stored.
package coverage

import (
	"sort"

	"github.com/dvloznov/mono-mirror/internal/domain"
)

// ReasonInsufficientIncome marks spends the earn pool could not fully cover.
const ReasonInsufficientIncome = "insufficient_income"

// Source is one earn contribution to a spend, in allocation order.
type Source struct {
	TxID   string `json:"tx_id"`
	Amount int64  `json:"amount_cents"`
}

// SpendCoverage is the per-spend coverage record.
type SpendCoverage struct {
	TxID        string `json:"tx_id"`
	Time        int64  `json:"time"`
	Description string `json:"description,omitempty"`

	// Amount is the spend's magnitude (absolute value, minor units).
	Amount int64 `json:"amount_cents"`

	Covered         bool     `json:"covered"`
	CoveredAmount   int64    `json:"covered_cents"`
	UncoveredAmount int64    `json:"uncovered_cents"`
	Sources         []Source `json:"sources"`
	Reason          string   `json:"reason,omitempty"`
}

// EarnLine is one income transaction with its post-allocation remainder.
type EarnLine struct {
	TxID        string `json:"tx_id"`
	Time        int64  `json:"time"`
	Description string `json:"description,omitempty"`
	Amount      int64  `json:"amount_cents"`
	Remaining   int64  `json:"remaining_cents"`
}

// Totals are the day's aggregates. SpendTotal is a sum of magnitudes,
// Net = EarnTotal - SpendTotal (signed).
type Totals struct {
	SpendTotal int64 `json:"spend_total"`
	EarnTotal  int64 `json:"earn_total"`
	Net        int64 `json:"net"`
}

// Report is the structured fact set handed to renderers.
type Report struct {
	UserID   string `json:"user_id"`
	Date     string `json:"date"`
	Timezone string `json:"timezone"`

	Totals Totals          `json:"totals"`
	Spends []SpendCoverage `json:"spends"`
	Earns  []EarnLine      `json:"earns"`
}

// byTimeThenID is the deterministic ordering used on both partitions.
func byTimeThenID(txs []domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Time != txs[j].Time {
			return txs[i].Time < txs[j].Time
		}
		return txs[i].ID < txs[j].ID
	})
}

// Allocate runs the greedy FIFO allocation over one day's transactions.
// Held items are excluded on both sides. The same input always produces the
// same output, down to the order of sources.
func Allocate(txs []domain.Transaction) ([]SpendCoverage, []EarnLine) {
	var spends, earns []domain.Transaction
	for _, tx := range txs {
		if tx.Hold {
			continue
		}
		switch {
		case tx.IsSpend():
			spends = append(spends, tx)
		case tx.IsEarn():
			earns = append(earns, tx)
		}
	}
	byTimeThenID(spends)
	byTimeThenID(earns)

	// The pool: one slice per earn, consumed front to back.
	lines := make([]EarnLine, len(earns))
	for i, e := range earns {
		lines[i] = EarnLine{
			TxID:        e.ID,
			Time:        e.Time,
			Description: e.Description,
			Amount:      e.Amount,
			Remaining:   e.Amount,
		}
	}

	out := make([]SpendCoverage, 0, len(spends))
	next := 0 // first slice that may still have remaining amount
	for _, s := range spends {
		rec := SpendCoverage{
			TxID:        s.ID,
			Time:        s.Time,
			Description: s.Description,
			Amount:      s.Magnitude(),
			Sources:     []Source{},
		}

		need := rec.Amount
		for need > 0 && next < len(lines) {
			slice := &lines[next]
			if slice.Remaining == 0 {
				next++
				continue
			}
			take := need
			if slice.Remaining < take {
				take = slice.Remaining
			}
			slice.Remaining -= take
			need -= take
			rec.Sources = append(rec.Sources, Source{TxID: slice.TxID, Amount: take})
		}

		rec.CoveredAmount = rec.Amount - need
		rec.UncoveredAmount = need
		rec.Covered = need == 0
		if !rec.Covered {
			rec.Reason = ReasonInsufficientIncome
		}
		out = append(out, rec)
	}

	return out, lines
}
