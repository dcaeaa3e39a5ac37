package coverage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/mono-mirror/internal/logger"
	"github.com/dvloznov/mono-mirror/internal/store"
)

// Engine computes daily coverage reports from the transaction store. It is
// read-only and stateless across invocations; concurrent report requests
// need no coordination.
type Engine struct {
	txs store.TransactionStore
}

// NewEngine wires the engine.
func NewEngine(txs store.TransactionStore) *Engine {
	return &Engine{txs: txs}
}

// ComputeDailyCoverage builds the report for one calendar day in the given
// timezone. The window is [00:00:00, 23:59:59] local, inclusive.
func (e *Engine) ComputeDailyCoverage(ctx context.Context, userID string, date civil.Date, loc *time.Location) (*Report, error) {
	start := time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Second)

	txs, err := e.txs.ListTransactionsByTimeRange(ctx, userID, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("ComputeDailyCoverage: reading transactions for %s on %s: %w", userID, date, err)
	}

	spends, earns := Allocate(txs)

	var totals Totals
	for _, s := range spends {
		totals.SpendTotal += s.Amount
	}
	for _, e := range earns {
		totals.EarnTotal += e.Amount
	}
	totals.Net = totals.EarnTotal - totals.SpendTotal

	log := logger.FromContext(ctx)
	log.Debug().
		Str("user_id", userID).
		Str("date", date.String()).
		Int("spends", len(spends)).
		Int("earns", len(earns)).
		Int64("net", totals.Net).
		Msg("Computed daily coverage")

	return &Report{
		UserID:   userID,
		Date:     date.String(),
		Timezone: loc.String(),
		Totals:   totals,
		Spends:   spends,
		Earns:    earns,
	}, nil
}
