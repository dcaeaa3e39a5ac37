package render

import (
	"context"
	"strings"
	"testing"

	"github.com/dvloznov/mono-mirror/internal/coverage"
)

func sampleReport() *coverage.Report {
	return &coverage.Report{
		UserID:   "u1",
		Date:     "2026-03-14",
		Timezone: "UTC",
		Totals:   coverage.Totals{SpendTotal: 70000, EarnTotal: 50000, Net: -20000},
		Spends: []coverage.SpendCoverage{
			{
				TxID: "S1", Time: 36000, Description: "Groceries", Amount: 30000,
				Covered: true, CoveredAmount: 30000,
				Sources: []coverage.Source{{TxID: "E1", Amount: 30000}},
			},
			{
				TxID: "S2", Time: 43200, Amount: 40000,
				CoveredAmount: 20000, UncoveredAmount: 20000,
				Sources: []coverage.Source{{TxID: "E1", Amount: 20000}},
				Reason:  coverage.ReasonInsufficientIncome,
			},
		},
		Earns: []coverage.EarnLine{
			{TxID: "E1", Time: 32400, Description: "Salary", Amount: 50000},
		},
	}
}

func TestMarkdown_Render(t *testing.T) {
	out, err := NewMarkdown().Render(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"Daily transactions report — 2026-03-14 (UTC)",
		"**Total spends**: 700.00 UAH",
		"**Total earnings**: 500.00 UAH",
		"**Net**: -200.00 UAH",
		"✅ **300.00 UAH** — Groceries",
		"❌ **400.00 UAH** — (no description)",
		"Covered by: 200.00 UAH from `E1`",
		"Uncovered: **200.00 UAH** (insufficient_income)",
		"💰 **500.00 UAH** — Salary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestMarkdown_EmptyDay(t *testing.T) {
	report := &coverage.Report{Date: "2026-01-01", Timezone: "UTC"}

	out, err := NewMarkdown().Render(context.Background(), report)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "Spends (0)") || !strings.Contains(out, "Earnings (0)") {
		t.Errorf("empty day sections wrong:\n%s", out)
	}
	if !strings.Contains(out, "**Total spends**: 0.00 UAH") {
		t.Errorf("zero totals wrong:\n%s", out)
	}
}
