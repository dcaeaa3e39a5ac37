package coverage

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/mono-mirror/internal/domain"
	"github.com/dvloznov/mono-mirror/internal/store/memory"
)

func tx(id string, t int64, amount int64) domain.Transaction {
	return domain.Transaction{ID: id, UserID: "u1", AccountID: "acc1", Time: t, Amount: amount}
}

func TestAllocate_PartialCoverageAcrossSpends(t *testing.T) {
	// One earn of 500.00 at 09:00; spends of 300.00 at 10:00 and 400.00 at
	// 12:00. The first spend is fully covered, the second gets the 200.00
	// remainder and stays short by 200.00.
	txs := []domain.Transaction{
		tx("E1", 9*3600, 50000),
		tx("S1", 10*3600, -30000),
		tx("S2", 12*3600, -40000),
	}

	spends, earns := Allocate(txs)

	if len(spends) != 2 {
		t.Fatalf("expected 2 spend records, got %d", len(spends))
	}

	s1 := spends[0]
	if !s1.Covered || s1.CoveredAmount != 30000 || s1.UncoveredAmount != 0 {
		t.Errorf("S1 should be fully covered: %+v", s1)
	}
	if len(s1.Sources) != 1 || s1.Sources[0].TxID != "E1" || s1.Sources[0].Amount != 30000 {
		t.Errorf("S1 sources wrong: %+v", s1.Sources)
	}

	s2 := spends[1]
	if s2.Covered {
		t.Error("S2 should not be fully covered")
	}
	if s2.CoveredAmount != 20000 || s2.UncoveredAmount != 20000 {
		t.Errorf("S2 split wrong: covered=%d uncovered=%d", s2.CoveredAmount, s2.UncoveredAmount)
	}
	if s2.Reason != ReasonInsufficientIncome {
		t.Errorf("S2 reason: %q", s2.Reason)
	}

	if earns[0].Remaining != 0 {
		t.Errorf("E1 should be fully consumed, remaining=%d", earns[0].Remaining)
	}
}

func TestAllocate_ZeroEarns(t *testing.T) {
	spends, earns := Allocate([]domain.Transaction{tx("S1", 100, -10000)})

	if len(earns) != 0 {
		t.Fatalf("expected no earns, got %d", len(earns))
	}
	s := spends[0]
	if s.Covered || s.CoveredAmount != 0 || s.UncoveredAmount != 10000 {
		t.Errorf("spend must be fully uncovered: %+v", s)
	}
	if s.Reason != ReasonInsufficientIncome {
		t.Errorf("reason: %q", s.Reason)
	}
}

func TestAllocate_HoldsExcluded(t *testing.T) {
	held := tx("H1", 100, -5000)
	held.Hold = true
	heldEarn := tx("H2", 50, 9000)
	heldEarn.Hold = true

	spends, earns := Allocate([]domain.Transaction{held, heldEarn, tx("E1", 60, 1000), tx("S1", 200, -1000)})

	if len(spends) != 1 || spends[0].TxID != "S1" {
		t.Fatalf("held spend must be excluded: %+v", spends)
	}
	if len(earns) != 1 || earns[0].TxID != "E1" {
		t.Fatalf("held earn must not contribute: %+v", earns)
	}
	if !spends[0].Covered {
		t.Error("S1 should be covered by the settled earn")
	}
}

func TestAllocate_TieBreakByID(t *testing.T) {
	// Two earns at the same instant: slices must be consumed in id order.
	spends, _ := Allocate([]domain.Transaction{
		tx("E2", 100, 300),
		tx("E1", 100, 200),
		tx("S1", 200, -400),
	})

	s := spends[0]
	if len(s.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %+v", s.Sources)
	}
	if s.Sources[0].TxID != "E1" || s.Sources[0].Amount != 200 {
		t.Errorf("first source must be E1 in full: %+v", s.Sources[0])
	}
	if s.Sources[1].TxID != "E2" || s.Sources[1].Amount != 200 {
		t.Errorf("second source must be 200 of E2: %+v", s.Sources[1])
	}
}

func TestAllocate_Conservation(t *testing.T) {
	txs := []domain.Transaction{
		tx("E1", 10, 1500), tx("E2", 20, 700), tx("E3", 90, 100),
		tx("S1", 15, -900), tx("S2", 30, -1200), tx("S3", 95, -50), tx("S4", 99, -400),
	}

	spends, earns := Allocate(txs)

	allocatedPerEarn := make(map[string]int64)
	for _, s := range spends {
		var fromSources int64
		for _, src := range s.Sources {
			fromSources += src.Amount
			allocatedPerEarn[src.TxID] += src.Amount
		}
		if s.CoveredAmount != fromSources {
			t.Errorf("%s: covered %d != source sum %d", s.TxID, s.CoveredAmount, fromSources)
		}
		if s.CoveredAmount+s.UncoveredAmount != s.Amount {
			t.Errorf("%s: covered %d + uncovered %d != magnitude %d", s.TxID, s.CoveredAmount, s.UncoveredAmount, s.Amount)
		}
	}
	for _, e := range earns {
		if allocatedPerEarn[e.TxID] > e.Amount {
			t.Errorf("%s: over-allocated %d > %d", e.TxID, allocatedPerEarn[e.TxID], e.Amount)
		}
		if e.Remaining != e.Amount-allocatedPerEarn[e.TxID] {
			t.Errorf("%s: remaining %d inconsistent", e.TxID, e.Remaining)
		}
	}
}

func seedDay(t *testing.T, st *memory.Store, loc *time.Location) {
	t.Helper()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)
	err := st.BatchUpsertTransactions(context.Background(), "u1", "acc1", []domain.Transaction{
		tx("E1", day.Add(9*time.Hour).Unix(), 50000),
		tx("S1", day.Add(10*time.Hour).Unix(), -30000),
		tx("S2", day.Add(12*time.Hour).Unix(), -40000),
		// Just outside the day on both sides.
		tx("X1", day.Add(-time.Second).Unix(), 99999),
		tx("X2", day.Add(24*time.Hour).Unix(), -99999),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestComputeDailyCoverage_Totals(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Fatal(err)
	}
	st := memory.NewStore()
	seedDay(t, st, loc)

	report, err := NewEngine(st).ComputeDailyCoverage(context.Background(), "u1", civil.Date{Year: 2026, Month: 3, Day: 14}, loc)
	if err != nil {
		t.Fatalf("ComputeDailyCoverage failed: %v", err)
	}

	if report.Totals.SpendTotal != 70000 {
		t.Errorf("spend_total = %d, want 70000", report.Totals.SpendTotal)
	}
	if report.Totals.EarnTotal != 50000 {
		t.Errorf("earn_total = %d, want 50000", report.Totals.EarnTotal)
	}
	if report.Totals.Net != -20000 {
		t.Errorf("net = %d, want -20000", report.Totals.Net)
	}
	if len(report.Spends) != 2 {
		t.Errorf("adjacent days leaked into the window: %+v", report.Spends)
	}
	if report.Date != "2026-03-14" || report.Timezone != "Europe/Kyiv" {
		t.Errorf("report header wrong: %s %s", report.Date, report.Timezone)
	}
}

func TestComputeDailyCoverage_Deterministic(t *testing.T) {
	loc := time.UTC
	st := memory.NewStore()
	seedDay(t, st, loc)

	engine := NewEngine(st)
	date := civil.Date{Year: 2026, Month: 3, Day: 14}

	first, err := engine.ComputeDailyCoverage(context.Background(), "u1", date, loc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.ComputeDailyCoverage(context.Background(), "u1", date, loc)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Error("identical inputs must produce byte-identical reports")
	}
}

func TestComputeDailyCoverage_EmptyDay(t *testing.T) {
	st := memory.NewStore()

	report, err := NewEngine(st).ComputeDailyCoverage(context.Background(), "u1", civil.Date{Year: 2026, Month: 1, Day: 1}, time.UTC)
	if err != nil {
		t.Fatalf("empty day must not error: %v", err)
	}
	if report.Totals.SpendTotal != 0 || len(report.Spends) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}

	// Renderer collaborators always get arrays, never null.
	out, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte(`"spends":[]`)) || !bytes.Contains(out, []byte(`"earns":[]`)) {
		t.Errorf("empty report must encode empty arrays: %s", out)
	}
}
