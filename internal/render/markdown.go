// Package render turns coverage reports into human-readable text. Renderers
// are collaborators of the report path: a renderer failure never invalidates
// the structured report it was given.
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/mono-mirror/internal/coverage"
)

// Renderer produces human-readable text from report facts.
type Renderer interface {
	Render(ctx context.Context, report *coverage.Report) (string, error)
}

// Markdown is the deterministic renderer. It has no failure modes and is the
// fallback for every other renderer.
type Markdown struct{}

// NewMarkdown creates the renderer.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

func fmtMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d UAH", sign, cents/100, cents%100)
}

func fmtTime(ts int64, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return time.Unix(ts, 0).In(loc).Format("15:04")
}

// Render writes the report as markdown, mirroring the structure the chat
// delivery expects: totals, per-spend coverage with sources, earnings, notes.
func (m *Markdown) Render(_ context.Context, r *coverage.Report) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "## Daily transactions report — %s (%s)\n\n", r.Date, r.Timezone)
	fmt.Fprintf(&b, "- **Total spends**: %s\n", fmtMoney(r.Totals.SpendTotal))
	fmt.Fprintf(&b, "- **Total earnings**: %s\n", fmtMoney(r.Totals.EarnTotal))
	fmt.Fprintf(&b, "- **Net**: %s\n\n", fmtMoney(r.Totals.Net))

	fmt.Fprintf(&b, "### Spends (%d)\n\n", len(r.Spends))
	for _, s := range r.Spends {
		icon := "✅"
		if !s.Covered {
			icon = "❌"
		}
		label := s.Description
		if label == "" {
			label = "(no description)"
		}
		fmt.Fprintf(&b, "- %s **%s** — %s (%s)\n", icon, fmtMoney(s.Amount), label, fmtTime(s.Time, r.Timezone))

		if len(s.Sources) > 0 {
			parts := make([]string, 0, len(s.Sources))
			for _, src := range s.Sources {
				parts = append(parts, fmt.Sprintf("%s from `%s`", fmtMoney(src.Amount), src.TxID))
			}
			fmt.Fprintf(&b, "  - Covered by: %s\n", strings.Join(parts, "; "))
		}
		if !s.Covered {
			fmt.Fprintf(&b, "  - Uncovered: **%s** (%s)\n", fmtMoney(s.UncoveredAmount), s.Reason)
		}
	}

	fmt.Fprintf(&b, "\n### Earnings (%d)\n\n", len(r.Earns))
	for _, e := range r.Earns {
		label := e.Description
		if label == "" {
			label = "(no description)"
		}
		fmt.Fprintf(&b, "- 💰 **%s** — %s (%s)\n", fmtMoney(e.Amount), label, fmtTime(e.Time, r.Timezone))
	}

	b.WriteString("\n### Notes\n\n")
	b.WriteString("- Coverage is computed across **all accounts** (cards + jars) for the selected day, matching earnings to spends in time order.\n")
	b.WriteString("- Holds are excluded until the provider settles them.\n")

	return b.String(), nil
}
