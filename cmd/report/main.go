// Command report computes and prints the daily coverage report for one user.
//
//	report -user <uid> [-date YYYY-MM-DD] [-json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/mono-mirror/internal/config"
	"github.com/dvloznov/mono-mirror/internal/coverage"
	"github.com/dvloznov/mono-mirror/internal/logger"
	"github.com/dvloznov/mono-mirror/internal/render"
	fsstore "github.com/dvloznov/mono-mirror/internal/store/firestore"
)

func main() {
	userID := flag.String("user", "", "user id to report on (required)")
	dateStr := flag.String("date", "", "report date, YYYY-MM-DD (default: today in the report timezone)")
	asJSON := flag.Bool("json", false, "print the structured report instead of rendered text")
	flag.Parse()

	log := logger.New("report")

	if *userID == "" {
		log.Fatal().Msg("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.ReportTimezone).Msg("Invalid report timezone")
	}

	date := civil.DateOf(time.Now().In(loc))
	if *dateStr != "" {
		date, err = civil.ParseDate(*dateStr)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -date, expected YYYY-MM-DD")
		}
	}

	ctx := logger.WithContext(context.Background(), log)

	store, err := fsstore.NewStore(ctx, cfg.FirestoreProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Firestore")
	}
	defer store.Close()

	report, err := coverage.NewEngine(store).ComputeDailyCoverage(ctx, *userID, date, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compute coverage")
	}

	if *asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode report")
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println(renderReport(ctx, cfg, report))
}

// renderReport picks the configured renderer. Rendering is best-effort: the
// structured report already exists, so any renderer trouble degrades to the
// deterministic markdown rather than failing the request.
func renderReport(ctx context.Context, cfg *config.Config, report *coverage.Report) string {
	log := logger.FromContext(ctx)

	var renderer render.Renderer = render.NewMarkdown()
	if cfg.LLMEnabled {
		if g, err := render.NewGemini(ctx, cfg.LLMModel); err != nil {
			log.Warn().Err(err).Msg("LLM renderer unavailable, using markdown")
		} else {
			renderer = g
		}
	}

	text, err := renderer.Render(ctx, report)
	if err != nil {
		log.Warn().Err(err).Msg("Rendering failed, using markdown fallback")
		text, _ = render.NewMarkdown().Render(ctx, report)
	}
	return text
}
