package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/mono-mirror/internal/coverage"
	"github.com/dvloznov/mono-mirror/internal/logger"
)

// Gemini rewrites the deterministic markdown into a friendlier narrative.
// The allocation facts are authoritative: the model rephrases, it never
// recomputes. Any failure falls back to the markdown seed, so callers can
// treat this renderer as infallible.
type Gemini struct {
	client   *genai.Client
	model    string
	fallback *Markdown
}

// NewGemini creates the renderer. Credentials come from the environment, the
// same way the rest of the GCP stack is configured.
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, fallback: NewMarkdown()}, nil
}

// Render refines the report text with the model, falling back to plain
// markdown on any error.
func (g *Gemini) Render(ctx context.Context, r *coverage.Report) (string, error) {
	log := logger.FromContext(ctx)

	seed, err := g.fallback.Render(ctx, r)
	if err != nil {
		return "", err
	}

	facts, err := json.Marshal(r)
	if err != nil {
		return seed, nil
	}

	prompt := "You are a personal finance assistant writing a short daily report.\n\n" +
		"Below are the day's reconciliation facts as JSON, followed by a draft markdown report.\n" +
		"Rewrite the draft into clear, friendly markdown for the account owner.\n\n" +
		"Rules:\n" +
		"- Every amount, count and covered/uncovered status must match the JSON exactly.\n" +
		"- Do not invent transactions or reasons.\n" +
		"- Keep it under 30 lines.\n" +
		"- Return markdown only, no code fences.\n\n" +
		"Facts:\n" + string(facts) + "\n\nDraft:\n" + seed

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		log.Warn().Err(err).Msg("LLM refinement failed, falling back to markdown")
		return seed, nil
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		log.Warn().Msg("LLM returned empty refinement, falling back to markdown")
		return seed, nil
	}
	return text, nil
}
