package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MonoAPIURL != "https://api.monobank.ua" {
		t.Errorf("unexpected default provider URL: %s", cfg.MonoAPIURL)
	}
	if cfg.SyncLookbackDays != 31 {
		t.Errorf("expected 31 day lookback, got %d", cfg.SyncLookbackDays)
	}
	if cfg.MinRequestInterval != 60*time.Second {
		t.Errorf("expected 60s request interval, got %s", cfg.MinRequestInterval)
	}
	if cfg.StatementPageLimit != 500 {
		t.Errorf("expected 500 item page cap, got %d", cfg.StatementPageLimit)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MIRROR_SYNC_CONCURRENCY", "8")
	t.Setenv("MIRROR_LLM_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SyncConcurrency != 8 {
		t.Errorf("expected concurrency override 8, got %d", cfg.SyncConcurrency)
	}
	if !cfg.LLMEnabled {
		t.Error("expected LLM_ENABLED override to apply")
	}
}

func TestLoad_RejectsNonPositiveBounds(t *testing.T) {
	t.Setenv("MIRROR_SYNC_WINDOW_DAYS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero sync window")
	}
}
