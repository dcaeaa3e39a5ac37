package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the sync and report services.
// Values come from MIRROR_* environment variables with sensible defaults,
// so both binaries run against the emulator with no configuration at all.
type Config struct {
	// FirestoreProjectID selects the GCP project backing the document store.
	FirestoreProjectID string `mapstructure:"FIRESTORE_PROJECT_ID"`

	// MonoAPIURL is the banking provider base URL. Overridable for tests
	// and for pointing at a sandbox.
	MonoAPIURL string `mapstructure:"MONO_API_URL"`

	// SyncLookbackDays bounds the first sync of an account that has no
	// watermark yet.
	SyncLookbackDays int `mapstructure:"SYNC_LOOKBACK_DAYS"`

	// SyncWindowDays caps a single statement request's span. The provider
	// rejects windows longer than 31 days.
	SyncWindowDays int `mapstructure:"SYNC_WINDOW_DAYS"`

	// StatementPageLimit is the provider's per-response item cap. A page of
	// exactly this size is treated as truncated and re-requested forward.
	StatementPageLimit int `mapstructure:"STATEMENT_PAGE_LIMIT"`

	// SyncConcurrency bounds how many users are synced at once. Rate limits
	// are per credential, so this only protects our own resources.
	SyncConcurrency int `mapstructure:"SYNC_CONCURRENCY"`

	// RequestTimeout applies to every provider HTTP call.
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	// MinRequestInterval is the per-credential spacing between statement
	// calls. The provider allows one statement request per minute per token.
	MinRequestInterval time.Duration `mapstructure:"MIN_REQUEST_INTERVAL"`

	RetryMaxAttempts    int           `mapstructure:"RETRY_MAX_ATTEMPTS"`
	RetryInitialBackoff time.Duration `mapstructure:"RETRY_INITIAL_BACKOFF"`
	RetryMaxBackoff     time.Duration `mapstructure:"RETRY_MAX_BACKOFF"`

	// ReportTimezone is the default timezone for daily report day windows.
	ReportTimezone string `mapstructure:"REPORT_TIMEZONE"`

	// LLMEnabled switches on the Gemini-refined report renderer. The
	// deterministic markdown renderer is always available as fallback.
	LLMEnabled bool   `mapstructure:"LLM_ENABLED"`
	LLMModel   string `mapstructure:"LLM_MODEL"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("mirror")
	v.AutomaticEnv()

	v.SetDefault("FIRESTORE_PROJECT_ID", "")
	v.SetDefault("MONO_API_URL", "https://api.monobank.ua")
	v.SetDefault("SYNC_LOOKBACK_DAYS", 31)
	v.SetDefault("SYNC_WINDOW_DAYS", 31)
	v.SetDefault("STATEMENT_PAGE_LIMIT", 500)
	v.SetDefault("SYNC_CONCURRENCY", 4)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("MIN_REQUEST_INTERVAL", "60s")
	v.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	v.SetDefault("RETRY_INITIAL_BACKOFF", "2s")
	v.SetDefault("RETRY_MAX_BACKOFF", "60s")
	v.SetDefault("REPORT_TIMEZONE", "Europe/Kyiv")
	v.SetDefault("LLM_ENABLED", false)
	v.SetDefault("LLM_MODEL", "gemini-2.5-flash-lite")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("Load: unmarshal config: %w", err)
	}

	if cfg.SyncLookbackDays <= 0 {
		return nil, fmt.Errorf("Load: SYNC_LOOKBACK_DAYS must be positive, got %d", cfg.SyncLookbackDays)
	}
	if cfg.SyncWindowDays <= 0 {
		return nil, fmt.Errorf("Load: SYNC_WINDOW_DAYS must be positive, got %d", cfg.SyncWindowDays)
	}
	if cfg.SyncConcurrency <= 0 {
		return nil, fmt.Errorf("Load: SYNC_CONCURRENCY must be positive, got %d", cfg.SyncConcurrency)
	}

	return &cfg, nil
}
