package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// SourceConfig holds per-upstream settings for the sync engine. Every upstream
// gets its own rate-limited client configured from one of these.
type SourceConfig struct {
	BaseURL        string `toml:"base_url" validate:"required,url"`
	Identity       string `toml:"identity"`
	Password       string `toml:"password"`
	MinIntervalMS  int    `toml:"min_interval_ms" validate:"min=0"`
	RequestTimeout string `toml:"request_timeout"`
	MaxRetries     uint   `toml:"max_retries" validate:"min=1"`
	InitialBackoff string `toml:"initial_backoff"`
	MaxBackoff     string `toml:"max_backoff"`
}

// MinInterval returns the configured minimum inter-request interval.
func (s *SourceConfig) MinInterval() time.Duration {
	return time.Duration(s.MinIntervalMS) * time.Millisecond
}

// GetRequestTimeout returns the per-request timeout, defaulting to 30s.
func (s *SourceConfig) GetRequestTimeout() time.Duration {
	return parseDurationOr(s.RequestTimeout, 30*time.Second)
}

// GetInitialBackoff returns the first retry delay, defaulting to 1s.
func (s *SourceConfig) GetInitialBackoff() time.Duration {
	return parseDurationOr(s.InitialBackoff, time.Second)
}

// GetMaxBackoff returns the backoff cap, defaulting to 60s.
func (s *SourceConfig) GetMaxBackoff() time.Duration {
	return parseDurationOr(s.MaxBackoff, 60*time.Second)
}

// SyncConfig holds settings for the ingestion orchestrator.
type SyncConfig struct {
	// RunTimeout bounds a whole sync run across all sources. Empty or "0s"
	// leaves the run unbounded.
	RunTimeout string `toml:"run_timeout"`
	// WatermarkPolicy selects what a successful run advances the watermark to:
	// "run_start" (default) or "latest_record".
	WatermarkPolicy string `toml:"watermark_policy" validate:"omitempty,oneof=run_start latest_record"`
	LogBufferSize   int    `toml:"log_buffer_size" validate:"min=0"`
}

func (s *SyncConfig) GetRunTimeout() time.Duration {
	return parseDurationOr(s.RunTimeout, 0)
}

type ConfigParam struct {
	ServerPort string `toml:"server_port" validate:"required"`
	HandleCORS bool   `toml:"handle_cors"`
	DSN        string `toml:"dsn"`

	SpaceTrack SourceConfig `toml:"spacetrack"`
	SatNOGS    SourceConfig `toml:"satnogs"`
	Sync       SyncConfig   `toml:"sync"`
}

var cfg *ConfigParam

func Config() *ConfigParam {
	return cfg
}

var validate = validator.New()

// LoadConfig reads and validates the TOML config file. An empty filename
// loads defaults suitable for local development and tests.
func LoadConfig(filename string) error {
	if filename == "" {
		cfg = defaultConfig()
		return nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	var cp ConfigParam
	if _, err := toml.Decode(string(content), &cp); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}
	applyDefaults(&cp)
	if err := validate.Struct(&cp); err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}
	cfg = &cp
	return nil
}

func defaultConfig() *ConfigParam {
	cp := &ConfigParam{
		ServerPort: "8181",
		HandleCORS: true,
		DSN:        "postgres://localhost:5432/aetherlink?sslmode=disable",
	}
	applyDefaults(cp)
	return cp
}

func applyDefaults(cp *ConfigParam) {
	if cp.SpaceTrack.BaseURL == "" {
		cp.SpaceTrack.BaseURL = "https://www.space-track.org"
	}
	if cp.SpaceTrack.MinIntervalMS == 0 {
		// Space-Track enforces aggressive rate limits; the original tooling
		// paces requests about three seconds apart.
		cp.SpaceTrack.MinIntervalMS = 3000
	}
	if cp.SpaceTrack.MaxRetries == 0 {
		cp.SpaceTrack.MaxRetries = 5
	}
	if cp.SatNOGS.BaseURL == "" {
		cp.SatNOGS.BaseURL = "https://db.satnogs.org/api"
	}
	if cp.SatNOGS.MaxRetries == 0 {
		cp.SatNOGS.MaxRetries = 5
	}
	if cp.Sync.WatermarkPolicy == "" {
		cp.Sync.WatermarkPolicy = "run_start"
	}
	if cp.Sync.LogBufferSize == 0 {
		cp.Sync.LogBufferSize = 256
	}
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func init() {
	err := LoadConfig("")
	if err != nil {
		panic(err)
	}
}
