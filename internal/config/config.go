// Package config loads the runtime tunables for a fuziot.Database: data
// directory, worker count, reader-pool bounds, and scan timeout. Grounded
// on the teacher's config package (env-var-with-defaults pattern), trimmed
// from its HTTP-server/TLS/rate-limit settings to what an embedded store
// actually needs, plus an optional JSONC file layer via tailscale/hujson
// in the style of calvinalkan-agent-task's config.go.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/tailscale/hujson"
)

// Config holds the settings a Database is opened with.
type Config struct {
	// DataDir is the directory record files are created/opened in.
	DataDir string `json:"data_dir"`

	// Workers is the fixed parallel-scan worker pool size; 0 disables
	// parallel scans (spec.md §5 "Scheduling model").
	Workers int `json:"workers"`

	// ReaderPoolSize bounds how many idle read-only file handles
	// internal/readerpool keeps per type.
	ReaderPoolSize int `json:"reader_pool_size"`

	// ScanTimeout is a scan deadline setting, 0 meaning no deadline. It
	// is loaded and stored only: fuziot.Database does not read it, and a
	// parallel scan runs under exactly the context its caller passes.
	ScanTimeout time.Duration `json:"-"`

	// ScanTimeoutSeconds mirrors ScanTimeout for the JSONC file layer,
	// since encoding/json has no native duration type.
	ScanTimeoutSeconds int `json:"scan_timeout_seconds"`

	// LogLevel is the internal/logger.Level name ("debug", "info",
	// "warn", "error").
	LogLevel string `json:"log_level"`
}

// Default returns the configuration FuziotDB uses when the host supplies
// neither environment variables nor a config file: one worker per logical
// core, a small reader pool, no scan deadline.
func Default() Config {
	return Config{
		DataDir:        "./data",
		Workers:        runtime.NumCPU(),
		ReaderPoolSize: 4,
		ScanTimeout:    0,
		LogLevel:       "info",
	}
}

// Load builds a Config from environment variables, falling back to
// Default() for anything unset. Variables use the FUZIOTDB_ prefix
// (teacher's naming convention, e.g. ENTITYDB_DATA_PATH).
func Load() Config {
	cfg := Default()
	cfg.DataDir = getEnv("FUZIOTDB_DATA_DIR", cfg.DataDir)
	cfg.Workers = getEnvInt("FUZIOTDB_WORKERS", cfg.Workers)
	cfg.ReaderPoolSize = getEnvInt("FUZIOTDB_READER_POOL_SIZE", cfg.ReaderPoolSize)
	cfg.ScanTimeout = getEnvDuration("FUZIOTDB_SCAN_TIMEOUT_SECONDS", cfg.ScanTimeout)
	cfg.LogLevel = getEnv("FUZIOTDB_LOG_LEVEL", cfg.LogLevel)
	return cfg
}

// LoadFile overlays base with values from a JSONC (JSON-with-comments)
// file at path, standardized via hujson before being unmarshaled. Fields
// absent from the file keep base's value.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid JSONC in %s: %w", path, err)
	}

	overlay := base
	overlay.ScanTimeoutSeconds = int(base.ScanTimeout / time.Second)
	if err := json.Unmarshal(standardized, &overlay); err != nil {
		return Config{}, fmt.Errorf("config: invalid JSON in %s: %w", path, err)
	}
	overlay.ScanTimeout = time.Duration(overlay.ScanTimeoutSeconds) * time.Second
	return overlay, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return defaultValue
}
