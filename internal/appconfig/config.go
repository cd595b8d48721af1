// Package appconfig loads the process-wide settings that tune storage,
// extraction, and inference: database location, size limits, worker counts,
// and cache bounds.
package appconfig

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every ambient tunable read from the environment.
type Config struct {
	// DBDSN is the graph store's data source: a local file path, ":memory:",
	// or a libsql:// / https:// URL for a remote/edge-hosted store.
	DBDSN string

	// MaxFileBytes is the oversize-file cutoff the extractor enforces.
	MaxFileBytes int64

	// Workers bounds the orchestrator's parallel fan-out. The inference
	// engine's RunBatch takes its parallelism from its caller instead.
	Workers int

	// CacheTTLSeconds and CacheMaxEntries bound the inference cache.
	CacheTTLSeconds int
	CacheMaxEntries int

	// ConflictRetries is loaded with the rest of the configuration, but no
	// component reads it: nothing retries on a Conflict error.
	ConflictRetries int
}

// Default returns the configuration a bare `codegraph` invocation uses when
// no .env file or environment overrides are present.
func Default() Config {
	return Config{
		DBDSN:           ".codegraph/graph.db",
		MaxFileBytes:    2 << 20, // 2 MiB oversize-file cutoff
		Workers:         8,
		CacheTTLSeconds: 300,
		CacheMaxEntries: 10000,
		ConflictRetries: 5,
	}
}

// Load reads a .env file (if present, ignored if absent) and layers
// CODEGRAPH_*-prefixed environment variables over Default().
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv("CODEGRAPH_DB_DSN"); v != "" {
		cfg.DBDSN = v
	}
	if v, ok := getenvInt64("CODEGRAPH_MAX_FILE_BYTES"); ok {
		cfg.MaxFileBytes = v
	}
	if v, ok := getenvInt("CODEGRAPH_WORKERS"); ok {
		cfg.Workers = v
	}
	if v, ok := getenvInt("CODEGRAPH_CACHE_TTL_SECONDS"); ok {
		cfg.CacheTTLSeconds = v
	}
	if v, ok := getenvInt("CODEGRAPH_CACHE_MAX_ENTRIES"); ok {
		cfg.CacheMaxEntries = v
	}
	if v, ok := getenvInt("CODEGRAPH_CONFLICT_RETRIES"); ok {
		cfg.ConflictRetries = v
	}
	return cfg
}

func getenvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getenvInt64(key string) (int64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
