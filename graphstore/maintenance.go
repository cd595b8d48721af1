package graphstore

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// walCheckpointThresholdBytes is the WAL size past which Checkpoint runs a
// TRUNCATE checkpoint; below it, Checkpoint does nothing.
const walCheckpointThresholdBytes = 64 * 1024 * 1024

// QuickCheck runs PRAGMA quick_check and reports whether the database file
// is structurally sound. A no-op (always ok) for remote/in-memory stores
// that have no raw connection.
func (s *Store) QuickCheck() error {
	if s.raw == nil {
		return nil
	}
	row := s.raw.QueryRow("PRAGMA quick_check;")
	var result string
	if err := row.Scan(&result); err != nil {
		return fmt.Errorf("graphstore: quick_check scan: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("graphstore: quick_check failed: %s", result)
	}
	return nil
}

// Checkpoint truncates the WAL file back into the main database once it
// grows past walCheckpointThresholdBytes, avoiding unbounded WAL growth
// under a long-running orchestrator batch.
func (s *Store) Checkpoint() error {
	if s.raw == nil || s.dsn == ":memory:" {
		return nil
	}
	info, err := os.Stat(s.dsn + "-wal")
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("graphstore: stat wal: %w", err)
	}
	if info.Size() <= walCheckpointThresholdBytes {
		return nil
	}
	if _, err := s.execWithRetry("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		return fmt.Errorf("graphstore: checkpoint: %w", err)
	}
	return nil
}

// Backup writes a consistent snapshot of the database to destPath using
// SQLite's VACUUM INTO, which the online backup API in mattn/go-sqlite3
// doesn't expose directly.
func (s *Store) Backup(destPath string) error {
	if s.raw == nil {
		return fmt.Errorf("graphstore: backup unavailable for remote/in-memory store")
	}
	_, err := s.execWithRetry(fmt.Sprintf("VACUUM INTO '%s';", strings.ReplaceAll(destPath, "'", "''")))
	if err != nil {
		return fmt.Errorf("graphstore: backup: %w", err)
	}
	return nil
}

// Optimize runs PRAGMA optimize, SQLite's lightweight periodic maintenance
// hook for query planner statistics.
func (s *Store) Optimize() error {
	if s.raw == nil {
		return nil
	}
	_, err := s.execWithRetry("PRAGMA optimize;")
	return err
}

// execWithRetry retries a statement a bounded number of times on
// "database is locked", the transient condition WAL mode can still hit
// under concurrent writers.
func (s *Store) execWithRetry(query string) (any, error) {
	const maxRetries = 5
	var err error
	for range maxRetries {
		_, err = s.raw.Exec(query)
		if err == nil {
			return nil, nil
		}
		if strings.Contains(err.Error(), "database is locked") {
			time.Sleep(200 * time.Millisecond)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("database is locked after %d retries: %w", maxRetries, err)
}
