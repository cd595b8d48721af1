// Package graphstore persists the node/edge graph, unknown symbols, and
// proposed equivalences to an embedded SQLite database (local file, or a
// libsql/Turso URL for a remote-capable store), and tracks a per-edge-type
// generation counter the inference cache uses to invalidate itself.
package graphstore

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"github.com/glebarez/sqlite"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a *gorm.DB plus the raw *sql.DB maintenance connection and
// per-edge-type generation counters.
type Store struct {
	db      *gorm.DB
	raw     *sql.DB
	dsn     string
	genMu   sync.Mutex
	gens    map[string]int64
}

// Open connects to dsn (a local file path, ":memory:", or a libsql/https
// URL), applies PRAGMA tuning, and runs AutoMigrate. debug enables gorm's
// verbose query logger.
func Open(dsn string, debug bool) (*Store, error) {
	if !isRemote(dsn) && dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("graphstore: create db directory: %w", err)
			}
		}
	}

	gcfg := &gorm.Config{}
	if debug {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isRemote(dsn) {
		token := os.Getenv("CODEGRAPH_LIBSQL_AUTH_TOKEN")
		var (
			connector driver.Connector
			err       error
		)
		if token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("graphstore: libsql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
		dialector = gormsqlite.New(gormsqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn})
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("graphstore: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("graphstore: underlying sql.DB: %w", err)
	}
	if err := applyPragmas(sqlDB); err != nil {
		slog.Warn("graphstore: pragma tuning incomplete", "error", err)
	}

	if err := db.AutoMigrate(&nodeRow{}, &edgeRow{}, &unknownRow{}, &equivalenceRow{}); err != nil {
		return nil, fmt.Errorf("graphstore: migrate: %w", err)
	}

	raw, err := openRaw(dsn)
	if err != nil {
		slog.Warn("graphstore: raw maintenance connection unavailable", "error", err)
	}

	return &Store{db: db, raw: raw, dsn: dsn, gens: make(map[string]int64)}, nil
}

// openRaw opens a second database/sql connection over the mattn/go-sqlite3
// driver for maintenance statements gorm has no first-class API for
// (VACUUM INTO, wal_checkpoint). Remote (libsql) stores have no local file
// to run these against, so openRaw is a no-op for them.
func openRaw(dsn string) (*sql.DB, error) {
	if isRemote(dsn) || dsn == ":memory:" {
		return nil, nil
	}
	return sql.Open("sqlite3", fmt.Sprintf(
		"%s?_busy_timeout=5000&_foreign_keys=ON&_journal_mode=WAL&_synchronous=NORMAL&_temp_store=MEMORY",
		dsn,
	))
}

func applyPragmas(db *sql.DB) error {
	stmts := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA auto_vacuum = INCREMENTAL",
	}
	var firstErr error
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func isRemote(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") ||
		strings.HasPrefix(dsn, "https://") ||
		strings.HasPrefix(dsn, "libsql://") ||
		strings.HasPrefix(dsn, "libsql:")
}

// Close releases both the gorm connection and the raw maintenance
// connection, if one was opened.
func (s *Store) Close() error {
	var errs []error
	if sqlDB, err := s.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	if s.raw != nil {
		errs = append(errs, s.raw.Close())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Generation returns the current write-generation for an edge type,
// satisfying inference.GenerationSource.
func (s *Store) Generation(edgeType string) int64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[edgeType]
}

func (s *Store) bumpGeneration(edgeType string) {
	s.genMu.Lock()
	s.gens[edgeType]++
	s.genMu.Unlock()
}
