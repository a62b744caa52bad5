// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"fmt"
	"log/slog"
	"regexp"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// namespacePattern restricts namespace names to identifiers that are
// safe to splice into CREATE TABLE / SELECT statements. Namespaces are
// declared by Inkwell code, never by end users, but the check keeps a
// typo from becoming a SQL fragment.
var namespacePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// Config holds the parameters for opening a store. Path and
// Namespaces are required; all other fields have defaults.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist. The file is created if it does not
	// exist.
	Path string

	// Namespaces is the set of namespaces this store serves. Each
	// becomes a table created at open time. Opening an existing
	// database with additional namespaces creates the new tables and
	// leaves existing ones untouched.
	Namespaces []string

	// PoolSize is the number of connections in the pool. If zero or
	// negative, defaults to max(runtime.NumCPU(), 4). SQLite
	// serializes writes regardless of pool size; extra connections
	// only help concurrent reads.
	PoolSize int

	// Logger receives operational messages (open, close, faults). If
	// nil, a no-op logger is used.
	Logger *slog.Logger
}

// Store is a fixed-size pool of SQLite connections serving a declared
// set of key/value namespaces. Safe for concurrent use.
type Store struct {
	pool       *sqlitex.Pool
	logger     *slog.Logger
	path       string
	namespaces map[string]bool
}

// Open opens (creating if necessary) the store at cfg.Path and
// ensures a table exists for every declared namespace. The caller
// must Close the store when done.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("storage: Path is required")
	}
	if len(cfg.Namespaces) == 0 {
		return nil, fmt.Errorf("storage: at least one namespace is required")
	}
	for _, namespace := range cfg.Namespaces {
		if !namespacePattern.MatchString(namespace) {
			return nil, fmt.Errorf("storage: invalid namespace name %q", namespace)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
		if poolSize < 4 {
			poolSize = 4
		}
	}

	namespaces := make(map[string]bool, len(cfg.Namespaces))
	for _, namespace := range cfg.Namespaces {
		namespaces[namespace] = true
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize: poolSize,
		PrepareConn: func(conn *sqlite.Conn) error {
			return prepareConnection(conn, cfg.Namespaces)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", cfg.Path, err)
	}

	logger.Info("store opened",
		"path", cfg.Path,
		"namespaces", cfg.Namespaces,
		"pool_size", poolSize,
	)

	return &Store{
		pool:       pool,
		logger:     logger,
		path:       cfg.Path,
		namespaces: namespaces,
	}, nil
}

// Close closes all connections in the pool. Blocks until borrowed
// connections are returned.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		s.logger.Error("store close error", "path", s.path, "error", err)
		return fmt.Errorf("storage: closing %s: %w", s.path, err)
	}
	s.logger.Info("store closed", "path", s.path)
	return nil
}

// checkNamespace verifies the namespace was declared at Open.
func (s *Store) checkNamespace(namespace string) error {
	if !s.namespaces[namespace] {
		return &Error{
			Op:        "resolve",
			Namespace: namespace,
			Err:       fmt.Errorf("namespace not declared at open"),
		}
	}
	return nil
}

// prepareConnection applies standard pragmas and creates the
// namespace tables. Runs once per pooled connection on first use.
func prepareConnection(conn *sqlite.Conn, namespaces []string) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=OFF",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}

	for _, namespace := range namespaces {
		create := fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %q (
				key   BLOB PRIMARY KEY,
				value BLOB NOT NULL
			) WITHOUT ROWID`, namespace)
		if err := sqlitex.ExecuteScript(conn, create, nil); err != nil {
			return fmt.Errorf("storage: creating namespace %s: %w", namespace, err)
		}
	}

	return nil
}
