// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Put stores value under key, replacing any existing value. Returns
// the previous value and whether one existed. The read-and-replace
// pair runs inside a savepoint, so the previous value reported is
// exactly the one displaced.
func (s *Store) Put(ctx context.Context, namespace string, key, value []byte) (previous []byte, found bool, err error) {
	if err := s.checkNamespace(namespace); err != nil {
		return nil, false, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, false, engineError("put", namespace, err)
	}
	defer s.pool.Put(conn)

	err = withSavepoint(conn, func() error {
		var readErr error
		previous, found, readErr = readValue(conn, namespace, key)
		if readErr != nil {
			return readErr
		}
		upsert := fmt.Sprintf(
			`INSERT INTO %q (key, value) VALUES (?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value`, namespace)
		return sqlitex.Execute(conn, upsert, &sqlitex.ExecOptions{
			Args: []any{key, value},
		})
	})
	if err != nil {
		return nil, false, engineError("put", namespace, err)
	}
	return previous, found, nil
}

// PutIfAbsent stores value under key only if the key is not already
// present. Returns whether the value was written. This is the atomic
// compare-and-insert primitive: of any number of concurrent callers
// racing on the same key, exactly one observes inserted == true.
func (s *Store) PutIfAbsent(ctx context.Context, namespace string, key, value []byte) (inserted bool, err error) {
	if err := s.checkNamespace(namespace); err != nil {
		return false, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return false, engineError("put_if_absent", namespace, err)
	}
	defer s.pool.Put(conn)

	insert := fmt.Sprintf(
		`INSERT INTO %q (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO NOTHING`, namespace)
	err = sqlitex.Execute(conn, insert, &sqlitex.ExecOptions{
		Args: []any{key, value},
	})
	if err != nil {
		return false, engineError("put_if_absent", namespace, err)
	}
	return conn.Changes() > 0, nil
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(ctx context.Context, namespace string, key []byte) (value []byte, found bool, err error) {
	if err := s.checkNamespace(namespace); err != nil {
		return nil, false, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, false, engineError("get", namespace, err)
	}
	defer s.pool.Put(conn)

	query := fmt.Sprintf(`SELECT value FROM %q WHERE key = ?`, namespace)
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, false, engineError("get", namespace, err)
	}
	return value, found, nil
}

// Remove deletes the value stored under key. Returns the removed
// value and whether one existed.
func (s *Store) Remove(ctx context.Context, namespace string, key []byte) (previous []byte, found bool, err error) {
	if err := s.checkNamespace(namespace); err != nil {
		return nil, false, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, false, engineError("remove", namespace, err)
	}
	defer s.pool.Put(conn)

	err = withSavepoint(conn, func() error {
		var readErr error
		previous, found, readErr = readValue(conn, namespace, key)
		if readErr != nil {
			return readErr
		}
		if !found {
			return nil
		}
		del := fmt.Sprintf(`DELETE FROM %q WHERE key = ?`, namespace)
		return sqlitex.Execute(conn, del, &sqlitex.ExecOptions{
			Args: []any{key},
		})
	})
	if err != nil {
		return nil, false, engineError("remove", namespace, err)
	}
	return previous, found, nil
}

// Contains reports whether key is present.
func (s *Store) Contains(ctx context.Context, namespace string, key []byte) (bool, error) {
	if err := s.checkNamespace(namespace); err != nil {
		return false, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return false, engineError("contains", namespace, err)
	}
	defer s.pool.Put(conn)

	var found bool
	query := fmt.Sprintf(`SELECT 1 FROM %q WHERE key = ?`, namespace)
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	if err != nil {
		return false, engineError("contains", namespace, err)
	}
	return found, nil
}

// Count returns the number of keys in the namespace.
func (s *Store) Count(ctx context.Context, namespace string) (int64, error) {
	if err := s.checkNamespace(namespace); err != nil {
		return 0, err
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, engineError("count", namespace, err)
	}
	defer s.pool.Put(conn)

	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %q`, namespace)
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return 0, engineError("count", namespace, err)
	}
	return count, nil
}

// readValue reads the value under key on an already-held connection.
func readValue(conn *sqlite.Conn, namespace string, key []byte) (value []byte, found bool, err error) {
	query := fmt.Sprintf(`SELECT value FROM %q WHERE key = ?`, namespace)
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			found = true
			return nil
		},
	})
	return value, found, err
}

// withSavepoint runs fn inside a savepoint: committed if fn returns
// nil, rolled back otherwise.
func withSavepoint(conn *sqlite.Conn, fn func() error) (err error) {
	release := sqlitex.Save(conn)
	defer release(&err)
	return fn()
}
