// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage is Inkwell's durable ordered key/value store,
// backed by SQLite via zombiezen.com/go/sqlite.
//
// The store holds a fixed set of independent namespaces, each a table
// of (key BLOB PRIMARY KEY, value BLOB) ordered by key bytes. Keys and
// values are opaque at this layer; typed access lives in lib/kvstore.
//
// Every connection is initialized with production pragmas: WAL journal
// mode (readers never block the writer), NORMAL synchronous (durable
// across process crashes without fsync-per-commit overhead), and a
// busy timeout so concurrent writers wait instead of failing with
// SQLITE_BUSY.
//
// # Atomicity
//
// A single Put, Get, Remove, PutIfAbsent, or Contains call is atomic
// at the key level: read-modify-write operations run inside a
// savepoint on one connection. Nothing here spans multiple keys or
// multiple calls; multi-step sequences are the caller's problem, and
// PutIfAbsent exists precisely so callers can make check-then-insert
// a single atomic step.
package storage
