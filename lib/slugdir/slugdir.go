// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package slugdir is the slug directory: the one mutable,
// human-addressable namespace in the system. A slug binds a short
// name to a document hash plus the edit secret that authorizes
// rebinding it.
//
// The directory is mechanism only. It does not enforce slug
// uniqueness policy, validate formats on its own operations, or check
// edit codes; that is lib/paste's job. It does expose PutIfAbsent so
// the policy layer can claim a name atomically.
package slugdir

import (
	"context"

	"github.com/inkwell-sh/inkwell/lib/document"
	"github.com/inkwell-sh/inkwell/lib/kvstore"
	"github.com/inkwell-sh/inkwell/lib/storage"
)

// Namespace is the storage namespace slug records live in. Declare it
// when opening the backing store.
const Namespace = "slugs"

// Record binds a slug to a document. EditCode is the shared secret
// that authorizes edits and deletion; DocumentHash is replaced on
// every authorized edit while the slug itself stays stable.
type Record struct {
	DocumentHash document.Hash `cbor:"document_hash"`
	EditCode     string        `cbor:"edit_code"`
}

// Directory maps slug strings to Records.
type Directory struct {
	records *kvstore.Map[kvstore.StringKey, Record]
}

// NewDirectory returns a directory over the given backing store,
// which must have been opened with [Namespace] declared.
func NewDirectory(backing *storage.Store) *Directory {
	return &Directory{
		records: kvstore.NewMap[kvstore.StringKey, Record](backing, Namespace),
	}
}

// Put binds slug to record, replacing any existing binding. Returns
// the previous record and whether one existed.
func (d *Directory) Put(ctx context.Context, slug string, record Record) (Record, bool, error) {
	return d.records.Put(ctx, kvstore.StringKey(slug), record)
}

// PutIfAbsent binds slug to record only if the slug is free. Returns
// whether the binding was written; false means the name was already
// taken (or was claimed by a concurrent caller that won the race).
func (d *Directory) PutIfAbsent(ctx context.Context, slug string, record Record) (bool, error) {
	return d.records.PutIfAbsent(ctx, kvstore.StringKey(slug), record)
}

// Get returns the record bound to slug, if any.
func (d *Directory) Get(ctx context.Context, slug string) (Record, bool, error) {
	return d.records.Get(ctx, kvstore.StringKey(slug))
}

// Remove deletes the binding for slug and returns it.
func (d *Directory) Remove(ctx context.Context, slug string) (Record, bool, error) {
	return d.records.Remove(ctx, kvstore.StringKey(slug))
}

// Contains reports whether slug is bound.
func (d *Directory) Contains(ctx context.Context, slug string) (bool, error) {
	return d.records.Contains(ctx, kvstore.StringKey(slug))
}

// Count returns the number of live bindings.
func (d *Directory) Count(ctx context.Context) (int64, error) {
	return d.records.Count(ctx)
}
