// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package document is the content-addressed document store. A
// document's key is the BLAKE3 digest of its content, so identical
// content is stored at most once and a record can never change
// underneath its key: edits create new records under new hashes.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-sh/inkwell/lib/clock"
	"github.com/inkwell-sh/inkwell/lib/kvstore"
	"github.com/inkwell-sh/inkwell/lib/storage"
)

// Namespace is the storage namespace documents live in. Declare it
// when opening the backing store.
const Namespace = "documents"

// Record is a stored document as seen by callers: the full content
// and the instant it was first stored. Records are immutable: a
// second insert of the same content leaves the original Created
// timestamp in place.
type Record struct {
	Content string
	Created time.Time
}

// storedRecord is the persisted shape. Content is compressed
// according to Compression; Size is the uncompressed length, used to
// verify decompression. The hash is the storage key and is not
// repeated in the value.
type storedRecord struct {
	Compression uint8     `cbor:"compression"`
	Size        int64     `cbor:"size"`
	Content     []byte    `cbor:"content"`
	Created     time.Time `cbor:"created"`
}

// Store holds documents keyed by content hash.
type Store struct {
	records *kvstore.Map[Hash, storedRecord]
	clock   clock.Clock
}

// NewStore returns a document store over the given backing store,
// which must have been opened with [Namespace] declared. The clock
// supplies Created timestamps; pass clock.Real() outside tests.
func NewStore(backing *storage.Store, clk clock.Clock) *Store {
	return &Store{
		records: kvstore.NewMap[Hash, storedRecord](backing, Namespace),
		clock:   clk,
	}
}

// Insert stores content and returns its hash. If a record with the
// same content already exists, nothing is written and the existing
// record is untouched. The same hash comes back either way, so
// Insert is observably idempotent.
func (s *Store) Insert(ctx context.Context, content string) (Hash, error) {
	hash := HashContent([]byte(content))

	tag, stored := compressContent([]byte(content))
	record := storedRecord{
		Compression: uint8(tag),
		Size:        int64(len(content)),
		Content:     stored,
		Created:     s.clock.Now().UTC(),
	}

	// PutIfAbsent rather than Put: identical content would produce an
	// identical record anyway, but skipping the write preserves the
	// original Created timestamp and saves the I/O.
	if _, err := s.records.PutIfAbsent(ctx, hash, record); err != nil {
		return Hash{}, err
	}
	return hash, nil
}

// Get returns the record stored under hash, if any.
func (s *Store) Get(ctx context.Context, hash Hash) (Record, bool, error) {
	stored, found, err := s.records.Get(ctx, hash)
	if err != nil || !found {
		return Record{}, false, err
	}
	record, err := stored.decode()
	if err != nil {
		return Record{}, false, fmt.Errorf("document %s: %w", hash, err)
	}
	return record, true, nil
}

// Remove deletes the record stored under hash and returns it. Normal
// operation never calls this (documents are abandoned, not deleted),
// but operators reclaiming orphans need the primitive.
func (s *Store) Remove(ctx context.Context, hash Hash) (Record, bool, error) {
	stored, found, err := s.records.Remove(ctx, hash)
	if err != nil || !found {
		return Record{}, false, err
	}
	record, err := stored.decode()
	if err != nil {
		return Record{}, false, fmt.Errorf("document %s: %w", hash, err)
	}
	return record, true, nil
}

// Contains reports whether a record exists under hash.
func (s *Store) Contains(ctx context.Context, hash Hash) (bool, error) {
	return s.records.Contains(ctx, hash)
}

// Count returns the number of stored documents, including orphans.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.records.Count(ctx)
}

func (r storedRecord) decode() (Record, error) {
	content, err := Decompress(r.Content, CompressionTag(r.Compression), int(r.Size))
	if err != nil {
		return Record{}, err
	}
	return Record{
		Content: string(content),
		Created: r.Created,
	}, nil
}
