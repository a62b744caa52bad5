// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore provides typed access to a lib/storage namespace.
//
// A Map[K, V] encodes keys through encoding.BinaryMarshaler and values
// through lib/codec, and promises a lossless round trip: any value it
// stores decodes back equal. The two failure classes stay separate,
// engine faults as *storage.Error and serialization faults as
// *EncodingError, so callers can report user data corruption
// differently from a sick disk.
package kvstore

import (
	"context"
	"encoding"
	"fmt"

	"github.com/inkwell-sh/inkwell/lib/codec"
	"github.com/inkwell-sh/inkwell/lib/storage"
)

// EncodingError is a serialization fault: a key or value that could
// not be encoded, or stored bytes that no longer decode into the
// expected type (schema mismatch, corruption upstream of SQLite).
type EncodingError struct {
	// Op is the operation during which the fault occurred.
	Op string

	// Namespace is the namespace involved.
	Namespace string

	// Err is the underlying codec error.
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("kvstore: %s %s: encoding: %v", e.Op, e.Namespace, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Map is a typed view over one namespace of a storage.Store. Each
// call is a durable read or write of the persisted state; there is
// no caching layer in between. Safe for concurrent use.
type Map[K encoding.BinaryMarshaler, V any] struct {
	store     *storage.Store
	namespace string
}

// NewMap returns a typed map over the given namespace. The namespace
// must have been declared when the store was opened.
func NewMap[K encoding.BinaryMarshaler, V any](store *storage.Store, namespace string) *Map[K, V] {
	return &Map[K, V]{store: store, namespace: namespace}
}

// Put stores value under key, replacing any existing value. Returns
// the previous value and whether one existed.
func (m *Map[K, V]) Put(ctx context.Context, key K, value V) (previous V, found bool, err error) {
	var zero V
	keyBytes, valueBytes, err := m.encode("put", key, value)
	if err != nil {
		return zero, false, err
	}
	previousBytes, found, err := m.store.Put(ctx, m.namespace, keyBytes, valueBytes)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}
	if err := codec.Unmarshal(previousBytes, &previous); err != nil {
		return zero, false, &EncodingError{Op: "put", Namespace: m.namespace, Err: err}
	}
	return previous, true, nil
}

// PutIfAbsent stores value under key only if the key is not already
// present. Returns whether the value was written. Atomic: concurrent
// callers racing on one key see exactly one true.
func (m *Map[K, V]) PutIfAbsent(ctx context.Context, key K, value V) (bool, error) {
	keyBytes, valueBytes, err := m.encode("put_if_absent", key, value)
	if err != nil {
		return false, err
	}
	return m.store.PutIfAbsent(ctx, m.namespace, keyBytes, valueBytes)
}

// Get returns the value stored under key and whether it exists.
func (m *Map[K, V]) Get(ctx context.Context, key K) (value V, found bool, err error) {
	var zero V
	keyBytes, err := m.encodeKey("get", key)
	if err != nil {
		return zero, false, err
	}
	valueBytes, found, err := m.store.Get(ctx, m.namespace, keyBytes)
	if err != nil || !found {
		return zero, false, err
	}
	if err := codec.Unmarshal(valueBytes, &value); err != nil {
		return zero, false, &EncodingError{Op: "get", Namespace: m.namespace, Err: err}
	}
	return value, true, nil
}

// Remove deletes the value stored under key. Returns the removed
// value and whether one existed.
func (m *Map[K, V]) Remove(ctx context.Context, key K) (previous V, found bool, err error) {
	var zero V
	keyBytes, err := m.encodeKey("remove", key)
	if err != nil {
		return zero, false, err
	}
	previousBytes, found, err := m.store.Remove(ctx, m.namespace, keyBytes)
	if err != nil || !found {
		return zero, false, err
	}
	if err := codec.Unmarshal(previousBytes, &previous); err != nil {
		return zero, false, &EncodingError{Op: "remove", Namespace: m.namespace, Err: err}
	}
	return previous, true, nil
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	keyBytes, err := m.encodeKey("contains", key)
	if err != nil {
		return false, err
	}
	return m.store.Contains(ctx, m.namespace, keyBytes)
}

// Count returns the number of keys in the namespace.
func (m *Map[K, V]) Count(ctx context.Context) (int64, error) {
	return m.store.Count(ctx, m.namespace)
}

func (m *Map[K, V]) encodeKey(op string, key K) ([]byte, error) {
	keyBytes, err := key.MarshalBinary()
	if err != nil {
		return nil, &EncodingError{Op: op, Namespace: m.namespace, Err: err}
	}
	if len(keyBytes) == 0 {
		return nil, &EncodingError{Op: op, Namespace: m.namespace, Err: fmt.Errorf("empty key")}
	}
	return keyBytes, nil
}

func (m *Map[K, V]) encode(op string, key K, value V) (keyBytes, valueBytes []byte, err error) {
	keyBytes, err = m.encodeKey(op, key)
	if err != nil {
		return nil, nil, err
	}
	valueBytes, err = codec.Marshal(value)
	if err != nil {
		return nil, nil, &EncodingError{Op: op, Namespace: m.namespace, Err: err}
	}
	return keyBytes, valueBytes, nil
}

// StringKey adapts a plain string (slugs, names) for use as a map
// key. The key bytes are the string's UTF-8 bytes so the store's
// byte ordering matches lexicographic string ordering.
type StringKey string

// MarshalBinary returns the string's bytes.
func (k StringKey) MarshalBinary() ([]byte, error) {
	return []byte(k), nil
}
