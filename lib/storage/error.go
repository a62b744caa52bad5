// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import "fmt"

// Error is a storage-engine fault: an I/O problem, corruption, or any
// other failure surfaced by SQLite. It is distinct from the encoding
// faults reported by lib/kvstore; callers that need to tell the two
// apart use errors.As with the respective types.
type Error struct {
	// Op is the operation that failed ("put", "get", "remove", ...).
	Op string

	// Namespace is the namespace the operation targeted.
	Namespace string

	// Err is the underlying engine error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Namespace, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// engineError wraps err as a storage Error. Returns nil if err is nil.
func engineError(op, namespace string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Namespace: namespace, Err: err}
}
