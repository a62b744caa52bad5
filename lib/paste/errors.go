// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package paste

import (
	"errors"
	"fmt"
)

// The expected error outcomes of normal use. Each carries enough for
// a user-facing message. Faults in the storage or encoding layers are
// never exposed directly; they are logged in full and surfaced as
// ErrInternal with no detail attached.
var (
	// ErrSlugTaken reports that the requested slug is already bound.
	ErrSlugTaken = errors.New("the requested slug is already taken")

	// ErrForbidden reports an edit-code mismatch on edit or delete.
	ErrForbidden = errors.New("the edit code is not valid for this slug")

	// ErrInternal is the opaque signal for storage and encoding
	// faults. The detail is in the service log, not here.
	ErrInternal = errors.New("internal error")
)

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	// Field names the offending input: "slug", "edit_code", "content".
	Field string

	// Reason is a human-readable explanation.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a slug with no live binding.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("slug %q not found", e.Slug)
}
