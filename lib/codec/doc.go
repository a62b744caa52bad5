// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is Inkwell's standard binary value encoding: CBOR with
// Core Deterministic Encoding.
//
// Every value persisted to the store goes through this package. The
// encoding is versioned by convention: new fields may be added to a
// record type at any time (the decoder ignores unknown fields), but
// existing fields must never change type or meaning. A change that
// cannot be expressed that way requires an explicit migration pass
// over the stored data.
package codec
