// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package render converts untrusted markdown into browser-safe HTML.
//
// The pipeline is strictly ordered: parse (CommonMark plus the GFM,
// footnote, and definition-list extensions), syntax-highlight fenced
// code blocks through a closed grammar table, serialize to HTML, and
// finally sanitize the whole string through an allow-list policy.
// Sanitization runs last and unconditionally: highlighted fragments
// are untrusted-origin HTML like everything else, and raw HTML in the
// source is allowed through the serializer precisely because the
// sanitizer is the security boundary.
//
// A Renderer is immutable after New and safe for concurrent use. Its
// output is a pure function of the input string and the static
// grammar/theme table compiled into the binary.
package render
