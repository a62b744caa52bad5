// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "github.com/microcosm-cc/bluemonday"

// newPolicy builds the allow-list the whole pipeline funnels through.
// Base is bluemonday's user-generated-content policy (structural and
// formatting elements, standard URL schemes, lists, tables, images),
// widened just enough for the markdown extensions in use. Everything
// script-capable (<script>, event-handler attributes, javascript:
// URLs) is outside the allow-list and therefore stripped; nothing
// here opts back into any of it.
func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()

	// Anchors for heading IDs and footnote targets, plus classes for
	// chroma token spans.
	policy.AllowAttrs("id", "name", "class").Globally()

	// Fragment links between footnote references and bodies.
	policy.AllowRelativeURLs(true)

	// GFM task lists render as disabled checkboxes.
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")

	// Strikethrough, footnote markers, the footnote section, and the
	// token spans chroma wraps highlighted code in.
	policy.AllowElements("del", "s", "sup", "sub", "section", "span")

	return policy
}
