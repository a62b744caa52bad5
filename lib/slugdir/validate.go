// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package slugdir

import "fmt"

// Length bounds for slugs and edit codes, in bytes. These are format
// constants: loosening them is safe, tightening them strands existing
// bindings.
const (
	MinSlugLength = 4
	MaxSlugLength = 32

	MinEditCodeLength = 4
	MaxEditCodeLength = 32
)

// ValidateSlug checks that a candidate slug is 4–32 ASCII
// alphanumeric characters.
func ValidateSlug(slug string) error {
	if len(slug) < MinSlugLength || len(slug) > MaxSlugLength {
		return fmt.Errorf("slug must be between %d and %d characters", MinSlugLength, MaxSlugLength)
	}
	for i := 0; i < len(slug); i++ {
		if !isASCIIAlphanumeric(slug[i]) {
			return fmt.Errorf("slug must contain only ASCII letters and digits")
		}
	}
	return nil
}

// ValidateEditCode checks that a candidate edit code is 4–32
// printable ASCII characters. Edit codes are typed by humans, so the
// charset is broader than slugs but still excludes control bytes and
// anything outside ASCII.
func ValidateEditCode(editCode string) error {
	if len(editCode) < MinEditCodeLength || len(editCode) > MaxEditCodeLength {
		return fmt.Errorf("edit code must be between %d and %d characters", MinEditCodeLength, MaxEditCodeLength)
	}
	for i := 0; i < len(editCode); i++ {
		if editCode[i] < 0x20 || editCode[i] > 0x7e {
			return fmt.Errorf("edit code must contain only printable ASCII characters")
		}
	}
	return nil
}

func isASCIIAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
