// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package slugdir

import (
	"crypto/rand"
	"fmt"
)

// Generated identifier lengths. An 8-character alphanumeric slug
// gives 62^8 (about 2e14) possibilities; collisions with existing slugs
// are improbable but still checked at insertion. A 16-character edit
// code (~95 bits) is the shared secret and is never checked against
// anything but its own record.
const (
	GeneratedSlugLength     = 8
	GeneratedEditCodeLength = 16
)

// alphabet is the character set for generated identifiers. Plain
// alphanumerics: every generated slug is also a valid custom slug.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateSlug returns a random 8-character slug.
func GenerateSlug() (string, error) {
	return randomString(GeneratedSlugLength)
}

// GenerateEditCode returns a random 16-character edit code.
func GenerateEditCode() (string, error) {
	return randomString(GeneratedEditCodeLength)
}

// randomString draws length characters uniformly from alphabet using
// crypto/rand with rejection sampling (64 is the smallest power of
// two ≥ len(alphabet); values of 62 and 63 are redrawn, so no
// character is favored by modulo bias).
func randomString(length int) (string, error) {
	const mask = 0x3f

	result := make([]byte, 0, length)
	buffer := make([]byte, length*2)
	for {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("generating identifier: %w", err)
		}
		for _, b := range buffer {
			index := int(b & mask)
			if index >= len(alphabet) {
				continue
			}
			result = append(result, alphabet[index])
			if len(result) == length {
				return string(result), nil
			}
		}
	}
}
