// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is the 32-byte BLAKE3 digest of a document's content bytes.
// It is the document's identity and storage key: computed, never
// chosen, and deterministic: identical content always produces the
// same Hash. Changing the hash function or the domain key invalidates
// every digest in an existing store.
type Hash [32]byte

// contentDomainKey is the 32-byte key for BLAKE3 keyed hashing of
// document content. Domain separation keeps document hashes from
// colliding with any future keyed use of BLAKE3 in this codebase. The
// byte values are the ASCII encoding of the domain name, zero-padded
// to 32 bytes, so the key is inspectable in hex dumps.
var contentDomainKey = [32]byte{
	'i', 'n', 'k', 'w', 'e', 'l', 'l', '.',
	'd', 'o', 'c', 'u', 'm', 'e', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// HashContent computes the content-domain BLAKE3 keyed hash of the
// given bytes. Always applied to the raw, uncompressed content, so
// the digest is independent of how the record happens to be stored.
func HashContent(content []byte) Hash {
	hasher, err := blake3.NewKeyed(contentDomainKey[:])
	if err != nil {
		// NewKeyed only fails for a wrong key length, which the
		// fixed-size array rules out.
		panic("document: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(content)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// String returns the canonical hex form of the hash, as used in logs
// and URLs.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing document hash: %w", err)
	}
	if len(decoded) != 32 {
		return hash, fmt.Errorf("document hash is %d bytes, want 32", len(decoded))
	}
	copy(hash[:], decoded)
	return hash, nil
}

// MarshalBinary returns the raw 32 hash bytes. This is both the
// storage key encoding (lib/kvstore) and the CBOR byte-string
// encoding of a Hash embedded in a record.
func (h Hash) MarshalBinary() ([]byte, error) {
	return h[:], nil
}

// UnmarshalBinary sets the hash from raw bytes.
func (h *Hash) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("document hash is %d bytes, want 32", len(data))
	}
	copy(h[:], data)
	return nil
}
