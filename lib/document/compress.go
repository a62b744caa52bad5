// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag identifies the algorithm a stored record's content
// was compressed with. Tags are persisted inside the record encoding
// (1 byte each); these values are format constants and must never be
// renumbered.
type CompressionTag uint8

const (
	// CompressionNone indicates content stored uncompressed. Chosen
	// when content is small or incompressible.
	CompressionNone CompressionTag = 0

	// CompressionZstd indicates zstd at the default level. The
	// standard choice for paste content, which is overwhelmingly
	// text.
	CompressionZstd CompressionTag = 1

	// CompressionLZ4 indicates block-mode LZ4. Cheaper to decode
	// than zstd; selectable by callers that favor read speed over
	// ratio. Never auto-selected, but always decodable.
	CompressionLZ4 CompressionTag = 2
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// errIncompressible signals that compression would not shrink the
// input; the caller falls back to CompressionNone.
var errIncompressible = errors.New("document: content is incompressible")

// compressThreshold is the minimum content size worth compressing.
// Below this, header overhead eats any savings.
const compressThreshold = 128

// zstdEncoder and zstdDecoder are reused across calls; both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("document: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("document: zstd decoder initialization failed: " + err.Error())
	}
}

// compressContent compresses content for storage, choosing the tag:
// zstd when it pays for itself, none otherwise. The returned bytes
// belong to the caller.
func compressContent(content []byte) (CompressionTag, []byte) {
	if len(content) < compressThreshold {
		return CompressionNone, content
	}
	compressed, err := Compress(content, CompressionZstd)
	if err != nil {
		return CompressionNone, content
	}
	return CompressionZstd, compressed
}

// Compress compresses data with the given algorithm. Returns
// errIncompressible (wrapped) when the output would be no smaller
// than the input; CompressionNone passes data through unchanged.
func Compress(data []byte, tag CompressionTag) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return data, nil

	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return nil, errIncompressible
		}
		return compressed, nil

	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		destination := make([]byte, bound)
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		// CompressBlock returns 0 for incompressible input.
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return destination[:written], nil

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

// Decompress reverses Compress. The uncompressedSize must match the
// original content length exactly; a mismatch is a corruption signal
// and returns an error.
func Decompress(compressed []byte, tag CompressionTag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(compressed) != uncompressedSize {
			return nil, fmt.Errorf("uncompressed content: size %d does not match expected %d",
				len(compressed), uncompressedSize)
		}
		return compressed, nil

	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != uncompressedSize {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), uncompressedSize)
		}
		return result, nil

	case CompressionLZ4:
		destination := make([]byte, uncompressedSize)
		read, err := lz4.UncompressBlock(compressed, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != uncompressedSize {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
		}
		return destination, nil

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}
