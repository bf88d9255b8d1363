// Package persistence provides binary serialization primitives shared by all
// index backends: little-endian writers/readers, checksumming, optional block
// compression and atomic file save/load.
package persistence

import "errors"

const (
	// MagicNumber identifies navix binary streams (ASCII: "NVX0").
	MagicNumber = 0x4E565830
	// Version is the current stream format version.
	Version = 0x00010000

	// Index type identifiers embedded in stream headers.
	IndexTypeFlat = 1
	IndexTypeNSG  = 2
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrChecksum       = errors.New("checksum mismatch")
	ErrTruncated      = errors.New("truncated stream")
)

// CompressionType defines the compression algorithm applied to a body section.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast, good for hot data).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio, good for cold data).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZSTD:
		return "ZSTD"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a known compression type.
func (c CompressionType) Valid() bool {
	return c == CompressionNone || c == CompressionLZ4 || c == CompressionZSTD
}
