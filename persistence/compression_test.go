package persistence

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressibleData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 16)
	}
	return data
}

func TestCompressBlock_RoundTrip(t *testing.T) {
	data := compressibleData(8192)

	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(ct.String(), func(t *testing.T) {
			block, err := CompressBlock(data, ct)
			require.NoError(t, err)

			out, err := DecompressBlock(block, ct)
			require.NoError(t, err)
			assert.Equal(t, data, out)

			if ct != CompressionNone {
				assert.Less(t, len(block), len(data))
			}
		})
	}
}

func TestCompressBlock_IncompressibleStoredRaw(t *testing.T) {
	// A short high-entropy payload gains nothing from LZ4; it must still
	// round-trip through the raw-in-block path.
	data := []byte{0x9f, 0x3a, 0xd1, 0x07, 0x66, 0xe2, 0x4b, 0x58}

	block, err := CompressBlock(data, CompressionLZ4)
	require.NoError(t, err)

	out, err := DecompressBlock(block, CompressionLZ4)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestCompressBlock_Empty(t *testing.T) {
	block, err := CompressBlock(nil, CompressionZSTD)
	require.NoError(t, err)

	out, err := DecompressBlock(block, CompressionZSTD)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecompressBlock_Truncated(t *testing.T) {
	_, err := DecompressBlock([]byte{1, 2, 3}, CompressionLZ4)
	require.ErrorIs(t, err, ErrTruncated)

	data := compressibleData(1024)
	block, err := CompressBlock(data, CompressionLZ4)
	require.NoError(t, err)

	_, err = DecompressBlock(block[:len(block)-4], CompressionLZ4)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestCompressionType(t *testing.T) {
	assert.True(t, CompressionNone.Valid())
	assert.True(t, CompressionLZ4.Valid())
	assert.True(t, CompressionZSTD.Valid())
	assert.False(t, CompressionType(9).Valid())
	assert.Equal(t, "LZ4", CompressionLZ4.String())
}

func TestChecksumStability(t *testing.T) {
	data := compressibleData(256)
	assert.Equal(t, Checksum(data), Checksum(bytes.Clone(data)))
	assert.NotEqual(t, Checksum(data), Checksum(data[1:]))
}
