package persistence

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReader_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteUint8(7))
	require.NoError(t, w.WriteUint32(42))
	require.NoError(t, w.WriteUint64(1<<40))
	require.NoError(t, w.WriteFloat32(3.5))
	require.NoError(t, w.WriteUint32Slice([]uint32{1, 2, 3}))
	require.NoError(t, w.WriteFloat32Slice([]float32{-1, 0.25}))
	assert.Equal(t, int64(1+4+8+4+12+8), w.BytesWritten())

	r := NewReader(&buf)

	u8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u8)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), u32)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u64)

	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	s32, err := r.ReadUint32Slice(3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, s32)

	fs, err := r.ReadFloat32Slice(2)
	require.NoError(t, err)
	assert.Equal(t, []float32{-1, 0.25}, fs)
	assert.Equal(t, int64(37), r.BytesRead())
}

func TestReader_Truncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))

	_, err := r.ReadUint32()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")

	err := SaveToFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	})
	require.NoError(t, err)

	var got []byte
	err = LoadFromFile(path, func(r io.Reader) error {
		buf := make([]byte, 5)
		_, err := io.ReadFull(r, buf)
		got = buf
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestChecksumWriterReader(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChecksumWriter(&buf)

	_, err := cw.Write([]byte("navix"))
	require.NoError(t, err)
	require.Equal(t, Checksum([]byte("navix")), cw.Sum())

	cr := NewChecksumReader(&buf)
	p := make([]byte, 5)
	_, err = cr.Read(p)
	require.NoError(t, err)
	assert.Equal(t, cw.Sum(), cr.Sum())
}
