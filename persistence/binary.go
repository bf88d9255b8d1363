package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Writer writes little-endian binary data to a stream.
type Writer struct {
	w   io.Writer
	n   int64
	buf [8]byte
}

// NewWriter creates a new binary writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// BytesWritten returns the total number of bytes written.
func (bw *Writer) BytesWritten() int64 { return bw.n }

// WriteUint8 writes a single byte.
func (bw *Writer) WriteUint8(v uint8) error {
	bw.buf[0] = v
	return bw.write(bw.buf[:1])
}

// WriteUint32 writes a uint32 in little-endian order.
func (bw *Writer) WriteUint32(v uint32) error {
	binary.LittleEndian.PutUint32(bw.buf[:4], v)
	return bw.write(bw.buf[:4])
}

// WriteUint64 writes a uint64 in little-endian order.
func (bw *Writer) WriteUint64(v uint64) error {
	binary.LittleEndian.PutUint64(bw.buf[:8], v)
	return bw.write(bw.buf[:8])
}

// WriteFloat32 writes a float32 in little-endian IEEE 754 order.
func (bw *Writer) WriteFloat32(v float32) error {
	return bw.WriteUint32(math.Float32bits(v))
}

// WriteUint32Slice writes each element in little-endian order.
func (bw *Writer) WriteUint32Slice(s []uint32) error {
	for _, v := range s {
		if err := bw.WriteUint32(v); err != nil {
			return err
		}
	}
	return nil
}

// WriteFloat32Slice writes each element in little-endian order.
func (bw *Writer) WriteFloat32Slice(s []float32) error {
	for _, v := range s {
		if err := bw.WriteFloat32(v); err != nil {
			return err
		}
	}
	return nil
}

// WriteBytes writes raw bytes.
func (bw *Writer) WriteBytes(p []byte) error {
	return bw.write(p)
}

func (bw *Writer) write(p []byte) error {
	n, err := bw.w.Write(p)
	bw.n += int64(n)
	return err
}

// Reader reads little-endian binary data from a stream. Short reads are
// reported as ErrTruncated so callers can distinguish corruption from other
// IO failures.
type Reader struct {
	r   io.Reader
	n   int64
	buf [8]byte
}

// NewReader creates a new binary reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// BytesRead returns the total number of bytes consumed.
func (br *Reader) BytesRead() int64 { return br.n }

// ReadUint8 reads a single byte.
func (br *Reader) ReadUint8() (uint8, error) {
	if err := br.read(br.buf[:1]); err != nil {
		return 0, err
	}
	return br.buf[0], nil
}

// ReadUint32 reads a little-endian uint32.
func (br *Reader) ReadUint32() (uint32, error) {
	if err := br.read(br.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(br.buf[:4]), nil
}

// ReadUint64 reads a little-endian uint64.
func (br *Reader) ReadUint64() (uint64, error) {
	if err := br.read(br.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(br.buf[:8]), nil
}

// ReadFloat32 reads a little-endian IEEE 754 float32.
func (br *Reader) ReadFloat32() (float32, error) {
	bits, err := br.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadUint32Slice reads count little-endian uint32 values.
func (br *Reader) ReadUint32Slice(count int) ([]uint32, error) {
	s := make([]uint32, count)
	for i := range s {
		v, err := br.ReadUint32()
		if err != nil {
			return nil, err
		}
		s[i] = v
	}
	return s, nil
}

// ReadFloat32Slice reads count little-endian float32 values.
func (br *Reader) ReadFloat32Slice(count int) ([]float32, error) {
	s := make([]float32, count)
	for i := range s {
		v, err := br.ReadFloat32()
		if err != nil {
			return nil, err
		}
		s[i] = v
	}
	return s, nil
}

// ReadBytes reads exactly len(p) bytes into p.
func (br *Reader) ReadBytes(p []byte) error {
	return br.read(p)
}

func (br *Reader) read(p []byte) error {
	n, err := io.ReadFull(br.r, p)
	br.n += int64(n)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}

// SaveToFile saves data to a file atomically (temp file + rename).
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	// Write to a temp file in the same directory to ensure rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent deferred cleanup from removing the final file.
	tmpName = ""
	return nil
}

// LoadFromFile loads data from a file through a buffered reader.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewReaderSize(f, 256*1024)
	return readFunc(buf)
}
