package flat

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/persistence"
)

// Stream layout:
//
//	[magic u32][version u32][index type u8][metric u8][compression u8]
//	[dim u32][count u32]
//	[block length u32][compressed vector block][checksum u32]
//
// Unlike the graph index the flat index owns its vectors, so they are part
// of the stream.

// WriteTo serializes the index, vectors included, to w.
func (f *Flat) WriteTo(w io.Writer) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	bw := persistence.NewWriter(w)

	if err := bw.WriteUint32(persistence.MagicNumber); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(persistence.Version); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint8(persistence.IndexTypeFlat); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint8(uint8(f.metric)); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint8(uint8(f.opts.Compression)); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(uint32(f.dim)); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(uint32(f.rows)); err != nil {
		return bw.BytesWritten(), err
	}

	body := make([]byte, len(f.data)*4)
	for i, v := range f.data {
		binary.LittleEndian.PutUint32(body[i*4:], math.Float32bits(v))
	}

	block, err := persistence.CompressBlock(body, f.opts.Compression)
	if err != nil {
		return bw.BytesWritten(), err
	}

	if err := bw.WriteUint32(uint32(len(block))); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteBytes(block); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(persistence.Checksum(block)); err != nil {
		return bw.BytesWritten(), err
	}

	return bw.BytesWritten(), nil
}

// ReadFrom restores the index from r, replacing its contents. The stream's
// metric and dimensionality are adopted.
func (f *Flat) ReadFrom(r io.Reader) (int64, error) {
	br := persistence.NewReader(r)

	magic, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	if magic != persistence.MagicNumber {
		return br.BytesRead(), corrupt(fmt.Errorf("%w: got 0x%08X", persistence.ErrInvalidMagic, magic))
	}

	version, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	if version != persistence.Version {
		return br.BytesRead(), corrupt(fmt.Errorf("%w: got 0x%08X", persistence.ErrInvalidVersion, version))
	}

	indexType, err := br.ReadUint8()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	if indexType != persistence.IndexTypeFlat {
		return br.BytesRead(), corrupt(fmt.Errorf("unexpected index type %d", indexType))
	}

	metricByte, err := br.ReadUint8()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	metric := distance.Metric(metricByte)

	distFunc, err := distance.Provider(metric)
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}

	compByte, err := br.ReadUint8()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	compression := persistence.CompressionType(compByte)
	if !compression.Valid() {
		return br.BytesRead(), corrupt(fmt.Errorf("unknown compression type %d", compByte))
	}

	dim, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	if dim == 0 {
		return br.BytesRead(), corrupt(fmt.Errorf("invalid dimension %d", dim))
	}

	count, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}

	blockLen, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}

	block := make([]byte, blockLen)
	if err := br.ReadBytes(block); err != nil {
		return br.BytesRead(), corrupt(err)
	}

	sum, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	if sum != persistence.Checksum(block) {
		return br.BytesRead(), corrupt(persistence.ErrChecksum)
	}

	body, err := persistence.DecompressBlock(block, compression)
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}

	want := int(count) * int(dim) * 4
	if len(body) != want {
		return br.BytesRead(), corrupt(fmt.Errorf("vector block holds %d bytes, header implies %d", len(body), want))
	}

	data := make([]float32, int(count)*int(dim))
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}

	f.mu.Lock()
	f.metric = metric
	f.distFunc = distFunc
	f.opts.Compression = compression
	f.dim = int(dim)
	f.data = data
	f.rows = int(count)
	f.mu.Unlock()

	return br.BytesRead(), nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %w", index.ErrCorrupt, err)
}
