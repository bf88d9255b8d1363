package nsg

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/persistence"
)

// Stream layout:
//
//	[magic u32][version u32][index type u8][metric u8][compression u8]
//	[dim u32][count u32][max degree u32][nav point u32]
//	[block length u32][compressed adjacency block][checksum u32]
//
// The adjacency block holds, per node in id order, [degree u32][neighbor
// ids u32...]. The checksum covers the compressed block bytes.

// WriteTo serializes the graph to w. The vector store is not part of the
// stream; the caller persists vectors separately and reattaches them on
// load.
func (n *NSG) WriteTo(w io.Writer) (int64, error) {
	if n.graph == nil {
		return 0, index.ErrEmptyIndex
	}

	bw := persistence.NewWriter(w)

	if err := bw.WriteUint32(persistence.MagicNumber); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(persistence.Version); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint8(persistence.IndexTypeNSG); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint8(uint8(n.metric)); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint8(uint8(n.opts.Compression)); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(uint32(n.graph.dim)); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(uint32(n.graph.Count())); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(uint32(n.graph.maxDegree)); err != nil {
		return bw.BytesWritten(), err
	}
	if err := bw.WriteUint32(n.graph.navPoint); err != nil {
		return bw.BytesWritten(), err
	}

	var body bytes.Buffer
	body.Grow(n.graph.Count() * (n.graph.maxDegree + 1) * 4)

	bodyW := persistence.NewWriter(&body)
	for _, nbrs := range n.graph.adjacency {
		if err := bodyW.WriteUint32(uint32(len(nbrs))); err != nil {
			return bw.BytesWritten(), err
		}
		if err := bodyW.WriteUint32Slice(nbrs); err != nil {
			return bw.BytesWritten(), err
		}
	}

	block, err := persistence.CompressBlock(body.Bytes(), n.opts.Compression)
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

// ReadFrom restores the graph from r, replacing any existing graph. The
// stream's metric is adopted. When a vector store is attached its shape
// must match the stream header.
func (n *NSG) ReadFrom(r io.Reader) (int64, error) {
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
	if indexType != persistence.IndexTypeNSG {
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
	count, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	maxDegree, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}
	navPoint, err := br.ReadUint32()
	if err != nil {
		return br.BytesRead(), corrupt(err)
	}

	if count > 0 && navPoint >= count {
		return br.BytesRead(), corrupt(fmt.Errorf("navigation point %d out of range for %d nodes", navPoint, count))
	}

	if n.vectors != nil {
		if n.vectors.Dimension() != int(dim) {
			return br.BytesRead(), &index.ErrDimensionMismatch{Expected: n.vectors.Dimension(), Actual: int(dim)}
		}
		if n.vectors.RowCount() != int(count) {
			return br.BytesRead(), corrupt(fmt.Errorf("vector store holds %d rows, stream declares %d nodes", n.vectors.RowCount(), count))
		}
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

	adjacency, err := decodeAdjacency(body, int(count), int(maxDegree))
	if err != nil {
		return br.BytesRead(), err
	}

	n.graph = &Graph{
		adjacency: adjacency,
		navPoint:  navPoint,
		metric:    metric,
		dim:       int(dim),
		maxDegree: int(maxDegree),
	}
	n.metric = metric
	n.distFunc = distFunc
	n.opts.Compression = compression
	n.stats = Stats{Nodes: int(count)}
	n.stats.fillDegrees(n.graph)

	return br.BytesRead(), nil
}

// decodeAdjacency parses the per-node neighbor lists, rejecting degrees
// above the declared bound, out-of-range ids, self loops, and trailing
// bytes.
func decodeAdjacency(body []byte, count, maxDegree int) ([][]uint32, error) {
	br := persistence.NewReader(bytes.NewReader(body))

	adjacency := make([][]uint32, count)
	for v := 0; v < count; v++ {
		degree, err := br.ReadUint32()
		if err != nil {
			return nil, corrupt(err)
		}
		if int(degree) > maxDegree {
			return nil, corrupt(fmt.Errorf("node %d declares degree %d, bound is %d", v, degree, maxDegree))
		}

		nbrs, err := br.ReadUint32Slice(int(degree))
		if err != nil {
			return nil, corrupt(err)
		}
		for _, w := range nbrs {
			if int(w) >= count {
				return nil, corrupt(fmt.Errorf("node %d references neighbor %d, only %d nodes exist", v, w, count))
			}
			if int(w) == v {
				return nil, corrupt(fmt.Errorf("node %d references itself", v))
			}
		}

		adjacency[v] = nbrs
	}

	if br.BytesRead() != int64(len(body)) {
		return nil, corrupt(fmt.Errorf("%d trailing bytes after adjacency lists", int64(len(body))-br.BytesRead()))
	}

	return adjacency, nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %w", index.ErrCorrupt, err)
}
