package nsg

import (
	"context"
	"fmt"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/vectorstore"
)

// Compile-time check to ensure NSG implements the Index interface.
var _ index.Index = (*NSG)(nil)

// NSG is a graph index over a static vector dataset. It is built once by
// Train and is immutable afterwards; Search is safe for unlimited concurrent
// callers.
type NSG struct {
	opts     Options
	metric   distance.Metric
	distFunc distance.Func
	vectors  vectorstore.Store
	graph    *Graph
	stats    Stats
}

// New creates an NSG index over the given vector store. The index answers
// no queries until Train has built the graph or ReadFrom has restored one.
func New(vectors vectorstore.Store, metric distance.Metric, optFns ...func(*Options)) (*NSG, error) {
	opts := DefaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	distFunc, err := distance.Provider(metric)
	if err != nil {
		return nil, err
	}

	return &NSG{
		opts:     opts,
		metric:   metric,
		distFunc: distFunc,
		vectors:  vectors,
	}, nil
}

// Kind returns the backend identifier.
func (n *NSG) Kind() index.Kind { return index.KindNSG }

// Metric returns the configured distance metric.
func (n *NSG) Metric() distance.Metric { return n.metric }

// Dimension returns the vector dimensionality.
func (n *NSG) Dimension() int {
	if n.graph != nil {
		return n.graph.Dimension()
	}
	if n.vectors != nil {
		return n.vectors.Dimension()
	}
	return 0
}

// Count returns the number of indexed vectors.
func (n *NSG) Count() int {
	if n.graph == nil {
		return 0
	}
	return n.graph.Count()
}

// Graph returns the built graph, or nil before Train/ReadFrom.
func (n *NSG) Graph() *Graph { return n.graph }

// Train builds the graph from a complete, static dataset, replacing any
// previously built graph. A nil store keeps the store passed to New.
func (n *NSG) Train(ctx context.Context, vectors vectorstore.Store) error {
	if vectors != nil {
		n.vectors = vectors
	}
	if n.vectors == nil {
		return fmt.Errorf("no vector store attached: %w", index.ErrEmptyDataset)
	}

	if dim := n.vectors.Dimension(); dim <= 0 {
		return &index.ErrInvalidDimension{Dimension: dim}
	}
	if n.vectors.RowCount() == 0 {
		return index.ErrEmptyDataset
	}

	b := newBuilder(n.opts, n.vectors, n.distFunc, n.metric)

	graph, stats, err := b.build(ctx)
	if err != nil {
		return err
	}

	n.graph = graph
	n.stats = stats

	return nil
}

// Add is not supported: the graph is built in one pass over a static
// dataset. Rebuild with Train instead.
func (n *NSG) Add(_ context.Context, _ ...[]float32) error {
	return fmt.Errorf("nsg supports whole-dataset construction only: %w", index.ErrNotImplemented)
}

// RangeSearch is not supported by the graph traversal.
func (n *NSG) RangeSearch(_ context.Context, _ []float32, _ float32, _ ...func(*index.SearchOptions)) ([]index.SearchResult, error) {
	return nil, fmt.Errorf("nsg does not support range search: %w", index.ErrNotImplemented)
}

// VectorByID returns the stored vector for an id.
func (n *NSG) VectorByID(id uint32) ([]float32, bool) {
	if n.vectors == nil || int(id) >= n.vectors.RowCount() {
		return nil, false
	}
	return n.vectors.VectorAt(id), true
}
