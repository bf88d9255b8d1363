// Package flat provides an exact, brute-force vector index. Every query
// scans all vectors, so results are exact and the backend doubles as ground
// truth for the graph index.
package flat

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/filter"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/internal/searcher"
	"github.com/hupe1980/navix/persistence"
	"github.com/hupe1980/navix/vectorstore"
)

// Compile-time check to ensure Flat implements the Index interface.
var _ index.Index = (*Flat)(nil)

// Options configures the flat index.
type Options struct {
	// Compression selects the compression applied to the vector section
	// by WriteTo.
	Compression persistence.CompressionType

	// Logger receives structured events. nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns sensible defaults for Flat.
func DefaultOptions() Options {
	return Options{
		Compression: persistence.CompressionNone,
	}
}

// Flat is a brute-force index over a contiguous row-major buffer. Reads
// take the read lock, so searches run concurrently; Add and Train are
// serialized.
type Flat struct {
	mu       sync.RWMutex
	opts     Options
	metric   distance.Metric
	distFunc distance.Func
	dim      int
	data     []float32
	rows     int
}

// New creates an empty flat index for vectors of the given dimensionality.
func New(dim int, metric distance.Metric, optFns ...func(*Options)) (*Flat, error) {
	opts := DefaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.Compression.Valid() {
		return nil, &index.ErrInvalidConfig{Reason: fmt.Sprintf("unknown compression type %d", opts.Compression)}
	}
	if dim <= 0 {
		return nil, &index.ErrInvalidDimension{Dimension: dim}
	}

	distFunc, err := distance.Provider(metric)
	if err != nil {
		return nil, err
	}

	return &Flat{
		opts:     opts,
		metric:   metric,
		distFunc: distFunc,
		dim:      dim,
	}, nil
}

// Kind returns the backend identifier.
func (f *Flat) Kind() index.Kind { return index.KindFlat }

// Metric returns the configured distance metric.
func (f *Flat) Metric() distance.Metric { return f.metric }

// Dimension returns the vector dimensionality.
func (f *Flat) Dimension() int { return f.dim }

// Count returns the number of indexed vectors.
func (f *Flat) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rows
}

// Train replaces the index contents with a copy of the given dataset.
func (f *Flat) Train(ctx context.Context, vectors vectorstore.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if vectors == nil {
		return index.ErrEmptyDataset
	}
	if vectors.Dimension() != f.dim {
		return &index.ErrDimensionMismatch{Expected: f.dim, Actual: vectors.Dimension()}
	}

	n := vectors.RowCount()
	var data []float32
	if raw, ok := vectors.(interface{ Raw() []float32 }); ok {
		data = append(make([]float32, 0, n*f.dim), raw.Raw()...)
	} else {
		data = make([]float32, 0, n*f.dim)
		for i := 0; i < n; i++ {
			data = append(data, vectors.VectorAt(uint32(i))...)
		}
	}

	f.mu.Lock()
	f.data = data
	f.rows = n
	f.mu.Unlock()

	return nil
}

// Add appends vectors to the index. IDs are assigned densely in insertion
// order.
func (f *Flat) Add(ctx context.Context, vectors ...[]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, v := range vectors {
		if len(v) != f.dim {
			return &index.ErrDimensionMismatch{Expected: f.dim, Actual: len(v)}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, v := range vectors {
		f.data = append(f.data, v...)
		f.rows++
	}

	return nil
}

// Search returns the exact k nearest vectors, ordered ascending by
// (distance, id).
func (f *Flat) Search(ctx context.Context, query []float32, k int, optFns ...func(*index.SearchOptions)) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if len(query) != f.dim {
		return nil, &index.ErrDimensionMismatch{Expected: f.dim, Actual: len(query)}
	}

	opts := index.SearchOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.rows == 0 {
		return nil, index.ErrEmptyIndex
	}

	pool := searcher.NewPool(k)

	for id := 0; id < f.rows; id++ {
		if excluded(opts.Filter, uint32(id)) {
			continue
		}
		pool.Insert(uint32(id), f.distFunc(query, f.vectorAt(uint32(id))))
	}

	results := make([]index.SearchResult, 0, pool.Len())
	for _, c := range pool.Items() {
		results = append(results, index.SearchResult{ID: c.ID, Distance: c.Distance})
	}

	return results, nil
}

// RangeSearch returns every vector within radius of the query, ordered
// ascending by (distance, id).
func (f *Flat) RangeSearch(ctx context.Context, query []float32, radius float32, optFns ...func(*index.SearchOptions)) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != f.dim {
		return nil, &index.ErrDimensionMismatch{Expected: f.dim, Actual: len(query)}
	}

	opts := index.SearchOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.rows == 0 {
		return nil, index.ErrEmptyIndex
	}

	var results []index.SearchResult
	for id := 0; id < f.rows; id++ {
		if excluded(opts.Filter, uint32(id)) {
			continue
		}
		if d := f.distFunc(query, f.vectorAt(uint32(id))); d <= radius {
			results = append(results, index.SearchResult{ID: uint32(id), Distance: d})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	return results, nil
}

// VectorByID returns the stored vector for an id. The returned slice
// aliases the internal buffer and must not be modified.
func (f *Flat) VectorByID(id uint32) ([]float32, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if int(id) >= f.rows {
		return nil, false
	}
	return f.vectorAt(id), true
}

// vectorAt returns the row slice; callers hold at least the read lock.
func (f *Flat) vectorAt(id uint32) []float32 {
	off := int(id) * f.dim
	return f.data[off : off+f.dim : off+f.dim]
}

func excluded(fl filter.Filter, id uint32) bool {
	return fl != nil && fl.Excluded(id)
}
