// Package navix provides an embedded approximate nearest neighbor search
// engine for Go.
//
// Navix builds graph indexes over static vector datasets and answers
// k-nearest-neighbor queries by greedy beam traversal:
//
//   - Flat: exhaustive exact search, the right choice for small datasets
//     and for verifying graph recall
//   - NSG: a navigating spreading-out graph with a single navigation point,
//     diversity-pruned edges, and guaranteed connectivity
//
// # Quick Start
//
//	store, _ := vectorstore.FromRows(rows)
//
//	idx, err := navix.Open(navix.KindNSG, store.Dimension(), navix.MetricL2,
//	    navix.WithVectors(store),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	if err := idx.Train(ctx, nil); err != nil {
//	    panic(err)
//	}
//
//	results, err := idx.Search(ctx, query, 10)
//
// Indexes serialize to sequential byte streams and can be persisted to any
// blobstore.Store implementation (local filesystem, S3, MinIO) via
// SaveSnapshot and LoadSnapshot.
package navix

import (
	"fmt"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/index/flat"
	"github.com/hupe1980/navix/index/nsg"
	"github.com/hupe1980/navix/vectorstore"
)

// Re-exported metric identifiers.
const (
	MetricL2           = distance.MetricL2
	MetricInnerProduct = distance.MetricInnerProduct
	MetricCosine       = distance.MetricCosine
)

// Re-exported backend identifiers.
const (
	KindFlat = index.KindFlat
	KindNSG  = index.KindNSG
)

// Options configures Open.
type Options struct {
	// Vectors is the dataset the index is built over. Required for NSG;
	// ignored by Flat, which owns its vectors.
	Vectors vectorstore.Store

	// NSG holds backend options applied when kind is KindNSG.
	NSG []func(*nsg.Options)

	// Flat holds backend options applied when kind is KindFlat.
	Flat []func(*flat.Options)

	// Logger, when set, records build and search events for the opened
	// index at the facade level.
	Logger *Logger
}

// WithVectors attaches the dataset the index is built over.
func WithVectors(store vectorstore.Store) func(*Options) {
	return func(o *Options) {
		o.Vectors = store
	}
}

// WithNSGOptions appends backend options for the NSG index.
func WithNSGOptions(optFns ...func(*nsg.Options)) func(*Options) {
	return func(o *Options) {
		o.NSG = append(o.NSG, optFns...)
	}
}

// WithFlatOptions appends backend options for the flat index.
func WithFlatOptions(optFns ...func(*flat.Options)) func(*Options) {
	return func(o *Options) {
		o.Flat = append(o.Flat, optFns...)
	}
}

// WithLogger attaches a logger that records build and search events of the
// opened index.
func WithLogger(logger *Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Open creates an index of the given kind for vectors of the given
// dimensionality.
func Open(kind index.Kind, dim int, metric distance.Metric, optFns ...func(*Options)) (index.Index, error) {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Vectors != nil && opts.Vectors.Dimension() != dim {
		return nil, &index.ErrDimensionMismatch{Expected: dim, Actual: opts.Vectors.Dimension()}
	}

	var (
		idx index.Index
		err error
	)
	switch kind {
	case index.KindFlat:
		idx, err = flat.New(dim, metric, opts.Flat...)
	case index.KindNSG:
		if dim <= 0 {
			return nil, &index.ErrInvalidDimension{Dimension: dim}
		}
		idx, err = nsg.New(opts.Vectors, metric, opts.NSG...)
	default:
		return nil, &index.ErrInvalidConfig{Reason: fmt.Sprintf("unknown index kind %q", kind)}
	}
	if err != nil {
		return nil, err
	}

	if opts.Logger != nil {
		idx = &loggedIndex{Index: idx, logger: opts.Logger}
	}

	return idx, nil
}
