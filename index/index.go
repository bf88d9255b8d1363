// Package index defines the polymorphic contract implemented by all vector
// index backends. The surrounding engine selects a backend by Kind and talks
// to it exclusively through the Index interface; backends report
// ErrNotImplemented for capabilities they do not support.
package index

import (
	"context"
	"io"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/filter"
	"github.com/hupe1980/navix/vectorstore"
)

// Kind identifies an index backend.
type Kind string

const (
	// KindFlat performs exhaustive search over all vectors. Exact, O(n) per query.
	KindFlat Kind = "flat"

	// KindNSG builds a navigable spreading-out graph and answers queries by
	// greedy beam traversal. Approximate, sublinear per query.
	KindNSG Kind = "nsg"
)

// SearchResult represents a single search hit.
type SearchResult struct {
	// ID is the dense row id of the hit in the underlying vector store.
	ID uint32

	// Distance is the dissimilarity between the query and the hit.
	Distance float32
}

// SearchOptions carries per-query knobs. The zero value uses index defaults.
type SearchOptions struct {
	// Filter excludes ids from results. Filtered nodes are still traversed
	// as graph hops; they are only dropped at result-collection time.
	Filter filter.Filter

	// MaxExpansions is a soft budget on node expansions for graph search.
	// When exhausted, the best results found so far are returned. 0 means
	// no budget.
	MaxExpansions int

	// PoolSize overrides the candidate pool size (beam width) for this
	// query. The effective pool is never smaller than k. 0 keeps the index
	// default.
	PoolSize int
}

// WithFilter sets an exclusion filter for the query.
func WithFilter(f filter.Filter) func(*SearchOptions) {
	return func(o *SearchOptions) {
		o.Filter = f
	}
}

// WithMaxExpansions sets a soft expansion budget for the query.
func WithMaxExpansions(n int) func(*SearchOptions) {
	return func(o *SearchOptions) {
		o.MaxExpansions = n
	}
}

// WithPoolSize overrides the candidate pool size for the query.
func WithPoolSize(l int) func(*SearchOptions) {
	return func(o *SearchOptions) {
		o.PoolSize = l
	}
}

// Index is the capability set shared by all backends.
type Index interface {
	// Kind returns the backend identifier.
	Kind() Kind

	// Metric returns the configured distance metric.
	Metric() distance.Metric

	// Dimension returns the vector dimensionality.
	Dimension() int

	// Count returns the number of indexed vectors.
	Count() int

	// Train builds the index from a complete, static dataset.
	Train(ctx context.Context, vectors vectorstore.Store) error

	// Add inserts vectors incrementally. Backends that only support
	// whole-dataset construction return ErrNotImplemented.
	Add(ctx context.Context, vectors ...[]float32) error

	// Search returns up to k results ordered ascending by distance.
	// Fewer than k results is a normal outcome, not an error.
	Search(ctx context.Context, query []float32, k int, optFns ...func(*SearchOptions)) ([]SearchResult, error)

	// RangeSearch returns all results within radius, ordered ascending by
	// distance. Backends without native range support return ErrNotImplemented.
	RangeSearch(ctx context.Context, query []float32, radius float32, optFns ...func(*SearchOptions)) ([]SearchResult, error)

	// VectorByID returns the stored vector for an id.
	VectorByID(id uint32) ([]float32, bool)

	// WriteTo serializes the index to a sequential byte stream.
	WriteTo(w io.Writer) (int64, error)

	// ReadFrom restores the index from a sequential byte stream.
	ReadFrom(r io.Reader) (int64, error)
}
