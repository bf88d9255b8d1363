package nsg

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/persistence"
	"github.com/hupe1980/navix/resource"
)

const (
	// DefaultMaxDegree is the default max out-degree per node.
	DefaultMaxDegree = 32
	// DefaultPoolSize is the default candidate pool size for construction and search.
	DefaultPoolSize = 64
	// DefaultSearchDepth is the default expansion bound for the bootstrap
	// searches that collect pruning candidates during construction.
	DefaultSearchDepth = 128
)

// Options configures NSG construction and search.
type Options struct {
	// MaxDegree is the maximum number of neighbors any node may retain (R).
	// Higher values increase recall and memory. Typical: 16-64.
	MaxDegree int

	// PoolSize is the candidate pool capacity (L) used during construction
	// and as the default beam width for search. Must be >= MaxDegree.
	// Typical: 64-200.
	PoolSize int

	// SearchDepth bounds node expansions for the bootstrap candidate
	// searches during construction (C). Typical: 100-300.
	SearchDepth int

	// Workers is the number of goroutines for the parallel pruning phase.
	// Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// Seed seeds the RNG used to initialize the bootstrap graph, making
	// builds reproducible.
	Seed int64

	// SeedNeighbors optionally supplies an external approximate KNN seed
	// graph (one candidate list per node). When nil, a seed graph is
	// bootstrapped internally.
	SeedNeighbors [][]uint32

	// Compression selects the compression applied to the adjacency section
	// by WriteTo.
	Compression persistence.CompressionType

	// Controller optionally enforces memory limits for the large
	// intermediate structures allocated during construction.
	Controller *resource.Controller

	// Logger receives structured construction and search events.
	// nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns sensible defaults for NSG.
func DefaultOptions() Options {
	return Options{
		MaxDegree:   DefaultMaxDegree,
		PoolSize:    DefaultPoolSize,
		SearchDepth: DefaultSearchDepth,
		Workers:     runtime.GOMAXPROCS(0),
		Seed:        42,
		Compression: persistence.CompressionNone,
	}
}

func (o *Options) validate() error {
	if o.MaxDegree <= 0 {
		return &index.ErrInvalidConfig{Reason: fmt.Sprintf("max degree must be positive, got %d", o.MaxDegree)}
	}
	if o.PoolSize <= 0 {
		return &index.ErrInvalidConfig{Reason: fmt.Sprintf("pool size must be positive, got %d", o.PoolSize)}
	}
	if o.MaxDegree > o.PoolSize {
		return &index.ErrInvalidConfig{Reason: fmt.Sprintf("max degree %d exceeds pool size %d", o.MaxDegree, o.PoolSize)}
	}
	if o.SearchDepth < 0 {
		return &index.ErrInvalidConfig{Reason: fmt.Sprintf("search depth must not be negative, got %d", o.SearchDepth)}
	}
	if !o.Compression.Valid() {
		return &index.ErrInvalidConfig{Reason: fmt.Sprintf("unknown compression type %d", o.Compression)}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return nil
}
