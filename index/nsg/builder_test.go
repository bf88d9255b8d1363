package nsg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/resource"
	"github.com/hupe1980/navix/testutil"
	"github.com/hupe1980/navix/vectorstore"
)

func buildFromRows(t *testing.T, rows [][]float32, optFns ...func(*Options)) *NSG {
	t.Helper()

	store, err := vectorstore.FromRows(rows)
	require.NoError(t, err)

	idx, err := New(store, distance.MetricL2, optFns...)
	require.NoError(t, err)
	require.NoError(t, idx.Train(context.Background(), nil))

	return idx
}

// exactSeedGraph computes true KNN lists by brute force, the seed quality
// the construction algorithm is designed around.
func exactSeedGraph(rows [][]float32, k int) [][]uint32 {
	seed := make([][]uint32, len(rows))
	for v := range rows {
		gt := testutil.BruteForceSearch(rows, rows[v], k+1, distance.SquaredL2)
		nbrs := make([]uint32, 0, k)
		for _, r := range gt {
			if int(r.ID) == v {
				continue
			}
			nbrs = append(nbrs, r.ID)
			if len(nbrs) == k {
				break
			}
		}
		seed[v] = nbrs
	}
	return seed
}

func TestTrainSmallDataset(t *testing.T) {
	rows := [][]float32{
		{0, 0},
		{1, 0},
		{0, 1},
		{10, 10},
	}

	idx := buildFromRows(t, rows, func(o *Options) {
		o.MaxDegree = 2
		o.PoolSize = 4
	})

	g := idx.Graph()
	require.NotNil(t, g)
	assert.Equal(t, 4, g.Count())
	assert.Equal(t, 2, g.Dimension())
	assert.True(t, g.FullyReachable())

	results, err := idx.Search(context.Background(), []float32{0.1, 0.1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint32(0), results[0].ID)
}

func TestTrainGraphInvariants(t *testing.T) {
	rng := testutil.NewRNG(7)
	rows := rng.ClusteredVectors(200, 8, 5, 0.1)

	idx := buildFromRows(t, rows, func(o *Options) {
		o.MaxDegree = 8
		o.PoolSize = 32
	})

	g := idx.Graph()
	require.Equal(t, 200, g.Count())

	for v := 0; v < g.Count(); v++ {
		nbrs := g.NeighborsOf(uint32(v))
		assert.LessOrEqual(t, len(nbrs), 8, "node %d exceeds degree bound", v)

		seen := make(map[uint32]struct{}, len(nbrs))
		for _, w := range nbrs {
			assert.NotEqual(t, uint32(v), w, "node %d has a self loop", v)
			assert.Less(t, int(w), g.Count())
			_, dup := seen[w]
			assert.False(t, dup, "node %d lists neighbor %d twice", v, w)
			seen[w] = struct{}{}
		}
	}

	assert.True(t, g.FullyReachable())

	stats := idx.Stats()
	assert.Equal(t, 200, stats.Nodes)
	assert.LessOrEqual(t, stats.MaxObservedDegree, 8)
	assert.Greater(t, stats.AvgDegree, 0.0)
}

func TestTrainDeterministic(t *testing.T) {
	rng := testutil.NewRNG(11)
	rows := rng.UniformVectors(100, 6)

	a := buildFromRows(t, rows, func(o *Options) { o.Seed = 99 })
	b := buildFromRows(t, rows, func(o *Options) { o.Seed = 99 })

	require.Equal(t, a.Graph().NavigationPoint(), b.Graph().NavigationPoint())
	for v := 0; v < a.Graph().Count(); v++ {
		assert.Equal(t, a.Graph().NeighborsOf(uint32(v)), b.Graph().NeighborsOf(uint32(v)), "node %d differs", v)
	}
}

func TestTrainRecall(t *testing.T) {
	rng := testutil.NewRNG(21)
	rows := rng.ClusteredVectors(300, 8, 6, 0.15)

	seed := exactSeedGraph(rows, 16)

	idx := buildFromRows(t, rows, func(o *Options) {
		o.MaxDegree = 16
		o.PoolSize = 64
		o.SeedNeighbors = seed
	})

	queries := rng.ClusteredVectors(20, 8, 6, 0.15)

	var total float64
	for _, q := range queries {
		gt := testutil.BruteForceSearch(rows, q, 10, distance.SquaredL2)

		got, err := idx.Search(context.Background(), q, 10)
		require.NoError(t, err)

		total += testutil.ComputeRecall(gt, got)
	}

	avg := total / float64(len(queries))
	assert.GreaterOrEqual(t, avg, 0.8, "average recall@10 too low: %f", avg)
}

func TestTrainSingleVector(t *testing.T) {
	idx := buildFromRows(t, [][]float32{{1, 2, 3}})

	require.Equal(t, 1, idx.Count())
	assert.Equal(t, uint32(0), idx.Graph().NavigationPoint())
	assert.True(t, idx.Graph().FullyReachable())

	results, err := idx.Search(context.Background(), []float32{0, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint32(0), results[0].ID)
}

func TestTrainEmptyDataset(t *testing.T) {
	store, err := vectorstore.NewDense(nil, 4)
	require.NoError(t, err)

	idx, err := New(store, distance.MetricL2)
	require.NoError(t, err)

	err = idx.Train(context.Background(), nil)
	assert.ErrorIs(t, err, index.ErrEmptyDataset)

	// The store stays empty, so searching must report an empty index.
	_, err = idx.Search(context.Background(), []float32{0, 0, 0, 0}, 1)
	assert.ErrorIs(t, err, index.ErrEmptyIndex)
}

func TestTrainCanceledContext(t *testing.T) {
	rng := testutil.NewRNG(3)
	store, err := vectorstore.FromRows(rng.UniformVectors(50, 4))
	require.NoError(t, err)

	idx, err := New(store, distance.MetricL2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = idx.Train(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrainResourceLimit(t *testing.T) {
	rng := testutil.NewRNG(5)
	store, err := vectorstore.FromRows(rng.UniformVectors(100, 4))
	require.NoError(t, err)

	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 64})

	idx, err := New(store, distance.MetricL2, func(o *Options) {
		o.Controller = ctrl
	})
	require.NoError(t, err)

	err = idx.Train(context.Background(), nil)
	assert.ErrorIs(t, err, index.ErrResourceExhausted)
	assert.Zero(t, ctrl.MemoryUsage())
}

func TestRepairConnectivity(t *testing.T) {
	store, err := vectorstore.FromRows([][]float32{{0, 0}, {1, 0}, {5, 5}, {6, 5}})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MaxDegree = 2
	opts.PoolSize = 4

	// Two components: {0,1} holds the navigation point, {2,3} is unreached.
	b := newBuilder(opts, store, distance.SquaredL2, distance.MetricL2)
	b.adjacency = [][]uint32{{1}, {0}, {3}, {2}}
	b.navPoint = 0

	require.NoError(t, b.repairConnectivity())

	g := &Graph{adjacency: b.adjacency, navPoint: b.navPoint}
	_, count := g.reachable()
	assert.Equal(t, b.n, count)
	assert.Positive(t, b.repairCount)
}

func TestTrainBackgroundSlot(t *testing.T) {
	rng := testutil.NewRNG(6)
	store, err := vectorstore.FromRows(rng.UniformVectors(20, 4))
	require.NoError(t, err)

	ctrl := resource.NewController(resource.Config{MaxBackgroundWorkers: 1})

	idx, err := New(store, distance.MetricL2, func(o *Options) {
		o.Controller = ctrl
	})
	require.NoError(t, err)

	// Occupy the only slot: a build under a canceled context cannot wait
	// for it and must fail.
	require.True(t, ctrl.TryAcquireBackground())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = idx.Train(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)

	// Once the slot is free the same build goes through.
	ctrl.ReleaseBackground()
	require.NoError(t, idx.Train(context.Background(), nil))

	// The build released its slot on completion.
	require.True(t, ctrl.TryAcquireBackground())
	ctrl.ReleaseBackground()
}

func TestNewInvalidConfig(t *testing.T) {
	store, err := vectorstore.FromRows([][]float32{{1, 2}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		optFn func(*Options)
	}{
		{"zero max degree", func(o *Options) { o.MaxDegree = 0 }},
		{"zero pool size", func(o *Options) { o.PoolSize = 0 }},
		{"degree above pool size", func(o *Options) { o.MaxDegree = 64; o.PoolSize = 16 }},
		{"negative search depth", func(o *Options) { o.SearchDepth = -1 }},
		{"unknown compression", func(o *Options) { o.Compression = 99 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(store, distance.MetricL2, tt.optFn)

			var cfgErr *index.ErrInvalidConfig
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestTrainSeedNeighborsValidation(t *testing.T) {
	rows := [][]float32{{0, 0}, {1, 1}, {2, 2}}
	store, err := vectorstore.FromRows(rows)
	require.NoError(t, err)

	t.Run("wrong length", func(t *testing.T) {
		idx, err := New(store, distance.MetricL2, func(o *Options) {
			o.SeedNeighbors = [][]uint32{{1}}
		})
		require.NoError(t, err)

		var cfgErr *index.ErrInvalidConfig
		assert.True(t, errors.As(idx.Train(context.Background(), nil), &cfgErr))
	})

	t.Run("out of range id", func(t *testing.T) {
		idx, err := New(store, distance.MetricL2, func(o *Options) {
			o.SeedNeighbors = [][]uint32{{1}, {2}, {7}}
		})
		require.NoError(t, err)

		var cfgErr *index.ErrInvalidConfig
		assert.True(t, errors.As(idx.Train(context.Background(), nil), &cfgErr))
	})
}

func TestAddNotImplemented(t *testing.T) {
	idx := buildFromRows(t, [][]float32{{0, 0}, {1, 1}})

	err := idx.Add(context.Background(), []float32{2, 2})
	assert.ErrorIs(t, err, index.ErrNotImplemented)

	_, err = idx.RangeSearch(context.Background(), []float32{0, 0}, 1.0)
	assert.ErrorIs(t, err, index.ErrNotImplemented)
}
