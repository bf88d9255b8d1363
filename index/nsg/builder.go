package nsg

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/internal/searcher"
	"github.com/hupe1980/navix/vectorstore"
)

// builder holds the transient state of one graph construction. It is not
// safe for reuse; build is called exactly once.
type builder struct {
	opts     Options
	vectors  vectorstore.Store
	distFunc distance.Func
	metric   distance.Metric

	n         int
	seedAdj   [][]uint32
	adjacency [][]uint32
	navPoint  uint32

	// repairEdges protects edges added by the connectivity phase from
	// eviction when a later repair needs to free a slot on the same donor.
	repairSet   map[uint64]struct{}
	repairCount int
}

func newBuilder(opts Options, vectors vectorstore.Store, distFunc distance.Func, metric distance.Metric) *builder {
	return &builder{
		opts:      opts,
		vectors:   vectors,
		distFunc:  distFunc,
		metric:    metric,
		n:         vectors.RowCount(),
		repairSet: make(map[uint64]struct{}),
	}
}

// build runs the full construction pipeline: seed graph, navigation point,
// parallel edge selection, connectivity repair.
func (b *builder) build(ctx context.Context) (*Graph, Stats, error) {
	start := time.Now()

	if b.opts.Controller != nil {
		if err := b.opts.Controller.AcquireBackground(ctx); err != nil {
			return nil, Stats{}, fmt.Errorf("waiting for a build slot: %w", err)
		}
		defer b.opts.Controller.ReleaseBackground()
	}

	reserve := b.memoryEstimate()
	if b.opts.Controller != nil && reserve > 0 {
		if !b.opts.Controller.TryAcquireMemory(reserve) {
			return nil, Stats{}, fmt.Errorf("graph construction needs %d bytes: %w", reserve, index.ErrResourceExhausted)
		}
		defer b.opts.Controller.ReleaseMemory(reserve)
	}

	if err := b.bootstrapSeedGraph(); err != nil {
		return nil, Stats{}, err
	}

	b.findNavigationPoint()

	if b.opts.Logger != nil {
		b.opts.Logger.Debug("seed graph ready",
			"nodes", b.n,
			"navigation_point", b.navPoint,
		)
	}

	if err := b.selectEdges(ctx); err != nil {
		return nil, Stats{}, err
	}

	b.seedAdj = nil

	if err := b.repairConnectivity(); err != nil {
		return nil, Stats{}, err
	}

	graph := &Graph{
		adjacency: b.adjacency,
		navPoint:  b.navPoint,
		metric:    b.metric,
		dim:       b.vectors.Dimension(),
		maxDegree: b.opts.MaxDegree,
	}

	stats := Stats{
		Nodes:         b.n,
		RepairedEdges: b.repairCount,
		BuildDuration: time.Since(start),
	}
	stats.fillDegrees(graph)

	if b.opts.Logger != nil {
		b.opts.Logger.Info("graph build completed",
			"nodes", stats.Nodes,
			"avg_degree", stats.AvgDegree,
			"max_degree", stats.MaxObservedDegree,
			"repaired_edges", stats.RepairedEdges,
			"duration", stats.BuildDuration,
		)
	}

	return graph, stats, nil
}

// memoryEstimate approximates the peak size of the transient structures:
// the seed adjacency lists plus the final adjacency lists.
func (b *builder) memoryEstimate() int64 {
	perNode := int64(b.opts.MaxDegree)*4 + int64(b.opts.MaxDegree)*4
	return int64(b.n) * perNode
}

// bootstrapSeedGraph installs the approximate neighbor lists the edge
// selection searches over: either the caller-supplied lists or a seeded
// random graph.
func (b *builder) bootstrapSeedGraph() error {
	if b.opts.SeedNeighbors != nil {
		if len(b.opts.SeedNeighbors) != b.n {
			return &index.ErrInvalidConfig{
				Reason: fmt.Sprintf("seed neighbor lists cover %d nodes, dataset has %d", len(b.opts.SeedNeighbors), b.n),
			}
		}
		for v, nbrs := range b.opts.SeedNeighbors {
			for _, w := range nbrs {
				if int(w) >= b.n {
					return &index.ErrInvalidConfig{
						Reason: fmt.Sprintf("seed neighbor %d of node %d out of range", w, v),
					}
				}
			}
		}
		b.seedAdj = b.opts.SeedNeighbors
		return nil
	}

	rng := rand.New(rand.NewSource(b.opts.Seed))

	degree := b.opts.MaxDegree
	if degree > b.n-1 {
		degree = b.n - 1
	}

	b.seedAdj = make([][]uint32, b.n)
	for v := 0; v < b.n; v++ {
		picked := make(map[uint32]struct{}, degree)
		nbrs := make([]uint32, 0, degree)
		for len(nbrs) < degree {
			w := uint32(rng.Intn(b.n))
			if int(w) == v {
				continue
			}
			if _, ok := picked[w]; ok {
				continue
			}
			picked[w] = struct{}{}
			nbrs = append(nbrs, w)
		}
		b.seedAdj[v] = nbrs
	}

	return nil
}

// findNavigationPoint computes the dataset centroid and descends the seed
// graph towards it. The node the descent settles on becomes the fixed entry
// point for all construction searches and queries.
func (b *builder) findNavigationPoint() {
	dim := b.vectors.Dimension()

	centroid := make([]float32, dim)
	for v := 0; v < b.n; v++ {
		vec := b.vectors.VectorAt(uint32(v))
		for i, x := range vec {
			centroid[i] += x
		}
	}
	for i := range centroid {
		centroid[i] /= float32(b.n)
	}

	sess := searcher.GetSession(b.opts.PoolSize, b.n)
	defer searcher.PutSession(sess)

	beamSearch(b.seedAdj, b.vectors, b.distFunc, centroid, 0, b.opts.PoolSize, b.opts.SearchDepth, sess)

	b.navPoint = sess.Pool.At(0).ID
}

// selectEdges runs the per-node candidate search and diversity pruning in
// parallel. Each worker owns a disjoint node range and writes only its own
// adjacency slots, so no locking is needed.
func (b *builder) selectEdges(ctx context.Context) error {
	b.adjacency = make([][]uint32, b.n)

	workers := b.opts.Workers
	if workers > b.n {
		workers = b.n
	}
	chunk := (b.n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < b.n; start += chunk {
		end := start + chunk
		if end > b.n {
			end = b.n
		}

		g.Go(func() error {
			sess := searcher.GetSession(b.opts.PoolSize, b.n)
			defer searcher.PutSession(sess)

			for v := start; v < end; v++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				cands := b.collectCandidates(uint32(v), sess)
				b.adjacency[v] = b.pruneNode(uint32(v), cands)
			}
			return nil
		})
	}

	return g.Wait()
}

// collectCandidates gathers the pruning candidates for node v: the nodes
// touched by a beam search for v over the seed graph, plus v's own seed
// neighbors. The returned slice is sorted ascending by (distance, id) and
// is owned by the caller.
func (b *builder) collectCandidates(v uint32, sess *searcher.Session) []searcher.Candidate {
	sess.Pool.Reset(b.opts.PoolSize)
	sess.Visited.Reset()
	sess.Visited.EnsureCapacity(b.n)

	query := b.vectors.VectorAt(v)

	beamSearch(b.seedAdj, b.vectors, b.distFunc, query, b.navPoint, b.opts.PoolSize, b.opts.SearchDepth, sess)

	for _, w := range b.seedAdj[v] {
		if sess.Visited.Visited(w) {
			continue
		}
		sess.Visited.Visit(w)
		sess.Pool.Insert(w, b.distFunc(query, b.vectors.VectorAt(w)))
	}

	items := sess.Pool.Items()
	cands := make([]searcher.Candidate, len(items))
	copy(cands, items)

	return cands
}

// pruneNode applies the diversity rule to the sorted candidates of v: a
// candidate c is kept only when it is closer to v than to every neighbor
// accepted so far. The result holds at most MaxDegree ids.
func (b *builder) pruneNode(v uint32, cands []searcher.Candidate) []uint32 {
	result := make([]uint32, 0, b.opts.MaxDegree)

	for _, c := range cands {
		if c.ID == v {
			continue
		}
		if len(result) >= b.opts.MaxDegree {
			break
		}

		cvec := b.vectors.VectorAt(c.ID)

		keep := true
		for _, p := range result {
			if b.distFunc(cvec, b.vectors.VectorAt(p)) <= c.Distance {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, c.ID)
		}
	}

	return result
}

// repairConnectivity makes every node reachable from the navigation point.
// Each unreached node gets an incoming edge from its nearest reached node;
// when the donor is at full degree its worst non-repair edge is evicted.
// Evictions can disconnect other nodes, so the phase re-verifies until the
// traversal covers the whole graph.
func (b *builder) repairConnectivity() error {
	for iter := 0; iter < b.n; iter++ {
		g := &Graph{adjacency: b.adjacency, navPoint: b.navPoint}

		seen, count := g.reachable()
		if count == b.n {
			return nil
		}

		for v := 0; v < b.n; v++ {
			if seen[v] {
				continue
			}

			donor := b.nearestReached(uint32(v), seen)
			b.attach(donor, uint32(v))
			b.markFrom(uint32(v), seen)
		}
	}

	// Repair edges are protected from eviction, so each pass strictly grows
	// the reached set and the loop returns well before the bound. Verify the
	// invariant anyway rather than hand out a partially reachable graph.
	g := &Graph{adjacency: b.adjacency, navPoint: b.navPoint}
	if _, count := g.reachable(); count != b.n {
		return fmt.Errorf("connectivity repair stalled with %d of %d nodes reachable", count, b.n)
	}

	return nil
}

// nearestReached returns the reached node closest to v, ties broken by
// ascending id. At least the navigation point is always reached.
func (b *builder) nearestReached(v uint32, seen []bool) uint32 {
	vvec := b.vectors.VectorAt(v)

	best := b.navPoint
	bestDist := b.distFunc(vvec, b.vectors.VectorAt(best))

	for u := 0; u < b.n; u++ {
		if !seen[u] || uint32(u) == best {
			continue
		}
		d := b.distFunc(vvec, b.vectors.VectorAt(uint32(u)))
		if d < bestDist || (d == bestDist && uint32(u) < best) {
			best = uint32(u)
			bestDist = d
		}
	}

	return best
}

// attach adds the edge donor -> v. A full donor evicts its worst
// non-repair edge first; if every edge is a repair edge the overall worst
// goes instead.
func (b *builder) attach(donor, v uint32) {
	nbrs := b.adjacency[donor]

	if len(nbrs) < b.opts.MaxDegree {
		b.adjacency[donor] = append(nbrs, v)
	} else {
		evict := b.evictionSlot(donor, false)
		if evict < 0 {
			evict = b.evictionSlot(donor, true)
		}
		delete(b.repairSet, edgeKey(donor, nbrs[evict]))
		nbrs[evict] = v
	}

	b.repairSet[edgeKey(donor, v)] = struct{}{}
	b.repairCount++
}

// evictionSlot returns the index of the donor's farthest neighbor, ties
// broken by descending id. Repair edges are skipped unless includeRepairs
// is set; -1 means every edge was skipped.
func (b *builder) evictionSlot(donor uint32, includeRepairs bool) int {
	dvec := b.vectors.VectorAt(donor)
	nbrs := b.adjacency[donor]

	worst := -1
	var worstDist float32

	for i, w := range nbrs {
		if !includeRepairs {
			if _, ok := b.repairSet[edgeKey(donor, w)]; ok {
				continue
			}
		}
		d := b.distFunc(dvec, b.vectors.VectorAt(w))
		if worst < 0 || d > worstDist || (d == worstDist && w > nbrs[worst]) {
			worst = i
			worstDist = d
		}
	}

	return worst
}

// markFrom extends the reachability set with everything now reachable
// through the freshly attached node.
func (b *builder) markFrom(v uint32, seen []bool) {
	queue := []uint32{v}
	seen[v] = true

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, w := range b.adjacency[u] {
			if !seen[w] {
				seen[w] = true
				queue = append(queue, w)
			}
		}
	}
}

func edgeKey(from, to uint32) uint64 {
	return uint64(from)<<32 | uint64(to)
}
