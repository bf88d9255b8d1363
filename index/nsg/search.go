package nsg

import (
	"context"
	"fmt"

	"github.com/hupe1980/navix/distance"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/internal/searcher"
	"github.com/hupe1980/navix/vectorstore"
)

// beamSearch runs a greedy best-first traversal of adj from entry, filling
// the session pool with the closest nodes found. The walk repeatedly expands
// the nearest unexpanded candidate and stops when that candidate is no
// better than the current kth best, or when maxExpansions (>0) expansions
// have been spent. Returns the number of expansions performed.
func beamSearch(adj [][]uint32, vectors vectorstore.Store, distFunc distance.Func, query []float32, entry uint32, k, maxExpansions int, sess *searcher.Session) int {
	pool, visited := sess.Pool, sess.Visited

	pool.Insert(entry, distFunc(query, vectors.VectorAt(entry)))
	visited.Visit(entry)

	expansions := 0
	for {
		if maxExpansions > 0 && expansions >= maxExpansions {
			break
		}

		i, ok := pool.NearestUnexpanded()
		if !ok {
			break
		}
		c := pool.At(i)

		if kth, ok := pool.DistanceAt(k); ok && c.Distance > kth {
			break
		}

		// Mark before inserting neighbors: inserts shift ranks, and the
		// expanded flag must travel with the element.
		pool.MarkExpanded(i)

		for _, w := range adj[c.ID] {
			if visited.Visited(w) {
				continue
			}
			visited.Visit(w)
			pool.Insert(w, distFunc(query, vectors.VectorAt(w)))
		}

		expansions++
	}

	return expansions
}

// Search returns up to k results ordered ascending by (distance, id).
// Filtered nodes still serve as traversal hops; they are dropped only when
// results are collected, so a filter cannot strand the walk.
func (n *NSG) Search(ctx context.Context, query []float32, k int, optFns ...func(*index.SearchOptions)) ([]index.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if n.graph == nil || n.graph.Count() == 0 {
		return nil, index.ErrEmptyIndex
	}
	if n.vectors == nil {
		return nil, fmt.Errorf("no vector store attached: %w", index.ErrEmptyIndex)
	}
	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if len(query) != n.graph.Dimension() {
		return nil, &index.ErrDimensionMismatch{Expected: n.graph.Dimension(), Actual: len(query)}
	}

	opts := index.SearchOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	poolSize := n.opts.PoolSize
	if opts.PoolSize > 0 {
		poolSize = opts.PoolSize
	}
	if poolSize < k {
		poolSize = k
	}

	sess := searcher.GetSession(poolSize, n.graph.Count())
	defer searcher.PutSession(sess)

	expansions := beamSearch(n.graph.adjacency, n.vectors, n.distFunc, query, n.graph.navPoint, k, opts.MaxExpansions, sess)

	results := make([]index.SearchResult, 0, k)
	for _, c := range sess.Pool.Items() {
		if opts.Filter != nil && opts.Filter.Excluded(c.ID) {
			continue
		}
		results = append(results, index.SearchResult{ID: c.ID, Distance: c.Distance})
		if len(results) == k {
			break
		}
	}

	if n.opts.Logger != nil {
		n.opts.Logger.Debug("graph search completed",
			"k", k,
			"pool_size", poolSize,
			"expansions", expansions,
			"results", len(results),
		)
	}

	return results, nil
}
