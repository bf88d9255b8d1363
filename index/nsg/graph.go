package nsg

import (
	"github.com/hupe1980/navix/distance"
)

// Graph is the immutable adjacency structure produced by construction or
// decoding. Nodes are dense row ids into the vector store; edges are
// directed and not guaranteed symmetric. After construction the graph is
// never mutated, so unlimited concurrent readers need no locking.
type Graph struct {
	adjacency [][]uint32
	navPoint  uint32
	metric    distance.Metric
	dim       int
	maxDegree int
}

// Count returns the number of nodes.
func (g *Graph) Count() int { return len(g.adjacency) }

// Dimension returns the vector dimensionality the graph was built for.
func (g *Graph) Dimension() int { return g.dim }

// Metric returns the distance metric the graph was built with.
func (g *Graph) Metric() distance.Metric { return g.metric }

// MaxDegree returns the degree bound (R) the graph was built with.
func (g *Graph) MaxDegree() int { return g.maxDegree }

// NavigationPoint returns the fixed entry node for all searches.
func (g *Graph) NavigationPoint() uint32 { return g.navPoint }

// NeighborsOf returns the ordered neighbor list of a node. The returned
// slice is owned by the graph and must not be modified.
func (g *Graph) NeighborsOf(id uint32) []uint32 {
	return g.adjacency[id]
}

// reachable runs a breadth-first traversal from the navigation point and
// reports which nodes were reached and how many.
func (g *Graph) reachable() ([]bool, int) {
	n := len(g.adjacency)
	seen := make([]bool, n)
	if n == 0 {
		return seen, 0
	}

	queue := make([]uint32, 0, n)
	queue = append(queue, g.navPoint)
	seen[g.navPoint] = true
	count := 1

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, w := range g.adjacency[u] {
			if !seen[w] {
				seen[w] = true
				count++
				queue = append(queue, w)
			}
		}
	}

	return seen, count
}

// FullyReachable reports whether every node can be reached from the
// navigation point by following directed edges.
func (g *Graph) FullyReachable() bool {
	_, count := g.reachable()
	return count == len(g.adjacency)
}
