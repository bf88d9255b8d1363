// Package nsg implements a navigating spreading-out graph index for
// approximate nearest neighbor search.
//
// The index is built once from a complete, static dataset: a seed
// k-nearest-neighbor graph is refined by diversity pruning into a sparse
// navigable graph, a navigation point near the data centroid is selected as
// the single entry for all searches, and a connectivity-repair pass
// guarantees that every node is reachable from it. After construction the
// graph is immutable; queries run a bounded greedy beam search and any number
// of searches may share one index concurrently.
package nsg
