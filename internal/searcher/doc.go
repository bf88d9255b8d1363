// Package searcher provides the working-set data structures shared by graph
// construction and query-time traversal: a bounded, sorted candidate pool and
// a resettable visited set.
package searcher
