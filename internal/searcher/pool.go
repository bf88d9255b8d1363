package searcher

import "sort"

// Candidate is an (id, distance) pair held by a Pool.
type Candidate struct {
	ID       uint32
	Distance float32

	// Expanded marks candidates whose neighbors have already been visited
	// during a beam search. It does not affect ordering.
	Expanded bool
}

// Better reports whether a ranks strictly before b.
// Ordering is ascending by distance; ties are broken by ascending id so that
// results are reproducible across runs.
func Better(a, b Candidate) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.ID < b.ID
}

// Pool is a bounded working set of candidates kept sorted ascending by
// (distance, id). Inserting into a full pool evicts the worst entry when the
// new candidate ranks better; otherwise the insert is rejected.
type Pool struct {
	items    []Candidate
	capacity int
}

// NewPool creates a pool with the given fixed capacity.
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool{
		items:    make([]Candidate, 0, capacity),
		capacity: capacity,
	}
}

// Reset clears the pool and optionally adjusts its capacity.
func (p *Pool) Reset(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	p.capacity = capacity
	if cap(p.items) < capacity {
		p.items = make([]Candidate, 0, capacity)
		return
	}
	p.items = p.items[:0]
}

// Len returns the number of candidates currently in the pool.
func (p *Pool) Len() int { return len(p.items) }

// Capacity returns the fixed capacity of the pool.
func (p *Pool) Capacity() int { return p.capacity }

// Full reports whether the pool is at capacity.
func (p *Pool) Full() bool { return len(p.items) >= p.capacity }

// At returns the candidate at rank i (0 = best).
func (p *Pool) At(i int) Candidate { return p.items[i] }

// Worst returns the current worst candidate.
// The pool must not be empty.
func (p *Pool) Worst() Candidate { return p.items[len(p.items)-1] }

// Items returns the sorted backing slice. The slice is owned by the pool and
// is invalidated by the next Insert or Reset.
func (p *Pool) Items() []Candidate { return p.items }

// Insert adds (id, dist) at its sorted position and reports whether the
// candidate was admitted. A full pool rejects candidates ranking at or below
// the current worst and evicts that worst entry otherwise.
func (p *Pool) Insert(id uint32, dist float32) bool {
	c := Candidate{ID: id, Distance: dist}

	i := sort.Search(len(p.items), func(j int) bool {
		return Better(c, p.items[j])
	})

	if i >= p.capacity {
		return false
	}

	if len(p.items) < p.capacity {
		p.items = append(p.items, Candidate{})
	}
	if i < len(p.items)-1 {
		copy(p.items[i+1:], p.items[i:])
	}
	p.items[i] = c

	return true
}

// NearestUnexpanded returns the rank of the best candidate that has not been
// expanded yet, or ok=false if every candidate has been expanded.
func (p *Pool) NearestUnexpanded() (int, bool) {
	for i := range p.items {
		if !p.items[i].Expanded {
			return i, true
		}
	}
	return 0, false
}

// MarkExpanded flags the candidate at rank i as expanded.
func (p *Pool) MarkExpanded(i int) {
	p.items[i].Expanded = true
}

// DistanceAt returns the distance of the candidate at rank k-1 (the current
// kth best), or ok=false when fewer than k candidates exist.
func (p *Pool) DistanceAt(k int) (float32, bool) {
	if k < 1 || k > len(p.items) {
		return 0, false
	}
	return p.items[k-1].Distance, true
}
