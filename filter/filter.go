// Package filter provides exclusion filters consulted by searches at
// result-collection time. Excluded nodes are still traversed as graph hops,
// they are only dropped from the returned top-k.
package filter

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Filter decides whether a node id is excluded from search results.
// Implementations must be safe for concurrent readers.
type Filter interface {
	// Excluded returns true if the node must not appear in results.
	Excluded(id uint32) bool
}

// Func adapts a plain function to a Filter.
type Func func(id uint32) bool

// Excluded implements Filter.
func (f Func) Excluded(id uint32) bool { return f(id) }

// Bitmap is a roaring-bitmap backed exclusion set, typically used as a
// deletion mask: ids added to the bitmap disappear from search results
// without any graph edit.
//
// Mutations are not synchronized; finish building the bitmap before sharing
// it with concurrent searches, or guard writes externally.
type Bitmap struct {
	rb *roaring.Bitmap
}

// Compile-time check.
var _ Filter = (*Bitmap)(nil)

// NewBitmap creates an empty exclusion bitmap.
func NewBitmap() *Bitmap {
	return &Bitmap{rb: roaring.New()}
}

// Add marks an id as excluded.
func (b *Bitmap) Add(id uint32) {
	b.rb.Add(id)
}

// AddRange marks all ids in [start, end) as excluded.
func (b *Bitmap) AddRange(start, end uint32) {
	b.rb.AddRange(uint64(start), uint64(end))
}

// Remove clears the exclusion mark for an id.
func (b *Bitmap) Remove(id uint32) {
	b.rb.Remove(id)
}

// Excluded implements Filter.
func (b *Bitmap) Excluded(id uint32) bool {
	return b.rb.Contains(id)
}

// Cardinality returns the number of excluded ids.
func (b *Bitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// IsEmpty returns true if nothing is excluded.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{rb: b.rb.Clone()}
}
