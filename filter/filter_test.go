package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmap(t *testing.T) {
	b := NewBitmap()
	assert.True(t, b.IsEmpty())

	b.Add(3)
	b.AddRange(10, 13)

	assert.True(t, b.Excluded(3))
	assert.True(t, b.Excluded(10))
	assert.True(t, b.Excluded(12))
	assert.False(t, b.Excluded(13))
	assert.False(t, b.Excluded(2))
	assert.Equal(t, uint64(4), b.Cardinality())

	b.Remove(3)
	assert.False(t, b.Excluded(3))
}

func TestBitmap_Clone(t *testing.T) {
	b := NewBitmap()
	b.Add(1)

	c := b.Clone()
	c.Add(2)

	assert.True(t, c.Excluded(1))
	assert.False(t, b.Excluded(2))
}

func TestFunc(t *testing.T) {
	even := Func(func(id uint32) bool { return id%2 == 0 })

	assert.True(t, even.Excluded(4))
	assert.False(t, even.Excluded(5))
}
