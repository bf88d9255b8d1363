package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitedSet(t *testing.T) {
	v := NewVisitedSet(128)

	assert.False(t, v.Visited(5))
	v.Visit(5)
	v.Visit(64)
	assert.True(t, v.Visited(5))
	assert.True(t, v.Visited(64))
	assert.False(t, v.Visited(6))

	v.Reset()
	assert.False(t, v.Visited(5))
	assert.False(t, v.Visited(64))
}

func TestVisitedSet_GrowsBeyondCapacity(t *testing.T) {
	v := NewVisitedSet(8)

	v.Visit(1000)
	assert.True(t, v.Visited(1000))
	assert.False(t, v.Visited(999))
}

func TestSessionPool(t *testing.T) {
	s := GetSession(16, 256)
	require.NotNil(t, s)

	s.Pool.Insert(1, 0.5)
	s.Visited.Visit(9)
	PutSession(s)

	s2 := GetSession(4, 256)
	assert.Equal(t, 0, s2.Pool.Len())
	assert.Equal(t, 4, s2.Pool.Capacity())
	assert.False(t, s2.Visited.Visited(9))
}
