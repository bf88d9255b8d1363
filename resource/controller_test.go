package resource

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.True(t, c.TryAcquireMemory(60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	require.False(t, c.TryAcquireMemory(50))

	c.ReleaseMemory(60)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.True(t, c.TryAcquireMemory(100))
	c.ReleaseMemory(100)
}

func TestController_MemoryUnlimited(t *testing.T) {
	c := NewController(Config{})

	require.True(t, c.TryAcquireMemory(1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
}

func TestController_Background(t *testing.T) {
	c := NewController(Config{MaxBackgroundWorkers: 1})

	require.NoError(t, c.AcquireBackground(context.Background()))
	require.False(t, c.TryAcquireBackground())

	c.ReleaseBackground()
	require.True(t, c.TryAcquireBackground())
	c.ReleaseBackground()
}

func TestController_NilIsNoop(t *testing.T) {
	var c *Controller

	require.True(t, c.TryAcquireMemory(1))
	require.NoError(t, c.AcquireMemory(context.Background(), 1))
	c.ReleaseMemory(1)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.AcquireIO(context.Background(), 1))
}

func TestRateLimitedWriter(t *testing.T) {
	// Generous limit: the write should pass without measurable delay.
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	var buf bytes.Buffer
	w := NewRateLimitedWriter(context.Background(), &buf, c)

	n, err := w.Write([]byte("data"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "data", buf.String())
}
