package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2(t *testing.T) {
	a := []float32{0, 0}
	b := []float32{3, 4}

	assert.InDelta(t, float32(25), SquaredL2(a, b), 1e-6)
	assert.InDelta(t, float32(0), SquaredL2(b, b), 1e-6)
}

func TestNegativeDot(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	// A larger dot product must yield a smaller dissimilarity.
	assert.InDelta(t, float32(-32), NegativeDot(a, b), 1e-6)
	assert.Less(t, NegativeDot(a, b), NegativeDot(a, []float32{1, 0, 0}))
}

func TestCosineDistance(t *testing.T) {
	a := []float32{1, 0}

	assert.InDelta(t, float32(0), CosineDistance(a, []float32{5, 0}), 1e-6)
	assert.InDelta(t, float32(1), CosineDistance(a, []float32{0, 3}), 1e-6)
	assert.InDelta(t, float32(2), CosineDistance(a, []float32{-2, 0}), 1e-6)

	// Zero norm falls back to maximum dissimilarity of orthogonal vectors.
	assert.InDelta(t, float32(1), CosineDistance(a, []float32{0, 0}), 1e-6)
}

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	require.True(t, NormalizeL2InPlace(v))
	assert.InDelta(t, float32(0.6), v[0], 1e-6)
	assert.InDelta(t, float32(0.8), v[1], 1e-6)

	require.False(t, NormalizeL2InPlace([]float32{0, 0}))

	src := []float32{0, 2}
	dst, ok := NormalizeL2Copy(src)
	require.True(t, ok)
	assert.Equal(t, []float32{0, 2}, src)
	assert.InDelta(t, float32(1), dst[1], 1e-6)
}

func TestProvider(t *testing.T) {
	for _, m := range []Metric{MetricL2, MetricInnerProduct, MetricCosine} {
		fn, err := Provider(m)
		require.NoError(t, err)
		require.NotNil(t, fn)
		assert.True(t, m.Valid())
	}

	_, err := Provider(Metric(99))
	require.Error(t, err)
	assert.False(t, Metric(99).Valid())
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "L2", MetricL2.String())
	assert.Equal(t, "InnerProduct", MetricInnerProduct.String())
	assert.Equal(t, "Cosine", MetricCosine.String())
	assert.Equal(t, "Unknown(7)", Metric(7).String())
}
