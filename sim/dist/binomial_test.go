package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

func TestBinomial_Validation(t *testing.T) {
	_, err := NewBinomial(0, 0.5)
	assert.Error(t, err)
	_, err = NewBinomial(-5, 0.5)
	assert.Error(t, err)
	_, err = NewBinomial(10, -0.1)
	assert.Error(t, err)
	_, err = NewBinomial(10, 1.1)
	assert.Error(t, err)
}

func TestBinomial_DegenerateProbabilities(t *testing.T) {
	zero, err := NewBinomial(10, 0)
	assert.NoError(t, err)
	for _, x := range draw(t, zero, 42, 1000) {
		assert.Equal(t, 0.0, x)
	}

	one, err := NewBinomial(60, 1)
	assert.NoError(t, err)
	for _, x := range draw(t, one, 42, 1000) {
		assert.Equal(t, 60.0, x)
	}
}

func TestBinomial_MethodSelection(t *testing.T) {
	// Small n stays on the Bernoulli sum.
	small, err := NewBinomial(40, 0.3)
	assert.NoError(t, err)
	assert.False(t, small.useBTPE)

	// Large n with healthy n*min(p,1-p) switches to BTPE.
	large, err := NewBinomial(200, 0.3)
	assert.NoError(t, err)
	assert.True(t, large.useBTPE)

	// Large n but tiny success mass: the envelope assumptions fail, so
	// the Bernoulli sum is kept.
	skewed, err := NewBinomial(1000, 0.01)
	assert.NoError(t, err)
	assert.False(t, skewed.useBTPE)
}

func TestBinomial_BernoulliSumMoments(t *testing.T) {
	b, err := NewBinomial(40, 0.3)
	assert.NoError(t, err)

	xs := draw(t, b, 1234, 200000)
	for _, x := range xs {
		if x < 0 || x > 40 || x != math.Floor(x) {
			t.Fatalf("sample %v not an integer in [0, 40]", x)
		}
	}
	assert.InDelta(t, 12.0, stat.Mean(xs, nil), 0.05)
	assert.InEpsilon(t, 8.4, stat.Variance(xs, nil), 0.03)
}

func TestBinomial_BTPEMoments(t *testing.T) {
	b, err := NewBinomial(200, 0.3)
	assert.NoError(t, err)
	assert.True(t, b.useBTPE)

	xs := draw(t, b, 1234, 200000)
	for _, x := range xs {
		if x < 0 || x > 200 || x != math.Floor(x) {
			t.Fatalf("sample %v not an integer in [0, 200]", x)
		}
	}
	assert.InDelta(t, 60.0, stat.Mean(xs, nil), 0.2)
	assert.InEpsilon(t, 42.0, stat.Variance(xs, nil), 0.03)
}

func TestBinomial_BTPEFlippedMoments(t *testing.T) {
	// p > 0.5 samples over min(p, 1-p) and reflects the count back.
	b, err := NewBinomial(200, 0.7)
	assert.NoError(t, err)
	assert.True(t, b.useBTPE)

	xs := draw(t, b, 1234, 200000)
	for _, x := range xs {
		if x < 0 || x > 200 {
			t.Fatalf("sample %v outside [0, 200]", x)
		}
	}
	assert.InDelta(t, 140.0, stat.Mean(xs, nil), 0.2)
	assert.InEpsilon(t, 42.0, stat.Variance(xs, nil), 0.03)
}

func TestBinomial_Determinism(t *testing.T) {
	for _, p := range []float64{0.3, 0.7} {
		b1, err := NewBinomial(200, p)
		assert.NoError(t, err)
		b2, err := NewBinomial(200, p)
		assert.NoError(t, err)

		src1 := rng.NewLehmer(55)
		src2 := rng.NewLehmer(55)
		for i := 0; i < 10000; i++ {
			if v1, v2 := b1.Sample(src1), b2.Sample(src2); v1 != v2 {
				t.Fatalf("p=%v draw %d: %v != %v", p, i, v1, v2)
			}
		}
	}
}
