package dist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

func TestHyperExponential_Validation(t *testing.T) {
	_, err := NewHyperExponential([]float64{0.5, 0.5}, []float64{1.0})
	assert.Error(t, err, "mismatched phase arrays")

	_, err = NewHyperExponential(nil, nil)
	assert.Error(t, err, "zero phases")

	_, err = NewHyperExponential([]float64{1.2, -0.2}, []float64{1.0, 2.0})
	assert.Error(t, err, "probability outside [0,1]")

	_, err = NewHyperExponential([]float64{0.4, 0.5}, []float64{1.0, 2.0})
	assert.Error(t, err, "probabilities summing to 0.9")

	_, err = NewHyperExponential([]float64{0.5, 0.5}, []float64{1.0, 0})
	assert.Error(t, err, "non-positive rate")
}

func TestHyperExponential_BalancedForm(t *testing.T) {
	h, err := NewBalancedHyperExponential(0.35, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, 2, h.Phases())

	_, err = NewBalancedHyperExponential(1.5, 1.0)
	assert.Error(t, err, "p outside [0,1] makes 1-p negative")
}

func TestHyperExponential_Moments(t *testing.T) {
	// mean = sum p_i/lambda_i = 0.3/1 + 0.7/5 = 0.44
	// E[X^2] = sum p_i * 2/lambda_i^2 = 0.656, var = 0.4624
	h, err := NewHyperExponential([]float64{0.3, 0.7}, []float64{1.0, 5.0})
	assert.NoError(t, err)

	xs := draw(t, h, 1234, 200000)
	for _, x := range xs {
		if x < 0 {
			t.Fatalf("negative sample %v", x)
		}
	}
	assert.InDelta(t, 0.44, stat.Mean(xs, nil), 0.01)
	assert.InDelta(t, 0.4624, stat.Variance(xs, nil), 0.03)
}

func TestHyperExponential_TwinGeneratorsAgree(t *testing.T) {
	h1, err := NewBalancedHyperExponential(0.35, 1.0)
	assert.NoError(t, err)
	h2, err := NewBalancedHyperExponential(0.35, 1.0)
	assert.NoError(t, err)

	src1 := rng.NewLehmer(1234)
	src2 := rng.NewLehmer(1234)
	for i := 0; i < 100000; i++ {
		v1, v2 := h1.Sample(src1), h2.Sample(src2)
		if v1 != v2 {
			t.Fatalf("draw %d: %v != %v for identical seeds", i, v1, v2)
		}
	}
}

func TestHyperExponential_PhaseSelection(t *testing.T) {
	h, err := NewHyperExponential([]float64{0.25, 0.25, 0.5}, []float64{1, 2, 3})
	assert.NoError(t, err)

	assert.Equal(t, 0, h.phase(0.0))
	assert.Equal(t, 0, h.phase(0.2499))
	assert.Equal(t, 1, h.phase(0.25))
	assert.Equal(t, 2, h.phase(0.5))
	assert.Equal(t, 2, h.phase(0.999999))
	// Terminal fallback when accumulation leaves the top uncovered.
	assert.Equal(t, 2, h.phase(1.0))
}
