package dist

import (
	"fmt"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// DiscreteUniform samples integers uniformly from [low, high], inclusive
// on both ends. Raw generator states are rejection-sampled so the result
// carries zero modulo bias: a naive x mod span would favor the low end of
// the range whenever span does not divide the generator period.
type DiscreteUniform struct {
	low   int64
	span  int64
	limit int64 // largest multiple of span below Modulus
}

// NewDiscreteUniform builds a DiscreteUniform over [a, b]. Fails unless
// a <= b.
func NewDiscreteUniform(a, b int64) (*DiscreteUniform, error) {
	if b < a {
		return nil, fmt.Errorf("dist: discrete uniform bounds must satisfy a <= b, got a=%d b=%d", a, b)
	}
	span := b - a + 1
	return &DiscreteUniform{
		low:   a,
		span:  span,
		limit: (rng.Modulus / span) * span,
	}, nil
}

// Sample draws raw generator integers, retrying the rare draws that land
// in the truncated final block, then folds the survivor into the range.
// The retry probability is span/Modulus at worst, so the loop terminates
// after one iteration in practice.
func (d *DiscreteUniform) Sample(src rng.UniformSource) float64 {
	x := src.Next()
	for x >= d.limit {
		x = src.Next()
	}
	return float64(d.low + x%d.span)
}
