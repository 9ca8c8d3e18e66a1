package dist

import (
	"fmt"
	"math"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// ptrsCutoff is the lambda at which sampling switches from Knuth's
// multiplicative method (expected cost O(lambda)) to the PTRS transformed
// rejection method (expected O(1)).
const ptrsCutoff = 30.0

// Poisson samples a Poisson(lambda) count, returned as a float64.
type Poisson struct {
	lambda    float64
	logLambda float64
}

// NewPoisson builds a Poisson with rate lambda > 0.
func NewPoisson(lambda float64) (*Poisson, error) {
	if lambda <= 0 {
		return nil, fmt.Errorf("dist: poisson rate must be positive, got %v", lambda)
	}
	return &Poisson{lambda: lambda, logLambda: math.Log(lambda)}, nil
}

// Rate returns lambda.
func (p *Poisson) Rate() float64 { return p.lambda }

// Sample dispatches on lambda: Knuth below the cutoff, PTRS at or above it.
func (p *Poisson) Sample(src rng.UniformSource) float64 {
	if p.lambda < ptrsCutoff {
		return float64(p.knuth(src))
	}
	return float64(p.ptrs(src))
}

// knuth multiplies uniforms until the product drops below exp(-lambda).
func (p *Poisson) knuth(src rng.UniformSource) int64 {
	threshold := math.Exp(-p.lambda)
	var k int64
	prod := 1.0
	for {
		k++
		prod *= src.NextDouble()
		if prod <= threshold {
			return k - 1
		}
	}
}

// ptrs is the transformed rejection sampler of Hoermann with the acceptance
// test carried out in the log domain. Expected iterations are O(1); the
// loop is deliberately uncapped because truncation would bias the tail.
func (p *Poisson) ptrs(src rng.UniformSource) int64 {
	c := 0.767 - 3.36/p.lambda
	beta := math.Pi / math.Sqrt(3.0*p.lambda)
	alpha := beta * p.lambda
	k := math.Log(c) - p.lambda - math.Log(beta)

	for {
		u := src.NextDouble()
		x := (alpha - math.Log((1.0-u)/u)) / beta
		n := int64(math.Floor(x + 0.5))
		if n < 0 {
			continue
		}

		v := src.NextDouble()
		y := alpha - beta*x
		denom := 1.0 + math.Exp(y)
		lhs := y + math.Log(v/(denom*denom))
		rhs := k + float64(n)*p.logLambda - logFactorial(n)
		if lhs <= rhs {
			return n
		}
	}
}

// logFactorial returns ln(n!), exact from a lookup table for n < 20 and by
// Stirling's series with two correction terms beyond that.
func logFactorial(n int64) float64 {
	if n < int64(len(logFactSmall)) {
		return logFactSmall[n]
	}
	fn := float64(n)
	return (fn+0.5)*math.Log(fn) - fn + 0.5*math.Log(2.0*math.Pi) +
		1.0/(12.0*fn) - 1.0/(360.0*fn*fn*fn)
}

// logFactSmall[n] = ln(n!) for n in [0, 19].
var logFactSmall = [20]float64{
	0.0,
	0.0,
	0.6931471805599453,
	1.791759469228055,
	3.1780538303479458,
	4.787491742782046,
	6.579251212010101,
	8.525161361065415,
	10.604602902745251,
	12.801827480081469,
	15.104412573075516,
	17.502307845873887,
	19.987214495661885,
	22.552163853123425,
	25.19122118273868,
	27.89927138384089,
	30.671860106080672,
	33.50507345013689,
	36.39544520803305,
	39.339884187199495,
}
