// Package dist provides exact-sampling statistical distributions over a
// uniform source. Parameters are validated once at construction and never
// re-checked per sample. A distribution holds no generator state (the
// Gaussian spare cache is the one documented exception), so the same
// instance can drive draws from the single Lehmer generator or from any
// lane of a MultiStream.
package dist

import (
	"fmt"
	"math"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// Distribution samples one real value per call from src. It satisfies
// rng.Sampler, so any distribution can be attached to a stream.
type Distribution interface {
	Sample(src rng.UniformSource) float64
}

// Uniform maps one uniform draw linearly into [low, high).
type Uniform struct {
	low  float64
	high float64
}

// NewUniform builds a Uniform over [a, b). Fails unless a < b.
func NewUniform(a, b float64) (*Uniform, error) {
	if a >= b {
		return nil, fmt.Errorf("dist: uniform bounds must satisfy a < b, got a=%v b=%v", a, b)
	}
	return &Uniform{low: a, high: b}, nil
}

// Low returns the inclusive lower bound.
func (u *Uniform) Low() float64 { return u.low }

// High returns the exclusive upper bound.
func (u *Uniform) High() float64 { return u.high }

// SetLow moves the lower bound. Fails unless a < the current upper bound.
func (u *Uniform) SetLow(a float64) error {
	if a >= u.high {
		return fmt.Errorf("dist: lower bound %v must be less than upper bound %v", a, u.high)
	}
	u.low = a
	return nil
}

// SetHigh moves the upper bound. Fails unless b > the current lower bound.
func (u *Uniform) SetHigh(b float64) error {
	if b <= u.low {
		return fmt.Errorf("dist: upper bound %v must be greater than lower bound %v", b, u.low)
	}
	u.high = b
	return nil
}

// Sample returns a value in [low, high).
func (u *Uniform) Sample(src rng.UniformSource) float64 {
	return u.low + (u.high-u.low)*src.NextDouble()
}

// Exponential samples with rate lambda via inverse-transform.
type Exponential struct {
	lambda float64
}

// NewExponential builds an Exponential with rate lambda > 0.
func NewExponential(lambda float64) (*Exponential, error) {
	if lambda <= 0 {
		return nil, fmt.Errorf("dist: exponential rate must be positive, got %v", lambda)
	}
	return &Exponential{lambda: lambda}, nil
}

// Rate returns lambda.
func (e *Exponential) Rate() float64 { return e.lambda }

// Sample returns -ln(1-u)/lambda, clamping u below 1 so the logarithm
// argument cannot hit zero.
func (e *Exponential) Sample(src rng.UniformSource) float64 {
	u := src.NextDouble()
	if u >= 1.0-rng.Epsilon {
		u = 1.0 - rng.Epsilon
	}
	return -math.Log(1.0-u) / e.lambda
}

// Erlang is the sum of k independent Exponential(lambda) stages.
type Erlang struct {
	k   int
	exp *Exponential
}

// NewErlang builds an Erlang with integer shape k >= 1 and rate lambda > 0.
func NewErlang(k int, lambda float64) (*Erlang, error) {
	if k <= 0 {
		return nil, fmt.Errorf("dist: erlang shape must be positive, got %d", k)
	}
	exp, err := NewExponential(lambda)
	if err != nil {
		return nil, err
	}
	return &Erlang{k: k, exp: exp}, nil
}

// Shape returns k.
func (e *Erlang) Shape() int { return e.k }

// Sample draws k exponential stages and returns their sum.
func (e *Erlang) Sample(src rng.UniformSource) float64 {
	sum := 0.0
	for i := 0; i < e.k; i++ {
		sum += e.exp.Sample(src)
	}
	return sum
}

// Bernoulli returns 1 with probability p and 0 otherwise.
type Bernoulli struct {
	p float64
}

// NewBernoulli builds a Bernoulli with p in [0, 1].
func NewBernoulli(p float64) (*Bernoulli, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("dist: bernoulli probability must be in [0,1], got %v", p)
	}
	return &Bernoulli{p: p}, nil
}

// Sample returns 1.0 if the draw falls below p, else 0.0.
func (b *Bernoulli) Sample(src rng.UniformSource) float64 {
	if src.NextDouble() < b.p {
		return 1.0
	}
	return 0.0
}

// Geometric counts failures before the first success of a Bernoulli(p)
// process, sampled in closed form as floor(ln(1-u)/ln(1-p)).
type Geometric struct {
	logQ float64 // ln(1-p), negative
}

// NewGeometric builds a Geometric with p strictly inside (0, 1).
func NewGeometric(p float64) (*Geometric, error) {
	if p <= 0 || p >= 1 {
		return nil, fmt.Errorf("dist: geometric probability must be in (0,1), got %v", p)
	}
	return &Geometric{logQ: math.Log(1.0 - p)}, nil
}

// Sample returns the failure count as a float64.
func (g *Geometric) Sample(src rng.UniformSource) float64 {
	return math.Floor(math.Log(1.0-src.NextDouble()) / g.logQ)
}
