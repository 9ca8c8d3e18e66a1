// Package rng implements a multiplicative Lehmer pseudo-random number
// generator with a 63-bit prime modulus, plus a multi-stream variant whose
// lanes are planted by modular jump-ahead so that their sequences cannot
// overlap over practical run lengths.
//
// Generators are not safe for concurrent use. Each simulation run owns its
// own MultiStream and drives it from a single logical sequence of events;
// independent runs may execute in parallel because they share no state.
package rng

import "time"

// Lehmer recurrence constants. Schrage's decomposition needs the quotient
// and remainder of Modulus/Multiplier so every intermediate product stays
// inside a signed 64-bit word.
const (
	// Modulus is the Lehmer modulus, 2^63-1.
	Modulus int64 = 1<<63 - 1

	// Multiplier is the fixed Lehmer multiplier.
	Multiplier int64 = 3935559000370003845

	quotient  int64 = Modulus / Multiplier
	remainder int64 = Modulus % Multiplier
)

// Epsilon clamps uniform draws away from 1.0 in inverse-transform sampling
// so that ln(1-u) is never ln(0).
const Epsilon = 1e-12

// UniformSource is the capability distribution samplers draw from. Both
// Lehmer and the per-lane Stream handles of a MultiStream implement it.
type UniformSource interface {
	// Next advances the generator and returns the raw state, in [1, Modulus-1].
	Next() int64
	// NextDouble returns Next()/Modulus, in [0, 1).
	NextDouble() float64
}

// Sampler draws parameterized variates from a uniform source. Every
// distribution in the dist package satisfies it; it is declared here so a
// stream can hold its attached distribution without an import cycle.
type Sampler interface {
	Sample(src UniformSource) float64
}

// Lehmer is a single-sequence multiplicative congruential generator:
// state' = Multiplier * state mod Modulus.
type Lehmer struct {
	seed  int64
	state int64
}

// NewLehmer builds a generator seeded with seed. A seed <= 0 is replaced by
// the current clock reading, which makes the run non-reproducible; callers
// wanting determinism must pass a positive seed.
func NewLehmer(seed int64) *Lehmer {
	g := &Lehmer{}
	g.ResetSeed(seed)
	return g
}

// Seed returns the seed the current sequence was started from.
func (g *Lehmer) Seed() int64 {
	return g.seed
}

// ResetSeed restarts the sequence deterministically from newSeed. A seed
// that reduces to zero modulo Modulus degenerates the recurrence, so the
// state is forced to 1 in that case.
func (g *Lehmer) ResetSeed(newSeed int64) {
	if newSeed <= 0 {
		newSeed = time.Now().UnixNano()
	}
	g.seed = newSeed
	g.state = newSeed % Modulus
	if g.state == 0 {
		g.state = 1
	}
}

// Next advances the state and returns it.
func (g *Lehmer) Next() int64 {
	g.state = step(g.state)
	return g.state
}

// NextDouble returns the next variate normalized to [0, 1).
func (g *Lehmer) NextDouble() float64 {
	return float64(g.Next()) / float64(Modulus)
}

// step computes Multiplier*x mod Modulus with Schrage's overflow-safe
// decomposition: t = A*(x mod Q) - R*(x div Q), folding t back by +M when
// it goes non-positive.
func step(x int64) int64 {
	t := Multiplier*(x%quotient) - remainder*(x/quotient)
	if t > 0 {
		return t
	}
	return t + Modulus
}
