package dist

import (
	"fmt"
	"math"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// btpeCutoffN is the trial count below which the plain Bernoulli sum is
// used; btpeMinNpq is the canonical validity bound for BTPE (the envelope
// construction assumes n*min(p,1-p) >= 30), so small-npq parameter sets
// also fall back to the Bernoulli sum even for large n.
const (
	btpeCutoffN = 50
	btpeMinNpq  = 30.0
)

// Binomial samples a Binomial(n, p) count, returned as a float64. Large
// (n, p) regimes use BTPE, the triangle/parallelogram/exponential rejection
// method of Kachitvichyanukul and Schmeiser (1988), including the squeeze
// and the full slow-path acceptance test.
type Binomial struct {
	n int
	p float64

	// BTPE envelope constants, precomputed over r = min(p, 1-p).
	useBTPE bool
	r, q    float64 // r = min(p,1-p), q = 1-r
	fm      float64 // n*r + r
	m       float64 // mode, floor(fm)
	nrq     float64 // n*r*q
	p1      float64 // triangle half-width
	xm      float64 // triangle peak, m + 0.5
	xl, xr  float64 // triangle edges
	c       float64 // parallelogram height
	laml    float64 // left exponential tail rate
	lamr    float64 // right exponential tail rate
	p2      float64 // cumulative region areas
	p3      float64
	p4      float64
}

// NewBinomial builds a Binomial with n > 0 trials and success probability
// p in [0, 1].
func NewBinomial(n int, p float64) (*Binomial, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dist: binomial trial count must be positive, got %d", n)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("dist: binomial probability must be in [0,1], got %v", p)
	}
	b := &Binomial{n: n, p: p}

	r := math.Min(p, 1.0-p)
	if n >= btpeCutoffN && float64(n)*r >= btpeMinNpq {
		b.useBTPE = true
		b.setupBTPE(r)
	}
	return b, nil
}

// setupBTPE precomputes the envelope geometry: a triangle over the mode,
// parallelogram wings, and exponential tails on both sides.
func (b *Binomial) setupBTPE(r float64) {
	n := float64(b.n)
	q := 1.0 - r

	b.r = r
	b.q = q
	b.fm = n*r + r
	b.m = math.Floor(b.fm)
	b.nrq = n * r * q

	b.p1 = math.Floor(2.195*math.Sqrt(b.nrq)-4.6*q) + 0.5
	b.xm = b.m + 0.5
	b.xl = b.xm - b.p1
	b.xr = b.xm + b.p1
	b.c = 0.134 + 20.5/(15.3+b.m)

	a := (b.fm - b.xl) / (b.fm - b.xl*r)
	b.laml = a * (1.0 + a/2.0)
	a = (b.xr - b.fm) / (b.xr * q)
	b.lamr = a * (1.0 + a/2.0)

	b.p2 = b.p1 * (1.0 + 2.0*b.c)
	b.p3 = b.p2 + b.c/b.laml
	b.p4 = b.p3 + b.c/b.lamr
}

// Sample returns one binomial count.
func (b *Binomial) Sample(src rng.UniformSource) float64 {
	if !b.useBTPE {
		return float64(b.bernoulliSum(src))
	}
	return float64(b.btpe(src))
}

// bernoulliSum counts successes across n independent draws.
func (b *Binomial) bernoulliSum(src rng.UniformSource) int {
	x := 0
	for i := 0; i < b.n; i++ {
		if src.NextDouble() < b.p {
			x++
		}
	}
	return x
}

// btpe performs the four-region rejection: (1) triangle, accepted outright;
// (2) parallelogram, accepted by a linear squeeze; (3) and (4), the left
// and right exponential tails. Candidates surviving region selection pass
// through the squeeze and, if inconclusive, the exact log-domain
// acceptance test. The loop's expected iteration count is O(1) and it is
// deliberately uncapped.
func (b *Binomial) btpe(src rng.UniformSource) int {
	n := float64(b.n)
	var y float64

	for {
		u := src.NextDouble() * b.p4
		v := src.NextDouble()

		switch {
		case u <= b.p1:
			// Triangular region: accept immediately.
			y = math.Floor(b.xm - b.p1*v + u)
			return b.orient(y)

		case u <= b.p2:
			// Parallelogram: squeeze on the scaled ordinate.
			x := b.xl + (u-b.p1)/b.c
			v = v*b.c + 1.0 - math.Abs(b.m-x+0.5)/b.p1
			if v > 1.0 {
				continue
			}
			y = math.Floor(x)

		case u <= b.p3:
			// Left exponential tail.
			y = math.Floor(b.xl + math.Log(v)/b.laml)
			if y < 0 {
				continue
			}
			v = v * (u - b.p2) * b.laml

		default:
			// Right exponential tail.
			y = math.Floor(b.xr - math.Log(v)/b.lamr)
			if y > n {
				continue
			}
			v = v * (u - b.p3) * b.lamr
		}

		if b.accept(y, v, n) {
			return b.orient(y)
		}
	}
}

// accept runs the squeeze and, where the squeeze is inconclusive, the
// exact acceptance test against the binomial pmf.
func (b *Binomial) accept(y, v, n float64) bool {
	k := math.Abs(y - b.m)
	if k <= 20 || k >= b.nrq/2.0-1.0 {
		// Explicit pmf ratio: cheap when y is near the mode.
		s := b.r / b.q
		aa := s * (n + 1.0)
		f := 1.0
		switch {
		case b.m < y:
			for i := b.m + 1; i <= y; i++ {
				f *= aa/i - s
			}
		case b.m > y:
			for i := y + 1; i <= b.m; i++ {
				f /= aa/i - s
			}
		}
		return v <= f
	}

	// Squeeze on ln(v) against a quadratic band around the mode.
	rho := (k / b.nrq) * ((k*(k/3.0+0.625)+1.0/6.0)/b.nrq + 0.5)
	t := -k * k / (2.0 * b.nrq)
	a := math.Log(v)
	if a < t-rho {
		return true
	}
	if a > t+rho {
		return false
	}

	// Final exact test via Stirling-corrected log pmf.
	x1 := y + 1.0
	f1 := b.m + 1.0
	z := n + 1.0 - b.m
	w := n - y + 1.0
	x2 := x1 * x1
	f2 := f1 * f1
	z2 := z * z
	w2 := w * w

	bound := b.xm*math.Log(f1/x1) +
		(n-b.m+0.5)*math.Log(z/w) +
		(y-b.m)*math.Log(w*b.r/(x1*b.q)) +
		stirlingCorrection(f1, f2) +
		stirlingCorrection(z, z2) +
		stirlingCorrection(x1, x2) +
		stirlingCorrection(w, w2)
	return a <= bound
}

// stirlingCorrection is the truncated series correction used by the exact
// BTPE acceptance bound.
func stirlingCorrection(v, v2 float64) float64 {
	return (13860.0 - (462.0-(132.0-(99.0-140.0/v2)/v2)/v2)/v2) / v / 166320.0
}

// orient maps a count drawn over r = min(p, 1-p) back to the requested p.
func (b *Binomial) orient(y float64) int {
	if b.p > 0.5 {
		return b.n - int(y)
	}
	return int(y)
}
