package dist

import (
	"fmt"
	"math"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// Gaussian samples a normal distribution with the polar Box-Muller method.
// Each accepted pair of uniform draws yields two standard normals; the
// second is cached and returned by the following Sample call, so Gaussian
// is the one distribution that carries mutable sampling state. That state
// belongs to the distribution instance, never to the generator.
type Gaussian struct {
	mean float64
	std  float64

	hasSpare bool
	spare    float64
}

// NewGaussian builds a Gaussian with mean mu and standard deviation
// sigma >= 0. Sigma zero collapses every sample to mu.
func NewGaussian(mu, sigma float64) (*Gaussian, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("dist: gaussian sigma must be non-negative, got %v", sigma)
	}
	return &Gaussian{mean: mu, std: sigma}, nil
}

// Mean returns mu.
func (g *Gaussian) Mean() float64 { return g.mean }

// Std returns sigma.
func (g *Gaussian) Std() float64 { return g.std }

// Sample returns mean + std*Z for a standard normal Z. The rejection loop
// retries while the point falls outside the unit disc or exactly on the
// origin; both have bounded expected retries, so no iteration cap is
// applied (capping would bias the distribution).
func (g *Gaussian) Sample(src rng.UniformSource) float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.mean + g.std*g.spare
	}

	var u, v, s float64
	for {
		u = src.NextDouble()*2.0 - 1.0
		v = src.NextDouble()*2.0 - 1.0
		s = u*u + v*v
		if s < 1.0 && s != 0.0 {
			break
		}
	}

	s = math.Sqrt(-2.0 * math.Log(s) / s)
	g.spare = v * s
	g.hasSpare = true
	return g.mean + g.std*(u*s)
}
