package dist

import (
	"fmt"
	"math"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// probSumTolerance bounds how far the phase probabilities may drift from
// summing to exactly 1 before construction fails.
const probSumTolerance = 1e-12

// HyperExponential is a probabilistic mixture of exponential phases: phase
// i is selected with probability p_i, then an Exponential(lambda_i) value
// is drawn. High-variance, heavy-tailed service times are its usual job.
type HyperExponential struct {
	lambdas    []float64
	cumulative []float64
}

// NewHyperExponential builds a k-phase mixture. probabilities and lambdas
// must have equal non-zero length, every p_i must lie in [0,1] with the
// p_i summing to 1, and every lambda_i must be positive.
func NewHyperExponential(probabilities, lambdas []float64) (*HyperExponential, error) {
	if len(probabilities) != len(lambdas) {
		return nil, fmt.Errorf("dist: hyperexponential needs matched arrays, got %d probabilities and %d rates",
			len(probabilities), len(lambdas))
	}
	if len(probabilities) == 0 {
		return nil, fmt.Errorf("dist: hyperexponential needs at least one phase")
	}
	sum := 0.0
	for _, p := range probabilities {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("dist: hyperexponential phase probability %v outside [0,1]", p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > probSumTolerance {
		return nil, fmt.Errorf("dist: hyperexponential phase probabilities sum to %v, want 1", sum)
	}
	for _, l := range lambdas {
		if l <= 0 {
			return nil, fmt.Errorf("dist: hyperexponential rate must be positive, got %v", l)
		}
	}

	h := &HyperExponential{
		lambdas:    append([]float64(nil), lambdas...),
		cumulative: make([]float64, len(probabilities)),
	}
	cum := 0.0
	for i, p := range probabilities {
		cum += p
		h.cumulative[i] = cum
	}
	return h, nil
}

// NewBalancedHyperExponential is the two-phase convenience form with phase
// probabilities {p, 1-p} and a shared rate lambda.
func NewBalancedHyperExponential(p, lambda float64) (*HyperExponential, error) {
	return NewHyperExponential(
		[]float64{p, 1.0 - p},
		[]float64{lambda, lambda},
	)
}

// Phases returns the number of phases.
func (h *HyperExponential) Phases() int { return len(h.lambdas) }

// Sample draws one uniform to select the phase (first cumulative >= u,
// linear scan) and a second for the exponential inverse transform.
func (h *HyperExponential) Sample(src rng.UniformSource) float64 {
	uPhase := src.NextDouble()
	uExp := src.NextDouble()
	if uExp >= 1.0-rng.Epsilon {
		uExp = 1.0 - rng.Epsilon
	}

	lambda := h.lambdas[h.phase(uPhase)]
	return -math.Log(1.0-uExp) / lambda
}

// phase returns the index of the first cumulative probability at or above
// u. The terminal fallback covers u landing exactly on 1.0 territory that
// floating-point accumulation left uncovered.
func (h *HyperExponential) phase(u float64) int {
	for i, c := range h.cumulative {
		if u < c {
			return i
		}
	}
	return len(h.cumulative) - 1
}
