package sim

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

// Welford is an online mean/variance estimator (Welford's algorithm) with
// min/max tracking. It stores no samples, so it is safe to feed for the
// whole measured portion of a long run.
type Welford struct {
	n    int64
	mean float64
	m2   float64
	min  float64
	max  float64
}

// NewWelford returns an empty estimator.
func NewWelford() *Welford {
	return &Welford{min: math.Inf(1), max: math.Inf(-1)}
}

// Add folds one sample into the running statistics.
func (w *Welford) Add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
	if x < w.min {
		w.min = x
	}
	if x > w.max {
		w.max = x
	}
}

// Count returns the number of samples seen.
func (w *Welford) Count() int64 {
	return w.n
}

// Mean returns the running mean, or 0 with no samples.
func (w *Welford) Mean() float64 {
	if w.n == 0 {
		return 0
	}
	return w.mean
}

// Stddev returns the sample standard deviation (n-1 denominator), or 0
// with fewer than two samples.
func (w *Welford) Stddev() float64 {
	if w.n < 2 {
		return 0
	}
	return math.Sqrt(w.m2 / float64(w.n-1))
}

// Min returns the smallest sample, or 0 with no samples.
func (w *Welford) Min() float64 {
	if w.n == 0 {
		return 0
	}
	return w.min
}

// Max returns the largest sample, or 0 with no samples.
func (w *Welford) Max() float64 {
	if w.n == 0 {
		return 0
	}
	return w.max
}

// Reset discards all accumulated state.
func (w *Welford) Reset() {
	*w = Welford{min: math.Inf(1), max: math.Inf(-1)}
}

// Report is the per-run result summary.
type Report struct {
	RunID string
	Seed  int64
	Clock float64

	ExternalArrivals int
	Completions      int
	Measured         int64 // completions inside the measurement window

	ResponseMean   float64
	ResponseStddev float64
	ResponseMin    float64
	ResponseMax    float64
	ResponseP50    float64
	ResponseP95    float64
	ResponseP99    float64

	StationCompletions map[string]int
}

// percentile wraps stats.Percentile with an empty-data guard; an empty
// measurement window reports zeros rather than an error.
func percentile(samples []float64, percent float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	v, err := stats.Percentile(stats.Float64Data(samples), percent)
	if err != nil {
		return 0
	}
	return v
}

// Log writes the report through logrus at info level.
func (r Report) Log() {
	logrus.Infof("run %s (seed %d) finished at t=%.3f", r.RunID, r.Seed, r.Clock)
	logrus.Infof("  arrivals=%d completions=%d measured=%d",
		r.ExternalArrivals, r.Completions, r.Measured)
	logrus.Infof("  response mean=%.4f stddev=%.4f min=%.4f max=%.4f",
		r.ResponseMean, r.ResponseStddev, r.ResponseMin, r.ResponseMax)
	logrus.Infof("  response p50=%.4f p95=%.4f p99=%.4f",
		r.ResponseP50, r.ResponseP95, r.ResponseP99)
	for name, n := range r.StationCompletions {
		logrus.Infof("  station %s completions=%d", name, n)
	}
}
