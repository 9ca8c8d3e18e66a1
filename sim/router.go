package sim

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// probSumTolerance bounds how far a (station, class) arc list's probability
// sum may drift from 1.0 before the router logs a warning. Drift is never
// fatal: the terminal CDF entry is forced to 1.0, so selection stays
// well-defined regardless.
const probSumTolerance = 1e-9

// routerNoStreamMsg is the panic message for routing without a draw source.
const routerNoStreamMsg = "sim: router used before its routing stream was set"

// Router selects the next (station, class) hop for a completing job with a
// single uniform draw against cumulative distributions precomputed from
// the routing table at construction.
//
// The draw source must be a stream dedicated to routing. Sharing a lane
// with service or arrival sampling would shift those sequences on every
// routing decision and break run-to-run reproducibility.
type Router struct {
	table   RoutingTable
	cdf     map[string]map[int][]float64
	routing rng.UniformSource
	log     logrus.FieldLogger
}

// NewRouter precomputes the per-(station, class) CDFs and keeps routing as
// the dedicated draw source. routing may be nil at construction but must
// be set before the first Route call. A nil log falls back to the standard
// logger.
func NewRouter(table RoutingTable, routing rng.UniformSource, log logrus.FieldLogger) *Router {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Router{
		table:   table,
		cdf:     precomputeCDF(table, log),
		routing: routing,
		log:     log,
	}
}

// SetRoutingStream replaces the dedicated routing draw source.
func (r *Router) SetRoutingStream(src rng.UniformSource) {
	r.routing = src
}

// Route returns the next hop for a job of class finishing at station.
// ok is false when the table has no arcs for (station, class); callers
// treat that as "the job ends here", not as an error. Routing without a
// draw source set is a configuration defect and panics.
func (r *Router) Route(station string, class int) (TargetClass, bool) {
	byClass, found := r.table[station]
	if !found {
		return TargetClass{}, false
	}
	arcs := byClass[class]
	if len(arcs) == 0 {
		return TargetClass{}, false
	}

	if r.routing == nil {
		panic(routerNoStreamMsg)
	}

	u := r.routing.NextDouble()
	idx := selectByCDF(u, r.cdf[station][class])

	arc := arcs[idx]
	if arc.Target == Exit {
		return TargetClass{Station: station, Exit: true}, true
	}
	if arc.NextClass == nil {
		// The loader validates this; reaching here means the table was
		// assembled by hand and is malformed. Surface it, don't crash.
		r.log.Errorf("router: nil next class for target %s on (%s, class=%d)",
			arc.Target, station, class)
		return TargetClass{}, false
	}
	return TargetClass{Station: arc.Target, Class: *arc.NextClass}, true
}

// precomputeCDF builds one non-decreasing cumulative array per (station,
// class), aligned with the arc list and with the last entry forced to
// exactly 1.0.
func precomputeCDF(table RoutingTable, log logrus.FieldLogger) map[string]map[int][]float64 {
	out := make(map[string]map[int][]float64, len(table))
	for station, byClass := range table {
		perClass := make(map[int][]float64, len(byClass))
		for class, arcs := range byClass {
			if len(arcs) == 0 {
				continue
			}
			cum := make([]float64, len(arcs))
			sum := 0.0
			for i, arc := range arcs {
				sum += arc.Probability
				cum[i] = sum
			}
			if math.Abs(sum-1.0) > probSumTolerance {
				log.Warnf("router: arc probabilities sum to %.12f on (%s, class=%d), expected 1.0",
					sum, station, class)
			}
			cum[len(cum)-1] = 1.0
			perClass[class] = cum
		}
		out[station] = perClass
	}
	return out
}

// selectByCDF returns the first index with u <= cum[i]. The arc lists are
// short, so the linear scan is not a performance concern; the last index
// is the fallback against floating-point drift.
func selectByCDF(u float64, cum []float64) int {
	for i, c := range cum {
		if u <= c {
			return i
		}
	}
	return len(cum) - 1
}
