package sim

// Exit is the sentinel routing target meaning the job leaves the network.
const Exit = "EXIT"

// Arc is one probabilistic transition out of a (station, class) pair.
// NextClass must be non-nil exactly when Target is not Exit; the config
// loader enforces that structurally, the router re-checks only the
// probability sum.
type Arc struct {
	Target      string
	Probability float64
	NextClass   *int
}

// RoutingTable maps station -> class -> ordered arc list. It is built once
// by the configuration loader and treated as read-only by the router.
type RoutingTable map[string]map[int][]Arc

// TargetClass is the router's output: the station the job moves to and the
// class it carries there. Exit true means the job leaves the network from
// its current station; Class is meaningless in that case.
type TargetClass struct {
	Station string
	Class   int
	Exit    bool
}

// Stations returns the set of station names that appear in the table as a
// source or as a non-exit target. Used by configuration validation.
func (t RoutingTable) Stations() map[string]struct{} {
	out := make(map[string]struct{}, len(t))
	for station, byClass := range t {
		out[station] = struct{}{}
		for _, arcs := range byClass {
			for _, arc := range arcs {
				if arc.Target != Exit {
					out[arc.Target] = struct{}{}
				}
			}
		}
	}
	return out
}
