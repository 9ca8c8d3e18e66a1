package sim

// Job is one request flowing through the network. Class is an opaque
// execution-history tag: it records only the routing/timing behavior the
// job should receive next, typically "which station did it last visit",
// and changes on every routed hop.
type Job struct {
	ID          int
	Class       int
	ArrivalTime float64 // network entry time, for response-time accounting
	Hops        int     // routed transitions so far
}
