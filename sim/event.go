package sim

import "container/heap"

// EventKind discriminates the two event types of the network model.
type EventKind int

const (
	// Arrival is a job reaching a station, from outside (JobID < 0, not
	// yet assigned) or from another station.
	Arrival EventKind = iota
	// Departure is a job finishing service at a station.
	Departure
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case Arrival:
		return "arrival"
	case Departure:
		return "departure"
	default:
		return "unknown"
	}
}

// externalJobID marks an arrival event carrying no job yet; the driver
// creates the job when the event fires.
const externalJobID = -1

// Event is one scheduled state change.
type Event struct {
	Time    float64
	Kind    EventKind
	Station string
	JobID   int
	Class   int

	seq       uint64 // insertion order, breaks timestamp ties
	cancelled bool
}

// Cancel marks the event so the scheduler discards it instead of firing it.
func (e *Event) Cancel() {
	e.cancelled = true
}

// eventQueue is a min-heap over (time, insertion sequence). The sequence
// tie-break makes simultaneous events fire in schedule order, which keeps
// runs reproducible.
type eventQueue []*Event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].Time != q[j].Time {
		return q[i].Time < q[j].Time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) {
	*q = append(*q, x.(*Event))
}

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Scheduler dispatches events in chronological order and tracks the
// simulation clock and the live job table.
type Scheduler struct {
	queue eventQueue
	clock float64
	seq   uint64
	jobs  map[int]*Job
}

// NewScheduler returns an empty scheduler at clock zero.
func NewScheduler() *Scheduler {
	return &Scheduler{jobs: make(map[int]*Job)}
}

// Now returns the current simulation time.
func (s *Scheduler) Now() float64 {
	return s.clock
}

// ScheduleAt enqueues e at absolute time at, clamped to the current clock
// so no event fires in the past.
func (s *Scheduler) ScheduleAt(e *Event, at float64) {
	if at < s.clock {
		at = s.clock
	}
	e.Time = at
	e.seq = s.seq
	s.seq++
	heap.Push(&s.queue, e)
}

// ScheduleAfter enqueues e delay time units from now. Negative delays
// schedule immediately.
func (s *Scheduler) ScheduleAfter(e *Event, delay float64) {
	if delay < 0 {
		delay = 0
	}
	s.ScheduleAt(e, s.clock+delay)
}

// HasNext reports whether any event is pending.
func (s *Scheduler) HasNext() bool {
	return len(s.queue) > 0
}

// Next pops the earliest pending event, skipping cancelled ones, and
// advances the clock to its timestamp. Returns nil when the queue drains.
func (s *Scheduler) Next() *Event {
	for len(s.queue) > 0 {
		e := heap.Pop(&s.queue).(*Event)
		if e.cancelled {
			continue
		}
		if e.Time > s.clock {
			s.clock = e.Time
		}
		return e
	}
	return nil
}

// Job returns the live job with the given ID, or nil.
func (s *Scheduler) Job(id int) *Job {
	return s.jobs[id]
}

// AddJob registers a job in the live table.
func (s *Scheduler) AddJob(j *Job) {
	s.jobs[j.ID] = j
}

// RemoveJob drops a job from the live table once it exits the network.
func (s *Scheduler) RemoveJob(id int) {
	delete(s.jobs, id)
}

// LiveJobs returns the number of jobs currently inside the network.
func (s *Scheduler) LiveJobs() int {
	return len(s.jobs)
}
