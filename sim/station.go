package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/queueing-sim/queueing-sim/sim/dist"
	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// Station is a single-server FIFO service center. Service demands are
// exponential with a per-class mean and are drawn from the station's own
// dedicated stream, so stations never perturb each other's sequences.
type Station struct {
	Name string

	service map[int]*dist.Exponential // class -> service time sampler
	stream  *rng.Stream

	waiting []int // job IDs queued behind the server
	busy    bool
	current int // job in service, valid only while busy

	// Completions counts departures since the last ResetCounters call.
	Completions int
}

// NewStation builds a station from per-class mean service times E[S].
// Means must be positive; the samplers are Exponential(1/mean).
func NewStation(name string, serviceMeans map[int]float64, stream *rng.Stream) (*Station, error) {
	if len(serviceMeans) == 0 {
		return nil, fmt.Errorf("sim: station %s has no service means", name)
	}
	service := make(map[int]*dist.Exponential, len(serviceMeans))
	for class, mean := range serviceMeans {
		if mean <= 0 {
			return nil, fmt.Errorf("sim: station %s class %d mean service time must be positive, got %v",
				name, class, mean)
		}
		exp, err := dist.NewExponential(1.0 / mean)
		if err != nil {
			return nil, fmt.Errorf("sim: station %s class %d: %w", name, class, err)
		}
		service[class] = exp
	}
	return &Station{Name: name, service: service, stream: stream}, nil
}

// Arrive admits a job: straight into service if the server is idle,
// otherwise to the back of the FIFO queue.
func (st *Station) Arrive(job *Job, sched *Scheduler) {
	if st.busy {
		st.waiting = append(st.waiting, job.ID)
		return
	}
	st.startService(job, sched)
}

// Depart completes the job in service and promotes the head of the queue,
// if any.
func (st *Station) Depart(job *Job, sched *Scheduler) {
	if st.busy && st.current == job.ID {
		st.busy = false
		st.current = 0
	}
	st.Completions++

	if len(st.waiting) > 0 {
		nextID := st.waiting[0]
		st.waiting = st.waiting[1:]
		if next := sched.Job(nextID); next != nil {
			st.startService(next, sched)
		}
	}
}

// startService samples the service demand for the job's class and
// schedules the matching departure.
func (st *Station) startService(job *Job, sched *Scheduler) {
	sampler, ok := st.service[job.Class]
	if !ok {
		// A routing table can steer a class here that the service config
		// never mentions. Zero service keeps the run alive; the log line
		// points at the config mismatch.
		logrus.Errorf("station %s: no service mean for class %d, serving instantly", st.Name, job.Class)
	}

	st.busy = true
	st.current = job.ID

	var svc float64
	if ok {
		svc = sampler.Sample(st.stream)
	}
	sched.ScheduleAfter(&Event{
		Kind:    Departure,
		Station: st.Name,
		JobID:   job.ID,
		Class:   job.Class,
	}, svc)
}

// Population returns the number of jobs at the station, in service plus
// queued.
func (st *Station) Population() int {
	n := len(st.waiting)
	if st.busy {
		n++
	}
	return n
}

// ResetCounters clears the measurement counters, used when the warm-up
// period ends.
func (st *Station) ResetCounters() {
	st.Completions = 0
}
