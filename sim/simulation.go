package sim

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/queueing-sim/queueing-sim/sim/dist"
	"github.com/queueing-sim/queueing-sim/sim/rng"
)

// Stream layout inside the run's MultiStream. Every stochastic concern
// owns one lane: arrivals, routing, then one lane per station in sorted
// name order. Keeping the concerns on separate lanes is what makes runs
// reproducible independent of interleaving.
const (
	arrivalStreamIndex = 0
	routingStreamIndex = 1
	stationStreamBase  = 2
)

// Config is the immutable description of one run. Build it by hand or
// with LoadConfig, then hand it to New; the Simulation never mutates it.
type Config struct {
	Seed    int64
	Streams int // 0 means rng.DefaultStreamCount

	ArrivalRate    float64 // external Poisson rate, jobs per time unit
	ArrivalStation string
	ArrivalClass   int

	MaxArrivals       int // external arrivals to inject before draining
	WarmupCompletions int // exits before measurement starts; <= 0 measures from t=0
	InitialJobs       int // jobs placed at the arrival station at t=0

	ServiceMeans map[string]map[int]float64 // station -> class -> E[S]
	Routes       RoutingTable
}

// Validate checks the cross-field constraints a run needs to be well
// posed. Structural arc validity (probability ranges, next-class presence)
// is the loader's job.
func (c Config) Validate() error {
	if c.ArrivalRate <= 0 {
		return fmt.Errorf("sim: arrival rate must be positive, got %v", c.ArrivalRate)
	}
	if c.MaxArrivals <= 0 && c.InitialJobs <= 0 {
		return fmt.Errorf("sim: nothing to simulate, need max arrivals or initial jobs")
	}
	if len(c.ServiceMeans) == 0 {
		return fmt.Errorf("sim: no stations configured")
	}
	if _, ok := c.ServiceMeans[c.ArrivalStation]; !ok {
		return fmt.Errorf("sim: arrival station %q has no service configuration", c.ArrivalStation)
	}
	for station := range c.Routes.Stations() {
		if _, ok := c.ServiceMeans[station]; !ok {
			return fmt.Errorf("sim: routing table references unknown station %q", station)
		}
	}
	if c.Streams != 0 && c.Streams < c.requiredStreams() {
		return fmt.Errorf("sim: %d streams configured but the run needs at least %d",
			c.Streams, c.requiredStreams())
	}
	return nil
}

// requiredStreams returns the lane count the stream layout needs.
func (c Config) requiredStreams() int {
	return stationStreamBase + len(c.ServiceMeans)
}

// Simulation is the explicit mutable state of one run, advanced event by
// event from a single goroutine. Independent runs share nothing, so any
// number of them may execute in parallel.
type Simulation struct {
	cfg Config

	gen      *rng.MultiStream
	sched    *Scheduler
	stations map[string]*Station
	router   *Router

	interarrival  *dist.Exponential
	arrivalStream *rng.Stream

	externalArrivals int
	completions      int
	measuring        bool
	nextJobID        int

	response        *Welford
	responseSamples []float64
}

// New assembles a run from cfg: one MultiStream seeded from cfg.Seed, one
// station per service-means entry with its own lane, and the router on its
// dedicated lane.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	streams := cfg.Streams
	if streams == 0 {
		streams = rng.DefaultStreamCount
	}
	if streams < cfg.requiredStreams() {
		streams = cfg.requiredStreams()
	}
	gen, err := rng.NewMultiStream(cfg.Seed, streams)
	if err != nil {
		return nil, err
	}

	interarrival, err := dist.NewExponential(cfg.ArrivalRate)
	if err != nil {
		return nil, err
	}

	// Sorted station order pins the lane assignment, and with it the whole
	// run, to the configuration alone.
	names := make([]string, 0, len(cfg.ServiceMeans))
	for name := range cfg.ServiceMeans {
		names = append(names, name)
	}
	sort.Strings(names)

	stations := make(map[string]*Station, len(names))
	for i, name := range names {
		st, err := NewStation(name, cfg.ServiceMeans[name], gen.Stream(stationStreamBase+i))
		if err != nil {
			return nil, err
		}
		stations[name] = st
	}

	return &Simulation{
		cfg:           cfg,
		gen:           gen,
		sched:         NewScheduler(),
		stations:      stations,
		router:        NewRouter(cfg.Routes, gen.Stream(routingStreamIndex), logrus.WithField("component", "router")),
		interarrival:  interarrival,
		arrivalStream: gen.Stream(arrivalStreamIndex),
		measuring:     cfg.WarmupCompletions <= 0,
		response:      NewWelford(),
	}, nil
}

// Router exposes the run's router, mainly for tests and diagnostics.
func (s *Simulation) Router() *Router {
	return s.router
}

// Run drives the event loop until the queue drains: MaxArrivals external
// arrivals are injected, then the network empties. Returns the run report.
func (s *Simulation) Run() Report {
	logrus.Infof("starting run: seed=%d stations=%d rate=%v maxArrivals=%d warmup=%d",
		s.cfg.Seed, len(s.stations), s.cfg.ArrivalRate, s.cfg.MaxArrivals, s.cfg.WarmupCompletions)

	for i := 0; i < s.cfg.InitialJobs; i++ {
		job := s.newJob(s.cfg.ArrivalClass)
		s.sched.ScheduleAt(&Event{
			Kind:    Arrival,
			Station: s.cfg.ArrivalStation,
			JobID:   job.ID,
			Class:   job.Class,
		}, 0)
	}
	if s.cfg.MaxArrivals > 0 {
		s.sched.ScheduleAt(&Event{
			Kind:    Arrival,
			Station: s.cfg.ArrivalStation,
			JobID:   externalJobID,
			Class:   s.cfg.ArrivalClass,
		}, 0)
	}

	for s.sched.HasNext() {
		e := s.sched.Next()
		if e == nil {
			break
		}
		switch e.Kind {
		case Arrival:
			s.onArrival(e)
		case Departure:
			s.onDeparture(e)
		}
	}

	return s.buildReport()
}

func (s *Simulation) newJob(class int) *Job {
	s.nextJobID++
	job := &Job{
		ID:          s.nextJobID,
		Class:       class,
		ArrivalTime: s.sched.Now(),
	}
	s.sched.AddJob(job)
	return job
}

func (s *Simulation) onArrival(e *Event) {
	st, ok := s.stations[e.Station]
	if !ok {
		logrus.Errorf("arrival at unknown station %q dropped", e.Station)
		return
	}

	if e.JobID == externalJobID {
		job := s.newJob(e.Class)
		s.externalArrivals++
		if s.externalArrivals < s.cfg.MaxArrivals {
			ia := s.interarrival.Sample(s.arrivalStream)
			s.sched.ScheduleAfter(&Event{
				Kind:    Arrival,
				Station: s.cfg.ArrivalStation,
				JobID:   externalJobID,
				Class:   s.cfg.ArrivalClass,
			}, ia)
		}
		st.Arrive(job, s.sched)
		return
	}

	if job := s.sched.Job(e.JobID); job != nil {
		st.Arrive(job, s.sched)
	}
}

func (s *Simulation) onDeparture(e *Event) {
	st, ok := s.stations[e.Station]
	if !ok {
		return
	}
	job := s.sched.Job(e.JobID)
	if job == nil {
		return
	}

	st.Depart(job, s.sched)

	tc, routed := s.router.Route(e.Station, job.Class)
	if !routed || tc.Exit {
		// "No route" and EXIT both mean the job ends here.
		s.finishJob(job)
		return
	}

	job.Class = tc.Class
	job.Hops++
	s.sched.ScheduleAfter(&Event{
		Kind:    Arrival,
		Station: tc.Station,
		JobID:   job.ID,
		Class:   job.Class,
	}, 0)
}

// finishJob retires an exiting job and, inside the measurement window,
// records its network response time.
func (s *Simulation) finishJob(job *Job) {
	s.completions++
	if s.measuring {
		rt := s.sched.Now() - job.ArrivalTime
		s.response.Add(rt)
		s.responseSamples = append(s.responseSamples, rt)
	} else if s.completions >= s.cfg.WarmupCompletions {
		s.startMeasurement()
	}
	s.sched.RemoveJob(job.ID)
}

// startMeasurement ends the warm-up: estimators and station counters start
// from zero here so the transient start-up does not contaminate the stats.
func (s *Simulation) startMeasurement() {
	s.measuring = true
	s.response.Reset()
	s.responseSamples = s.responseSamples[:0]
	for _, st := range s.stations {
		st.ResetCounters()
	}
	logrus.Infof("warm-up over after %d completions at t=%.3f", s.completions, s.sched.Now())
}

func (s *Simulation) buildReport() Report {
	perStation := make(map[string]int, len(s.stations))
	for name, st := range s.stations {
		perStation[name] = st.Completions
	}
	return Report{
		RunID:              uuid.New().String(),
		Seed:               s.gen.Seed(),
		Clock:              s.sched.Now(),
		ExternalArrivals:   s.externalArrivals + s.cfg.InitialJobs,
		Completions:        s.completions,
		Measured:           s.response.Count(),
		ResponseMean:       s.response.Mean(),
		ResponseStddev:     s.response.Stddev(),
		ResponseMin:        s.response.Min(),
		ResponseMax:        s.response.Max(),
		ResponseP50:        percentile(s.responseSamples, 50),
		ResponseP95:        percentile(s.responseSamples, 95),
		ResponseP99:        percentile(s.responseSamples, 99),
		StationCompletions: perStation,
	}
}
