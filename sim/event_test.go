package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_ChronologicalOrder(t *testing.T) {
	s := NewScheduler()
	s.ScheduleAt(&Event{Kind: Arrival, Station: "C"}, 3.0)
	s.ScheduleAt(&Event{Kind: Arrival, Station: "A"}, 1.0)
	s.ScheduleAt(&Event{Kind: Arrival, Station: "B"}, 2.0)

	var order []string
	for s.HasNext() {
		order = append(order, s.Next().Station)
	}
	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Equal(t, 3.0, s.Now())
}

func TestScheduler_TiesFireInScheduleOrder(t *testing.T) {
	s := NewScheduler()
	for i := 0; i < 10; i++ {
		s.ScheduleAt(&Event{JobID: i}, 5.0)
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, s.Next().JobID, "simultaneous events must fire in insertion order")
	}
}

func TestScheduler_CancelledEventsAreSkipped(t *testing.T) {
	s := NewScheduler()
	keep := &Event{Station: "keep"}
	drop := &Event{Station: "drop"}
	s.ScheduleAt(drop, 1.0)
	s.ScheduleAt(keep, 2.0)
	drop.Cancel()

	e := s.Next()
	assert.Equal(t, "keep", e.Station)
	assert.Nil(t, s.Next())
}

func TestScheduler_PastTimesClampToNow(t *testing.T) {
	s := NewScheduler()
	s.ScheduleAt(&Event{}, 10.0)
	s.Next()
	assert.Equal(t, 10.0, s.Now())

	late := &Event{Station: "late"}
	s.ScheduleAt(late, 3.0)
	e := s.Next()
	assert.Equal(t, "late", e.Station)
	assert.Equal(t, 10.0, e.Time, "past schedules fire at the current clock")
	assert.Equal(t, 10.0, s.Now(), "the clock never runs backwards")
}

func TestScheduler_NegativeDelayMeansNow(t *testing.T) {
	s := NewScheduler()
	s.ScheduleAt(&Event{}, 4.0)
	s.Next()

	s.ScheduleAfter(&Event{Station: "x"}, -1.5)
	assert.Equal(t, 4.0, s.Next().Time)
}

func TestScheduler_JobTable(t *testing.T) {
	s := NewScheduler()
	assert.Equal(t, 0, s.LiveJobs())
	assert.Nil(t, s.Job(7))

	j := &Job{ID: 7, Class: 1}
	s.AddJob(j)
	assert.Equal(t, 1, s.LiveJobs())
	assert.Equal(t, j, s.Job(7))

	s.RemoveJob(7)
	assert.Equal(t, 0, s.LiveJobs())
	assert.Nil(t, s.Job(7))
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "arrival", Arrival.String())
	assert.Equal(t, "departure", Departure.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
