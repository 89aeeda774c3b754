// Implements the event scheduler: a time-ordered priority queue of pending
// resumptions plus the simulation clock.

package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// pendingEvent is one resumable unit of work held by the scheduler.
// seq is the strict insertion order, the sole tie-breaker for equal times.
type pendingEvent struct {
	time float64
	seq  int64
	fn   func()
}

// eventHeap implements heap.Interface ordered by time, then insertion
// sequence. See canonical Golang example here:
// https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []*pendingEvent

func (eq eventHeap) Len() int { return len(eq) }

func (eq eventHeap) Less(i, j int) bool {
	// Primary: timestamp (lower first)
	if eq[i].time != eq[j].time {
		return eq[i].time < eq[j].time
	}
	// Tie-break: insertion sequence (FIFO), the sole source of determinism
	// for equal-time events
	return eq[i].seq < eq[j].seq
}

func (eq eventHeap) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *eventHeap) Push(x any) {
	*eq = append(*eq, x.(*pendingEvent))
}

func (eq *eventHeap) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Scheduler owns simulated time and the queue of pending resumptions.
// Exactly one continuation executes at a time; all ordering guarantees
// derive from the time+FIFO ordering above.
type Scheduler struct {
	clock float64
	queue eventHeap
	seq   int64
}

// NewScheduler creates a Scheduler with the clock at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{queue: make(eventHeap, 0)}
	heap.Init(&s.queue)
	return s
}

// Now returns the current simulated time.
func (s *Scheduler) Now() float64 {
	return s.clock
}

// Pending returns the number of events not yet dispatched.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Schedule enqueues fn to run at simulated time at. Scheduling into the
// past returns ErrInvalidTime.
func (s *Scheduler) Schedule(at float64, fn func()) error {
	if at < s.clock {
		return fmt.Errorf("%w: at=%.4f clock=%.4f", ErrInvalidTime, at, s.clock)
	}
	s.seq++
	heap.Push(&s.queue, &pendingEvent{time: at, seq: s.seq, fn: fn})
	return nil
}

// mustSchedule is for internal resumptions whose times are always derived
// from the current clock plus a nonnegative duration. A failure here is an
// internal logic fault.
func (s *Scheduler) mustSchedule(at float64, fn func()) {
	if err := s.Schedule(at, fn); err != nil {
		panic(err)
	}
}

// Run dispatches events in (time, insertion) order until the queue is empty
// or the next event's time exceeds horizon, advancing the clock to each
// event's time. On return the clock is set to the horizon; events beyond it
// are left undispatched (entities they would have resumed are abandoned in
// place).
func (s *Scheduler) Run(horizon float64) {
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.time > horizon {
			break
		}
		ev := heap.Pop(&s.queue).(*pendingEvent)
		s.clock = ev.time
		logrus.Debugf("[t=%09.3f] dispatching event seq=%d", s.clock, ev.seq)
		ev.fn()
	}
	s.clock = horizon
	logrus.Debugf("[t=%09.3f] run ended", s.clock)
}
