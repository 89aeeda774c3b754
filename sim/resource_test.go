package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func newTestPool(t *testing.T, capacity int) (*ResourcePool, *Scheduler, *MonitoringRecord) {
	t.Helper()
	sched := NewScheduler()
	record := NewMonitoringRecord(0, 1, 1000)
	pool, err := NewResourcePool("triage-bay", capacity, sched, record)
	if err != nil {
		t.Fatal(err)
	}
	return pool, sched, record
}

func TestNewResourcePool_RejectsBadCapacity(t *testing.T) {
	sched := NewScheduler()
	record := NewMonitoringRecord(0, 1, 1000)
	for _, capacity := range []int{0, -1, -100} {
		if _, err := NewResourcePool("x", capacity, sched, record); !errors.Is(err, ErrCapacity) {
			t.Errorf("capacity %d: err = %v, want ErrCapacity", capacity, err)
		}
	}
}

func TestResourcePool_ImmediateGrantWhenFree(t *testing.T) {
	pool, _, _ := newTestPool(t, 2)
	a := NewEntity("a", 0)
	if !pool.Seize(a, func() { t.Fatal("resume must not run on immediate grant") }) {
		t.Fatal("Seize with a free server should grant immediately")
	}
	if pool.Occupied() != 1 {
		t.Errorf("occupied = %d, want 1", pool.Occupied())
	}
}

func TestResourcePool_QueuesAtCapacity(t *testing.T) {
	pool, sched, _ := newTestPool(t, 1)
	a := NewEntity("a", 0)
	b := NewEntity("b", 0)

	if !pool.Seize(a, nil) {
		t.Fatal("first seize should be granted")
	}
	resumed := false
	if pool.Seize(b, func() { resumed = true }) {
		t.Fatal("second seize should queue")
	}
	if pool.QueueLen() != 1 {
		t.Errorf("queue length = %d, want 1", pool.QueueLen())
	}

	pool.Release(a)
	sched.Run(0) // dispatch the resumption scheduled at the current time
	if !resumed {
		t.Error("queued entity was not resumed after release")
	}
	if pool.Occupied() != 1 {
		t.Errorf("occupied = %d, want 1 after handoff", pool.Occupied())
	}
}

func TestResourcePool_OccupiedNeverExceedsCapacity(t *testing.T) {
	// Property: for any sequence of seize/release calls, occupied stays in
	// [0, capacity].
	for _, capacity := range []int{1, 2, 5} {
		pool, _, _ := newTestPool(t, capacity)
		rng := rand.New(rand.NewSource(7))
		var held []*Entity
		for i := 0; i < 2000; i++ {
			if rng.Float64() < 0.6 {
				e := NewEntity(fmt.Sprintf("e%d", i), 0)
				if pool.Seize(e, func() {}) {
					held = append(held, e)
				}
			} else if len(held) > 0 {
				pool.Release(held[0])
				held = held[1:]
			}
			if pool.Occupied() > capacity || pool.Occupied() < 0 {
				t.Fatalf("capacity %d: occupied = %d out of bounds at step %d", capacity, pool.Occupied(), i)
			}
			if pool.QueueLen() > 0 && pool.Occupied() < capacity {
				t.Fatalf("capacity %d: queue non-empty with free servers at step %d", capacity, i)
			}
		}
	}
}

func TestResourcePool_FCFSOrder(t *testing.T) {
	// With capacity 1, waiters are served in exact enqueue order.
	pool, sched, record := newTestPool(t, 1)

	first := NewEntity("first", 0)
	pool.Seize(first, nil)

	var serviceOrder []string
	for _, id := range []string{"w1", "w2", "w3"} {
		e := NewEntity(id, 0)
		pool.Seize(e, func() {
			serviceOrder = append(serviceOrder, e.ID)
			pool.Release(e)
		})
	}
	pool.Release(first)
	sched.Run(10)

	want := []string{"w1", "w2", "w3"}
	if len(serviceOrder) != len(want) {
		t.Fatalf("served %v, want %v", serviceOrder, want)
	}
	for i := range want {
		if serviceOrder[i] != want[i] {
			t.Fatalf("service order %v, want %v", serviceOrder, want)
		}
	}

	// Wait times are monotonically non-decreasing in enqueue order.
	var lastStart float64
	for _, ev := range record.Events {
		if ev.StartTime < lastStart {
			t.Errorf("service start went backwards: %v", record.Events)
		}
		lastStart = ev.StartTime
	}
}

func TestResourcePool_BusyTimeAccounting(t *testing.T) {
	pool, sched, record := newTestPool(t, 1)
	e := NewEntity("e", 0)

	if err := sched.Schedule(0, func() {
		pool.Seize(e, nil)
		sched.mustSchedule(sched.Now()+5.0, func() { pool.Release(e) })
	}); err != nil {
		t.Fatal(err)
	}
	sched.Run(100)

	if got := record.BusyTime["triage-bay"]; got != 5.0 {
		t.Errorf("busy time = %v, want 5.0", got)
	}
	if len(record.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(record.Events))
	}
	ev := record.Events[0]
	if ev.EnqueueTime != 0 || ev.StartTime != 0 || ev.EndTime != 5.0 {
		t.Errorf("event = %+v, want window [0,5] with zero wait", ev)
	}
}
