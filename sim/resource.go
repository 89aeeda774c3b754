// Implements the ResourcePool: a named, fixed-capacity server set with a
// First-Come-First-Served wait queue. Requests are granted on seize when a
// server is free, otherwise queued in arrival order.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// seizeTicket is one pending seize request waiting for a free server.
type seizeTicket struct {
	entity      *Entity
	resume      func()
	enqueueTime float64
}

// usage tracks an in-service entity from grant to release.
type usage struct {
	enqueueTime float64
	startTime   float64
}

// ResourcePool models a set of identical servers. Capacity is fixed for the
// whole replication. Invariants: occupied never exceeds capacity; the wait
// queue is non-empty only when every server is occupied; a server is never
// assigned to more than one entity; FCFS order is preserved exactly (no
// priority, no preemption).
type ResourcePool struct {
	name     string
	capacity int
	occupied int
	waiting  []*seizeTicket

	sched     *Scheduler
	record    *MonitoringRecord
	inService map[string]usage
}

// NewResourcePool creates a pool with the given capacity. Capacity below 1
// is a configuration error.
func NewResourcePool(name string, capacity int, sched *Scheduler, record *MonitoringRecord) (*ResourcePool, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: resource %q capacity %d", ErrCapacity, name, capacity)
	}
	record.Capacity[name] = capacity
	return &ResourcePool{
		name:      name,
		capacity:  capacity,
		sched:     sched,
		record:    record,
		inService: make(map[string]usage),
	}, nil
}

// Name returns the pool's name.
func (p *ResourcePool) Name() string { return p.name }

// Capacity returns the configured server count.
func (p *ResourcePool) Capacity() int { return p.capacity }

// Occupied returns the number of servers currently in use.
func (p *ResourcePool) Occupied() int { return p.occupied }

// QueueLen returns the number of entities waiting for a server.
func (p *ResourcePool) QueueLen() int { return len(p.waiting) }

// Seize requests a server for entity. If one is free the entity starts
// service immediately (zero wait) and Seize returns true without calling
// resume; the caller continues in the current event. Otherwise the request
// joins the back of the FIFO queue, Seize returns false, and resume runs
// when a release grants the entity a server.
func (p *ResourcePool) Seize(entity *Entity, resume func()) bool {
	now := p.sched.Now()
	if p.occupied < p.capacity {
		p.occupied++
		p.inService[entity.ID] = usage{enqueueTime: now, startTime: now}
		logrus.Debugf("[t=%09.3f] %s: %s starts service (occupied %d/%d)",
			now, p.name, entity.ID, p.occupied, p.capacity)
		return true
	}
	logrus.Debugf("[t=%09.3f] %s: %s queued (depth %d)", now, p.name, entity.ID, len(p.waiting)+1)
	p.waiting = append(p.waiting, &seizeTicket{entity: entity, resume: resume, enqueueTime: now})
	return false
}

// Release frees entity's server, records the completed service, and grants
// the head of the wait queue, if any, at the current clock time.
func (p *ResourcePool) Release(entity *Entity) {
	now := p.sched.Now()
	u, ok := p.inService[entity.ID]
	if !ok {
		panic(fmt.Sprintf("Release: entity %s does not hold a server of %s", entity.ID, p.name))
	}
	delete(p.inService, entity.ID)
	p.occupied--
	p.record.BusyTime[p.name] += now - u.startTime
	p.record.RecordService(ResourceEvent{
		EntityID:    entity.ID,
		Resource:    p.name,
		EnqueueTime: u.enqueueTime,
		StartTime:   u.startTime,
		EndTime:     now,
		QueueLen:    len(p.waiting),
	})
	logrus.Debugf("[t=%09.3f] %s: %s released (occupied %d/%d)",
		now, p.name, entity.ID, p.occupied, p.capacity)

	if len(p.waiting) == 0 {
		return
	}
	head := p.waiting[0]
	p.waiting = p.waiting[1:]
	p.occupied++
	p.inService[head.entity.ID] = usage{enqueueTime: head.enqueueTime, startTime: now}
	logrus.Debugf("[t=%09.3f] %s: %s granted from queue after %.3f wait",
		now, p.name, head.entity.ID, now-head.enqueueTime)
	// Resume through the scheduler rather than recursing, so equal-time
	// resumptions keep strict insertion order.
	p.sched.mustSchedule(now, head.resume)
}
