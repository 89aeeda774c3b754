// Implements the pathway engine: an ordered, branchable sequence of steps
// executed for one entity, suspending at delays and at resource contention
// and resuming when the event loop advances.
//
// Value-producing step arguments are closures evaluated exactly once per
// entity per execution, never memoized, so two entities following the same
// pathway draw independent samples.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// StepContext is passed to step thunks at execution time.
type StepContext struct {
	Entity  *Entity
	Now     float64
	Streams *StreamManager
}

// Step is one unit of a pathway. The concrete types below are the full
// vocabulary; pathways are data, composed by reference.
type Step interface {
	stepKind() string
}

// SetAttributeStep writes Value(ctx) into the entity's attribute store.
type SetAttributeStep struct {
	Key   string
	Value func(*StepContext) float64
}

func (*SetAttributeStep) stepKind() string { return "set_attribute" }

// DelayStep suspends the entity for Duration(ctx) simulated minutes.
type DelayStep struct {
	Duration func(*StepContext) float64
}

func (*DelayStep) stepKind() string { return "delay" }

// SeizeStep acquires one server of the named resource, waiting FCFS if none
// is free.
type SeizeStep struct {
	Resource string
}

func (*SeizeStep) stepKind() string { return "seize" }

// ReleaseStep frees the server the entity holds at the named resource.
type ReleaseStep struct {
	Resource string
}

func (*ReleaseStep) stepKind() string { return "release" }

// BranchStep evaluates Classify at execution time (never pre-computed) and
// enters the sub-pathway mapped to the outcome. An outcome mapped to nil,
// or absent from Outcomes, continues with the next step of the enclosing
// pathway. Sub-pathways are reusable values held by reference.
type BranchStep struct {
	Classify func(*StepContext) string
	Outcomes map[string]*Pathway
}

func (*BranchStep) stepKind() string { return "branch" }

// LogStep emits Message(ctx); side-effect only, no state change.
type LogStep struct {
	Message func(*StepContext) string
}

func (*LogStep) stepKind() string { return "log" }

// Pathway is an ordered list of steps describing one route through the
// facility.
type Pathway struct {
	Name  string
	Steps []Step
}

// Engine executes pathways for entities against one replication's
// scheduler, pools, and random streams.
type Engine struct {
	sched   *Scheduler
	streams *StreamManager
	record  *MonitoringRecord
	pools   map[string]*ResourcePool

	started []*Entity
}

// NewEngine creates an engine with no pools registered.
func NewEngine(sched *Scheduler, streams *StreamManager, record *MonitoringRecord) *Engine {
	return &Engine{
		sched:   sched,
		streams: streams,
		record:  record,
		pools:   make(map[string]*ResourcePool),
	}
}

// AddPool registers a resource pool under its name.
func (e *Engine) AddPool(p *ResourcePool) {
	e.pools[p.Name()] = p
}

// Pool returns the registered pool with the given name, or nil.
func (e *Engine) Pool(name string) *ResourcePool {
	return e.pools[name]
}

// Validate checks that every resource a pathway (and every reachable
// sub-pathway) references is registered. Malformed configurations are
// caught here, before any simulated time elapses.
func (e *Engine) Validate(p *Pathway) error {
	return e.validate(p, make(map[*Pathway]bool))
}

func (e *Engine) validate(p *Pathway, visited map[*Pathway]bool) error {
	if visited[p] {
		return nil
	}
	visited[p] = true
	for i, step := range p.Steps {
		switch s := step.(type) {
		case *SeizeStep:
			if _, ok := e.pools[s.Resource]; !ok {
				return fmt.Errorf("%w: pathway %q step %d seizes %q", ErrUnknownResource, p.Name, i, s.Resource)
			}
		case *ReleaseStep:
			if _, ok := e.pools[s.Resource]; !ok {
				return fmt.Errorf("%w: pathway %q step %d releases %q", ErrUnknownResource, p.Name, i, s.Resource)
			}
		case *BranchStep:
			for _, sub := range s.Outcomes {
				if sub == nil {
					continue
				}
				if err := e.validate(sub, visited); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Start begins executing pathway p for ent at the current clock time.
// The pathway-start timestamp is recorded before the first step runs.
func (e *Engine) Start(ent *Entity, p *Pathway) {
	ent.Attrs.Set(AttrPathwayStart, e.sched.Now())
	ent.frames = append(ent.frames, frame{pathway: p})
	e.started = append(e.started, ent)
	e.run(ent)
}

// run advances ent's cursor until it suspends (delay or seize-when-full) or
// the pathway completes. Resumptions re-enter here via the scheduler.
func (e *Engine) run(ent *Entity) {
	for len(ent.frames) > 0 {
		f := &ent.frames[len(ent.frames)-1]
		if f.next >= len(f.pathway.Steps) {
			ent.frames = ent.frames[:len(ent.frames)-1]
			continue
		}
		step := f.pathway.Steps[f.next]
		f.next++

		switch s := step.(type) {
		case *SetAttributeStep:
			ent.Attrs.Set(s.Key, s.Value(e.ctx(ent)))

		case *LogStep:
			logrus.Infof("[t=%09.3f] %s: %s", e.sched.Now(), ent.ID, s.Message(e.ctx(ent)))

		case *DelayStep:
			d := s.Duration(e.ctx(ent))
			if d < 0 {
				d = 0
			}
			e.sched.mustSchedule(e.sched.Now()+d, func() { e.run(ent) })
			return

		case *SeizeStep:
			pool := e.pools[s.Resource]
			if !pool.Seize(ent, func() { e.run(ent) }) {
				return
			}

		case *ReleaseStep:
			e.pools[s.Resource].Release(ent)

		case *BranchStep:
			outcome := s.Classify(e.ctx(ent))
			if sub := s.Outcomes[outcome]; sub != nil {
				ent.frames = append(ent.frames, frame{pathway: sub})
			}

		default:
			panic(fmt.Sprintf("unknown step kind %q in pathway %q", step.stepKind(), f.pathway.Name))
		}
	}
	e.complete(ent)
}

// complete marks the terminal step executed: sets the completion flag,
// freezes total_time, and snapshots the entity into the monitoring record.
func (e *Engine) complete(ent *Entity) {
	ent.Completed = true
	start, _ := ent.Attrs.Get(AttrPathwayStart)
	ent.Attrs.Set(AttrTotalTime, e.sched.Now()-start)
	e.record.RecordEntity(ent)
	logrus.Debugf("[t=%09.3f] %s departed", e.sched.Now(), ent.ID)
}

// SnapshotInFlight records entities still incomplete when the horizon is
// reached. They are abandoned in place, not errors; downstream KPIs filter
// them out by completion flag.
func (e *Engine) SnapshotInFlight() {
	for _, ent := range e.started {
		if !ent.Completed {
			e.record.RecordEntity(ent)
		}
	}
}

func (e *Engine) ctx(ent *Entity) *StepContext {
	return &StepContext{Entity: ent, Now: e.sched.Now(), Streams: e.streams}
}
