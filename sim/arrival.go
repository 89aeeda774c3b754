// Implements the non-stationary arrival process: a cyclic piecewise-constant
// rate table sampled by thinning (rejection) against the table's maximum
// rate. Exact for piecewise-constant rates, not an approximation.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RateTable is an ordered sequence of equal-width rate buckets, cyclic past
// its span. Rates are arrivals per simulated minute. Immutable; shared
// read-only across replications.
type RateTable struct {
	bucketWidth float64
	rates       []float64
	maxRate     float64
}

// NewRateTable validates and builds a table. The bucket width must be
// positive, the table non-empty, and every rate nonnegative.
func NewRateTable(bucketWidth float64, rates []float64) (*RateTable, error) {
	if bucketWidth <= 0 {
		return nil, fmt.Errorf("%w: rate table bucket width %.4f must be positive", ErrConfiguration, bucketWidth)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: rate table has no buckets", ErrConfiguration)
	}
	maxRate := 0.0
	for i, r := range rates {
		if r < 0 {
			return nil, fmt.Errorf("%w: rate table bucket %d has negative rate %.4f", ErrConfiguration, i, r)
		}
		if r > maxRate {
			maxRate = r
		}
	}
	copied := make([]float64, len(rates))
	copy(copied, rates)
	return &RateTable{bucketWidth: bucketWidth, rates: copied, maxRate: maxRate}, nil
}

// RateAt returns λ(t), wrapping cyclically past the table's span.
func (t *RateTable) RateAt(at float64) float64 {
	span := t.bucketWidth * float64(len(t.rates))
	pos := at - span*float64(int(at/span))
	if pos < 0 {
		pos += span
	}
	idx := int(pos / t.bucketWidth)
	if idx >= len(t.rates) {
		idx = len(t.rates) - 1
	}
	return t.rates[idx]
}

// MaxRate returns the global maximum rate over the whole table.
func (t *RateTable) MaxRate() float64 {
	return t.maxRate
}

// Span returns the total simulated time covered before the table wraps.
func (t *RateTable) Span() float64 {
	return t.bucketWidth * float64(len(t.rates))
}

// ThinningSampler draws inter-arrival times so that arrivals follow the
// table's time-varying rate. Candidate increments and accept/reject draws
// come from two dedicated streams so neither perturbs any other sampling
// site.
type ThinningSampler struct {
	table   *RateTable
	streams *StreamManager
}

// NewThinningSampler binds a sampler to a table and a replication's streams.
func NewThinningSampler(table *RateTable, streams *StreamManager) *ThinningSampler {
	return &ThinningSampler{table: table, streams: streams}
}

// NextInterArrival returns the duration from current to the next arrival.
// Candidates are drawn exponentially at the maximum rate and accepted with
// probability λ(t)/λmax at the candidate's absolute time. A zero maximum
// rate could never accept, so it fails fast with ErrDegenerateRate.
func (s *ThinningSampler) NextInterArrival(current float64) (float64, error) {
	maxRate := s.table.MaxRate()
	if maxRate == 0 {
		return 0, ErrDegenerateRate
	}
	incr := s.streams.Stream(SiteArrivalIncrements)
	accept := s.streams.Stream(SiteArrivalThinning)

	total := 0.0
	for {
		total += incr.ExpFloat64() / maxRate
		if accept.Float64() < s.table.RateAt(current+total)/maxRate {
			return total, nil
		}
	}
}

// ArrivalGenerator chains arrival events on the scheduler: each arrival
// creates an entity, starts it on the root pathway, and schedules the next
// arrival. An arrival scheduled past the horizon is simply never dispatched.
type ArrivalGenerator struct {
	sched   *Scheduler
	sampler *ThinningSampler
	engine  *Engine
	pathway *Pathway
	record  *MonitoringRecord

	count int
}

// NewArrivalGenerator wires a generator to a replication's scheduler,
// sampler, engine, and root pathway.
func NewArrivalGenerator(sched *Scheduler, sampler *ThinningSampler, engine *Engine, pathway *Pathway, record *MonitoringRecord) *ArrivalGenerator {
	return &ArrivalGenerator{
		sched:   sched,
		sampler: sampler,
		engine:  engine,
		pathway: pathway,
		record:  record,
	}
}

// Start schedules the first arrival. Returns ErrDegenerateRate if the rate
// table cannot produce arrivals.
func (g *ArrivalGenerator) Start() error {
	iat, err := g.sampler.NextInterArrival(g.sched.Now())
	if err != nil {
		return err
	}
	return g.sched.Schedule(g.sched.Now()+iat, g.arrive)
}

// arrive is the arrival event body: admit one patient and chain the next
// arrival.
func (g *ArrivalGenerator) arrive() {
	now := g.sched.Now()
	g.count++
	g.record.Arrivals++
	ent := NewEntity(fmt.Sprintf("patient-%d", g.count), now)
	logrus.Debugf("[t=%09.3f] arrival: %s", now, ent.ID)
	g.engine.Start(ent, g.pathway)

	iat, err := g.sampler.NextInterArrival(now)
	if err != nil {
		// MaxRate was validated nonzero by the first sample; a failure here
		// is an internal fault.
		panic(err)
	}
	g.sched.mustSchedule(now+iat, g.arrive)
}

// Count returns the number of arrivals generated so far.
func (g *ArrivalGenerator) Count() int {
	return g.count
}
