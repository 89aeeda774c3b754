// Package report turns per-replication monitoring records into KPI
// summaries. Aggregation is deliberately two-level: a statistic is computed
// within each replication first, then averaged across replications, keeping
// the replication as the unit of independence. Pooling raw events across
// replications would weight busy replications more heavily.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	sim "github.com/urgentcare-sim/urgentcare-sim/sim"
)

// ResourceKPI summarizes one resource across replications.
type ResourceKPI struct {
	MeanWait    float64 // mean of per-replication mean waits (minutes)
	Utilization float64 // mean of per-replication busy/(capacity×horizon)
}

// Summary is the cross-replication KPI report.
type Summary struct {
	Replications int
	MeanArrivals float64
	Throughput   float64 // mean completed entities per replication

	// Resources is keyed by resource name; MeanTimeInSystem by patient
	// class, over completed entities only.
	Resources        map[string]ResourceKPI
	MeanTimeInSystem map[string]float64
}

// Aggregate computes the Summary for a batch of replications.
func Aggregate(records []*sim.MonitoringRecord) (*Summary, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no monitoring records to aggregate")
	}

	arrivals := make([]float64, 0, len(records))
	completed := make([]float64, 0, len(records))
	// Per-replication statistics keyed by resource name or patient class.
	waits := make(map[string][]float64)
	utils := make(map[string][]float64)
	inSystem := make(map[string][]float64)

	for _, rec := range records {
		arrivals = append(arrivals, float64(rec.Arrivals))

		// Per-resource within-replication statistics.
		repWaits := make(map[string][]float64)
		for _, ev := range rec.Events {
			repWaits[ev.Resource] = append(repWaits[ev.Resource], ev.StartTime-ev.EnqueueTime)
		}
		for res, w := range repWaits {
			waits[res] = append(waits[res], stat.Mean(w, nil))
		}
		for res, capacity := range rec.Capacity {
			u := rec.BusyTime[res] / (float64(capacity) * rec.Horizon)
			utils[res] = append(utils[res], u)
		}

		// Completion-gated entity statistics. Entities in flight at the
		// horizon are excluded by flag, never treated as errors.
		done := 0.0
		repTimes := make(map[string][]float64)
		for _, ent := range rec.Entities {
			if !ent.Completed {
				continue
			}
			done++
			if total, ok := ent.Attributes[sim.AttrTotalTime]; ok {
				repTimes[ent.Class] = append(repTimes[ent.Class], total)
			}
		}
		completed = append(completed, done)
		for class, ts := range repTimes {
			inSystem[class] = append(inSystem[class], stat.Mean(ts, nil))
		}
	}

	s := &Summary{
		Replications:     len(records),
		MeanArrivals:     stat.Mean(arrivals, nil),
		Throughput:       stat.Mean(completed, nil),
		Resources:        make(map[string]ResourceKPI),
		MeanTimeInSystem: make(map[string]float64),
	}
	for res, us := range utils {
		kpi := ResourceKPI{Utilization: stat.Mean(us, nil)}
		if w, ok := waits[res]; ok {
			kpi.MeanWait = stat.Mean(w, nil)
		}
		s.Resources[res] = kpi
	}
	for class, ts := range inSystem {
		s.MeanTimeInSystem[class] = stat.Mean(ts, nil)
	}
	return s, nil
}

// ResourceNames returns the summary's resource names sorted for stable
// report output.
func (s *Summary) ResourceNames() []string {
	names := make([]string, 0, len(s.Resources))
	for name := range s.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Classes returns the patient classes present, sorted.
func (s *Summary) Classes() []string {
	classes := make([]string, 0, len(s.MeanTimeInSystem))
	for class := range s.MeanTimeInSystem {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}
