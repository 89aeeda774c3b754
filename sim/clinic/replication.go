// The replication runner: n independent runs of the facility, each with its
// own scheduler, pools, streams, and monitoring record.

package clinic

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	sim "github.com/urgentcare-sim/urgentcare-sim/sim"
)

// RunReplication executes replication i and returns its monitoring record.
// All mutable state is created fresh here; the config, rate table, and
// pathway are shared read-only.
func RunReplication(cfg *Config, table *sim.RateTable, pathway *sim.Pathway, i int) (*sim.MonitoringRecord, error) {
	seed := sim.ReplicationSeed(cfg.BaseSeed, i)
	sched := sim.NewScheduler()
	streams := sim.NewStreamManager(seed)
	record := sim.NewMonitoringRecord(i, seed, cfg.Horizon)
	engine := sim.NewEngine(sched, streams, record)

	if err := buildPools(cfg, sched, record, engine); err != nil {
		return nil, err
	}
	if err := engine.Validate(pathway); err != nil {
		return nil, err
	}

	gen := sim.NewArrivalGenerator(sched, sim.NewThinningSampler(table, streams), engine, pathway, record)
	if err := gen.Start(); err != nil {
		return nil, err
	}

	sched.Run(cfg.Horizon)
	engine.SnapshotInFlight()
	logrus.Infof("replication %d (seed %d): %d arrivals, %d events logged",
		i, seed, record.Arrivals, len(record.Events))
	return record, nil
}

// RunReplications validates the config once, then executes
// cfg.Replications independent runs with master seeds derived from the base
// seed. A single failing replication aborts the whole batch: silently
// dropping one would bias the aggregate.
func RunReplications(cfg *Config) ([]*sim.MonitoringRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	table, err := cfg.RateTable()
	if err != nil {
		return nil, err
	}
	pathway, err := BuildPathways(cfg)
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	logrus.Infof("batch %s: %d replications, horizon %.0f min, base seed %d",
		batchID, cfg.Replications, cfg.Horizon, cfg.BaseSeed)

	records := make([]*sim.MonitoringRecord, 0, cfg.Replications)
	for i := 0; i < cfg.Replications; i++ {
		record, err := RunReplication(cfg, table, pathway, i)
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", i, err)
		}
		records = append(records, record)
	}
	logrus.Infof("batch %s complete", batchID)
	return records, nil
}
