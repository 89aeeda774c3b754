// Builds the concrete trauma and non-trauma pathways over the facility's
// six resource pools.
//
// Trauma:     triage → trauma room (stabilisation) → trauma cubicle → departed
// Non-trauma: triage → registration → exam → (needs treatment?) →
//             [non-trauma cubicle] → departed

package clinic

import (
	sim "github.com/urgentcare-sim/urgentcare-sim/sim"
)

// samplers bundles one DurationSampler per service step. Samplers are
// stateless; all randomness comes from the per-site streams handed to
// Sample at execution time, so one bundle is shared across replications.
type samplers struct {
	triage         sim.DurationSampler
	registration   sim.DurationSampler
	exam           sim.DurationSampler
	stabilisation  sim.DurationSampler
	traumaTreat    sim.DurationSampler
	nonTraumaTreat sim.DurationSampler
}

func buildSamplers(cfg *Config) (*samplers, error) {
	var s samplers
	var err error
	if s.triage, err = sim.NewExponentialSampler(cfg.Services.TriageMean); err != nil {
		return nil, err
	}
	if s.registration, err = sim.NewLognormalSampler(cfg.Services.RegistrationMean, cfg.Services.RegistrationStd); err != nil {
		return nil, err
	}
	if s.exam, err = sim.NewNormalSampler(cfg.Services.ExamMean, cfg.Services.ExamVariance); err != nil {
		return nil, err
	}
	if s.stabilisation, err = sim.NewExponentialSampler(cfg.Services.StabilisationMean); err != nil {
		return nil, err
	}
	if s.traumaTreat, err = sim.NewLognormalSampler(cfg.Services.TraumaTreatMean, cfg.Services.TraumaTreatStd); err != nil {
		return nil, err
	}
	if s.nonTraumaTreat, err = sim.NewLognormalSampler(cfg.Services.NonTraumaTreatMean, cfg.Services.NonTraumaTreatStd); err != nil {
		return nil, err
	}
	return &s, nil
}

// service is the seize → delay → release triple every station follows.
func service(resource, site string, dur sim.DurationSampler) []sim.Step {
	return []sim.Step{
		&sim.SeizeStep{Resource: resource},
		&sim.DelayStep{Duration: func(ctx *sim.StepContext) float64 {
			return dur.Sample(ctx.Streams.Stream(site))
		}},
		&sim.ReleaseStep{Resource: resource},
	}
}

// bernoulli returns a two-outcome classifier drawing from the named stream.
func bernoulli(site string, p float64, hit, miss string) func(*sim.StepContext) string {
	return func(ctx *sim.StepContext) string {
		if ctx.Streams.Stream(site).Float64() < p {
			return hit
		}
		return miss
	}
}

// BuildPathways constructs the root urgent-care pathway. The returned
// pathway is immutable and reusable across replications; per-replication
// state lives in the engine, pools, and streams it runs against.
func BuildPathways(cfg *Config) (*sim.Pathway, error) {
	s, err := buildSamplers(cfg)
	if err != nil {
		return nil, err
	}

	treatment := &sim.Pathway{
		Name:  "nontrauma-treatment",
		Steps: service(ResNonTraumaCubicle, SiteNonTraumaTreatDuration, s.nonTraumaTreat),
	}

	nonTrauma := &sim.Pathway{Name: "non-trauma"}
	nonTrauma.Steps = append(nonTrauma.Steps, service(ResRegistrationClerk, SiteRegistrationDuration, s.registration)...)
	nonTrauma.Steps = append(nonTrauma.Steps, service(ResExamRoom, SiteExamDuration, s.exam)...)
	nonTrauma.Steps = append(nonTrauma.Steps, &sim.BranchStep{
		Classify: bernoulli(SiteTreatmentClassifier, cfg.ProbNonTraumaTreat, "treatment", "discharge"),
		Outcomes: map[string]*sim.Pathway{
			"treatment": treatment,
			"discharge": nil, // continue straight to departure
		},
	})

	trauma := &sim.Pathway{Name: "trauma"}
	trauma.Steps = append(trauma.Steps, service(ResTraumaRoom, SiteStabilisationDuration, s.stabilisation)...)
	trauma.Steps = append(trauma.Steps, service(ResTraumaCubicle, SiteTraumaTreatDuration, s.traumaTreat)...)

	classify := bernoulli(SiteTraumaClassifier, cfg.ProbTrauma, ClassTrauma, ClassNonTrauma)

	root := &sim.Pathway{Name: "urgent-care"}
	root.Steps = append(root.Steps, service(ResTriageBay, SiteTriageDuration, s.triage)...)
	root.Steps = append(root.Steps, &sim.BranchStep{
		// The class is decided after triage, when the patient is assessed.
		Classify: func(ctx *sim.StepContext) string {
			class := classify(ctx)
			ctx.Entity.Class = class
			return class
		},
		Outcomes: map[string]*sim.Pathway{
			ClassTrauma:    trauma,
			ClassNonTrauma: nonTrauma,
		},
	})
	return root, nil
}

// buildPools constructs the six pools for one replication and registers
// them with the engine.
func buildPools(cfg *Config, sched *sim.Scheduler, record *sim.MonitoringRecord, engine *sim.Engine) error {
	specs := []struct {
		name string
		n    int
	}{
		{ResTriageBay, cfg.Resources.TriageBays},
		{ResRegistrationClerk, cfg.Resources.RegistrationClerks},
		{ResExamRoom, cfg.Resources.ExamRooms},
		{ResTraumaRoom, cfg.Resources.TraumaRooms},
		{ResTraumaCubicle, cfg.Resources.TraumaCubicles},
		{ResNonTraumaCubicle, cfg.Resources.NonTraumaCubicles},
	}
	for _, ps := range specs {
		pool, err := sim.NewResourcePool(ps.name, ps.n, sched, record)
		if err != nil {
			return err
		}
		engine.AddPool(pool)
	}
	return nil
}
