// Package clinic wires the simulation kernel into the urgent-care facility
// model: six capacity-limited resources, trauma and non-trauma patient
// pathways, and a time-of-day arrival profile.
package clinic

import (
	"fmt"

	sim "github.com/urgentcare-sim/urgentcare-sim/sim"
)

// Resource names used by the pathways.
const (
	ResTriageBay         = "triage-bay"
	ResRegistrationClerk = "registration-clerk"
	ResExamRoom          = "exam-room"
	ResTraumaRoom        = "trauma-room"
	ResTraumaCubicle     = "trauma-cubicle"
	ResNonTraumaCubicle  = "nontrauma-cubicle"
)

// Sampling site names. Each gets its own random stream so changing one
// distribution's parameters never perturbs samples drawn at another site.
const (
	SiteTriageDuration         = "triage-duration"
	SiteRegistrationDuration   = "registration-duration"
	SiteExamDuration           = "exam-duration"
	SiteStabilisationDuration  = "stabilisation-duration"
	SiteTraumaTreatDuration    = "trauma-treat-duration"
	SiteNonTraumaTreatDuration = "nontrauma-treat-duration"
	SiteTraumaClassifier       = "trauma-classifier"
	SiteTreatmentClassifier    = "treatment-classifier"
)

// Patient class labels.
const (
	ClassTrauma    = "trauma"
	ClassNonTrauma = "non-trauma"
)

// ResourceConfig holds the server count for each pool.
type ResourceConfig struct {
	TriageBays         int `yaml:"triage_bays"`
	RegistrationClerks int `yaml:"registration_clerks"`
	ExamRooms          int `yaml:"exam_rooms"`
	TraumaRooms        int `yaml:"trauma_rooms"`
	TraumaCubicles     int `yaml:"trauma_cubicles"`
	NonTraumaCubicles  int `yaml:"nontrauma_cubicles"`
}

// ServiceConfig holds distribution parameters for every service step, in
// simulated minutes. Lognormal parameters are the sample mean and standard
// deviation of the target distribution, not the underlying normal's.
type ServiceConfig struct {
	TriageMean float64 `yaml:"triage_mean"` // exponential

	RegistrationMean float64 `yaml:"registration_mean"` // lognormal
	RegistrationStd  float64 `yaml:"registration_std"`

	ExamMean     float64 `yaml:"exam_mean"` // normal
	ExamVariance float64 `yaml:"exam_variance"`

	StabilisationMean float64 `yaml:"stabilisation_mean"` // exponential

	TraumaTreatMean float64 `yaml:"trauma_treat_mean"` // lognormal
	TraumaTreatStd  float64 `yaml:"trauma_treat_std"`

	NonTraumaTreatMean float64 `yaml:"nontrauma_treat_mean"` // lognormal
	NonTraumaTreatStd  float64 `yaml:"nontrauma_treat_std"`
}

// Config is the full scenario: resources, service distributions, branching
// probabilities, arrival profile, and run controls.
type Config struct {
	Resources ResourceConfig `yaml:"resources"`
	Services  ServiceConfig  `yaml:"services"`

	ProbTrauma         float64 `yaml:"prob_trauma"`
	ProbNonTraumaTreat float64 `yaml:"prob_non_trauma_treat"`

	// ArrivalRates is the per-bucket arrival rate in patients per hour;
	// buckets are ArrivalBucketMinutes wide and the profile wraps cyclically.
	ArrivalBucketMinutes float64   `yaml:"arrival_bucket_minutes"`
	ArrivalRates         []float64 `yaml:"arrival_rates_per_hour"`

	Horizon      float64 `yaml:"horizon"` // simulated minutes
	Replications int     `yaml:"replications"`
	BaseSeed     int64   `yaml:"base_seed"`
}

// DefaultConfig returns the out-of-the-box scenario: an 18-hour operating
// day with an hourly arrival profile peaking mid-afternoon.
func DefaultConfig() *Config {
	return &Config{
		Resources: ResourceConfig{
			TriageBays:         1,
			RegistrationClerks: 1,
			ExamRooms:          3,
			TraumaRooms:        2,
			TraumaCubicles:     1,
			NonTraumaCubicles:  1,
		},
		Services: ServiceConfig{
			TriageMean:         3.0,
			RegistrationMean:   5.0,
			RegistrationStd:    2.0,
			ExamMean:           16.0,
			ExamVariance:       3.0,
			StabilisationMean:  90.0,
			TraumaTreatMean:    30.0,
			TraumaTreatStd:     4.0,
			NonTraumaTreatMean: 13.3,
			NonTraumaTreatStd:  2.0,
		},
		ProbTrauma:           0.12,
		ProbNonTraumaTreat:   0.60,
		ArrivalBucketMinutes: 60.0,
		ArrivalRates: []float64{
			2.3, 3.1, 4.6, 5.3, 5.9, 6.2, 6.5, 6.9, 7.2, 7.9,
			8.4, 8.6, 8.1, 7.3, 6.4, 5.2, 3.9, 2.8,
		},
		Horizon:      1080.0, // 18 hours
		Replications: 5,
		BaseSeed:     42,
	}
}

// Validate checks every parameter before any simulated time advances.
func (c *Config) Validate() error {
	caps := []struct {
		name string
		n    int
	}{
		{ResTriageBay, c.Resources.TriageBays},
		{ResRegistrationClerk, c.Resources.RegistrationClerks},
		{ResExamRoom, c.Resources.ExamRooms},
		{ResTraumaRoom, c.Resources.TraumaRooms},
		{ResTraumaCubicle, c.Resources.TraumaCubicles},
		{ResNonTraumaCubicle, c.Resources.NonTraumaCubicles},
	}
	for _, cp := range caps {
		if cp.n < 1 {
			return fmt.Errorf("%w: resource %q capacity %d", sim.ErrCapacity, cp.name, cp.n)
		}
	}
	if c.ProbTrauma < 0 || c.ProbTrauma > 1 {
		return fmt.Errorf("%w: prob_trauma %.4f outside [0,1]", sim.ErrConfiguration, c.ProbTrauma)
	}
	if c.ProbNonTraumaTreat < 0 || c.ProbNonTraumaTreat > 1 {
		return fmt.Errorf("%w: prob_non_trauma_treat %.4f outside [0,1]", sim.ErrConfiguration, c.ProbNonTraumaTreat)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("%w: horizon %.4f must be positive", sim.ErrConfiguration, c.Horizon)
	}
	if c.Replications < 1 {
		return fmt.Errorf("%w: replications %d must be at least 1", sim.ErrConfiguration, c.Replications)
	}
	// Distribution parameters are validated by the sampler constructors;
	// surface those errors now rather than at replication start.
	if _, err := buildSamplers(c); err != nil {
		return err
	}
	// Likewise the arrival profile.
	if _, err := c.RateTable(); err != nil {
		return err
	}
	return nil
}

// RateTable converts the per-hour arrival profile into the kernel's
// per-minute piecewise-constant table.
func (c *Config) RateTable() (*sim.RateTable, error) {
	perMinute := make([]float64, len(c.ArrivalRates))
	for i, r := range c.ArrivalRates {
		perMinute[i] = r / 60.0
	}
	return sim.NewRateTable(c.ArrivalBucketMinutes, perMinute)
}
