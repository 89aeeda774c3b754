package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// DurationSampler generates service and delay durations in simulated minutes.
type DurationSampler interface {
	// Sample returns a nonnegative duration.
	Sample(rng *rand.Rand) float64
}

// ExponentialSampler produces exponentially-distributed durations.
type ExponentialSampler struct {
	mean float64
}

// NewExponentialSampler validates mean > 0.
func NewExponentialSampler(mean float64) (*ExponentialSampler, error) {
	if mean <= 0 {
		return nil, fmt.Errorf("%w: exponential mean %.4f must be positive", ErrConfiguration, mean)
	}
	return &ExponentialSampler{mean: mean}, nil
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

// LognormalSampler produces lognormal durations parameterized by the sample
// mean and standard deviation of the target distribution, converted to the
// underlying normal's location and scale:
//
//	mu    = ln(mean² / √(std² + mean²))
//	sigma = √(ln((std² + mean²) / mean²))
type LognormalSampler struct {
	mu    float64
	sigma float64
}

// NewLognormalSampler validates mean > 0 and std > 0 and derives (mu, sigma).
func NewLognormalSampler(mean, std float64) (*LognormalSampler, error) {
	if mean <= 0 {
		return nil, fmt.Errorf("%w: lognormal mean %.4f must be positive", ErrConfiguration, mean)
	}
	if std <= 0 {
		return nil, fmt.Errorf("%w: lognormal std %.4f must be positive", ErrConfiguration, std)
	}
	v := std * std
	m2 := mean * mean
	return &LognormalSampler{
		mu:    math.Log(m2 / math.Sqrt(v+m2)),
		sigma: math.Sqrt(math.Log((v + m2) / m2)),
	}, nil
}

// Mu returns the underlying normal's location parameter.
func (s *LognormalSampler) Mu() float64 { return s.mu }

// Sigma returns the underlying normal's scale parameter.
func (s *LognormalSampler) Sigma() float64 { return s.sigma }

func (s *LognormalSampler) Sample(rng *rand.Rand) float64 {
	return math.Exp(s.mu + s.sigma*rng.NormFloat64())
}

// NormalSampler produces normally-distributed durations, truncated at zero
// so a tail draw never yields a negative service time.
type NormalSampler struct {
	mean   float64
	stdDev float64
}

// NewNormalSampler validates mean > 0 and variance > 0.
func NewNormalSampler(mean, variance float64) (*NormalSampler, error) {
	if mean <= 0 {
		return nil, fmt.Errorf("%w: normal mean %.4f must be positive", ErrConfiguration, mean)
	}
	if variance <= 0 {
		return nil, fmt.Errorf("%w: normal variance %.4f must be positive", ErrConfiguration, variance)
	}
	return &NormalSampler{mean: mean, stdDev: math.Sqrt(variance)}, nil
}

func (s *NormalSampler) Sample(rng *rand.Rand) float64 {
	v := rng.NormFloat64()*s.stdDev + s.mean
	if v < 0 {
		return 0
	}
	return v
}

// ConstantSampler always returns the same fixed duration. Used in tests to
// make service windows deterministic.
type ConstantSampler struct {
	value float64
}

// NewConstantSampler creates a sampler returning value (floored at 0).
func NewConstantSampler(value float64) *ConstantSampler {
	if value < 0 {
		value = 0
	}
	return &ConstantSampler{value: value}
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}
