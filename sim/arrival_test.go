package sim

import (
	"errors"
	"math"
	"testing"
)

// === RateTable Tests ===

func TestNewRateTable_Validation(t *testing.T) {
	tests := []struct {
		name   string
		width  float64
		rates  []float64
		wantOK bool
	}{
		{"valid", 60, []float64{1, 2, 3}, true},
		{"zero width", 0, []float64{1}, false},
		{"empty", 60, nil, false},
		{"negative rate", 60, []float64{1, -2}, false},
		{"all zero is valid construction", 60, []float64{0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRateTable(tt.width, tt.rates)
			if tt.wantOK && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if !tt.wantOK && !errors.Is(err, ErrConfiguration) {
				t.Errorf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestRateTable_PiecewiseConstantLookup(t *testing.T) {
	table, err := NewRateTable(60, []float64{1.0, 2.0, 3.0})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		at   float64
		want float64
	}{
		{0, 1.0},
		{59.999, 1.0},
		{60, 2.0},
		{179.999, 3.0},
		{180, 1.0},  // wraps cyclically past the span
		{240, 2.0},  // second cycle
		{540, 1.0},  // third cycle
	}
	for _, tt := range tests {
		if got := table.RateAt(tt.at); got != tt.want {
			t.Errorf("RateAt(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
	if table.MaxRate() != 3.0 {
		t.Errorf("MaxRate() = %v, want 3.0", table.MaxRate())
	}
	if table.Span() != 180.0 {
		t.Errorf("Span() = %v, want 180.0", table.Span())
	}
}

// === ThinningSampler Tests ===

func TestThinningSampler_DegenerateRate(t *testing.T) {
	table, err := NewRateTable(60, []float64{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	s := NewThinningSampler(table, NewStreamManager(42))
	if _, err := s.NextInterArrival(0); !errors.Is(err, ErrDegenerateRate) {
		t.Errorf("err = %v, want ErrDegenerateRate", err)
	}
}

func TestThinningSampler_ConstantRateMean(t *testing.T) {
	// For λ(t) = λ, thinning reduces to a plain Poisson process: the mean
	// inter-arrival time converges to 1/λ.
	lambda := 0.5
	table, err := NewRateTable(60, []float64{lambda, lambda, lambda})
	if err != nil {
		t.Fatal(err)
	}
	s := NewThinningSampler(table, NewStreamManager(42))

	n := 100000
	sum := 0.0
	current := 0.0
	for i := 0; i < n; i++ {
		iat, err := s.NextInterArrival(current)
		if err != nil {
			t.Fatal(err)
		}
		sum += iat
		current += iat
	}
	mean := sum / float64(n)
	want := 1.0 / lambda
	if math.Abs(mean-want)/want > 0.02 {
		t.Errorf("mean inter-arrival = %.4f, want ≈ %.4f (within 2%%)", mean, want)
	}
}

func TestThinningSampler_VaryingRateFavorsBusyBuckets(t *testing.T) {
	// With a strongly peaked profile, more arrivals must land in the busy
	// bucket than the quiet one.
	table, err := NewRateTable(60, []float64{0.1, 2.0})
	if err != nil {
		t.Fatal(err)
	}
	s := NewThinningSampler(table, NewStreamManager(42))

	counts := [2]int{}
	current := 0.0
	for i := 0; i < 20000; i++ {
		iat, err := s.NextInterArrival(current)
		if err != nil {
			t.Fatal(err)
		}
		current += iat
		pos := math.Mod(current, table.Span())
		if pos < 60 {
			counts[0]++
		} else {
			counts[1]++
		}
	}
	if counts[1] < counts[0]*5 {
		t.Errorf("bucket counts = %v, want heavy skew toward the high-rate bucket", counts)
	}
}

func TestThinningSampler_UsesDedicatedStreams(t *testing.T) {
	// Draws at unrelated sites must not perturb the arrival sequence.
	tableA, _ := NewRateTable(60, []float64{0.5, 1.0})
	tableB, _ := NewRateTable(60, []float64{0.5, 1.0})

	mA := NewStreamManager(7)
	mB := NewStreamManager(7)
	// Burn draws on an unrelated site in A only.
	for i := 0; i < 500; i++ {
		mA.Stream("exam-duration").Float64()
	}

	sA := NewThinningSampler(tableA, mA)
	sB := NewThinningSampler(tableB, mB)
	for i := 0; i < 100; i++ {
		a, errA := sA.NextInterArrival(float64(i))
		b, errB := sB.NextInterArrival(float64(i))
		if errA != nil || errB != nil {
			t.Fatal(errA, errB)
		}
		if a != b {
			t.Fatalf("draw %d: arrival stream perturbed by unrelated site: %v != %v", i, a, b)
		}
	}
}
