package compute

import (
	"errors"
	"math"
	"testing"
)

func TestSimulateExponential_Deterministic(t *testing.T) {
	a, err := SimulateExponential(0.5, 100, 42)
	if err != nil {
		t.Fatalf("SimulateExponential: %v", err)
	}
	b, err := SimulateExponential(0.5, 100, 42)
	if err != nil {
		t.Fatalf("SimulateExponential: %v", err)
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a.Samples[i], b.Samples[i])
		}
	}
}

func TestSimulateExponential_ConvergesToTheory(t *testing.T) {
	const rate = 0.25
	sim, err := SimulateExponential(rate, 20000, 7)
	if err != nil {
		t.Fatalf("SimulateExponential: %v", err)
	}
	if sim.TheoreticalMean != 4 {
		t.Errorf("TheoreticalMean = %v, want 4", sim.TheoreticalMean)
	}
	if rel := math.Abs(sim.Summary.Mean-4) / 4; rel > 0.05 {
		t.Errorf("sample mean %.4f deviates %.1f%% from 4", sim.Summary.Mean, rel*100)
	}
	if !almostEqual(sim.EmpiricalSurvival, math.Exp(-1), 0.02) {
		t.Errorf("EmpiricalSurvival = %.4f, want ≈%.4f", sim.EmpiricalSurvival, math.Exp(-1))
	}
	for i, s := range sim.Samples {
		if s < 0 {
			t.Fatalf("sample %d negative: %v", i, s)
		}
	}
}

func TestSimulateExponential_Validation(t *testing.T) {
	if _, err := SimulateExponential(0, 10, 1); !errors.Is(err, ErrValidation) {
		t.Errorf("rate=0: err = %v, want ErrValidation", err)
	}
	if _, err := SimulateExponential(1, 1, 1); !errors.Is(err, ErrValidation) {
		t.Errorf("n=1: err = %v, want ErrValidation", err)
	}
}
