package compute

import (
	"errors"
	"math"
	"testing"
)

func TestSummarize_Reference(t *testing.T) {
	s, err := Summarize([]float64{70, 75, 80, 85, 90})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"mean", s.Mean, 80},
		{"median", s.Median, 80},
		{"variance", s.Variance, 62.5},
		{"std_dev", s.StdDev, 7.91},
		{"mode", s.Mode, 70},
		{"q1", s.Box.Q1, 75},
		{"q3", s.Box.Q3, 85},
		{"min", s.Min, 70},
		{"max", s.Max, 90},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want, 0.01) {
			t.Errorf("%s = %.4f, want %.4f", c.name, c.got, c.want)
		}
	}
	if s.Count != 5 {
		t.Errorf("Count = %d, want 5", s.Count)
	}
}

func TestSummarize_EvenCountMedian(t *testing.T) {
	s, err := Summarize([]float64{4, 1, 3, 2})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Median != 2.5 {
		t.Errorf("Median = %v, want 2.5", s.Median)
	}
}

func TestSummarize_Mode(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"single mode", []float64{1, 2, 2, 3}, 2},
		{"tie: lowest wins", []float64{3, 1, 3, 1, 2}, 1},
		{"all distinct: lowest", []float64{9, 8, 7}, 7},
		{"negative values", []float64{-1, -1, 5, 5, -3}, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Summarize(tc.values)
			if err != nil {
				t.Fatalf("Summarize: %v", err)
			}
			if s.Mode != tc.want {
				t.Errorf("Mode = %v, want %v", s.Mode, tc.want)
			}
		})
	}
}

func TestSummarize_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	if _, err := Summarize(in); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestSummarize_Errors(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrValidation) {
		t.Errorf("empty: err = %v, want ErrValidation", err)
	}
	if _, err := Summarize([]float64{42}); !errors.Is(err, ErrDomain) {
		t.Errorf("single point: err = %v, want ErrDomain", err)
	}
	if _, err := Summarize([]float64{1, math.Inf(1)}); !errors.Is(err, ErrValidation) {
		t.Errorf("infinite value: err = %v, want ErrValidation", err)
	}
}

func TestHistogram(t *testing.T) {
	bins, err := Histogram([]float64{1, 2, 3, 4, 5}, 2)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if len(bins) != 2 {
		t.Fatalf("len = %d, want 2", len(bins))
	}
	if bins[0].Count != 2 || bins[1].Count != 3 {
		t.Errorf("counts = %d,%d, want 2,3", bins[0].Count, bins[1].Count)
	}
	if bins[0].Lo != 1 || bins[1].Hi != 5 {
		t.Errorf("range = [%v, %v], want [1, 5]", bins[0].Lo, bins[1].Hi)
	}

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 5 {
		t.Errorf("total count = %d, want 5", total)
	}
}

func TestHistogram_ConstantSample(t *testing.T) {
	bins, err := Histogram([]float64{7, 7, 7}, 4)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if len(bins) != 1 || bins[0].Count != 3 {
		t.Errorf("bins = %+v, want one bin of 3", bins)
	}
}

func TestHistogram_SubnormalRange(t *testing.T) {
	vals := []float64{0, 5e-324}
	if _, err := Summarize(vals); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	bins, err := Histogram(vals, 2)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if len(bins) != 2 {
		t.Fatalf("len = %d, want 2", len(bins))
	}
	if bins[0].Count != 1 || bins[1].Count != 1 {
		t.Errorf("counts = %d,%d, want 1,1", bins[0].Count, bins[1].Count)
	}
}

func TestHistogram_WideRange(t *testing.T) {
	bins, err := Histogram([]float64{-math.MaxFloat64, 0, math.MaxFloat64}, 4)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	total := 0
	for _, b := range bins {
		total += b.Count
		if math.IsNaN(b.Lo) || math.IsInf(b.Lo, 0) || math.IsNaN(b.Hi) || math.IsInf(b.Hi, 0) {
			t.Errorf("bin edges [%v, %v] not finite", b.Lo, b.Hi)
		}
	}
	if total != 3 {
		t.Errorf("total count = %d, want 3", total)
	}
}

func TestHistogram_Errors(t *testing.T) {
	if _, err := Histogram([]float64{1, 2}, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("bins=0: err = %v, want ErrValidation", err)
	}
	if _, err := Histogram(nil, 3); !errors.Is(err, ErrValidation) {
		t.Errorf("empty: err = %v, want ErrValidation", err)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ValidationError{Field: "x", Reason: "bad"}, "validation"},
		{&ParseError{Token: "abc", Reason: "not a number"}, "parse"},
		{&DomainError{Op: "eoq", Reason: "undefined"}, "domain"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range tests {
		if got := Kind(tc.err); got != tc.want {
			t.Errorf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
