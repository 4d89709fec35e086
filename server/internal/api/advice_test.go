package api

import (
	"errors"
	"strings"
	"testing"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/types"
)

func result(t *testing.T, rs ...float64) compute.ReliabilityResult {
	t.Helper()
	cs := make([]types.Component, len(rs))
	for i, r := range rs {
		cs[i] = types.Component{Name: string(rune('A' + i)), Reliability: r}
	}
	res, err := compute.Reliability(cs, compute.DefaultThresholds())
	if err != nil {
		t.Fatalf("Reliability: %v", err)
	}
	return res
}

func keys(advice []Advice) []string {
	out := make([]string, len(advice))
	for i, a := range advice {
		out[i] = a.Key + "/" + a.Level
	}
	return out
}

func TestComputeAdvice(t *testing.T) {
	cases := []struct {
		name string
		rs   []float64
		want []string
	}{
		{"low risk single", []float64{0.99}, []string{"weakest_link/info", "risk/ok"}},
		{"medium", []float64{0.97, 0.96}, []string{"risk/warning", "weakest_link/info", "series_penalty/info"}},
		{"high", []float64{0.9, 0.8}, []string{"risk/critical", "weakest_link/info", "series_penalty/info"}},
		{"dead station", []float64{0.9, 0}, []string{"dead_component/critical", "risk/critical", "weakest_link/info"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := keys(computeAdvice(result(t, tc.rs...)))
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("advice: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComputeAdvice_WeakestNamed(t *testing.T) {
	advice := computeAdvice(result(t, 0.99, 0.95, 0.97))
	for _, a := range advice {
		if a.Key == "weakest_link" {
			if a.Title != "Prioritise B" {
				t.Errorf("title: got %q", a.Title)
			}
			return
		}
	}
	t.Fatal("weakest_link hint missing")
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	err := validate(EOQRequest{CurvePoints: 1})
	var ve *compute.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *compute.ValidationError, got %T (%v)", err, err)
	}
	if ve.Field != "curve_points" {
		t.Errorf("field: got %q, want curve_points", ve.Field)
	}
	if err := validate(EOQRequest{CurvePoints: 0}); err != nil {
		t.Errorf("curve_points omitted: %v", err)
	}
	if err := validate(ReliabilityRequest{Unit: "percent"}); err != nil {
		t.Errorf("unit percent: %v", err)
	}
	if err := validate(ReliabilityRequest{Unit: "ratio"}); err == nil {
		t.Error("unit ratio: want error")
	}
}
