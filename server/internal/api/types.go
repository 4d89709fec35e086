package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/types"
)

// requestValidate checks request structs. Numeric domain rules stay in
// pkg/compute.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	requestValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// validate runs struct-tag validation on req and converts the first failure
// into a *compute.ValidationError.
func validate(req any) error {
	err := requestValidate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("api: validate: %w", err)
	}
	fe := verrs[0]
	reason := fmt.Sprintf("failed %q constraint", fe.Tag())
	if fe.Param() != "" {
		reason = fmt.Sprintf("failed %q constraint (%s)", fe.Tag(), fe.Param())
	}
	return &compute.ValidationError{Field: fe.Field(), Reason: reason}
}

// ReliabilityRequest is the body of POST /api/v1/reliability.
// An empty Components list selects the configured default line.
type ReliabilityRequest struct {
	ID         string            `json:"id,omitempty" validate:"omitempty,max=64"`
	Line       string            `json:"line,omitempty" validate:"omitempty,max=128"`
	Unit       types.Unit        `json:"unit,omitempty" validate:"omitempty,oneof=decimal percent"`
	Components []types.Component `json:"components,omitempty" validate:"max=64"`
}

// EOQRequest is the body of POST /api/v1/eoq.
type EOQRequest struct {
	ID           string  `json:"id,omitempty" validate:"omitempty,max=64"`
	AnnualDemand float64 `json:"annual_demand"`
	OrderCost    float64 `json:"order_cost"`
	HoldingCost  float64 `json:"holding_cost"`
	CurvePoints  int     `json:"curve_points,omitempty" validate:"omitempty,min=2,max=500"`
}

// StatsRequest is the JSON body of POST /api/v1/stats. Values wins over Data
// when both are set.
type StatsRequest struct {
	ID     string    `json:"id,omitempty" validate:"omitempty,max=64"`
	Values []float64 `json:"values,omitempty" validate:"max=100000"`
	Data   string    `json:"data,omitempty"`
	Bins   int       `json:"bins,omitempty" validate:"omitempty,min=1,max=100"`
}

// SimulateRequest is the body of POST /api/v1/simulate.
type SimulateRequest struct {
	ID   string  `json:"id,omitempty" validate:"omitempty,max=64"`
	Rate float64 `json:"rate"`
	N    int     `json:"n" validate:"max=100000"`
	Seed uint64  `json:"seed"`
}

// ReliabilityResponse is returned by the reliability endpoints.
type ReliabilityResponse struct {
	ID   string `json:"id"`
	Line string `json:"line"`
	compute.ReliabilityResult
	Advice []Advice `json:"advice"`
}

// EOQResponse is returned by POST /api/v1/eoq. Curve is present only when
// curve_points was requested.
type EOQResponse struct {
	ID string `json:"id"`
	compute.EOQResult
	Curve []compute.CostPoint `json:"curve,omitempty"`
}

// StatsResponse is returned by POST /api/v1/stats. Histogram is present only
// when bins was requested.
type StatsResponse struct {
	ID string `json:"id"`
	compute.Summary
	Histogram []compute.HistogramBin `json:"histogram,omitempty"`
}

// SimulateResponse is returned by POST /api/v1/simulate.
type SimulateResponse struct {
	ID string `json:"id"`
	compute.Simulation
}

// ResultResponse is one stored result as returned by /api/v1/results.
type ResultResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Input     any    `json:"input,omitempty"`
	Output    any    `json:"output"`
	UpdatedAt string `json:"updated_at"`
}

// RiskConfigResponse is returned by GET /api/v1/config/risk.
type RiskConfigResponse struct {
	compute.RiskThresholds
	Line string `json:"line"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
