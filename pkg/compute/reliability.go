package compute

import (
	"fmt"
	"math"

	"github.com/linecalc/linecalc/pkg/types"
)

// Risk tiers returned by the classifier.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Default failure-probability breakpoints.
const (
	DefaultLowThreshold  = 0.05
	DefaultHighThreshold = 0.10
)

// RiskThresholds maps a failure probability to a risk tier.
//
//	fp >  High       → high
//	Low < fp ≤ High  → medium
//	fp ≤ Low         → low
//
// Low == High collapses the medium tier, giving a two-tier classifier.
type RiskThresholds struct {
	Low  float64 `json:"low_threshold" yaml:"low_threshold"`
	High float64 `json:"high_threshold" yaml:"high_threshold"`
}

// DefaultThresholds returns the 5% / 10% breakpoints.
func DefaultThresholds() RiskThresholds {
	return RiskThresholds{Low: DefaultLowThreshold, High: DefaultHighThreshold}
}

// Validate requires 0 ≤ Low ≤ High ≤ 1.
func (t RiskThresholds) Validate() error {
	if math.IsNaN(t.Low) || t.Low < 0 || t.Low > 1 {
		return &ValidationError{Field: "low_threshold", Value: t.Low, Reason: fmt.Sprintf("%g is outside [0, 1]", t.Low)}
	}
	if math.IsNaN(t.High) || t.High < 0 || t.High > 1 {
		return &ValidationError{Field: "high_threshold", Value: t.High, Reason: fmt.Sprintf("%g is outside [0, 1]", t.High)}
	}
	if t.Low > t.High {
		return &ValidationError{Field: "low_threshold", Value: t.Low,
			Reason: fmt.Sprintf("%g is above high_threshold %g", t.Low, t.High)}
	}
	return nil
}

// thresholdTolerance absorbs the rounding in 1 - R, so a line at exactly 95%
// reliability sits on the 5% breakpoint rather than just above it.
const thresholdTolerance = 1e-12

// Classify returns the risk tier for a failure probability.
func (t RiskThresholds) Classify(failureProbability float64) string {
	switch {
	case failureProbability > t.High+thresholdTolerance:
		return RiskHigh
	case failureProbability > t.Low+thresholdTolerance:
		return RiskMedium
	default:
		return RiskLow
	}
}

// WeakestLink identifies the least reliable component.
type WeakestLink struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Reliability float64 `json:"reliability"`
}

// ComponentResult is the per-component breakdown of a series system.
type ComponentResult struct {
	Name        string  `json:"name"`
	Reliability float64 `json:"reliability"`

	// Importance is the Birnbaum importance: for a series system, the product
	// of every other component's reliability.
	Importance float64 `json:"importance"`

	// GainIfPerfect is how much system reliability would rise if this
	// component never failed.
	GainIfPerfect float64 `json:"gain_if_perfect"`
}

// Bar is one chart-ready bar.
type Bar struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Highlight bool    `json:"highlight"`
}

// ReliabilityChart is the chart-ready series for a reliability result:
// one bar per component plus a horizontal reference line at system level.
type ReliabilityChart struct {
	Bars      []Bar   `json:"bars"`
	Reference float64 `json:"reference"`
}

// Recommendation names the component whose improvement helps the line most.
type Recommendation struct {
	Component string  `json:"component"`
	Gain      float64 `json:"gain"`
}

// ReliabilityResult is the output of the series-reliability calculator.
// All probabilities are decimals in [0, 1].
type ReliabilityResult struct {
	SystemReliability  float64           `json:"system_reliability"`
	FailureProbability float64           `json:"failure_probability"`
	Weakest            WeakestLink       `json:"weakest"`
	Risk               string            `json:"risk"`
	Thresholds         RiskThresholds    `json:"thresholds"`
	Components         []ComponentResult `json:"components"`
	Chart              ReliabilityChart  `json:"chart"`
	Recommendation     Recommendation    `json:"recommendation"`
}

// Reliability computes the reliability of a series system: the line works
// only if every component works, so system reliability is the product of the
// component reliabilities.
//
// The weakest link is the first component holding the minimum reliability.
// An empty list or a reliability outside [0, 1] is rejected with a
// ValidationError rather than computed through.
func Reliability(components []types.Component, th RiskThresholds) (ReliabilityResult, error) {
	if len(components) == 0 {
		return ReliabilityResult{}, &ValidationError{Field: "components", Reason: "at least one component is required"}
	}
	if err := th.Validate(); err != nil {
		return ReliabilityResult{}, err
	}

	names := make([]string, len(components))
	for i, c := range components {
		r := c.Reliability
		names[i] = c.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("component-%d", i+1)
		}
		if math.IsNaN(r) || r < 0 || r > 1 {
			return ReliabilityResult{}, &ValidationError{
				Field:  fmt.Sprintf("components[%d] %q", i, names[i]),
				Value:  r,
				Reason: fmt.Sprintf("reliability %g is outside [0, 1]", r),
			}
		}
	}

	system := 1.0
	weakest := 0
	for i, c := range components {
		system *= c.Reliability
		if c.Reliability < components[weakest].Reliability {
			weakest = i
		}
	}
	failure := 1 - system
	if err := finite("reliability", system, failure); err != nil {
		return ReliabilityResult{}, err
	}

	out := ReliabilityResult{
		SystemReliability:  system,
		FailureProbability: failure,
		Weakest: WeakestLink{
			Index:       weakest,
			Name:        names[weakest],
			Reliability: components[weakest].Reliability,
		},
		Risk:       th.Classify(failure),
		Thresholds: th,
		Components: make([]ComponentResult, len(components)),
		Chart: ReliabilityChart{
			Bars:      make([]Bar, len(components)),
			Reference: system,
		},
	}

	for i, c := range components {
		others := productExcept(components, i)
		out.Components[i] = ComponentResult{
			Name:          names[i],
			Reliability:   c.Reliability,
			Importance:    others,
			GainIfPerfect: others - system,
		}
		out.Chart.Bars[i] = Bar{Label: names[i], Value: c.Reliability, Highlight: i == weakest}
	}
	out.Recommendation = Recommendation{
		Component: names[weakest],
		Gain:      out.Components[weakest].GainIfPerfect,
	}
	return out, nil
}

// productExcept multiplies every reliability except the one at skip.
// Not system/r: r may be zero.
func productExcept(components []types.Component, skip int) float64 {
	p := 1.0
	for i, c := range components {
		if i != skip {
			p *= c.Reliability
		}
	}
	return p
}
