package api

import (
	"fmt"
	"slices"

	"github.com/linecalc/linecalc/pkg/compute"
)

// Advice is one human-readable maintenance hint about a reliability result.
// Clients display these as chips next to the chart; Detail is the full text.
type Advice struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical".
	Level string `json:"level"`
	// Title is a short label (≤ 5 words).
	Title string `json:"title"`
	// Detail is the full explanation.
	Detail string `json:"detail"`
	// Value is an optional percentage associated with the hint.
	Value *float64 `json:"value,omitempty"`
}

var levelRank = map[string]int{"critical": 0, "warning": 1, "info": 2, "ok": 3}

// computeAdvice derives maintenance hints from a result, most severe first.
func computeAdvice(res compute.ReliabilityResult) []Advice {
	var out []Advice

	// ── Dead station ─────────────────────────────────────────────────────────
	for _, c := range res.Components {
		if c.Reliability == 0 {
			out = append(out, Advice{
				Key:   "dead_component",
				Level: "critical",
				Title: c.Name + " always fails",
				Detail: fmt.Sprintf(
					"%s has a reliability of 0%%, so the whole line can never complete a run. "+
						"No other improvement matters until this station is repaired.",
					c.Name,
				),
			})
		}
	}

	// ── Risk tier ────────────────────────────────────────────────────────────
	fp := res.FailureProbability * 100
	switch res.Risk {
	case compute.RiskHigh:
		out = append(out, Advice{
			Key:   "risk",
			Level: "critical",
			Title: fmt.Sprintf("%.1f%% breakdown risk", fp),
			Detail: fmt.Sprintf(
				"The line fails %.2f%% of the time, above the %.0f%% high-risk threshold. "+
					"Schedule maintenance on the weakest station before the next production run.",
				fp, res.Thresholds.High*100,
			),
			Value: &fp,
		})
	case compute.RiskMedium:
		out = append(out, Advice{
			Key:   "risk",
			Level: "warning",
			Title: fmt.Sprintf("%.1f%% breakdown risk", fp),
			Detail: fmt.Sprintf(
				"The line fails %.2f%% of the time, between the %.0f%% and %.0f%% thresholds. "+
					"Plan preventive maintenance and watch whether this number grows.",
				fp, res.Thresholds.Low*100, res.Thresholds.High*100,
			),
			Value: &fp,
		})
	default:
		out = append(out, Advice{
			Key:    "risk",
			Level:  "ok",
			Title:  "Low breakdown risk",
			Detail: fmt.Sprintf("The line fails %.2f%% of the time, within the %.0f%% low-risk threshold.", fp, res.Thresholds.Low*100),
			Value:  &fp,
		})
	}

	// ── Weakest link ─────────────────────────────────────────────────────────
	gain := res.Recommendation.Gain * 100
	out = append(out, Advice{
		Key:   "weakest_link",
		Level: "info",
		Title: "Prioritise " + res.Weakest.Name,
		Detail: fmt.Sprintf(
			"%s is the least reliable station at %.1f%%. Making it perfect would raise "+
				"line reliability by %.2f percentage points, more than any other single station.",
			res.Weakest.Name, res.Weakest.Reliability*100, gain,
		),
		Value: &gain,
	})

	// ── Series penalty ───────────────────────────────────────────────────────
	if len(res.Components) > 1 && res.SystemReliability < res.Weakest.Reliability {
		sys := res.SystemReliability * 100
		out = append(out, Advice{
			Key:   "series_penalty",
			Level: "info",
			Title: "Line below every station",
			Detail: fmt.Sprintf(
				"Line reliability (%.2f%%) is lower than even the weakest station (%.1f%%) "+
					"because every station must work for the line to work. "+
					"Adding stations in series always lowers reliability.",
				sys, res.Weakest.Reliability*100,
			),
			Value: &sys,
		})
	}

	slices.SortStableFunc(out, func(a, b Advice) int { return levelRank[a.Level] - levelRank[b.Level] })
	return out
}
