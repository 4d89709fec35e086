package metrics

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/linecalc/linecalc/pkg/compute"
)

// ResultFamilies converts a reliability result into metric families:
// system reliability, failure probability, one gauge per component (with a
// weakest="true" label on the weakest link) and a risk-tier indicator.
func ResultFamilies(line string, res compute.ReliabilityResult) []*dto.MetricFamily {
	lineLabel := label("line", line)

	components := make([]*dto.Metric, len(res.Components))
	for i, c := range res.Components {
		components[i] = gauge(c.Reliability,
			lineLabel,
			label("component", c.Name),
			label("weakest", fmt.Sprint(i == res.Weakest.Index)),
		)
	}

	tiers := make([]*dto.Metric, 0, 3)
	for _, tier := range []string{compute.RiskLow, compute.RiskMedium, compute.RiskHigh} {
		v := 0.0
		if res.Risk == tier {
			v = 1
		}
		tiers = append(tiers, gauge(v, lineLabel, label("tier", tier)))
	}

	return []*dto.MetricFamily{
		family("linecalc_system_reliability", "Series-system reliability (0-1).", gauge(res.SystemReliability, lineLabel)),
		family("linecalc_failure_probability", "Series-system failure probability (0-1).", gauge(res.FailureProbability, lineLabel)),
		family("linecalc_component_reliability", "Component reliability (0-1).", components...),
		family("linecalc_risk_tier", "1 for the line's current risk tier, 0 otherwise.", tiers...),
	}
}

// WriteResult writes the families of res to w in the text exposition format.
func WriteResult(w io.Writer, line string, res compute.ReliabilityResult) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range ResultFamilies(line, res) {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func family(name, help string, ms ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: ms,
	}
}

func gauge(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}
