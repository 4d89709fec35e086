package alerts

import (
	"strconv"
	"strings"

	"github.com/linecalc/linecalc/pkg/compute"
)

// evalCondition evaluates a rule condition string against a reliability result.
//
// Supported expressions (field operator value):
//
//	failure_pct > 10
//	reliability_pct < 90
//	weakest_pct < 95
//	risk == high
//	risk != low
//
// Percent fields are the result's decimals multiplied by 100.
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, res compute.ReliabilityResult) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "risk" {
		v := res.FailureProbability * 100
		switch op {
		case "==":
			return res.Risk == rhs, v
		case "!=":
			return res.Risk != rhs, v
		default:
			return false, 0
		}
	}

	v, ok := numericField(field, res)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its percentage value in the result.
func numericField(field string, res compute.ReliabilityResult) (float64, bool) {
	switch field {
	case "failure_pct":
		return res.FailureProbability * 100, true
	case "reliability_pct":
		return res.SystemReliability * 100, true
	case "weakest_pct":
		return res.Weakest.Reliability * 100, true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
