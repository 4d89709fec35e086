package compute

import (
	"fmt"
	"math"

	"github.com/linecalc/linecalc/pkg/types"
)

const daysPerYear = 365.0

// EOQResult is the output of the Economic Order Quantity calculator.
type EOQResult struct {
	EOQ               float64 `json:"eoq"`
	OrdersPerYear     float64 `json:"orders_per_year"`
	TotalOrderingCost float64 `json:"total_ordering_cost"`
	TotalHoldingCost  float64 `json:"total_holding_cost"`
	TotalCost         float64 `json:"total_cost"`

	// CycleDays is the number of days between consecutive orders.
	CycleDays float64 `json:"cycle_days"`
}

// CostPoint is one chart-ready point on the total-cost curve.
type CostPoint struct {
	Quantity     float64 `json:"quantity"`
	OrderingCost float64 `json:"ordering_cost"`
	HoldingCost  float64 `json:"holding_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// EOQ computes the order quantity minimising ordering plus holding cost:
//
//	eoq             = sqrt(2·D·S / H)
//	orders_per_year = D / eoq
//	total_cost      = orders_per_year·S + (eoq/2)·H
//
// A non-positive holding cost leaves the square root undefined and returns a
// DomainError; a non-positive demand or order cost returns a ValidationError.
func EOQ(p types.OrderPolicy) (EOQResult, error) {
	if err := checkPolicy(p); err != nil {
		return EOQResult{}, err
	}

	q := math.Sqrt(2 * p.AnnualDemand * p.OrderCost / p.HoldingCost)
	orders := p.AnnualDemand / q
	ordering := orders * p.OrderCost
	holding := q / 2 * p.HoldingCost

	out := EOQResult{
		EOQ:               q,
		OrdersPerYear:     orders,
		TotalOrderingCost: ordering,
		TotalHoldingCost:  holding,
		TotalCost:         ordering + holding,
		CycleDays:         daysPerYear / orders,
	}
	if err := finite("eoq", out.EOQ, out.OrdersPerYear, out.TotalCost, out.CycleDays); err != nil {
		return EOQResult{}, err
	}
	return out, nil
}

// TotalCostAt evaluates (D/q)·S + (q/2)·H for an arbitrary order quantity q.
func TotalCostAt(p types.OrderPolicy, q float64) (float64, error) {
	if err := checkPolicy(p); err != nil {
		return 0, err
	}
	if math.IsNaN(q) || q <= 0 {
		return 0, &ValidationError{Field: "quantity", Value: q, Reason: fmt.Sprintf("order quantity %g must be positive", q)}
	}
	c := p.AnnualDemand/q*p.OrderCost + q/2*p.HoldingCost
	if err := finite("total cost", c); err != nil {
		return 0, err
	}
	return c, nil
}

// CostCurve samples the cost functions at `points` evenly spaced order
// quantities across [eoq/4, 2·eoq]. points must be at least 2.
func CostCurve(p types.OrderPolicy, points int) ([]CostPoint, error) {
	if points < 2 {
		return nil, &ValidationError{Field: "curve_points", Value: float64(points), Reason: "at least 2 points are required"}
	}
	res, err := EOQ(p)
	if err != nil {
		return nil, err
	}

	lo, hi := res.EOQ/4, res.EOQ*2
	step := (hi - lo) / float64(points-1)
	out := make([]CostPoint, points)
	for i := range out {
		q := lo + step*float64(i)
		ordering := p.AnnualDemand / q * p.OrderCost
		holding := q / 2 * p.HoldingCost
		out[i] = CostPoint{
			Quantity:     q,
			OrderingCost: ordering,
			HoldingCost:  holding,
			TotalCost:    ordering + holding,
		}
	}
	return out, nil
}

// checkPolicy applies the EOQ input rules. Holding cost is checked first:
// at zero the model itself is undefined, which is a domain problem rather
// than a bad user entry.
func checkPolicy(p types.OrderPolicy) error {
	if math.IsNaN(p.HoldingCost) || p.HoldingCost <= 0 {
		return &DomainError{Op: "eoq", Reason: fmt.Sprintf("holding cost %g must be positive: sqrt(2DS/H) is undefined", p.HoldingCost)}
	}
	if math.IsNaN(p.AnnualDemand) || p.AnnualDemand <= 0 {
		return &ValidationError{Field: "annual_demand", Value: p.AnnualDemand, Reason: fmt.Sprintf("%g must be positive", p.AnnualDemand)}
	}
	if math.IsNaN(p.OrderCost) || p.OrderCost <= 0 {
		return &ValidationError{Field: "order_cost", Value: p.OrderCost, Reason: fmt.Sprintf("%g must be positive", p.OrderCost)}
	}
	return nil
}
