package compute

import (
	"errors"
	"testing"

	"github.com/linecalc/linecalc/pkg/types"
)

var refPolicy = types.OrderPolicy{AnnualDemand: 12000, OrderCost: 150000, HoldingCost: 1000}

func TestEOQ_Reference(t *testing.T) {
	out, err := EOQ(refPolicy)
	if err != nil {
		t.Fatalf("EOQ: %v", err)
	}
	if !almostEqual(out.EOQ, 1897.37, 0.01) {
		t.Errorf("EOQ = %.4f, want ≈1897.37", out.EOQ)
	}
	if !almostEqual(out.OrdersPerYear, 6.32, 0.01) {
		t.Errorf("OrdersPerYear = %.4f, want ≈6.32", out.OrdersPerYear)
	}
	// At the optimum ordering and holding costs are equal.
	if !almostEqual(out.TotalOrderingCost, out.TotalHoldingCost, 1e-6) {
		t.Errorf("ordering %.4f != holding %.4f at EOQ", out.TotalOrderingCost, out.TotalHoldingCost)
	}
	if !almostEqual(out.TotalCost, out.TotalOrderingCost+out.TotalHoldingCost, 1e-6) {
		t.Errorf("TotalCost %.4f != ordering + holding", out.TotalCost)
	}
	if !almostEqual(out.CycleDays, 365/out.OrdersPerYear, 1e-9) {
		t.Errorf("CycleDays = %.4f", out.CycleDays)
	}
}

func TestEOQ_MinimisesTotalCost(t *testing.T) {
	out, err := EOQ(refPolicy)
	if err != nil {
		t.Fatalf("EOQ: %v", err)
	}
	at, err := TotalCostAt(refPolicy, out.EOQ)
	if err != nil {
		t.Fatalf("TotalCostAt: %v", err)
	}
	if !almostEqual(at, out.TotalCost, 1e-6) {
		t.Errorf("TotalCostAt(eoq) = %.4f, want %.4f", at, out.TotalCost)
	}

	for _, q := range []float64{1, 100, 1000, 1800, 1897, 1898, 2000, 5000, 1e6} {
		c, err := TotalCostAt(refPolicy, q)
		if err != nil {
			t.Fatalf("TotalCostAt(%v): %v", q, err)
		}
		if c < out.TotalCost-1e-6 {
			t.Errorf("TotalCostAt(%v) = %.4f is below the EOQ cost %.4f", q, c, out.TotalCost)
		}
	}
}

func TestEOQ_Errors(t *testing.T) {
	tests := []struct {
		name string
		p    types.OrderPolicy
		want error
	}{
		{"zero holding cost", types.OrderPolicy{AnnualDemand: 100, OrderCost: 10, HoldingCost: 0}, ErrDomain},
		{"negative holding cost", types.OrderPolicy{AnnualDemand: 100, OrderCost: 10, HoldingCost: -1}, ErrDomain},
		{"zero demand", types.OrderPolicy{AnnualDemand: 0, OrderCost: 10, HoldingCost: 1}, ErrValidation},
		{"negative order cost", types.OrderPolicy{AnnualDemand: 100, OrderCost: -10, HoldingCost: 1}, ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EOQ(tc.p)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTotalCostAt_RejectsNonPositiveQuantity(t *testing.T) {
	if _, err := TotalCostAt(refPolicy, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestCostCurve(t *testing.T) {
	pts, err := CostCurve(refPolicy, 9)
	if err != nil {
		t.Fatalf("CostCurve: %v", err)
	}
	if len(pts) != 9 {
		t.Fatalf("len = %d, want 9", len(pts))
	}
	eoq, _ := EOQ(refPolicy)
	if !almostEqual(pts[0].Quantity, eoq.EOQ/4, 1e-9) || !almostEqual(pts[8].Quantity, eoq.EOQ*2, 1e-9) {
		t.Errorf("curve spans [%.2f, %.2f], want [eoq/4, 2eoq]", pts[0].Quantity, pts[8].Quantity)
	}
	for _, p := range pts {
		if p.TotalCost < eoq.TotalCost-1e-6 {
			t.Errorf("curve point q=%.2f cost %.2f below optimum", p.Quantity, p.TotalCost)
		}
	}

	if _, err := CostCurve(refPolicy, 1); !errors.Is(err, ErrValidation) {
		t.Errorf("CostCurve(1) err = %v, want ErrValidation", err)
	}
}
