package commands

import (
	"github.com/spf13/cobra"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/types"
)

func newEOQCmd(root *rootOptions) *cobra.Command {
	var (
		p      types.OrderPolicy
		points int
	)
	cmd := &cobra.Command{
		Use:     "eoq",
		Short:   "Economic order quantity and total inventory cost",
		Example: `  linecalc eoq --demand 12000 --order-cost 150000 --holding-cost 1000 --curve-points 8`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(root.output, OutputTable, OutputJSON); err != nil {
				return err
			}
			res, err := compute.EOQ(p)
			if err != nil {
				return err
			}
			var curve []compute.CostPoint
			if points > 0 {
				if curve, err = compute.CostCurve(p, points); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if root.output == OutputJSON {
				return writeJSON(out, struct {
					compute.EOQResult
					Curve []compute.CostPoint `json:"curve,omitempty"`
				}{res, curve})
			}
			renderEOQ(out, res, curve)
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&p.AnnualDemand, "demand", 0, "annual demand D (units/year)")
	f.Float64Var(&p.OrderCost, "order-cost", 0, "cost per order S")
	f.Float64Var(&p.HoldingCost, "holding-cost", 0, "holding cost per unit per year H")
	f.IntVar(&points, "curve-points", 0, "also print the total-cost curve at this many quantities")
	for _, name := range []string{"demand", "order-cost", "holding-cost"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
