package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/input"
	"github.com/linecalc/linecalc/pkg/metrics"
	"github.com/linecalc/linecalc/pkg/types"
)

const defaultLineName = "Nusantara Motor"

func newReliabilityCmd(root *rootOptions) *cobra.Command {
	var (
		specs []string
		unit  string
		line  string
		th    = compute.DefaultThresholds()
	)
	cmd := &cobra.Command{
		Use:   "reliability",
		Short: "Series-system reliability, weakest link and risk tier",
		Example: `  linecalc reliability
  linecalc reliability --component Press=0.97 --component Weld=0.99
  linecalc reliability --unit percent -c Press=97 -c Weld=99 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(root.output, OutputTable, OutputJSON, OutputProm); err != nil {
				return err
			}
			comps := types.DefaultLine()
			u := types.UnitDecimal
			if len(specs) > 0 {
				var err error
				if comps, err = parseComponents(specs); err != nil {
					return err
				}
				u = types.Unit(unit)
				if line == "" {
					line = "custom"
				}
			} else {
				if cmd.Flags().Changed("unit") {
					return &compute.ValidationError{Field: "unit", Reason: "--unit needs --component values; the default line is built in"}
				}
				if line == "" {
					line = defaultLineName
				}
			}

			decimal, err := input.Components(comps, u)
			if err != nil {
				return err
			}
			res, err := compute.Reliability(decimal, th)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch root.output {
			case OutputJSON:
				return writeJSON(out, struct {
					Line string `json:"line"`
					compute.ReliabilityResult
				}{line, res})
			case OutputProm:
				return metrics.WriteResult(out, line, res)
			default:
				renderReliability(out, line, res)
				return nil
			}
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&specs, "component", "c", nil, "component as Name=reliability (repeatable); default is the Nusantara Motor line")
	f.StringVar(&unit, "unit", string(types.UnitDecimal), "reliability unit: decimal|percent")
	f.StringVar(&line, "line", "", "line name used in output labels")
	f.Float64Var(&th.Low, "low", compute.DefaultLowThreshold, "failure probability at or below which risk is low")
	f.Float64Var(&th.High, "high", compute.DefaultHighThreshold, "failure probability above which risk is high")
	return cmd
}

// parseComponents reads "Name=value" flags. The value follows the last '='
// so names may contain one.
func parseComponents(specs []string) ([]types.Component, error) {
	out := make([]types.Component, len(specs))
	for i, s := range specs {
		eq := strings.LastIndex(s, "=")
		if eq < 0 {
			return nil, &compute.ParseError{Token: s, Position: i + 1, Reason: "want Name=reliability"}
		}
		tok := strings.TrimSpace(s[eq+1:])
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &compute.ParseError{Token: tok, Position: i + 1, Reason: "reliability is not a number"}
		}
		out[i] = types.Component{Name: strings.TrimSpace(s[:eq]), Reliability: v}
	}
	return out, nil
}
