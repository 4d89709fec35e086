package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputProm  = "prom"
)

type rootOptions struct {
	output  string
	verbose bool
}

// NewRootCmd builds the linecalc command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "linecalc",
		Short: "Production-line reliability, EOQ and statistics calculator",
		Long: `linecalc evaluates a series production line's reliability, the economic
order quantity of a stocked part, and descriptive statistics of a sample.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", OutputTable, "output format: table|json|prom (prom: reliability only)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(
		newReliabilityCmd(opts),
		newEOQCmd(opts),
		newStatsCmd(opts),
		newSimulateCmd(opts),
	)
	return root
}

// checkOutput rejects formats a subcommand cannot render.
func checkOutput(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported --output %q: want one of %v", format, allowed)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
