package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/input"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	var (
		data   string
		file   string
		column string
		bins   int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Mean, median, mode, variance and boxplot of a sample",
		Example: `  linecalc stats --data "70,75,80,85,90" --bins 4
  linecalc stats --file output.csv --column units
  cat output.csv | linecalc stats --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(root.output, OutputTable, OutputJSON); err != nil {
				return err
			}
			values, err := readSample(cmd.InOrStdin(), data, file, column)
			if err != nil {
				return err
			}
			sum, err := compute.Summarize(values)
			if err != nil {
				return err
			}
			var hist []compute.HistogramBin
			if bins > 0 {
				if hist, err = compute.Histogram(values, bins); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if root.output == OutputJSON {
				return writeJSON(out, struct {
					compute.Summary
					Histogram []compute.HistogramBin `json:"histogram,omitempty"`
				}{sum, hist})
			}
			renderSummary(out, sum, hist)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&data, "data", "", "comma-separated values")
	f.StringVar(&file, "file", "", "CSV file with a header row; - reads stdin")
	f.StringVar(&column, "column", "", "CSV column to read; default is the first numeric column")
	f.IntVar(&bins, "bins", 0, "also print a histogram with this many bins")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
	cmd.MarkFlagsOneRequired("data", "file")
	return cmd
}

func readSample(stdin io.Reader, data, file, column string) ([]float64, error) {
	if file == "" {
		return input.ParseList(data)
	}
	if file == "-" {
		return input.ReadColumn(stdin, column)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()
	return input.ReadColumn(f, column)
}
