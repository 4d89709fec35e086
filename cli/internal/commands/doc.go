// Package commands implements the linecalc command line.
//
//	linecalc reliability [--component Name=0.98 ...] [--unit percent] [--low 0.05 --high 0.10]
//	linecalc eoq --demand D --order-cost S --holding-cost H [--curve-points N]
//	linecalc stats --data "70,75,80" | --file data.csv [--column x] [--bins N]
//	linecalc simulate --rate λ [--n 1000] [--seed 1]
//
// Every subcommand accepts --output table|json; reliability also accepts
// prom, which writes Prometheus text exposition for a textfile collector.
// Without --component, reliability uses the built-in Nusantara Motor line.
package commands
