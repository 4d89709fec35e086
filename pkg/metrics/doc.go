// Package metrics exposes calculator activity and the latest line
// reliability in the Prometheus exposition format.
//
// Recorder wraps a private prometheus.Registry with:
//
//	linecalc_calculations_total{kind,outcome}
//	linecalc_calculation_duration_seconds{kind}
//	linecalc_system_reliability{line}
//	linecalc_failure_probability{line}
//
// WriteResult renders a single reliability result as text exposition so the
// CLI can feed node_exporter's textfile collector without running a server.
package metrics
