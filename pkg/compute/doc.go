// Package compute holds the pure calculators behind the dashboards.
//
// reliability.go multiplies component reliabilities of a series production
// line, flags the weakest link (first index wins on ties) and classifies the
// failure probability into low / medium / high risk using RiskThresholds
// (defaults 5% and 10%; a value equal to a threshold falls in the lower tier).
//
// eoq.go implements the Economic Order Quantity model sqrt(2DS/H) with its
// ordering, holding and total costs plus a chart-ready cost curve.
//
// stats.go summarises a numeric sample: mean, median, lowest-value mode,
// sample variance (N-1), standard deviation, boxplot quartiles and an
// equal-width histogram.
//
// simulate.go runs a seeded Monte-Carlo draw from the exponential
// time-to-failure distribution.
//
// Every function is stateless and free of I/O. Bad input surfaces as a
// *ValidationError, *ParseError or *DomainError; no result ever carries NaN
// or ±Inf.
package compute
