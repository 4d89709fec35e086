// Package alerts evaluates threshold rules against reliability results and
// delivers webhook notifications (Slack, Teams, generic HTTP) when a line's
// rule starts or stops firing. Alerts are keyed by rule name and line, so the
// same rule tracks each production line independently.
package alerts
