// Package api implements the HTTP REST API for linecalc-server.
//
// New(svc, alerts) returns an http.Handler that serves:
//
//	GET  /api/v1/health               liveness and stored result count
//	POST /api/v1/reliability          series reliability ({components, unit})
//	GET  /api/v1/reliability/default  reliability of the configured line
//	POST /api/v1/eoq                  economic order quantity (+ cost curve)
//	POST /api/v1/stats                descriptive statistics (JSON or text/csv)
//	POST /api/v1/simulate             exponential Monte-Carlo demo
//	GET  /api/v1/results[?kind=]      recent results, newest first
//	GET  /api/v1/results/{id}         single result; 404 if unknown or expired
//	GET  /api/v1/alerts               firing and recently resolved risk alerts
//	GET  /api/v1/config/risk          active risk thresholds
//
// Calculations run through Service, which the WebSocket hub shares. Errors
// are returned as {"error": "...", "kind": "..."} with status 400 for
// validation and parse errors, 422 for domain errors and 500 otherwise.
//
// Request bodies are decoded strictly (unknown fields rejected) and checked
// with go-playground/validator struct tags. No external HTTP framework is used.
package api
