// Package ws implements the WebSocket hub for linecalc-server.
//
// Hub manages a set of connected clients. On connect a client receives the
// configured line's reliability; afterwards every interval (default 5s) all
// clients receive a snapshot of that line plus the most recent results.
// Clients may also send calculation requests, which run through the same
// api.Service as the REST API and are answered only to the sender.
//
// Messages sent to clients:
//
//	{"event": "line",     "kind": "reliability", "data": {ReliabilityResponse}}
//	{"event": "snapshot", "data": {"line": {...}, "results": [...], "generated_at": "..."}}
//	{"event": "result",   "ref": "r1", "kind": "eoq", "data": {EOQResponse}}
//	{"event": "error",    "ref": "r1", "kind": "eoq", "error": {"message": "...", "kind": "domain"}}
//
// Requests sent by clients:
//
//	{"ref": "r1", "kind": "reliability"|"eoq"|"stats"|"simulate", "input": {...}}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The hub is mounted at /ws/stream by the server.
package ws
