// Package store keeps recently computed results in memory so clients can
// fetch them again by ID and the WebSocket hub can broadcast them.
// It is a thread-safe map with TTL eviction; nothing is written to disk.
// The calculators never read from it.
package store
