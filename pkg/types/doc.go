// Package types defines the input shapes shared by the calculators, the HTTP
// server and the CLI. They are the canonical in-memory representations of a
// production line and an inventory order policy, separate from any JSON
// request format.
package types
