// Package input converts raw user entries into the decimal, validated values
// the calculators in package compute expect.
//
// Probability accepts either a percentage (0–100) or a decimal (0–1) and
// always returns a decimal. ParseList reads a manual comma-separated entry
// such as "70, 75, 80". ReadColumn reads one numeric column from a CSV
// upload with a header row.
//
// Failures are *compute.ValidationError (value out of range) or
// *compute.ParseError (token is not a number); the ParseError names the
// offending token.
package input
