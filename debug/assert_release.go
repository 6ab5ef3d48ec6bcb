//go:build !debug

// Package debug provides invariant checks for builds with the debug tag. In
// release builds they compile to nothing.
//
// The loader has no supervisor to report to, so broken invariants in a debug
// build stop the machine right where they are detected.
package debug

// Enabled reports whether checks are compiled in. Checks whose arguments are
// expensive to compute belong inside `if debug.Enabled {...}`.
const Enabled = false

// Assert panics with message if b is false.
func Assert(b bool, message string) {}

// Assertf panics with a formatted message if b is false. The arguments are
// only formatted if the check fails.
func Assertf(b bool, format string, args ...any) {}
