//go:build debug

package debug

import "fmt"

// Enabled reports whether checks are compiled in. Checks whose arguments are
// expensive to compute belong inside `if debug.Enabled {...}`.
const Enabled = true

func Assert(b bool, message string) {
	if !b {
		panic("assertion failed: " + message)
	}
}

func Assertf(b bool, format string, args ...any) {
	if !b {
		panic("assertion failed: " + fmt.Sprintf(format, args...))
	}
}
