//go:build !windows
// +build !windows

package colors

// EnableColor enables ANSI coloring. Non-windows systems are known to support ANSI escape codes.
func EnableColor() {
	enabled = true
}
