package colors

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// enabled indicates whether Colorize emits ANSI escape codes.
var enabled bool

func init() {
	EnableColor()
}

// DisableColor disables ANSI coloring for every ColorFunc until EnableColor is called again.
func DisableColor() {
	enabled = false
}

// Enabled returns whether ANSI coloring is currently enabled.
func Enabled() bool {
	return enabled
}

// IsTerminal returns whether the provided file is attached to a terminal, in which case colored output is
// appropriate.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Colorize returns the string s wrapped in ANSI code c if coloring is enabled, and s as-is otherwise.
// Source: https://github.com/rs/zerolog/blob/4fff5db29c3403bc26dee9895e12a108aacc0203/console.go
func Colorize(s any, c Color) string {
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
