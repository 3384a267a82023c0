package colors

import "fmt"

// ColorFunc is an alias type for a coloring function that accepts anything and returns a colorized string
type ColorFunc = func(s any) string

// Reset is a ColorFunc that simply returns the input as a string. It is used to reset the color context of a log
// message.
func Reset(s any) string {
	return fmt.Sprintf("%v", s)
}

// paint returns a ColorFunc applying every provided code, innermost first.
func paint(codes ...Color) ColorFunc {
	return func(s any) string {
		out := fmt.Sprintf("%v", s)
		for _, c := range codes {
			out = Colorize(out, c)
		}
		return out
	}
}

// ColorFunc values used for console output. The Bold variants are used for log levels.
var (
	Red        = paint(RED)
	RedBold    = paint(RED, BOLD)
	Green      = paint(GREEN)
	GreenBold  = paint(GREEN, BOLD)
	Yellow     = paint(YELLOW)
	YellowBold = paint(YELLOW, BOLD)
	BlueBold   = paint(BLUE, BOLD)
	Magenta    = paint(MAGENTA)
	Cyan       = paint(CYAN)
	CyanBold   = paint(CYAN, BOLD)
	Bold       = paint(BOLD)
	DarkGray   = paint(DARK_GRAY)
)
