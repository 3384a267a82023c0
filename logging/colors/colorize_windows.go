//go:build windows
// +build windows

package colors

import (
	"os"

	"golang.org/x/sys/windows"
)

// EnableColor will query the console mode of stdout and enable ANSI coloring if virtual terminal processing is
// supported, or can be turned on.
func EnableColor() {
	handle := windows.Handle(os.Stdout.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		enabled = false
		return
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		enabled = true
		return
	}
	enabled = windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
