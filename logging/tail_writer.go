package logging

import (
	"io"
	"strings"
	"sync"
)

// TailWriter implements io.Writer and retains the most recent lines written to it in a circular buffer. It is used to
// keep the last traced interpreter operations around so they can be reported when a run is aborted.
type TailWriter struct {
	// lock guards every field below
	lock sync.Mutex

	// lines describes the circular buffer of retained lines
	lines []string

	// index describes the position the next line is written to
	index int

	// full indicates whether the buffer wrapped around at least once
	full bool
}

// NewTailWriter creates a TailWriter retaining up to capacity lines. A capacity below one retains a single line.
func NewTailWriter(capacity int) *TailWriter {
	if capacity < 1 {
		capacity = 1
	}
	return &TailWriter{
		lines: make([]string, capacity),
	}
}

// Write implements io.Writer. Every write is retained as a single line with its trailing newline removed.
func (w *TailWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.lines[w.index] = strings.TrimRight(string(p), "\n")
	w.index++
	if w.index == len(w.lines) {
		w.index = 0
		w.full = true
	}
	return len(p), nil
}

// Lines returns the retained lines, oldest first.
func (w *TailWriter) Lines() []string {
	w.lock.Lock()
	defer w.lock.Unlock()

	if !w.full {
		return append([]string(nil), w.lines[:w.index]...)
	}
	result := make([]string, 0, len(w.lines))
	result = append(result, w.lines[w.index:]...)
	return append(result, w.lines[:w.index]...)
}

// Len returns the number of retained lines.
func (w *TailWriter) Len() int {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.full {
		return len(w.lines)
	}
	return w.index
}

// WriteTo writes every retained line, oldest first, to out.
func (w *TailWriter) WriteTo(out io.Writer) (int64, error) {
	var total int64
	for _, line := range w.Lines() {
		n, err := io.WriteString(out, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
