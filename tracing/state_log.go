package tracing

import (
	"fmt"
	"io"

	"github.com/crytic/concolic/interpreter"
	"github.com/crytic/concolic/symbolic"
	"github.com/pkg/errors"
)

// StateLogWriter renders state snapshots and path conditions logged by an Interpreter as text blocks:
//
//	Location(State): 17, 0
//	4096<x>: x0 + 1 {true}
//	4104<flag>: concrete {true}
//	END
//
//	Location(PC): 18
//	(x0 - 10 < 0)
//	END
type StateLogWriter struct {
	// out describes where blocks are written to.
	out io.Writer

	// err describes the first error encountered while writing blocks from event handlers.
	err error
}

// NewStateLogWriter creates a StateLogWriter writing to out.
func NewStateLogWriter(out io.Writer) *StateLogWriter {
	return &StateLogWriter{out: out}
}

// Attach subscribes the StateLogWriter to the provided Interpreter's state and path condition logging events. Write
// errors are retained and reported by Err.
func (w *StateLogWriter) Attach(si *interpreter.Interpreter) {
	si.Events.StateLogged.Subscribe(func(event interpreter.StateLoggedEvent) {
		if err := w.WriteSnapshot(event.Snapshot); err != nil && w.err == nil {
			w.err = err
		}
	})
	si.Events.PathConditionLogged.Subscribe(func(event interpreter.PathConditionLoggedEvent) {
		if err := w.WritePathCondition(event.Location, event.Constraints); err != nil && w.err == nil {
			w.err = err
		}
	})
}

// Err returns the first error encountered while writing blocks for attached Interpreter events.
func (w *StateLogWriter) Err() error {
	return w.err
}

// WriteSnapshot writes a single state snapshot block.
func (w *StateLogWriter) WriteSnapshot(snapshot interpreter.StateSnapshot) error {
	if _, err := fmt.Fprintf(w.out, "\nLocation(State): %d, %d\n", snapshot.Location, snapshot.StateID); err != nil {
		return errors.WithStack(err)
	}
	for _, v := range snapshot.Vars {
		value := "concrete"
		if v.Expr != nil {
			value = v.Expr.String()
		}
		if _, err := fmt.Fprintf(w.out, "%d<%s>: %s {%s}\n", v.Addr, v.Name, value, v.Trigger); err != nil {
			return errors.WithStack(err)
		}
	}
	_, err := io.WriteString(w.out, "END\n")
	return errors.WithStack(err)
}

// WritePathCondition writes a single path condition block.
func (w *StateLogWriter) WritePathCondition(location int, constraints []*symbolic.Pred) error {
	if _, err := fmt.Fprintf(w.out, "\nLocation(PC): %d\n", location); err != nil {
		return errors.WithStack(err)
	}
	for _, pred := range constraints {
		if _, err := fmt.Fprintln(w.out, pred.String()); err != nil {
			return errors.WithStack(err)
		}
	}
	_, err := io.WriteString(w.out, "END\n")
	return errors.WithStack(err)
}
