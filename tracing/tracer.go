package tracing

import (
	"fmt"

	"github.com/crytic/concolic/interpreter"
	"github.com/crytic/concolic/logging"
	"github.com/crytic/concolic/logging/colors"
)

// Tracer logs every operation applied by an Interpreter. It only observes interpreter events, so attaching it never
// changes the recorded execution.
type Tracer struct {
	// logger describes the Tracer's logger. Operations are logged at trace level.
	logger *logging.Logger

	// includeStack indicates whether each traced operation is followed by a dump of the shadow stack and symbolic
	// memory.
	includeStack bool

	// tail optionally retains the most recent traced operations regardless of the logger's level.
	tail *logging.TailWriter
}

// NewTracer creates a Tracer logging to a sub-logger of the provided logger. If tail is non-nil, every traced
// operation is also written to it.
func NewTracer(logger *logging.Logger, includeStack bool, tail *logging.TailWriter) *Tracer {
	return &Tracer{
		logger:       logger.NewSubLogger("module", logging.TRACING_SERVICE),
		includeStack: includeStack,
		tail:         tail,
	}
}

// Attach subscribes the Tracer to the provided Interpreter's events.
func (t *Tracer) Attach(si *interpreter.Interpreter) {
	si.Events.OperationApplied.Subscribe(t.onOperationApplied)
	si.Events.BranchRecorded.Subscribe(t.onBranchRecorded)
	si.Events.InputDeclared.Subscribe(t.onInputDeclared)
}

// Tail returns the retained trace lines, oldest first, or nil if the Tracer retains none.
func (t *Tracer) Tail() []string {
	if t.tail == nil {
		return nil
	}
	return t.tail.Lines()
}

func (t *Tracer) onOperationApplied(event interpreter.OperationAppliedEvent) {
	buffer := logging.NewLogBuffer()
	buffer.Append(colors.Cyan, fmt.Sprintf("[%d] ", event.Site), colors.Bold, string(event.Operation), colors.Reset)
	switch event.Operation {
	case interpreter.OperationLoad:
		buffer.Append(fmt.Sprintf(" addr=%#x value=%d", event.Addr, event.Value))
	case interpreter.OperationStore:
		buffer.Append(fmt.Sprintf(" addr=%#x value=%d", event.Addr, event.Value))
	case interpreter.OperationUnary, interpreter.OperationBinary, interpreter.OperationCompare:
		buffer.Append(fmt.Sprintf(" op=%s value=%d", event.Operator, event.Value))
	case interpreter.OperationCall:
		buffer.Append(fmt.Sprintf(" fn=%d", event.Value))
	case interpreter.OperationHandleReturn, interpreter.OperationBranch:
		buffer.Append(fmt.Sprintf(" value=%d", event.Value))
	}

	if t.includeStack {
		appendState(buffer, event.Interpreter)
	}
	t.emit(buffer)
}

func (t *Tracer) onBranchRecorded(event interpreter.BranchRecordedEvent) {
	buffer := logging.NewLogBuffer()
	buffer.Append(colors.Cyan, fmt.Sprintf("[%d] ", event.Site), colors.Reset, "branch ", event.Branch)
	if event.Taken {
		buffer.Append(colors.Green, " taken", colors.Reset)
	} else {
		buffer.Append(colors.Yellow, " not taken", colors.Reset)
	}
	if event.Pred != nil {
		buffer.Append(" records ", colors.Magenta, event.Pred.String(), colors.Reset)
	}
	t.emit(buffer)
}

func (t *Tracer) onInputDeclared(event interpreter.InputDeclaredEvent) {
	buffer := logging.NewLogBuffer()
	buffer.Append(colors.Bold, fmt.Sprintf("x%d", event.Var), colors.Reset,
		fmt.Sprintf(" declared as %s at %#x = %d", event.Type, event.Addr, event.Value))
	if event.Replayed {
		buffer.Append(" (replayed)")
	}
	t.emit(buffer)
}

// emit logs the buffer and retains it in the tail, if any.
func (t *Tracer) emit(buffer *logging.LogBuffer) {
	t.logger.Trace(buffer)
	if t.tail != nil {
		_, _ = t.tail.Write([]byte(buffer.String()))
	}
}

// appendState appends a dump of the shadow stack and symbolic memory of the provided Interpreter to the buffer.
func appendState(buffer *logging.LogBuffer, si *interpreter.Interpreter) {
	for i, sv := range si.Stack() {
		buffer.Append(colors.DarkGray, fmt.Sprintf("\n  s%d: %d", i, sv.Concrete), colors.Reset)
		if sv.Expr != nil {
			buffer.Append(" [", sv.Expr.String(), "]")
		}
	}
	for _, mv := range si.Memory() {
		buffer.Append(colors.DarkGray, fmt.Sprintf("\n  m%#x", mv.Addr), colors.Reset, ": ", mv.Expr.String())
	}
	if pred := si.PendingPredicate(); pred != nil {
		buffer.Append(colors.DarkGray, "\n  pred", colors.Reset, ": ", pred.String())
	}
}
