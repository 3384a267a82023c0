package tracing

import (
	"bytes"
	"testing"

	"github.com/crytic/concolic/interpreter"
	"github.com/crytic/concolic/logging"
	"github.com/crytic/concolic/symbolic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddr symbolic.Addr = 0x1000

// runScenario drives the provided Interpreter through a single symbolic branch 'x0 < 10' with x0 = 5.
func runScenario(si *interpreter.Interpreter) {
	si.NewInputValue(symbolic.InputTypeInt, testAddr, 5)
	si.Load(1, testAddr, 5)
	si.Load(2, testAddr+8, 10)
	si.ApplyCompareOp(3, symbolic.CompareLT, 1)
	si.Branch(4, 7, true)
}

// TestTracerLogsOperations verifies that the Tracer logs and retains every interpreter operation.
func TestTracerLogsOperations(t *testing.T) {
	logger := logging.NewLogger(zerolog.TraceLevel)
	var out bytes.Buffer
	logger.AddWriter(&out, logging.UNSTRUCTURED, false)

	tail := logging.NewTailWriter(3)
	tracer := NewTracer(logger, true, tail)
	si := interpreter.NewInterpreter(nil)
	tracer.Attach(si)
	runScenario(si)

	log := out.String()
	assert.Contains(t, log, "x0 declared as int at 0x1000 = 5")
	assert.Contains(t, log, "[1] load addr=0x1000 value=5")
	assert.Contains(t, log, "[3] compare2 op=< value=1")
	assert.Contains(t, log, "pred: (x0 - 10 < 0)")
	assert.Contains(t, log, "branch 7 taken records (x0 - 10 < 0)")

	// Only the most recent operations are retained
	lines := tracer.Tail()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "branch 7 taken")
	assert.Contains(t, lines[2], "[4] branch value=1")
}

// TestTracerDoesNotAffectExecution verifies that a traced run records the same execution as an untraced one.
func TestTracerDoesNotAffectExecution(t *testing.T) {
	plain := interpreter.NewInterpreter(nil)
	runScenario(plain)

	traced := interpreter.NewInterpreter(nil)
	NewTracer(logging.NewLogger(zerolog.Disabled), true, nil).Attach(traced)
	runScenario(traced)

	assert.True(t, plain.Execution().Equal(traced.Execution()))
}

// TestStateLogWriter verifies the textual rendering of state snapshots and path conditions.
func TestStateLogWriter(t *testing.T) {
	var out bytes.Buffer
	writer := NewStateLogWriter(&out)
	si := interpreter.NewInterpreter(nil)
	writer.Attach(si)

	runScenario(si)
	si.CreateVarMap(testAddr, "x", 'i', "")
	si.CreateVarMap(testAddr+8, "bound", 'i', "x < bound")
	si.LogState(17)
	si.LogPathCondition(18)
	require.NoError(t, writer.Err())

	expected := "\nLocation(State): 17, 0\n" +
		"4096<x>: x0 {true}\n" +
		"4104<bound>: concrete {x < bound}\n" +
		"END\n" +
		"\nLocation(PC): 18\n" +
		"(x0 - 10 < 0)\n" +
		"END\n"
	assert.Equal(t, expected, out.String())
}
