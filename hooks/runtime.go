package hooks

import (
	"os"

	"github.com/crytic/concolic/archive"
	"github.com/crytic/concolic/config"
	"github.com/crytic/concolic/interpreter"
	"github.com/crytic/concolic/logging"
	"github.com/crytic/concolic/logging/colors"
	"github.com/crytic/concolic/symbolic"
	"github.com/crytic/concolic/tracing"
	"github.com/crytic/concolic/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Runtime adapts the callbacks of an instrumented program to an Interpreter. It converts raw opcodes into interpreter
// operators, narrows declared inputs to their C types, and skips stack and memory tracking until the first symbolic
// input is declared. When the program exits, Finish writes out the recorded execution.
//
// A Runtime is driven by a single goroutine, like the Interpreter it wraps.
type Runtime struct {
	// projectConfig describes the configuration the Runtime was created with.
	projectConfig *config.ProjectConfig

	// si describes the Interpreter recording the run.
	si *interpreter.Interpreter

	// logger describes the Runtime's logger.
	logger *logging.Logger

	// preSymbolic indicates that no symbolic input was declared yet. Until one is, only branches, calls and returns
	// are recorded.
	preSymbolic bool

	// tracer describes the interpreter tracer, if tracing is enabled.
	tracer *tracing.Tracer

	// stateLogFile describes the file state snapshots are appended to, if configured.
	stateLogFile *os.File

	// stateLogWriter describes the writer rendering state snapshots into stateLogFile, if configured.
	stateLogWriter *tracing.StateLogWriter

	// finished indicates that Finish was called.
	finished bool

	// aborted indicates that a contract violation was raised, which invalidates the recorded execution.
	aborted bool

	// archiveID describes the id the execution was archived under by Finish, if an archive is configured.
	archiveID uuid.UUID
}

// NewRuntime creates a Runtime for the provided configuration, seeding the Interpreter with the configured input
// file.
// Returns the Runtime, or an error if the configuration is invalid or the input file is malformed.
func NewRuntime(projectConfig *config.ProjectConfig) (*Runtime, error) {
	if err := projectConfig.Validate(); err != nil {
		return nil, err
	}

	seed, err := ReadInputFile(projectConfig.Runtime.InputFile)
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		projectConfig: projectConfig,
		si:            interpreter.NewInterpreter(seed),
		logger:        logging.GlobalLogger.NewSubLogger("module", logging.RUNTIME_SERVICE),
		preSymbolic:   projectConfig.Runtime.GateUntilFirstInput,
	}
	r.logger.Debug("Seeded the run with ", len(seed), " inputs from ", projectConfig.Runtime.InputFile)

	// Attach the tracer
	if projectConfig.Tracing.Enabled {
		var tail *logging.TailWriter
		if projectConfig.Tracing.TailLength > 0 {
			tail = logging.NewTailWriter(projectConfig.Tracing.TailLength)
		}
		r.tracer = tracing.NewTracer(logging.GlobalLogger, projectConfig.Tracing.IncludeStack, tail)
		r.tracer.Attach(r.si)
	}

	// Attach the state log
	if projectConfig.Runtime.StateLogFile != "" {
		r.stateLogFile, err = utils.OpenAppendFile(projectConfig.Runtime.StateLogFile)
		if err != nil {
			return nil, err
		}
		r.stateLogWriter = tracing.NewStateLogWriter(r.stateLogFile)
		r.stateLogWriter.Attach(r.si)
	}

	return r, nil
}

// Interpreter returns the Interpreter recording the run.
func (r *Runtime) Interpreter() *interpreter.Interpreter {
	return r.si
}

// PreSymbolic indicates whether stack and memory operations are still being skipped because no symbolic input was
// declared yet.
func (r *Runtime) PreSymbolic() bool {
	return r.preSymbolic
}

// TraceTail returns the most recently traced operations, oldest first, or nil if none are retained.
func (r *Runtime) TraceTail() []string {
	if r.tracer == nil {
		return nil
	}
	return r.tracer.Tail()
}

// ArchiveID returns the id Finish archived the execution under, or uuid.Nil if it was not archived.
func (r *Runtime) ArchiveID() uuid.UUID {
	return r.archiveID
}

// Load reports a load of value from addr.
func (r *Runtime) Load(id symbolic.SiteID, addr symbolic.Addr, value symbolic.Value) {
	if !r.preSymbolic {
		r.si.Load(id, addr, value)
	}
}

// Store reports a store of the top stack value to addr.
func (r *Runtime) Store(id symbolic.SiteID, addr symbolic.Addr) {
	if !r.preSymbolic {
		r.si.Store(id, addr)
	}
}

// ClearStack reports that the evaluation stack was discarded.
func (r *Runtime) ClearStack(id symbolic.SiteID) {
	if !r.preSymbolic {
		r.si.ClearStack(id)
	}
}

// Apply1 reports a unary operation, whose result is value. Opcodes outside NEGATE..L_NOT are contract violations.
func (r *Runtime) Apply1(id symbolic.SiteID, op Opcode, value symbolic.Value) {
	if !op.Unary() {
		panic(&interpreter.ContractViolation{Op: string(interpreter.OperationUnary), Site: id, Msg: "invalid unary opcode " + op.String()})
	}
	if !r.preSymbolic {
		r.si.ApplyUnaryOp(id, unaryOps[op], value)
	}
}

// Apply2 reports a binary or comparison operation, whose result is value. Opcodes outside ADD..CONCRETE are contract
// violations. CONCRETE marks an operation the instrumentation cannot describe, which produces a concrete result.
func (r *Runtime) Apply2(id symbolic.SiteID, op Opcode, value symbolic.Value) {
	if !op.Binary() {
		panic(&interpreter.ContractViolation{Op: string(interpreter.OperationBinary), Site: id, Msg: "invalid binary opcode " + op.String()})
	}
	if r.preSymbolic {
		return
	}

	if compareOp, ok := compareOps[op]; ok {
		r.si.ApplyCompareOp(id, compareOp, value)
	} else {
		r.si.ApplyBinaryOp(id, binaryOps[op], value)
	}
}

// Branch reports that branch bid was reached, with taken indicating whether its condition held. Before the first
// symbolic input, the branch is preceded by a concrete load of its condition so the stack discipline holds.
func (r *Runtime) Branch(id symbolic.SiteID, bid symbolic.BranchID, taken bool) {
	if r.preSymbolic {
		var value symbolic.Value
		if taken {
			value = 1
		}
		r.si.Load(id, 0, value)
	}
	r.si.Branch(id, bid, taken)
}

// Call reports a call into the function fid.
func (r *Runtime) Call(id symbolic.SiteID, fid symbolic.FunctionID) {
	r.si.Call(id, fid)
}

// Return reports a return from the current function.
func (r *Runtime) Return(id symbolic.SiteID) {
	r.si.Return(id)
}

// HandleReturn reports that a call returned value to the caller.
func (r *Runtime) HandleReturn(id symbolic.SiteID, value symbolic.Value) {
	if !r.preSymbolic {
		r.si.HandleReturn(id, value)
	}
}

// UChar declares a symbolic unsigned char input at addr, returning the value the program should use.
func (r *Runtime) UChar(addr symbolic.Addr) uint8 {
	return uint8(r.newInput(symbolic.InputTypeUChar, addr, nil))
}

// Char declares a symbolic signed char input at addr, returning the value the program should use.
func (r *Runtime) Char(addr symbolic.Addr) int8 {
	return int8(r.newInput(symbolic.InputTypeChar, addr, nil))
}

// UShort declares a symbolic unsigned short input at addr, returning the value the program should use.
func (r *Runtime) UShort(addr symbolic.Addr) uint16 {
	return uint16(r.newInput(symbolic.InputTypeUShort, addr, nil))
}

// Short declares a symbolic short input at addr, returning the value the program should use.
func (r *Runtime) Short(addr symbolic.Addr) int16 {
	return int16(r.newInput(symbolic.InputTypeShort, addr, nil))
}

// UInt declares a symbolic unsigned int input at addr, returning the value the program should use.
func (r *Runtime) UInt(addr symbolic.Addr) uint32 {
	return uint32(r.newInput(symbolic.InputTypeUInt, addr, nil))
}

// Int declares a symbolic int input at addr, returning the value the program should use.
func (r *Runtime) Int(addr symbolic.Addr) int32 {
	return int32(r.newInput(symbolic.InputTypeInt, addr, nil))
}

// UCharValue behaves like UChar, except that an input not covered by the seed takes the provided value.
func (r *Runtime) UCharValue(addr symbolic.Addr, value uint8) uint8 {
	v := symbolic.Value(value)
	return uint8(r.newInput(symbolic.InputTypeUChar, addr, &v))
}

// CharValue behaves like Char, except that an input not covered by the seed takes the provided value.
func (r *Runtime) CharValue(addr symbolic.Addr, value int8) int8 {
	v := symbolic.Value(value)
	return int8(r.newInput(symbolic.InputTypeChar, addr, &v))
}

// UShortValue behaves like UShort, except that an input not covered by the seed takes the provided value.
func (r *Runtime) UShortValue(addr symbolic.Addr, value uint16) uint16 {
	v := symbolic.Value(value)
	return uint16(r.newInput(symbolic.InputTypeUShort, addr, &v))
}

// ShortValue behaves like Short, except that an input not covered by the seed takes the provided value.
func (r *Runtime) ShortValue(addr symbolic.Addr, value int16) int16 {
	v := symbolic.Value(value)
	return int16(r.newInput(symbolic.InputTypeShort, addr, &v))
}

// UIntValue behaves like UInt, except that an input not covered by the seed takes the provided value.
func (r *Runtime) UIntValue(addr symbolic.Addr, value uint32) uint32 {
	v := symbolic.Value(value)
	return uint32(r.newInput(symbolic.InputTypeUInt, addr, &v))
}

// IntValue behaves like Int, except that an input not covered by the seed takes the provided value.
func (r *Runtime) IntValue(addr symbolic.Addr, value int32) int32 {
	v := symbolic.Value(value)
	return int32(r.newInput(symbolic.InputTypeInt, addr, &v))
}

// NewInput declares a symbolic input of type t at addr, returning the value the program should use, narrowed to t.
// If value is non-nil, an input not covered by the seed takes it instead of zero.
func (r *Runtime) NewInput(t symbolic.InputType, addr symbolic.Addr, value *symbolic.Value) symbolic.Value {
	return r.newInput(t, addr, value)
}

func (r *Runtime) newInput(t symbolic.InputType, addr symbolic.Addr, value *symbolic.Value) symbolic.Value {
	r.preSymbolic = false

	var v symbolic.Value
	if value == nil {
		v = r.si.NewInput(t, addr)
	} else {
		v = r.si.NewInputValue(t, addr, *value)
	}
	return t.Truncate(v)
}

// VarMap registers naming information for the variable at addr. An empty trigger defaults to
// interpreter.DefaultTrigger.
func (r *Runtime) VarMap(addr symbolic.Addr, name string, typ int, trigger string) {
	r.si.CreateVarMap(addr, name, typ, trigger)
}

// LogState takes a snapshot of the named variables at the provided location, writing it to the state log if one is
// configured.
func (r *Runtime) LogState(location int) interpreter.StateSnapshot {
	return r.si.LogState(location)
}

// LogPathCondition logs the current path condition at the provided location, writing it to the state log if one is
// configured.
func (r *Runtime) LogPathCondition(location int) []*symbolic.Pred {
	return r.si.LogPathCondition(location)
}

// GetTimeStamp advances and returns the state sequence number.
func (r *Runtime) GetTimeStamp() int {
	return r.si.NextStateID()
}

// Guard invokes f, converting a contract violation raised by f into an error. Once a violation was raised, the
// recorded execution is discarded: Finish will refuse to write it. Any other panic is propagated.
func (r *Runtime) Guard(f func()) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			violation, ok := recovered.(*interpreter.ContractViolation)
			if !ok {
				panic(recovered)
			}
			r.aborted = true
			err = errors.WithStack(violation)
		}
	}()
	f()
	return nil
}

// Finish serializes the recorded execution to the configured execution file and, if configured, stores it in the
// run archive. Only the first call has any effect.
// Returns an error if the run was aborted by a contract violation, or if the execution could not be written.
func (r *Runtime) Finish() error {
	if r.finished {
		return nil
	}
	r.finished = true
	defer r.Close()

	if r.aborted {
		return errors.Errorf("run was aborted by a contract violation, discarding the execution")
	}
	if r.stateLogWriter != nil && r.stateLogWriter.Err() != nil {
		r.logger.Warn("Failed to write the state log", r.stateLogWriter.Err())
	}

	ex := r.si.Execution()
	if err := symbolic.WriteExecutionFile(r.projectConfig.Runtime.ExecutionFile, ex); err != nil {
		return err
	}
	r.logger.Info("Execution with ", colors.Bold, ex.NumInputs(), colors.Reset, " inputs and ",
		colors.Bold, len(ex.Path().Constraints()), colors.Reset, " constraints written to ",
		colors.Bold, r.projectConfig.Runtime.ExecutionFile, colors.Reset)

	if r.projectConfig.Runtime.ArchivePath == "" {
		return nil
	}
	a, err := archive.Open(r.projectConfig.Runtime.ArchivePath)
	if err != nil {
		return err
	}
	defer a.Close()

	id, isNew, err := a.Put(ex)
	if err != nil {
		return err
	}
	r.archiveID = id
	if isNew {
		r.logger.Info("Archived the execution as ", colors.Bold, id, colors.Reset)
	} else {
		r.logger.Info("Execution path was already archived as ", colors.Bold, id, colors.Reset)
	}
	return nil
}

// Close releases the files held by the Runtime without writing out the execution.
func (r *Runtime) Close() error {
	if r.stateLogFile == nil {
		return nil
	}
	err := r.stateLogFile.Close()
	r.stateLogFile = nil
	return errors.WithStack(err)
}
