package interpreter

import (
	"github.com/crytic/concolic/events"
	"github.com/crytic/concolic/symbolic"
)

// InterpreterEvents defines event emitters for an Interpreter. Subscribers form an optional tracing sink: the
// Interpreter's computed state is identical whether or not anything is subscribed. Subscribers must not mutate any
// state they receive.
type InterpreterEvents struct {
	// OperationApplied emits events after every shadow stack/memory operation has been applied.
	OperationApplied events.EventEmitter[OperationAppliedEvent]

	// BranchRecorded emits events after a branch has been appended to the execution's path.
	BranchRecorded events.EventEmitter[BranchRecordedEvent]

	// InputDeclared emits events after a new symbolic input variable has been declared.
	InputDeclared events.EventEmitter[InputDeclaredEvent]

	// StateLogged emits events when a snapshot of the named variables is taken.
	StateLogged events.EventEmitter[StateLoggedEvent]

	// PathConditionLogged emits events when the current path condition is logged.
	PathConditionLogged events.EventEmitter[PathConditionLoggedEvent]
}

// Operation describes the kind of interpreter operation an OperationAppliedEvent refers to.
type Operation string

const (
	// OperationClearStack refers to Interpreter.ClearStack.
	OperationClearStack Operation = "clear"
	// OperationLoad refers to Interpreter.Load.
	OperationLoad Operation = "load"
	// OperationStore refers to Interpreter.Store.
	OperationStore Operation = "store"
	// OperationUnary refers to Interpreter.ApplyUnaryOp.
	OperationUnary Operation = "apply1"
	// OperationBinary refers to Interpreter.ApplyBinaryOp.
	OperationBinary Operation = "apply2"
	// OperationCompare refers to Interpreter.ApplyCompareOp.
	OperationCompare Operation = "compare2"
	// OperationCall refers to Interpreter.Call.
	OperationCall Operation = "call"
	// OperationReturn refers to Interpreter.Return.
	OperationReturn Operation = "return"
	// OperationHandleReturn refers to Interpreter.HandleReturn.
	OperationHandleReturn Operation = "handle_return"
	// OperationBranch refers to Interpreter.Branch.
	OperationBranch Operation = "branch"
)

// OperationAppliedEvent describes an event where the Interpreter applied an operation.
type OperationAppliedEvent struct {
	// Interpreter represents the instance of the Interpreter for which the event occurred.
	Interpreter *Interpreter

	// Operation describes the applied operation.
	Operation Operation

	// Site describes the instrumented operation site.
	Site symbolic.SiteID

	// Addr describes the memory address the operation referred to, if any.
	Addr symbolic.Addr

	// Value describes the concrete value provided with the operation, if any.
	Value symbolic.Value

	// Operator describes the textual operator of unary, binary and compare operations.
	Operator string
}

// BranchRecordedEvent describes an event where the Interpreter appended a branch to the path.
type BranchRecordedEvent struct {
	// Interpreter represents the instance of the Interpreter for which the event occurred.
	Interpreter *Interpreter

	// Site describes the instrumented operation site.
	Site symbolic.SiteID

	// Branch describes the reached branch.
	Branch symbolic.BranchID

	// Taken describes whether the branch condition was true.
	Taken bool

	// Pred describes the recorded predicate, or nil if the branch condition was concrete.
	Pred *symbolic.Pred
}

// InputDeclaredEvent describes an event where a new symbolic input variable was declared.
type InputDeclaredEvent struct {
	// Interpreter represents the instance of the Interpreter for which the event occurred.
	Interpreter *Interpreter

	// Var describes the id assigned to the input variable.
	Var symbolic.VarID

	// Type describes the declared type of the input variable.
	Type symbolic.InputType

	// Addr describes the memory address the input was written to.
	Addr symbolic.Addr

	// Value describes the concrete value returned for the input.
	Value symbolic.Value

	// Replayed indicates whether the value came from the seeded input vector of a previous run.
	Replayed bool
}

// StateLoggedEvent describes an event where a snapshot of the named variables was taken.
type StateLoggedEvent struct {
	// Snapshot describes the taken snapshot.
	Snapshot StateSnapshot
}

// PathConditionLoggedEvent describes an event where the current path condition was logged.
type PathConditionLoggedEvent struct {
	// Location describes the program location the path condition was logged at.
	Location int

	// Constraints describes the predicates of every symbolic branch taken so far, in order.
	Constraints []*symbolic.Pred
}
