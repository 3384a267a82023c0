package interpreter

import (
	"github.com/crytic/concolic/symbolic"
)

// Interpreter is the symbolic stack machine driven by an instrumented program. The program reports each dynamic
// load, store, operator application, call, return and branch, along with the concretely observed result, and the
// Interpreter maintains a symbolic shadow of every value while recording the path condition of the run into a
// symbolic.Execution.
//
// An Interpreter is driven synchronously, one operation at a time, and is not safe for concurrent use. Programs with
// multiple processes or threads must use one Interpreter per process or thread.
type Interpreter struct {
	// stack describes the shadow of the target program's evaluation stack.
	stack *shadowStack

	// mem describes the memory locations currently holding non-concrete values.
	mem *symbolicMemory

	// pred describes the predicate register. It holds the predicate produced by the last compare operation until
	// the following branch consumes it, and is nil otherwise.
	pred *symbolic.Pred

	// ex describes the execution being recorded.
	ex *symbolic.Execution

	// numInputs describes the number of symbolic inputs declared so far.
	numInputs uint32

	// returnValue indicates whether the last Return left the returning function's value on the stack.
	returnValue bool

	// names describes naming information of variables in the current stack frame.
	names *varNames

	// stateID describes the sequence number of the next state snapshot.
	stateID int

	// Events describes the event emitters the Interpreter publishes to.
	Events InterpreterEvents
}

// NewInterpreter returns an Interpreter recording a new execution. The concrete input vector is seeded with the
// provided values, typically read from a previous run, which are then returned for symbolic inputs in declaration
// order.
func NewInterpreter(seed []symbolic.Value) *Interpreter {
	return &Interpreter{
		stack: newShadowStack(),
		mem:   newSymbolicMemory(),
		ex:    symbolic.NewExecution(seed),
		names: newVarNames(),
	}
}

// Execution returns the execution recorded so far. It is owned by the Interpreter and must not be mutated.
func (si *Interpreter) Execution() *symbolic.Execution {
	return si.ex
}

// NumInputs returns the number of symbolic inputs declared so far.
func (si *Interpreter) NumInputs() int {
	return int(si.numInputs)
}

// ClearStack releases every stack element and clears the predicate register.
func (si *Interpreter) ClearStack(id symbolic.SiteID) {
	si.clearStack()
	si.publishOperation(OperationClearStack, id, 0, 0, "")
}

// Load pushes the value at addr. The pushed element is symbolic, holding a copy of the stored expression, if addr
// holds a symbolic value, and purely concrete otherwise.
func (si *Interpreter) Load(id symbolic.SiteID, addr symbolic.Addr, value symbolic.Value) {
	si.stack.push(value, si.mem.load(addr))
	si.clearPredicateRegister()
	si.publishOperation(OperationLoad, id, addr, value, "")
}

// Store pops the top stack element and writes it to addr, moving its expression into memory if it is symbolic.
func (si *Interpreter) Store(id symbolic.SiteID, addr symbolic.Addr) {
	se := si.stack.pop(string(OperationStore), id)
	si.mem.store(addr, se.expr)
	si.clearPredicateRegister()
	si.publishOperation(OperationStore, id, addr, se.concrete, "")
}

// ApplyUnaryOp applies op to the top stack element, whose concrete value becomes value. Negation is tracked
// symbolically. A logical not inverts the pending predicate, if any, since the top element is then the result of the
// comparison that produced it. Negating a concrete comparison result keeps the pending predicate, as the result
// stays nonzero exactly when it was. Every other operator degrades the element to concrete.
func (si *Interpreter) ApplyUnaryOp(id symbolic.SiteID, op symbolic.UnaryOp, value symbolic.Value) {
	se := si.stack.top(string(OperationUnary), id)

	switch {
	case op == symbolic.UnaryLogicalNot && si.pred != nil:
		// The predicate stays pending until the following branch.
		si.pred.Negate()
	case op == symbolic.UnaryNegate:
		if se.expr != nil {
			se.expr.Negate()
			si.clearPredicateRegister()
		}
	default:
		se.expr = nil
		si.clearPredicateRegister()
	}

	se.concrete = value
	si.publishOperation(OperationUnary, id, 0, value, op.String())
}

// ApplyBinaryOp pops the two top stack elements a (below) and b (top) and pushes the result of "a op b", whose
// concrete value is value. Addition, subtraction and multiplication are tracked symbolically as long as the result is
// linear. Every other operator, and any product of two symbolic operands, degrades the result to concrete.
func (si *Interpreter) ApplyBinaryOp(id symbolic.SiteID, op symbolic.BinaryOp, value symbolic.Value) {
	b := si.stack.pop(string(OperationBinary), id)
	a := si.stack.top(string(OperationBinary), id)

	if a.expr != nil || b.expr != nil {
		a.expr = combine(op, a, &b)
	}

	a.concrete = value
	si.clearPredicateRegister()
	si.publishOperation(OperationBinary, id, 0, value, op.String())
}

// ApplyCompareOp pops the two top stack elements a (below) and b (top) and pushes the concrete result value of
// "a op b". If "a - b" is symbolic, the predicate "a - b op 0" is placed in the predicate register, replacing any
// previous one.
func (si *Interpreter) ApplyCompareOp(id symbolic.SiteID, op symbolic.CompareOp, value symbolic.Value) {
	if !op.Valid() {
		violate(string(OperationCompare), id, "invalid comparison operator %d", uint8(op))
	}
	b := si.stack.pop(string(OperationCompare), id)
	a := si.stack.top(string(OperationCompare), id)

	var diff *symbolic.Expr
	if a.expr != nil || b.expr != nil {
		diff = combine(symbolic.BinarySubtract, a, &b)
	}
	if diff != nil {
		si.pred = symbolic.NewPred(op, diff)
	} else {
		si.clearPredicateRegister()
	}

	// The comparison result itself is always concrete.
	a.expr = nil
	a.concrete = value
	si.publishOperation(OperationCompare, id, 0, value, op.String())
}

// Call records a call into the function fid. Naming information is scoped to a stack frame and is cleared. A
// pending predicate cannot belong to a branch of the callee, so it is cleared as well.
func (si *Interpreter) Call(id symbolic.SiteID, fid symbolic.FunctionID) {
	si.ex.Path().PushCall(fid)
	si.names.reset()
	si.clearPredicateRegister()
	si.publishOperation(OperationCall, id, 0, symbolic.Value(fid), "")
}

// Return records a return from the current function. The stack holds either the function's return value or
// nothing, which HandleReturn later relies on.
func (si *Interpreter) Return(id symbolic.SiteID) {
	si.ex.Path().PushReturn()
	si.names.reset()

	if si.stack.len() > 1 {
		violate(string(OperationReturn), id, "expected at most 1 stack element, found %d", si.stack.len())
	}
	si.returnValue = si.stack.len() == 1
	si.publishOperation(OperationReturn, id, 0, 0, "")
}

// HandleReturn is invoked in the caller after a call returns with the concrete value returned. If the callee was
// instrumented, its (possibly symbolic) return value is already on the stack. Otherwise the stack still holds the
// callee's arguments, which are replaced by a single concrete element.
func (si *Interpreter) HandleReturn(id symbolic.SiteID, value symbolic.Value) {
	if si.returnValue {
		if si.stack.len() != 1 {
			violate(string(OperationHandleReturn), id, "expected exactly 1 stack element, found %d", si.stack.len())
		}
		si.returnValue = false
	} else {
		si.clearStack()
		si.stack.push(value, nil)
	}
	si.publishOperation(OperationHandleReturn, id, 0, value, "")
}

// Branch pops the branch condition, which must be the only element on the stack, and appends the reached branch to
// the path. A pending predicate is recorded as the condition which holds given the branch actually taken.
func (si *Interpreter) Branch(id symbolic.SiteID, bid symbolic.BranchID, taken bool) {
	if si.stack.len() != 1 {
		violate(string(OperationBranch), id, "expected exactly 1 stack element, found %d", si.stack.len())
	}
	si.stack.pop(string(OperationBranch), id)

	pred := si.pred
	si.pred = nil
	if pred != nil && !taken {
		pred.Negate()
	}
	si.ex.Path().Push(bid, pred)

	if si.Events.BranchRecorded.HasSubscribers() {
		si.Events.BranchRecorded.Publish(BranchRecordedEvent{
			Interpreter: si,
			Site:        id,
			Branch:      bid,
			Taken:       taken,
			Pred:        pred,
		})
	}
	si.publishOperation(OperationBranch, id, 0, boolValue(taken), "")
}

// NewInput declares a new symbolic input of type t stored at addr and returns the concrete value the program should
// use for it. The value is replayed from the seeded input vector if it covers the input, and is zero otherwise.
func (si *Interpreter) NewInput(t symbolic.InputType, addr symbolic.Addr) symbolic.Value {
	return si.newInput(t, addr, 0)
}

// NewInputValue behaves like NewInput, except that an input not covered by the seeded input vector takes the
// provided value instead of zero.
func (si *Interpreter) NewInputValue(t symbolic.InputType, addr symbolic.Addr, value symbolic.Value) symbolic.Value {
	return si.newInput(t, addr, value)
}

func (si *Interpreter) newInput(t symbolic.InputType, addr symbolic.Addr, fallback symbolic.Value) symbolic.Value {
	v := symbolic.VarID(si.numInputs)
	si.numInputs++

	si.mem.store(addr, symbolic.NewVarExpr(1, v))
	si.ex.DeclareVar(v, t)

	value, replayed := si.ex.Input(v)
	if !replayed {
		value = fallback
		si.ex.AppendInput(value)
	}

	if si.Events.InputDeclared.HasSubscribers() {
		si.Events.InputDeclared.Publish(InputDeclaredEvent{
			Interpreter: si,
			Var:         v,
			Type:        t,
			Addr:        addr,
			Value:       value,
			Replayed:    replayed,
		})
	}
	return value
}

// CreateVarMap registers naming information for the variable at addr in the current stack frame. An empty trigger
// defaults to DefaultTrigger.
func (si *Interpreter) CreateVarMap(addr symbolic.Addr, name string, typ int, trigger string) {
	si.names.set(addr, VarName{Name: name, Type: typ, Trigger: trigger})
}

// LogState takes a snapshot of every named variable in the current stack frame at the provided location, then clears
// the naming information.
func (si *Interpreter) LogState(location int) StateSnapshot {
	snapshot := StateSnapshot{
		StateID:  si.stateID,
		Location: location,
		Vars:     make([]StateVar, 0, len(si.names.names)),
	}
	si.stateID++

	for _, addr := range si.names.addrs() {
		sv := StateVar{Addr: addr, VarName: si.names.names[addr]}
		if expr, ok := si.mem.get(addr); ok {
			sv.Expr = expr.Clone()
		}
		snapshot.Vars = append(snapshot.Vars, sv)
	}
	si.names.reset()

	si.Events.StateLogged.Publish(StateLoggedEvent{Snapshot: snapshot})
	return snapshot
}

// LogPathCondition returns the predicates of every symbolic branch taken so far, publishing them for the provided
// location.
func (si *Interpreter) LogPathCondition(location int) []*symbolic.Pred {
	constraints := si.ex.Path().Constraints()
	si.Events.PathConditionLogged.Publish(PathConditionLoggedEvent{Location: location, Constraints: constraints})
	return constraints
}

// NextStateID advances the state sequence number and returns it.
func (si *Interpreter) NextStateID() int {
	si.stateID++
	return si.stateID
}

// clearStack releases every stack element and resets the predicate register and pending return flag.
func (si *Interpreter) clearStack() {
	si.stack.clear()
	si.clearPredicateRegister()
	si.returnValue = false
}

// clearPredicateRegister releases the pending predicate, if any.
func (si *Interpreter) clearPredicateRegister() {
	si.pred = nil
}

// publishOperation publishes an OperationAppliedEvent if anything is subscribed.
func (si *Interpreter) publishOperation(op Operation, id symbolic.SiteID, addr symbolic.Addr, value symbolic.Value, operator string) {
	if !si.Events.OperationApplied.HasSubscribers() {
		return
	}
	si.Events.OperationApplied.Publish(OperationAppliedEvent{
		Interpreter: si,
		Operation:   op,
		Site:        id,
		Addr:        addr,
		Value:       value,
		Operator:    operator,
	})
}

// combine computes the symbolic result of "a op b", where at least one operand is symbolic, reusing the operands'
// expressions. Returns nil if the result is concrete or not representable. Both operand expressions are consumed.
func combine(op symbolic.BinaryOp, a *stackElem, b *stackElem) *symbolic.Expr {
	var result *symbolic.Expr
	switch op {
	case symbolic.BinaryAdd:
		switch {
		case a.expr == nil:
			result = b.expr
			result.AddConst(a.concrete)
		case b.expr == nil:
			result = a.expr
			result.AddConst(b.concrete)
		default:
			result = a.expr
			result.Add(b.expr)
		}
	case symbolic.BinarySubtract:
		switch {
		case a.expr == nil:
			result = b.expr
			result.Negate()
			result.AddConst(a.concrete)
		case b.expr == nil:
			result = a.expr
			result.SubConst(b.concrete)
		default:
			result = a.expr
			result.Sub(b.expr)
		}
	case symbolic.BinaryMultiply:
		switch {
		case a.expr == nil:
			result = b.expr
			result.MulConst(a.concrete)
		case b.expr == nil:
			result = a.expr
			result.MulConst(b.concrete)
		}
	}
	a.expr, b.expr = nil, nil

	if result == nil || result.IsConcrete() {
		return nil
	}
	return result
}

// boolValue converts a branch outcome into a concrete value.
func boolValue(b bool) symbolic.Value {
	if b {
		return 1
	}
	return 0
}
