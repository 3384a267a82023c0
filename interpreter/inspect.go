package interpreter

import "github.com/crytic/concolic/symbolic"

// StackValue describes a copy of a shadow stack element.
type StackValue struct {
	// Concrete describes the concrete value of the element.
	Concrete symbolic.Value

	// Expr describes a copy of the element's symbolic expression, or nil if the element is concrete.
	Expr *symbolic.Expr
}

// MemoryValue describes a copy of a symbolic memory location.
type MemoryValue struct {
	// Addr describes the memory address.
	Addr symbolic.Addr

	// Expr describes a copy of the expression held at Addr.
	Expr *symbolic.Expr
}

// StackDepth returns the number of elements on the shadow stack.
func (si *Interpreter) StackDepth() int {
	return si.stack.len()
}

// Stack returns a copy of the shadow stack, bottom first.
func (si *Interpreter) Stack() []StackValue {
	values := make([]StackValue, 0, si.stack.len())
	for _, se := range si.stack.elems {
		sv := StackValue{Concrete: se.concrete}
		if se.expr != nil {
			sv.Expr = se.expr.Clone()
		}
		values = append(values, sv)
	}
	return values
}

// Memory returns a copy of every symbolic memory location, ordered by address.
func (si *Interpreter) Memory() []MemoryValue {
	values := make([]MemoryValue, 0, si.mem.len())
	for _, addr := range si.mem.addrs() {
		values = append(values, MemoryValue{Addr: addr, Expr: si.mem.exprs[addr].Clone()})
	}
	return values
}

// MemoryExpr returns a copy of the expression held at addr, or nil if addr holds a concrete value.
func (si *Interpreter) MemoryExpr(addr symbolic.Addr) *symbolic.Expr {
	return si.mem.load(addr)
}

// PendingPredicate returns a copy of the predicate in the predicate register, or nil if it is empty.
func (si *Interpreter) PendingPredicate() *symbolic.Pred {
	if si.pred == nil {
		return nil
	}
	return si.pred.Clone()
}

// ReturnValuePending indicates whether the last Return left the returning function's value on the stack.
func (si *Interpreter) ReturnValuePending() bool {
	return si.returnValue
}
