package symbolic

import "golang.org/x/exp/slices"

// Execution describes everything an external solver needs from a single run of an instrumented program: the
// concrete input vector, the declared type of every symbolic input variable, and the recorded Path.
type Execution struct {
	// inputs describes the concrete value of each input variable, indexed by VarID.
	inputs []Value

	// vars maps each declared input variable to its declared type.
	vars map[VarID]InputType

	// path describes the recorded branch, call and return events.
	path *Path
}

// NewExecution returns an empty Execution whose input vector is seeded with a copy of the provided values, which
// are typically the concrete inputs of a previous run.
func NewExecution(seed []Value) *Execution {
	return &Execution{
		inputs: append(make([]Value, 0, len(seed)), seed...),
		vars:   make(map[VarID]InputType),
		path:   NewPath(),
	}
}

// Inputs returns a copy of the concrete input vector.
func (e *Execution) Inputs() []Value {
	return append([]Value(nil), e.inputs...)
}

// NumInputs returns the length of the concrete input vector.
func (e *Execution) NumInputs() int {
	return len(e.inputs)
}

// Input returns the concrete value of input variable v and whether the input vector covers it.
func (e *Execution) Input(v VarID) (Value, bool) {
	if int(v) >= len(e.inputs) {
		return 0, false
	}
	return e.inputs[v], true
}

// AppendInput appends a concrete value to the input vector.
func (e *Execution) AppendInput(v Value) {
	e.inputs = append(e.inputs, v)
}

// DeclareVar records the declared type of input variable v.
func (e *Execution) DeclareVar(v VarID, t InputType) {
	e.vars[v] = t
}

// VarType returns the declared type of input variable v and whether it was declared.
func (e *Execution) VarType(v VarID) (InputType, bool) {
	t, ok := e.vars[v]
	return t, ok
}

// Vars returns a copy of the mapping from input variable to declared type.
func (e *Execution) Vars() map[VarID]InputType {
	vars := make(map[VarID]InputType, len(e.vars))
	for v, t := range e.vars {
		vars[v] = t
	}
	return vars
}

// VarIDs returns the declared input variables in ascending order.
func (e *Execution) VarIDs() []VarID {
	ids := make([]VarID, 0, len(e.vars))
	for v := range e.vars {
		ids = append(ids, v)
	}
	slices.Sort(ids)
	return ids
}

// Path returns the recorded path. The path is owned by the execution.
func (e *Execution) Path() *Path {
	return e.path
}

// Equal reports whether two executions have identical inputs, declared variables and paths.
func (e *Execution) Equal(o *Execution) bool {
	if !slices.Equal(e.inputs, o.inputs) || len(e.vars) != len(o.vars) {
		return false
	}
	for v, t := range e.vars {
		if ot, ok := o.vars[v]; !ok || ot != t {
			return false
		}
	}
	return e.path.Equal(o.path)
}
