package interpreter

import "github.com/crytic/concolic/symbolic"

// stackElem describes a single element of the shadow stack: the concrete value observed by the instrumentation and,
// if the value is symbolic, the expression it owns. A nil expr means the value is purely concrete.
type stackElem struct {
	concrete symbolic.Value
	expr     *symbolic.Expr
}

// shadowStack mirrors the target program's expression evaluation stack. The top of the stack is the last element.
type shadowStack struct {
	elems []stackElem
}

func newShadowStack() *shadowStack {
	return &shadowStack{
		elems: make([]stackElem, 0, 16),
	}
}

// len returns the number of elements on the stack.
func (s *shadowStack) len() int {
	return len(s.elems)
}

// push pushes an element, taking ownership of expr.
func (s *shadowStack) push(concrete symbolic.Value, expr *symbolic.Expr) {
	s.elems = append(s.elems, stackElem{concrete: concrete, expr: expr})
}

// pop removes and returns the top element, transferring ownership of its expression to the caller.
func (s *shadowStack) pop(op string, site symbolic.SiteID) stackElem {
	s.require(op, site, 1)
	top := s.elems[len(s.elems)-1]
	s.elems[len(s.elems)-1] = stackElem{}
	s.elems = s.elems[:len(s.elems)-1]
	return top
}

// top returns a pointer to the top element, which remains owned by the stack. The pointer is only valid until the
// next push or pop.
func (s *shadowStack) top(op string, site symbolic.SiteID) *stackElem {
	s.require(op, site, 1)
	return &s.elems[len(s.elems)-1]
}

// clear removes every element, releasing their expressions.
func (s *shadowStack) clear() {
	clear(s.elems)
	s.elems = s.elems[:0]
}

// require raises a ContractViolation if fewer than n elements are on the stack.
func (s *shadowStack) require(op string, site symbolic.SiteID, n int) {
	if len(s.elems) < n {
		violate(op, site, "expected at least %d stack element(s), found %d", n, len(s.elems))
	}
}
