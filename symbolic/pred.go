package symbolic

import "fmt"

// Pred describes a branch predicate "expr op 0", where expr is the symbolic difference "a - b" of the operands of
// the comparison which produced it. A Pred exclusively owns its expression.
type Pred struct {
	// op describes the comparison operator.
	op CompareOp

	// expr describes the symbolic difference of the compared operands.
	expr *Expr
}

// NewPred returns a predicate taking ownership of expr. The caller must not retain or mutate expr afterwards.
func NewPred(op CompareOp, expr *Expr) *Pred {
	return &Pred{op: op, expr: expr}
}

// Op returns the comparison operator of the predicate.
func (p *Pred) Op() CompareOp {
	return p.op
}

// Expr returns the symbolic difference the predicate compares against zero. The returned expression is owned by
// the predicate and must not be mutated.
func (p *Pred) Expr() *Expr {
	return p.expr
}

// Negate replaces the predicate with its logical negation in place.
func (p *Pred) Negate() {
	p.op = p.op.Negate()
}

// Holds reports whether the predicate is satisfied under the provided assignment of input values.
func (p *Pred) Holds(inputs []Value) bool {
	return p.op.Holds(p.expr.Eval(inputs))
}

// Clone returns a deep copy of the predicate.
func (p *Pred) Clone() *Pred {
	return &Pred{op: p.op, expr: p.expr.Clone()}
}

// Equal reports whether two predicates have the same operator and expression.
func (p *Pred) Equal(o *Pred) bool {
	return p.op == o.op && p.expr.Equal(o.expr)
}

// String returns a textual rendering of the predicate, for example "(x0 - 10 < 0)".
func (p *Pred) String() string {
	return fmt.Sprintf("(%s %s 0)", p.expr, p.op)
}
