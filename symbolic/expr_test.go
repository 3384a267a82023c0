package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExprArithmetic verifies the in-place linear arithmetic of Expr.
func TestExprArithmetic(t *testing.T) {
	// 2*x0 + 3
	e := NewVarExpr(2, 0)
	e.AddConst(3)
	assert.False(t, e.IsConcrete())
	assert.EqualValues(t, 3, e.Constant())
	assert.EqualValues(t, 2, e.Coefficient(0))

	// (2*x0 + 3) + (x1 - 1) = 2*x0 + x1 + 2
	o := NewVarExpr(1, 1)
	o.SubConst(1)
	e.Add(o)
	assert.Equal(t, []VarID{0, 1}, e.Vars())
	assert.EqualValues(t, 2, e.Constant())

	// Multiplying by a scalar scales every term
	e.MulConst(-3)
	assert.EqualValues(t, -6, e.Coefficient(0))
	assert.EqualValues(t, -3, e.Coefficient(1))
	assert.EqualValues(t, -6, e.Constant())

	// Negation flips every sign
	e.Negate()
	assert.Equal(t, "6*x0 + 3*x1 + 6", e.String())

	// The other operand must be left untouched
	assert.Equal(t, "x1 - 1", o.String())
}

// TestExprCancellation verifies that coefficients which cancel out are removed, so the expression becomes concrete.
func TestExprCancellation(t *testing.T) {
	e := NewVarExpr(1, 4)
	e.AddConst(7)
	e.Sub(e.Clone())
	assert.True(t, e.IsConcrete())
	assert.EqualValues(t, 0, e.Constant())
	assert.Empty(t, e.Vars())

	// Multiplying by zero also yields a concrete zero
	e = NewVarExpr(5, 2)
	e.MulConst(0)
	assert.True(t, e.IsConcrete())
	assert.Equal(t, "0", e.String())

	// A zero coefficient never creates a term
	assert.True(t, NewVarExpr(0, 3).IsConcrete())
}

// TestExprMul verifies that only linear products are accepted.
func TestExprMul(t *testing.T) {
	// symbolic * concrete
	e := NewVarExpr(1, 0)
	e.AddConst(1)
	assert.True(t, e.Mul(NewConstExpr(4)))
	assert.Equal(t, "4*x0 + 4", e.String())

	// concrete * symbolic
	c := NewConstExpr(-2)
	assert.True(t, c.Mul(e))
	assert.Equal(t, "-8*x0 - 8", c.String())
	assert.Equal(t, "4*x0 + 4", e.String())

	// symbolic * symbolic is rejected and leaves the receiver untouched
	other := NewVarExpr(1, 1)
	assert.False(t, e.Mul(other))
	assert.Equal(t, "4*x0 + 4", e.String())
}

// TestExprWraparound verifies that arithmetic wraps on overflow instead of failing.
func TestExprWraparound(t *testing.T) {
	e := NewConstExpr(math.MaxInt64)
	e.AddConst(1)
	assert.EqualValues(t, math.MinInt64, e.Constant())
	assert.Equal(t, "-9223372036854775808", e.String())

	// A coefficient product wrapping to zero removes the term
	e = NewVarExpr(1<<62, 0)
	e.MulConst(4)
	assert.True(t, e.IsConcrete())

	// Rendering the minimum value as a trailing constant must not overflow
	e = NewVarExpr(1, 0)
	e.AddConst(math.MinInt64)
	assert.Equal(t, "x0 - 9223372036854775808", e.String())
}

// TestExprString verifies the deterministic rendering of expressions.
func TestExprString(t *testing.T) {
	e := NewVarExpr(-1, 3)
	e.Add(NewVarExpr(1, 0))
	e.Add(NewVarExpr(12, 1))
	assert.Equal(t, "x0 + 12*x1 - x3", e.String())

	e.SubConst(10)
	assert.Equal(t, "x0 + 12*x1 - x3 - 10", e.String())

	assert.Equal(t, "-x2", NewVarExpr(-1, 2).String())
	assert.Equal(t, "42", NewConstExpr(42).String())
}

// TestExprEval verifies evaluation under a concrete input assignment.
func TestExprEval(t *testing.T) {
	e := NewVarExpr(3, 0)
	e.Add(NewVarExpr(-2, 1))
	e.AddConst(5)
	assert.EqualValues(t, 3*4-2*7+5, e.Eval([]Value{4, 7}))

	// Unassigned variables evaluate to zero
	assert.EqualValues(t, 3*4+5, e.Eval([]Value{4}))
}

// TestExprCloneIsDeep verifies that clones do not share coefficient storage.
func TestExprCloneIsDeep(t *testing.T) {
	e := NewVarExpr(1, 0)
	clone := e.Clone()
	clone.MulConst(9)
	assert.EqualValues(t, 1, e.Coefficient(0))
	assert.EqualValues(t, 9, clone.Coefficient(0))
	assert.False(t, e.Equal(clone))
	assert.True(t, e.Equal(NewVarExpr(1, 0)))
}
