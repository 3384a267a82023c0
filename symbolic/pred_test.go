package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCompareOpNegate verifies negation is an involution which always flips the truth of "v op 0".
func TestCompareOpNegate(t *testing.T) {
	ops := []CompareOp{CompareEQ, CompareNEQ, CompareGT, CompareLE, CompareLT, CompareGE}
	for _, op := range ops {
		assert.Equal(t, op, op.Negate().Negate(), op.String())
		for _, v := range []Value{-3, 0, 3} {
			assert.NotEqual(t, op.Holds(v), op.Negate().Holds(v), "%s %d", op, v)
		}
	}
	assert.False(t, CompareOp(6).Valid())
	assert.Panics(t, func() { CompareOp(6).Negate() })
}

// TestPred verifies predicate rendering, negation and evaluation.
func TestPred(t *testing.T) {
	expr := NewVarExpr(1, 0)
	expr.SubConst(10)
	p := NewPred(CompareLT, expr)
	assert.Equal(t, "(x0 - 10 < 0)", p.String())
	assert.True(t, p.Holds([]Value{5}))
	assert.False(t, p.Holds([]Value{10}))

	clone := p.Clone()
	p.Negate()
	assert.Equal(t, CompareGE, p.Op())
	assert.Equal(t, "(x0 - 10 >= 0)", p.String())
	assert.True(t, p.Holds([]Value{10}))

	// The clone must not observe the negation
	assert.Equal(t, CompareLT, clone.Op())
	assert.False(t, clone.Equal(p))
}
