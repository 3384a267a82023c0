package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestOpcodeRanges verifies which opcodes each apply callback accepts, and that every accepted opcode maps to an
// interpreter operator.
func TestOpcodeRanges(t *testing.T) {
	for op := OpAdd; op <= OpLogicalNot; op++ {
		_, binary := binaryOps[op]
		_, compare := compareOps[op]
		_, unary := unaryOps[op]

		assert.Equal(t, op.Binary(), binary || compare, op.String())
		assert.Equal(t, op.Unary(), unary, op.String())
		assert.NotEqual(t, op.Binary(), op.Unary(), op.String())
	}
	assert.False(t, Opcode(-1).Binary())
	assert.False(t, Opcode(22).Unary())
}

// TestParseOpcode verifies that opcodes parse from their names and numeric codes.
func TestParseOpcode(t *testing.T) {
	tests := map[string]Opcode{
		"ADD":      OpAdd,
		"SHIFT_L":  OpShiftLeft,
		"CONCRETE": OpConcrete,
		"L_NOT":    OpLogicalNot,
		"0":        OpAdd,
		"16":       OpLT,
		"21":       OpLogicalNot,
	}
	for s, expected := range tests {
		op, ok := ParseOpcode(s)
		assert.True(t, ok, s)
		assert.Equal(t, expected, op, s)
	}

	for _, s := range []string{"", "add", "22", "-1", "3x"} {
		_, ok := ParseOpcode(s)
		assert.False(t, ok, s)
	}

	assert.Equal(t, "LE", OpLE.String())
	assert.Equal(t, "Opcode(40)", Opcode(40).String())
}
