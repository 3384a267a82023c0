package hooks

import (
	"fmt"
	"strconv"

	"github.com/crytic/concolic/symbolic"
)

// Opcode describes a raw operator code reported by the instrumentation. Codes follow the order the instrumentation
// header declares them in.
type Opcode int32

const (
	// OpAdd is addition.
	OpAdd Opcode = iota
	// OpSubtract is subtraction.
	OpSubtract
	// OpMultiply is multiplication.
	OpMultiply
	// OpDivide is division.
	OpDivide
	// OpMod is remainder.
	OpMod
	// OpAnd is bitwise and.
	OpAnd
	// OpOr is bitwise or.
	OpOr
	// OpXor is bitwise exclusive or.
	OpXor
	// OpShiftLeft is left shift.
	OpShiftLeft
	// OpShiftRight is right shift.
	OpShiftRight
	// OpLogicalAnd is short-circuit and.
	OpLogicalAnd
	// OpLogicalOr is short-circuit or.
	OpLogicalOr
	// OpEQ is equality.
	OpEQ
	// OpNEQ is inequality.
	OpNEQ
	// OpGT is greater than.
	OpGT
	// OpLE is less than or equal.
	OpLE
	// OpLT is less than.
	OpLT
	// OpGE is greater than or equal.
	OpGE
	// OpConcrete is an operation the instrumentation does not model, whose result is always concrete.
	OpConcrete
	// OpNegate is arithmetic negation.
	OpNegate
	// OpNot is bitwise complement.
	OpNot
	// OpLogicalNot is logical negation.
	OpLogicalNot
)

// opcodeNames maps each Opcode to the textual name used in operation logs.
var opcodeNames = [...]string{
	OpAdd:        "ADD",
	OpSubtract:   "SUBTRACT",
	OpMultiply:   "MULTIPLY",
	OpDivide:     "DIVIDE",
	OpMod:        "MOD",
	OpAnd:        "AND",
	OpOr:         "OR",
	OpXor:        "XOR",
	OpShiftLeft:  "SHIFT_L",
	OpShiftRight: "SHIFT_R",
	OpLogicalAnd: "L_AND",
	OpLogicalOr:  "L_OR",
	OpEQ:         "EQ",
	OpNEQ:        "NEQ",
	OpGT:         "GT",
	OpLE:         "LE",
	OpLT:         "LT",
	OpGE:         "GE",
	OpConcrete:   "CONCRETE",
	OpNegate:     "NEGATE",
	OpNot:        "NOT",
	OpLogicalNot: "L_NOT",
}

// binaryOps maps the binary arithmetic, bitwise and logical opcodes to interpreter operators.
var binaryOps = map[Opcode]symbolic.BinaryOp{
	OpAdd:        symbolic.BinaryAdd,
	OpSubtract:   symbolic.BinarySubtract,
	OpMultiply:   symbolic.BinaryMultiply,
	OpDivide:     symbolic.BinaryDivide,
	OpMod:        symbolic.BinaryModulo,
	OpAnd:        symbolic.BinaryBitwiseAnd,
	OpOr:         symbolic.BinaryBitwiseOr,
	OpXor:        symbolic.BinaryBitwiseXor,
	OpShiftLeft:  symbolic.BinaryShiftLeft,
	OpShiftRight: symbolic.BinaryShiftRight,
	OpLogicalAnd: symbolic.BinaryLogicalAnd,
	OpLogicalOr:  symbolic.BinaryLogicalOr,
	OpConcrete:   symbolic.BinaryConcrete,
}

// compareOps maps the comparison opcodes to interpreter operators.
var compareOps = map[Opcode]symbolic.CompareOp{
	OpEQ:  symbolic.CompareEQ,
	OpNEQ: symbolic.CompareNEQ,
	OpGT:  symbolic.CompareGT,
	OpLE:  symbolic.CompareLE,
	OpLT:  symbolic.CompareLT,
	OpGE:  symbolic.CompareGE,
}

// unaryOps maps the unary opcodes to interpreter operators.
var unaryOps = map[Opcode]symbolic.UnaryOp{
	OpNegate:     symbolic.UnaryNegate,
	OpNot:        symbolic.UnaryBitwiseNot,
	OpLogicalNot: symbolic.UnaryLogicalNot,
}

// String returns the textual name of the opcode.
func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) {
		return fmt.Sprintf("Opcode(%d)", int32(op))
	}
	return opcodeNames[op]
}

// Binary reports whether op is accepted by Runtime.Apply2.
func (op Opcode) Binary() bool {
	return op >= OpAdd && op <= OpConcrete
}

// Unary reports whether op is accepted by Runtime.Apply1.
func (op Opcode) Unary() bool {
	return op >= OpNegate && op <= OpLogicalNot
}

// ParseOpcode parses an opcode from its textual name or its numeric code.
func ParseOpcode(s string) (Opcode, bool) {
	for i, name := range opcodeNames {
		if name == s {
			return Opcode(i), true
		}
	}
	code, err := strconv.ParseInt(s, 10, 32)
	if err == nil && code >= 0 && int(code) < len(opcodeNames) {
		return Opcode(code), true
	}
	return 0, false
}
