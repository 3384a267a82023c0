package symbolic

import "fmt"

// UnaryOp describes a unary operator applied to the top of the shadow stack.
type UnaryOp uint8

const (
	// UnaryNegate describes arithmetic negation. It is linear and preserves symbolic tracking.
	UnaryNegate UnaryOp = iota
	// UnaryBitwiseNot describes bitwise complement. It is not representable and degrades to concrete.
	UnaryBitwiseNot
	// UnaryLogicalNot describes logical negation. It inverts a pending branch predicate, if one exists.
	UnaryLogicalNot
	// UnaryConcrete describes any other unary operator, which always degrades to concrete.
	UnaryConcrete
)

var unaryOpNames = [...]string{
	UnaryNegate:     "-",
	UnaryBitwiseNot: "~",
	UnaryLogicalNot: "!",
	UnaryConcrete:   "concrete",
}

// String returns the textual representation of the operator.
func (op UnaryOp) String() string {
	if int(op) >= len(unaryOpNames) {
		return fmt.Sprintf("UnaryOp(%d)", uint8(op))
	}
	return unaryOpNames[op]
}

// BinaryOp describes a binary arithmetic, bitwise or logical operator.
type BinaryOp uint8

const (
	// BinaryAdd describes addition.
	BinaryAdd BinaryOp = iota
	// BinarySubtract describes subtraction.
	BinarySubtract
	// BinaryMultiply describes multiplication.
	BinaryMultiply
	// BinaryDivide describes division.
	BinaryDivide
	// BinaryModulo describes the remainder operator.
	BinaryModulo
	// BinaryBitwiseAnd describes bitwise conjunction.
	BinaryBitwiseAnd
	// BinaryBitwiseOr describes bitwise disjunction.
	BinaryBitwiseOr
	// BinaryBitwiseXor describes bitwise exclusive disjunction.
	BinaryBitwiseXor
	// BinaryShiftLeft describes a left shift.
	BinaryShiftLeft
	// BinaryShiftRight describes a right shift.
	BinaryShiftRight
	// BinaryLogicalAnd describes logical conjunction.
	BinaryLogicalAnd
	// BinaryLogicalOr describes logical disjunction.
	BinaryLogicalOr
	// BinaryConcrete describes any other binary operator.
	BinaryConcrete
)

var binaryOpNames = [...]string{
	BinaryAdd:        "+",
	BinarySubtract:   "-",
	BinaryMultiply:   "*",
	BinaryDivide:     "/",
	BinaryModulo:     "%",
	BinaryBitwiseAnd: "&",
	BinaryBitwiseOr:  "|",
	BinaryBitwiseXor: "^",
	BinaryShiftLeft:  "<<",
	BinaryShiftRight: ">>",
	BinaryLogicalAnd: "&&",
	BinaryLogicalOr:  "||",
	BinaryConcrete:   "concrete",
}

// String returns the textual representation of the operator.
func (op BinaryOp) String() string {
	if int(op) >= len(binaryOpNames) {
		return fmt.Sprintf("BinaryOp(%d)", uint8(op))
	}
	return binaryOpNames[op]
}

// Linear reports whether the operator can be represented by the linear expression algebra when at most one of its
// operands is symbolic.
func (op BinaryOp) Linear() bool {
	return op == BinaryAdd || op == BinarySubtract || op == BinaryMultiply
}

// CompareOp describes a comparison operator of a branch predicate.
type CompareOp uint8

const (
	// CompareEQ describes equality.
	CompareEQ CompareOp = iota
	// CompareNEQ describes inequality.
	CompareNEQ
	// CompareGT describes strictly-greater-than.
	CompareGT
	// CompareLE describes less-than-or-equal.
	CompareLE
	// CompareLT describes strictly-less-than.
	CompareLT
	// CompareGE describes greater-than-or-equal.
	CompareGE
)

var compareOpNames = [...]string{
	CompareEQ:  "==",
	CompareNEQ: "!=",
	CompareGT:  ">",
	CompareLE:  "<=",
	CompareLT:  "<",
	CompareGE:  ">=",
}

// String returns the textual representation of the operator.
func (op CompareOp) String() string {
	if !op.Valid() {
		return fmt.Sprintf("CompareOp(%d)", uint8(op))
	}
	return compareOpNames[op]
}

// Valid reports whether op is one of the defined comparison operators.
func (op CompareOp) Valid() bool {
	return int(op) < len(compareOpNames)
}

// Negate returns the operator describing the logical negation of op.
func (op CompareOp) Negate() CompareOp {
	switch op {
	case CompareEQ:
		return CompareNEQ
	case CompareNEQ:
		return CompareEQ
	case CompareGT:
		return CompareLE
	case CompareLE:
		return CompareGT
	case CompareLT:
		return CompareGE
	case CompareGE:
		return CompareLT
	default:
		panic(fmt.Sprintf("cannot negate invalid comparison operator %d", uint8(op)))
	}
}

// Holds reports whether "v op 0" is true.
func (op CompareOp) Holds(v Value) bool {
	switch op {
	case CompareEQ:
		return v == 0
	case CompareNEQ:
		return v != 0
	case CompareGT:
		return v > 0
	case CompareLE:
		return v <= 0
	case CompareLT:
		return v < 0
	case CompareGE:
		return v >= 0
	default:
		panic(fmt.Sprintf("cannot evaluate invalid comparison operator %d", uint8(op)))
	}
}
