package symbolic

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Value describes a concrete runtime value observed by the instrumentation. Arithmetic on Value wraps on overflow,
// following Go's fixed-width signed integer semantics.
type Value = int64

// VarID describes the identifier of a symbolic input variable. Ids are assigned sequentially in order of
// declaration and are stable for the lifetime of a run.
type VarID uint32

// Addr describes a memory address in the target program.
type Addr uint64

// BranchID describes the identifier of an instrumented branch.
type BranchID int32

// FunctionID describes the identifier of an instrumented function.
type FunctionID uint32

// SiteID describes the identifier of an instrumented operation site. It is only used for diagnostics.
type SiteID int32

// InputType describes the declared primitive type of a symbolic input variable.
type InputType uint8

const (
	// InputTypeUChar describes an unsigned 8-bit input.
	InputTypeUChar InputType = iota
	// InputTypeChar describes a signed 8-bit input.
	InputTypeChar
	// InputTypeUShort describes an unsigned 16-bit input.
	InputTypeUShort
	// InputTypeShort describes a signed 16-bit input.
	InputTypeShort
	// InputTypeUInt describes an unsigned 32-bit input.
	InputTypeUInt
	// InputTypeInt describes a signed 32-bit input.
	InputTypeInt
)

// inputTypeNames maps each InputType to its textual name.
var inputTypeNames = [...]string{
	InputTypeUChar:  "uchar",
	InputTypeChar:   "char",
	InputTypeUShort: "ushort",
	InputTypeShort:  "short",
	InputTypeUInt:   "uint",
	InputTypeInt:    "int",
}

// String returns the textual name of the InputType.
func (t InputType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("InputType(%d)", uint8(t))
	}
	return inputTypeNames[t]
}

// Valid reports whether t is one of the defined input types.
func (t InputType) Valid() bool {
	return int(t) < len(inputTypeNames)
}

// Signed reports whether the input type is a signed integer type.
func (t InputType) Signed() bool {
	return t == InputTypeChar || t == InputTypeShort || t == InputTypeInt
}

// Bits returns the bit width of the input type.
func (t InputType) Bits() int {
	switch t {
	case InputTypeUChar, InputTypeChar:
		return 8
	case InputTypeUShort, InputTypeShort:
		return 16
	default:
		return 32
	}
}

// Truncate converts v to the width and signedness of the input type, the same way a C cast of the value to the
// declared type would.
func (t InputType) Truncate(v Value) Value {
	switch t {
	case InputTypeUChar:
		return wrap[uint8](v)
	case InputTypeChar:
		return wrap[int8](v)
	case InputTypeUShort:
		return wrap[uint16](v)
	case InputTypeShort:
		return wrap[int16](v)
	case InputTypeUInt:
		return wrap[uint32](v)
	default:
		return wrap[int32](v)
	}
}

// wrap narrows v to the integer type T and widens it back to a Value.
func wrap[T constraints.Integer](v Value) Value {
	return Value(T(v))
}

// ParseInputType parses the textual name of an InputType.
func ParseInputType(s string) (InputType, error) {
	lower := strings.ToLower(s)
	for i, name := range inputTypeNames {
		if name == lower {
			return InputType(i), nil
		}
	}
	return 0, errors.Errorf("unknown input type '%s'", s)
}
