package interpreter

import (
	"github.com/crytic/concolic/symbolic"
	"golang.org/x/exp/slices"
)

// DefaultTrigger is the trigger condition recorded for a named variable when none is provided.
const DefaultTrigger = "true"

// VarName describes the human-readable naming information registered for a memory address. Naming information
// never affects symbolic tracking; it only labels state snapshots.
type VarName struct {
	// Name describes the source-level name of the variable.
	Name string

	// Type describes the display type code of the variable, such as 'i' for integers or 'c' for characters.
	Type int

	// Trigger describes the condition under which the variable is of interest.
	Trigger string
}

// StateVar describes a single named variable within a StateSnapshot.
type StateVar struct {
	// Addr describes the memory address of the variable.
	Addr symbolic.Addr

	// VarName describes the naming information of the variable.
	VarName

	// Expr describes the symbolic expression the variable holds, or nil if it holds a concrete value.
	Expr *symbolic.Expr
}

// StateSnapshot describes the named variables of the current stack frame at a logged program location.
type StateSnapshot struct {
	// StateID describes the sequence number of the snapshot within the run.
	StateID int

	// Location describes the program location the snapshot was taken at.
	Location int

	// Vars describes every named variable, ordered by address.
	Vars []StateVar
}

// varNames holds the naming side tables for the current stack frame.
type varNames struct {
	names map[symbolic.Addr]VarName
}

func newVarNames() *varNames {
	return &varNames{
		names: make(map[symbolic.Addr]VarName),
	}
}

// set registers naming information for addr, replacing any previous entry.
func (v *varNames) set(addr symbolic.Addr, name VarName) {
	if name.Trigger == "" {
		name.Trigger = DefaultTrigger
	}
	v.names[addr] = name
}

// reset clears every entry.
func (v *varNames) reset() {
	clear(v.names)
}

// addrs returns every named address in ascending order.
func (v *varNames) addrs() []symbolic.Addr {
	addrs := make([]symbolic.Addr, 0, len(v.names))
	for addr := range v.names {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)
	return addrs
}
