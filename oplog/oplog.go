package oplog

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/crytic/concolic/hooks"
	"github.com/crytic/concolic/symbolic"
	"github.com/pkg/errors"
)

// Kind describes the callback an Op invokes.
type Kind string

const (
	KindClear        Kind = "clear"
	KindLoad         Kind = "load"
	KindStore        Kind = "store"
	KindApply1       Kind = "apply1"
	KindApply2       Kind = "apply2"
	KindBranch       Kind = "branch"
	KindCall         Kind = "call"
	KindReturn       Kind = "return"
	KindHandleReturn Kind = "handle_return"
	KindInput        Kind = "input"
	KindInputValue   Kind = "input_value"
	KindVarMap       Kind = "varmap"
	KindLogState     Kind = "log_state"
	KindLogPC        Kind = "log_pc"
)

// Op describes a single recorded instrumentation callback. Only the fields used by its Kind are set.
type Op struct {
	// Line describes the line of the operation log the Op was parsed from.
	Line int

	// Kind describes the callback to invoke.
	Kind Kind

	// Site describes the instrumented operation site of stack, memory and control flow callbacks.
	Site symbolic.SiteID

	// Addr describes the memory address of load, store, input and varmap callbacks.
	Addr symbolic.Addr

	// Value describes the concrete value of load, apply and handle_return callbacks, and the default value of
	// input_value callbacks.
	Value symbolic.Value

	// Opcode describes the operator of apply callbacks.
	Opcode hooks.Opcode

	// Branch describes the reached branch of branch callbacks.
	Branch symbolic.BranchID

	// Taken describes whether the branch condition held, for branch callbacks.
	Taken bool

	// Function describes the called function of call callbacks.
	Function symbolic.FunctionID

	// InputType describes the declared type of input callbacks.
	InputType symbolic.InputType

	// Name describes the variable name of varmap callbacks.
	Name string

	// VarType describes the opaque variable type code of varmap callbacks.
	VarType int

	// Trigger describes the trigger condition of varmap callbacks. Empty if none was given.
	Trigger string

	// Location describes the program location of log_state and log_pc callbacks.
	Location int
}

// parseFunc parses the arguments of an operation into op.
type parseFunc func(op *Op, args []string) error

// parsers maps each operation name to its argument count and parser. A negative count describes a minimum.
var parsers = map[Kind]struct {
	args  int
	parse parseFunc
}{
	KindClear: {1, func(op *Op, args []string) error {
		return parseSite(op, args[0])
	}},
	KindLoad: {3, func(op *Op, args []string) (err error) {
		if err = parseSite(op, args[0]); err == nil {
			if op.Addr, err = parseAddr(args[1]); err == nil {
				op.Value, err = parseValue(args[2])
			}
		}
		return err
	}},
	KindStore: {2, func(op *Op, args []string) (err error) {
		if err = parseSite(op, args[0]); err == nil {
			op.Addr, err = parseAddr(args[1])
		}
		return err
	}},
	KindApply1: {3, parseApply},
	KindApply2: {3, parseApply},
	KindBranch: {3, func(op *Op, args []string) error {
		if err := parseSite(op, args[0]); err != nil {
			return err
		}
		bid, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return errors.Errorf("invalid branch id '%s'", args[1])
		}
		op.Branch = symbolic.BranchID(bid)
		switch args[2] {
		case "0":
			op.Taken = false
		case "1":
			op.Taken = true
		default:
			return errors.Errorf("invalid branch outcome '%s', expected 0 or 1", args[2])
		}
		return nil
	}},
	KindCall: {2, func(op *Op, args []string) error {
		if err := parseSite(op, args[0]); err != nil {
			return err
		}
		fid, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return errors.Errorf("invalid function id '%s'", args[1])
		}
		op.Function = symbolic.FunctionID(fid)
		return nil
	}},
	KindReturn: {1, func(op *Op, args []string) error {
		return parseSite(op, args[0])
	}},
	KindHandleReturn: {2, func(op *Op, args []string) (err error) {
		if err = parseSite(op, args[0]); err == nil {
			op.Value, err = parseValue(args[1])
		}
		return err
	}},
	KindInput: {2, func(op *Op, args []string) (err error) {
		if op.InputType, err = symbolic.ParseInputType(args[0]); err == nil {
			op.Addr, err = parseAddr(args[1])
		}
		return err
	}},
	KindInputValue: {3, func(op *Op, args []string) (err error) {
		if op.InputType, err = symbolic.ParseInputType(args[0]); err == nil {
			if op.Addr, err = parseAddr(args[1]); err == nil {
				op.Value, err = parseValue(args[2])
			}
		}
		return err
	}},
	KindVarMap: {-3, func(op *Op, args []string) (err error) {
		if op.Addr, err = parseAddr(args[0]); err != nil {
			return err
		}
		op.Name = args[1]
		if op.VarType, err = strconv.Atoi(args[2]); err != nil {
			return errors.Errorf("invalid variable type '%s'", args[2])
		}
		// The trigger is free-form and may contain spaces
		op.Trigger = strings.Join(args[3:], " ")
		return nil
	}},
	KindLogState: {1, parseLocation},
	KindLogPC:    {1, parseLocation},
}

// Parse reads an operation log from the provided reader. Each line holds one operation name followed by its
// whitespace-separated arguments. Blank lines and anything following a '#' are ignored.
// Returns the parsed operations, or an error naming the first malformed line.
func Parse(r io.Reader) ([]Op, error) {
	ops := make([]Op, 0)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op, err := parseOp(line, fields)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return ops, nil
}

// parseOp parses a single operation from the fields of its line.
func parseOp(line int, fields []string) (Op, error) {
	op := Op{Line: line, Kind: Kind(fields[0])}
	p, ok := parsers[op.Kind]
	if !ok {
		return Op{}, errors.Errorf("unknown operation '%s'", fields[0])
	}

	args := fields[1:]
	if (p.args >= 0 && len(args) != p.args) || (p.args < 0 && len(args) < -p.args) {
		expected := p.args
		if expected < 0 {
			expected = -expected
		}
		return Op{}, errors.Errorf("%s expects %d arguments, found %d", op.Kind, expected, len(args))
	}
	if err := p.parse(&op, args); err != nil {
		return Op{}, err
	}
	return op, nil
}

func parseApply(op *Op, args []string) (err error) {
	if err = parseSite(op, args[0]); err != nil {
		return err
	}
	var ok bool
	if op.Opcode, ok = hooks.ParseOpcode(args[1]); !ok {
		return errors.Errorf("unknown opcode '%s'", args[1])
	}
	op.Value, err = parseValue(args[2])
	return err
}

func parseLocation(op *Op, args []string) (err error) {
	if op.Location, err = strconv.Atoi(args[0]); err != nil {
		return errors.Errorf("invalid location '%s'", args[0])
	}
	return nil
}

func parseSite(op *Op, s string) error {
	site, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return errors.Errorf("invalid site id '%s'", s)
	}
	op.Site = symbolic.SiteID(site)
	return nil
}

// parseAddr parses an address in decimal, or in hexadecimal with a 0x prefix.
func parseAddr(s string) (symbolic.Addr, error) {
	addr, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.Errorf("invalid address '%s'", s)
	}
	return symbolic.Addr(addr), nil
}

func parseValue(s string) (symbolic.Value, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid value '%s'", s)
	}
	return v, nil
}
