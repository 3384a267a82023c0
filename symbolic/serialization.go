package symbolic

import (
	"bytes"
	"os"

	"github.com/Masterminds/semver"
	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
)

// executionMagic prefixes every serialized Execution.
var executionMagic = []byte("CRSX")

const (
	// ExecutionFormatVersion describes the version of the serialized Execution format written by MarshalBinary.
	ExecutionFormatVersion = "1.0.0"

	// executionFormatConstraint describes which serialized format versions UnmarshalBinary can decode.
	executionFormatConstraint = "^1.0.0"
)

// serializedExecution is the wire representation of an Execution.
type serializedExecution struct {
	Version string                `cbor:"version"`
	Inputs  []Value               `cbor:"inputs"`
	Vars    []serializedVar       `cbor:"vars"`
	Path    []serializedPathEntry `cbor:"path"`
}

// serializedVar is the wire representation of a declared input variable.
type serializedVar struct {
	ID   VarID     `cbor:"id"`
	Type InputType `cbor:"type"`
}

// serializedPathEntry is the wire representation of a PathEntry.
type serializedPathEntry struct {
	Kind     PathEntryKind   `cbor:"kind"`
	Branch   BranchID        `cbor:"branch"`
	Function FunctionID      `cbor:"fn"`
	Pred     *serializedPred `cbor:"pred"`
}

// serializedPred is the wire representation of a Pred and its expression.
type serializedPred struct {
	Op       CompareOp        `cbor:"op"`
	Constant Value            `cbor:"constant"`
	Terms    []serializedTerm `cbor:"terms"`
}

// serializedTerm is the wire representation of a single coefficient/variable pair.
type serializedTerm struct {
	Var   VarID `cbor:"var"`
	Coeff Value `cbor:"coeff"`
}

// MarshalBinary encodes the execution into the artifact format consumed by the external solver. The encoding is
// deterministic: variables and expression terms are ordered by id.
func (e *Execution) MarshalBinary() ([]byte, error) {
	wire := serializedExecution{
		Version: ExecutionFormatVersion,
		Inputs:  e.Inputs(),
		Vars:    make([]serializedVar, 0, len(e.vars)),
		Path:    make([]serializedPathEntry, 0, e.path.Len()),
	}
	for _, v := range e.VarIDs() {
		wire.Vars = append(wire.Vars, serializedVar{ID: v, Type: e.vars[v]})
	}
	for _, entry := range e.path.entries {
		wireEntry := serializedPathEntry{Kind: entry.Kind, Branch: entry.Branch, Function: entry.Function}
		if entry.Pred != nil {
			wireEntry.Pred = serializePred(entry.Pred)
		}
		wire.Path = append(wire.Path, wireEntry)
	}

	body, err := cbor.Marshal(wire, cbor.EncOptions{})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return append(append(make([]byte, 0, len(executionMagic)+len(body)), executionMagic...), body...), nil
}

// UnmarshalBinary decodes an execution previously encoded with MarshalBinary, replacing the contents of e.
func (e *Execution) UnmarshalBinary(data []byte) error {
	// Verify the magic prefix before attempting to decode the body
	if !bytes.HasPrefix(data, executionMagic) {
		return errors.New("data is not a serialized execution (bad magic)")
	}

	var wire serializedExecution
	if err := cbor.Unmarshal(data[len(executionMagic):], &wire); err != nil {
		return errors.Wrap(err, "failed to decode serialized execution")
	}

	// Verify we understand the format version
	if err := checkFormatVersion(wire.Version); err != nil {
		return err
	}

	decoded := NewExecution(wire.Inputs)
	for _, v := range wire.Vars {
		if !v.Type.Valid() {
			return errors.Errorf("input variable x%d has invalid type %d", v.ID, uint8(v.Type))
		}
		decoded.DeclareVar(v.ID, v.Type)
	}
	for i, entry := range wire.Path {
		switch entry.Kind {
		case PathEntryBranch:
			var pred *Pred
			if entry.Pred != nil {
				var err error
				if pred, err = deserializePred(entry.Pred); err != nil {
					return errors.Wrapf(err, "invalid predicate at path entry %d", i)
				}
			}
			decoded.path.Push(entry.Branch, pred)
		case PathEntryCall:
			decoded.path.PushCall(entry.Function)
		case PathEntryReturn:
			decoded.path.PushReturn()
		default:
			return errors.Errorf("path entry %d has invalid kind %d", i, uint8(entry.Kind))
		}
	}

	*e = *decoded
	return nil
}

// WriteExecutionFile serializes the execution to the provided file path.
func WriteExecutionFile(path string, e *Execution) error {
	b, err := e.MarshalBinary()
	if err != nil {
		return err
	}
	return errors.WithStack(os.WriteFile(path, b, 0644))
}

// ReadExecutionFile deserializes an execution from the provided file path.
func ReadExecutionFile(path string) (*Execution, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e := NewExecution(nil)
	if err = e.UnmarshalBinary(b); err != nil {
		return nil, errors.Wrapf(err, "failed to read execution from '%s'", path)
	}
	return e, nil
}

// checkFormatVersion verifies that a serialized format version is one this package can decode.
func checkFormatVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid execution format version '%s'", version)
	}
	c, err := semver.NewConstraint(executionFormatConstraint)
	if err != nil {
		return errors.WithStack(err)
	}
	if !c.Check(v) {
		return errors.Errorf("unsupported execution format version %s (supported: %s)", version, executionFormatConstraint)
	}
	return nil
}

func serializePred(p *Pred) *serializedPred {
	wire := &serializedPred{
		Op:       p.op,
		Constant: p.expr.constant,
		Terms:    make([]serializedTerm, 0, len(p.expr.coeff)),
	}
	for _, v := range p.expr.Vars() {
		wire.Terms = append(wire.Terms, serializedTerm{Var: v, Coeff: p.expr.coeff[v]})
	}
	return wire
}

func deserializePred(wire *serializedPred) (*Pred, error) {
	if !wire.Op.Valid() {
		return nil, errors.Errorf("invalid comparison operator %d", uint8(wire.Op))
	}
	expr := NewConstExpr(wire.Constant)
	for _, term := range wire.Terms {
		if term.Coeff == 0 {
			return nil, errors.Errorf("zero coefficient for x%d", term.Var)
		}
		if _, ok := expr.coeff[term.Var]; ok {
			return nil, errors.Errorf("duplicate term for x%d", term.Var)
		}
		expr.coeff[term.Var] = term.Coeff
	}
	return NewPred(wire.Op, expr), nil
}
