package symbolic

import (
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getMockExecution creates an execution exercising every kind of path entry for testing.
func getMockExecution() *Execution {
	ex := NewExecution([]Value{5, -7})
	ex.AppendInput(300)
	ex.DeclareVar(0, InputTypeInt)
	ex.DeclareVar(1, InputTypeChar)
	ex.DeclareVar(2, InputTypeUShort)

	lt := NewVarExpr(1, 0)
	lt.SubConst(10)
	mixed := NewVarExpr(3, 1)
	mixed.Add(NewVarExpr(-2, 2))
	mixed.AddConst(1 << 40)

	path := ex.Path()
	path.Push(1, nil)
	path.PushCall(9)
	path.Push(7, NewPred(CompareLT, lt))
	path.Push(8, NewPred(CompareNEQ, mixed))
	path.PushReturn()
	path.Push(2, nil)
	return ex
}

// executionComparer describes how go-cmp should compare executions, including their unexported fields.
var executionComparer = []cmp.Option{
	cmp.AllowUnexported(Execution{}, Path{}, Pred{}, Expr{}),
	cmpopts.EquateEmpty(),
}

// TestExecutionRoundTrip verifies that serializing and deserializing an execution reproduces it exactly.
func TestExecutionRoundTrip(t *testing.T) {
	ex := getMockExecution()

	b, err := ex.MarshalBinary()
	require.NoError(t, err)

	decoded := NewExecution(nil)
	require.NoError(t, decoded.UnmarshalBinary(b))

	assert.True(t, ex.Equal(decoded))
	if diff := cmp.Diff(ex, decoded, executionComparer...); diff != "" {
		t.Fatalf("round-tripped execution differs (-want +got):\n%s", diff)
	}

	// The derived constraint views must be rebuilt as well
	assert.Equal(t, ex.Path().ConstraintIndices(), decoded.Path().ConstraintIndices())
	assert.Equal(t, "(x0 - 10 < 0)", decoded.Path().Constraints()[0].String())
}

// TestExecutionEncodingDeterministic verifies that equal executions always serialize to the same bytes.
func TestExecutionEncodingDeterministic(t *testing.T) {
	a, err := getMockExecution().MarshalBinary()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		b, err := getMockExecution().MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

// TestExecutionEmptyRoundTrip verifies the round trip of an execution without inputs or path entries.
func TestExecutionEmptyRoundTrip(t *testing.T) {
	b, err := NewExecution(nil).MarshalBinary()
	require.NoError(t, err)

	decoded := getMockExecution()
	require.NoError(t, decoded.UnmarshalBinary(b))
	assert.Equal(t, 0, decoded.NumInputs())
	assert.Empty(t, decoded.Vars())
	assert.Equal(t, 0, decoded.Path().Len())
}

// TestExecutionUnmarshalRejectsMalformed verifies that malformed artifacts are rejected rather than partially decoded.
func TestExecutionUnmarshalRejectsMalformed(t *testing.T) {
	encode := func(wire serializedExecution) []byte {
		body, err := cbor.Marshal(wire, cbor.EncOptions{})
		require.NoError(t, err)
		return append(append([]byte(nil), executionMagic...), body...)
	}

	tests := map[string][]byte{
		"bad magic":         []byte("NOPE"),
		"truncated body":    append(append([]byte(nil), executionMagic...), 0xa4),
		"future version":    encode(serializedExecution{Version: "2.0.0"}),
		"invalid version":   encode(serializedExecution{Version: "latest"}),
		"invalid var type":  encode(serializedExecution{Version: ExecutionFormatVersion, Vars: []serializedVar{{ID: 0, Type: 42}}}),
		"invalid path kind": encode(serializedExecution{Version: ExecutionFormatVersion, Path: []serializedPathEntry{{Kind: 9}}}),
		"invalid operator": encode(serializedExecution{Version: ExecutionFormatVersion, Path: []serializedPathEntry{
			{Kind: PathEntryBranch, Pred: &serializedPred{Op: 17, Terms: []serializedTerm{{Var: 0, Coeff: 1}}}},
		}}),
		"zero coefficient": encode(serializedExecution{Version: ExecutionFormatVersion, Path: []serializedPathEntry{
			{Kind: PathEntryBranch, Pred: &serializedPred{Op: CompareEQ, Terms: []serializedTerm{{Var: 0, Coeff: 0}}}},
		}}),
		"duplicate term": encode(serializedExecution{Version: ExecutionFormatVersion, Path: []serializedPathEntry{
			{Kind: PathEntryBranch, Pred: &serializedPred{Op: CompareEQ, Terms: []serializedTerm{{Var: 0, Coeff: 1}, {Var: 0, Coeff: 2}}}},
		}}),
	}
	for name, data := range tests {
		ex := getMockExecution()
		err := ex.UnmarshalBinary(data)
		assert.Error(t, err, name)

		// A failed decode must leave the receiver untouched
		assert.True(t, ex.Equal(getMockExecution()), name)
	}
}

// TestExecutionFile verifies reading and writing executions to disk.
func TestExecutionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "szd_execution")
	ex := getMockExecution()
	require.NoError(t, WriteExecutionFile(path, ex))

	read, err := ReadExecutionFile(path)
	require.NoError(t, err)
	assert.True(t, ex.Equal(read))

	_, err = ReadExecutionFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
