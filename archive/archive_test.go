package archive

import (
	"path/filepath"
	"testing"

	"github.com/crytic/concolic/symbolic"
	"github.com/crytic/concolic/version"
	"github.com/fxamacker/cbor"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

// newMockExecution creates an execution over the provided inputs with a single branch 'x0 < bound'.
func newMockExecution(bound symbolic.Value, inputs ...symbolic.Value) *symbolic.Execution {
	ex := symbolic.NewExecution(inputs)
	for i := range inputs {
		ex.DeclareVar(symbolic.VarID(i), symbolic.InputTypeInt)
	}
	expr := symbolic.NewVarExpr(1, 0)
	expr.SubConst(bound)
	ex.Path().PushCall(1)
	ex.Path().Push(3, symbolic.NewPred(symbolic.CompareLT, expr))
	ex.Path().Push(4, nil)
	ex.Path().PushReturn()
	return ex
}

// openTestArchive opens a new Archive in a temporary directory, closing it when the test completes.
func openTestArchive(t *testing.T) (*Archive, string) {
	path := filepath.Join(t.TempDir(), "runs.db")
	a, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, path
}

// TestFingerprint verifies that fingerprints identify paths independently of the concrete inputs.
func TestFingerprint(t *testing.T) {
	a := Fingerprint(newMockExecution(10, 5).Path())
	b := Fingerprint(newMockExecution(10, 7, 1).Path())
	c := Fingerprint(newMockExecution(11, 5).Path())
	empty := Fingerprint(symbolic.NewPath())

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, empty)

	// Branch ids and their position on the path matter
	p := symbolic.NewPath()
	p.Push(4, nil)
	q := symbolic.NewPath()
	q.PushCall(4)
	assert.NotEqual(t, Fingerprint(p), Fingerprint(q))
}

// TestPutGet verifies that archived executions are retrieved intact.
func TestPutGet(t *testing.T) {
	a, _ := openTestArchive(t)

	ex := newMockExecution(10, 5, 6)
	id, isNew, err := a.Put(ex)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, uuid.Nil, id)

	record, err := a.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, Fingerprint(ex.Path()), record.Fingerprint)
	assert.True(t, ex.Equal(record.Execution))
	assert.False(t, record.Created.IsZero())
	assert.Equal(t, version.GetInfo().Version, record.RuntimeVersion)

	contains, err := a.Contains(record.Fingerprint)
	require.NoError(t, err)
	assert.True(t, contains)
}

// TestPutDeduplicates verifies that executions reaching an archived path are not stored again.
func TestPutDeduplicates(t *testing.T) {
	a, _ := openTestArchive(t)

	first, isNew, err := a.Put(newMockExecution(10, 5))
	require.NoError(t, err)
	require.True(t, isNew)

	second, isNew, err := a.Put(newMockExecution(10, 8))
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first, second)

	third, isNew, err := a.Put(newMockExecution(20, 5))
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, first, third)

	count, err := a.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	summaries, err := a.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, first, summaries[0].ID)
	assert.Equal(t, third, summaries[1].ID)
	assert.Equal(t, 1, summaries[0].NumInputs)
	assert.Equal(t, 1, summaries[0].NumConstraints)
	assert.Equal(t, version.GetInfo().Version, summaries[0].RuntimeVersion)
}

// TestGetMissing verifies that unknown record ids are reported as not found.
func TestGetMissing(t *testing.T) {
	a, _ := openTestArchive(t)
	_, err := a.Get(uuid.New())
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.True(t, errors.Is(err, ErrRecordNotFound))
}

// TestReopen verifies that archived executions persist across reopening the database.
func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	a, err := Open(path)
	require.NoError(t, err)
	id, _, err := a.Put(newMockExecution(10, 5))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a, err = Open(path)
	require.NoError(t, err)
	defer a.Close()

	record, err := a.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []symbolic.Value{5}, record.Execution.Inputs())
}

// setRuntimeVersion overwrites the runtime version stored with the record id.
func setRuntimeVersion(t *testing.T, a *Archive, id uuid.UUID, runtimeVersion string) {
	err := a.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(executionsBucket)
		var stored storedRecord
		if err := cbor.Unmarshal(bucket.Get(id[:]), &stored); err != nil {
			return err
		}
		stored.RuntimeVersion = runtimeVersion
		data, err := cbor.Marshal(stored, cbor.EncOptions{})
		if err != nil {
			return err
		}
		return bucket.Put(id[:], data)
	})
	require.NoError(t, err)
}

// TestGetIncompatible verifies that records archived by an incompatible runtime are listed but not decoded.
func TestGetIncompatible(t *testing.T) {
	a, _ := openTestArchive(t)
	id, _, err := a.Put(newMockExecution(10, 5))
	require.NoError(t, err)

	ours, err := version.GetInfo().SemVer()
	require.NoError(t, err)

	// A later patch release archives executions this build reads
	patch := ours.IncPatch()
	setRuntimeVersion(t, a, id, patch.String())
	record, err := a.Get(id)
	require.NoError(t, err)
	assert.Equal(t, patch.String(), record.RuntimeVersion)

	major := ours.IncMajor()
	for _, runtimeVersion := range []string{major.String(), "", "not-a-version"} {
		setRuntimeVersion(t, a, id, runtimeVersion)
		_, err = a.Get(id)
		assert.ErrorIs(t, err, ErrIncompatibleRecord, runtimeVersion)
	}

	summaries, err := a.List()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "not-a-version", summaries[0].RuntimeVersion)
}
