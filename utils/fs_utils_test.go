package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateFile verifies that files are created along with any missing parent directories.
func TestCreateFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "nested")
	file, err := CreateFile(dir, "run.log")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	info, err := os.Stat(filepath.Join(dir, "run.log"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

// TestMakeDirectory verifies that existing directories are accepted and files are rejected.
func TestMakeDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, MakeDirectory(dir))
	assert.NoError(t, MakeDirectory(filepath.Join(dir, "a", "b")))

	path := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.Error(t, MakeDirectory(path))
}

// TestOpenAppendFile verifies that successive opens append to the file, creating its directory on the first open.
func TestOpenAppendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "states.log")
	for _, line := range []string{"first\n", "second\n"} {
		file, err := OpenAppendFile(path)
		require.NoError(t, err)
		_, err = file.WriteString(line)
		require.NoError(t, err)
		require.NoError(t, file.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))

	// A parent which is a file cannot be created
	_, err = OpenAppendFile(filepath.Join(path, "nested.log"))
	assert.Error(t, err)

	// Relative paths in the working directory need no parent
	assert.NoError(t, MakeParentDirectory("states.log"))
}
