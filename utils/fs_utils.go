package utils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// MakeDirectory creates the directory dir along with any missing parents. It fails if dir exists as a file.
func MakeDirectory(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return errors.WithStack(os.MkdirAll(dir, 0755))
	case err != nil:
		return errors.WithStack(err)
	case !info.IsDir():
		return errors.Errorf("there is a file with the same name as %s", dir)
	}
	return nil
}

// MakeParentDirectory creates the directory path is to be written in, if it is missing.
func MakeParentDirectory(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		return MakeDirectory(dir)
	}
	return nil
}

// CreateFile creates (or truncates) the file named fileName in dir, creating dir if needed. An empty dir refers to
// the working directory.
func CreateFile(dir string, fileName string) (*os.File, error) {
	path := filepath.Join(dir, fileName)
	if err := MakeParentDirectory(path); err != nil {
		return nil, err
	}
	file, err := os.Create(path)
	return file, errors.WithStack(err)
}

// OpenAppendFile opens path for appending, creating the file and its directory if needed.
func OpenAppendFile(path string) (*os.File, error) {
	if err := MakeParentDirectory(path); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	return file, errors.WithStack(err)
}
