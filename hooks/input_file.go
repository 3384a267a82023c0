package hooks

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/crytic/concolic/symbolic"
	"github.com/pkg/errors"
)

// ReadInputFile reads the concrete input vector of a previous run from the provided path. The file holds
// whitespace-separated decimal integers. A missing file yields an empty vector, so a first run takes the default
// value of every input.
func ReadInputFile(path string) ([]symbolic.Value, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []symbolic.Value{}, nil
	} else if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	inputs, err := ParseInputs(file)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed input file %s", path)
	}
	return inputs, nil
}

// ParseInputs parses whitespace-separated decimal integers from the provided reader.
func ParseInputs(r io.Reader) ([]symbolic.Value, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	inputs := make([]symbolic.Value, 0)
	for scanner.Scan() {
		v, err := strconv.ParseInt(scanner.Text(), 10, 64)
		if err != nil {
			return nil, errors.Errorf("input %d: invalid integer '%s'", len(inputs), scanner.Text())
		}
		inputs = append(inputs, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return inputs, nil
}

// WriteInputFile writes the provided input vector to path in the format read by ReadInputFile, one value per line.
func WriteInputFile(path string, inputs []symbolic.Value) error {
	buf := make([]byte, 0, len(inputs)*4)
	for _, v := range inputs {
		buf = strconv.AppendInt(buf, v, 10)
		buf = append(buf, '\n')
	}
	return errors.WithStack(os.WriteFile(path, buf, 0644))
}
