package exitcodes

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// TestGetInnerErrorAndExitCode verifies exit codes for nil, plain and wrapped errors.
func TestGetInnerErrorAndExitCode(t *testing.T) {
	err, code := GetInnerErrorAndExitCode(nil)
	assert.NoError(t, err)
	assert.Equal(t, ExitCodeSuccess, code)

	plain := errors.New("plain")
	err, code = GetInnerErrorAndExitCode(plain)
	assert.Equal(t, plain, err)
	assert.Equal(t, ExitCodeGeneralError, code)

	inner := errors.New("aborted")
	withExitCode := NewErrorWithExitCode(inner, ExitCodeContractViolation)
	assert.Equal(t, ExitCodeContractViolation, withExitCode.ExitCode())
	assert.ErrorIs(t, withExitCode, inner)

	// The exit code is found below further wrapping
	err, code = GetInnerErrorAndExitCode(errors.Wrap(withExitCode, "replay"))
	assert.Equal(t, inner, err)
	assert.Equal(t, ExitCodeContractViolation, code)
}
