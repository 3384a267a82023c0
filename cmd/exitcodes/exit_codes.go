package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeHandledError indicates that there was an error that was logged already and does not need to be handled
	// by main. Note that an error with error code ExitCodeGeneralError and ExitCodeHandledError are mutually exclusive
	// errors
	ExitCodeHandledError = 6

	// ExitCodeContractViolation indicates that the instrumentation and the interpreter desynchronized during a run,
	// which was aborted without writing out its execution.
	ExitCodeContractViolation = 8
)
