package logging

// These constants are used to identify the various services that may do some logging
const (
	// RUNTIME_SERVICE is the constant used to identify the hooks package
	RUNTIME_SERVICE = "runtime"
	// TRACING_SERVICE is the constant used to identify the tracing package
	TRACING_SERVICE = "tracing"
	// ARCHIVE_SERVICE is the constant used to identify the archive package
	ARCHIVE_SERVICE = "archive"
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
)
