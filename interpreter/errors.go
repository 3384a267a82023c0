package interpreter

import (
	"fmt"

	"github.com/crytic/concolic/symbolic"
)

// ContractViolation describes a breach of the contract between the instrumentation and the Interpreter, such as
// popping an empty shadow stack. It indicates the two have desynchronized, so any path recorded from that point on
// would be corrupt. The Interpreter panics with a *ContractViolation and never recovers from it.
type ContractViolation struct {
	// Op describes the interpreter operation that detected the violation.
	Op string

	// Site describes the instrumented operation site which triggered the operation.
	Site symbolic.SiteID

	// Msg describes the violated expectation.
	Msg string
}

// Error returns the error message string, implementing the `error` interface.
func (c *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation in %s at site %d: %s", c.Op, c.Site, c.Msg)
}

// violate panics with a ContractViolation for the provided operation and site.
func violate(op string, site symbolic.SiteID, format string, args ...any) {
	panic(&ContractViolation{Op: op, Site: site, Msg: fmt.Sprintf(format, args...)})
}
