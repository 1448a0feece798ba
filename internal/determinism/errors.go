package determinism

import (
	"errors"
	"fmt"
)

// Registry and contract errors.
var (
	// ErrDuplicateOperator is returned when registering an operator id
	// that already exists. A registration-time defect, fatal to startup.
	ErrDuplicateOperator = errors.New("operator already registered")

	// ErrUnknownOperator is returned when dispatching an operator that
	// never registered itself. A programming defect in the operator's
	// own implementation, not a user-facing condition.
	ErrUnknownOperator = errors.New("operator not registered")

	// ErrOperationNameEmpty is returned when an operation has no name.
	ErrOperationNameEmpty = errors.New("operation name cannot be empty")

	// ErrFastKernelNil is returned when an operation has no fast kernel.
	ErrFastKernelNil = errors.New("operation fast kernel cannot be nil")

	// ErrAlternateMissing is returned when a has-alternate operation
	// supplies no deterministic kernel.
	ErrAlternateMissing = errors.New("has-alternate operation requires a deterministic kernel")

	// ErrAlternateUnexpected is returned when an operation declares a
	// single-implementation contract but supplies an alternate kernel.
	ErrAlternateUnexpected = errors.New("operation contract does not admit a deterministic kernel")
)

// ErrDeterminismUnavailable is the errors.Is target for
// UnavailableError, the sole user-facing runtime error of the
// controller.
var ErrDeterminismUnavailable = errors.New("no deterministic implementation available")

// UnavailableError is raised when deterministic mode is required,
// warn-only is off, and a nondeterministic-only operator is invoked.
// It propagates to the original caller; the controller never retries
// or swallows it, since there is no alternate path to fall back to.
type UnavailableError struct {
	Operator string
	Reason   string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("operator %q: %s", e.Operator, e.Reason)
}

// Is makes errors.Is(err, ErrDeterminismUnavailable) true for any
// UnavailableError.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrDeterminismUnavailable
}
