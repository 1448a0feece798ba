package determinism

import "context"

// Behavior declares how an operator behaves under deterministic mode.
// It is fixed at registration time and never mutated; the controller
// trusts the declaration and performs no runtime verification.
type Behavior int

const (
	// AlwaysDeterministic marks an operator whose single implementation
	// is already order-independent. The guard never redirects it.
	AlwaysDeterministic Behavior = iota

	// HasAlternate marks an operator that owns two implementations: a
	// nondeterministic fast path and a reproducible (typically slower)
	// alternate. The guard tells it which to run.
	HasAlternate

	// NondeterministicOnly marks an operator with exactly one
	// implementation whose results depend on execution order. Under
	// deterministic mode it aborts unless warn-only is set.
	NondeterministicOnly
)

// String returns the contract name used in diagnostics.
func (b Behavior) String() string {
	switch b {
	case AlwaysDeterministic:
		return "always_deterministic"
	case HasAlternate:
		return "has_alternate"
	case NondeterministicOnly:
		return "nondeterministic_only"
	default:
		return "unknown"
	}
}

// KernelFunc is a single operator implementation. Arguments are passed
// as a loosely-typed map so heterogeneous kernels share one registry.
type KernelFunc func(ctx context.Context, args map[string]any) (any, error)

// Operation binds an operator id to its contract and its kernel
// implementations. Registering the implementations alongside the
// contract is what makes guard enforcement structural: invocation goes
// through Registry.Execute, which consults the guard before any kernel
// body runs, so an implementer cannot forget the check.
type Operation struct {
	// Name is the stable human-readable operator id used in
	// diagnostics. Unique across a registry.
	Name string

	// Behavior is the declared contract under deterministic mode.
	Behavior Behavior

	// Fast is the default implementation. For AlwaysDeterministic
	// operators it is also the only (and reproducible) one.
	Fast KernelFunc

	// Deterministic is the reproducible alternate. Required exactly
	// when Behavior is HasAlternate.
	Deterministic KernelFunc
}

// Validate checks that the operation is well-formed for its declared
// contract.
func (op *Operation) Validate() error {
	if op.Name == "" {
		return ErrOperationNameEmpty
	}
	if op.Fast == nil {
		return ErrFastKernelNil
	}
	switch op.Behavior {
	case HasAlternate:
		if op.Deterministic == nil {
			return ErrAlternateMissing
		}
	case AlwaysDeterministic, NondeterministicOnly:
		if op.Deterministic != nil {
			return ErrAlternateUnexpected
		}
	}
	return nil
}
