// Package determinism implements the deterministic execution mode
// controller: process-wide mode state, per-operator contracts, and the
// dispatch guard every guarded operator runs through at call time.
//
// The controller decides; it never computes. Kernel implementations
// declare how they behave under deterministic mode and the guard tells
// them, per call, which path to run (or that they may not run at all).
package determinism

import "sync/atomic"

// Process-wide mode flags. Each flag is an independent atomic boolean:
// reads are lock-free and never torn, but a write provides no ordering
// guarantee relative to concurrent in-flight dispatches. Callers that
// need "every call after this point sees the new mode" must quiesce
// their workers before flipping.
var (
	deterministicRequired atomic.Bool
	warnOnly              atomic.Bool
)

// SetDeterministic sets whether operators are required to use
// deterministic algorithms. Defaults to false. Typically called once
// near startup; calls already in flight keep the directive they were
// issued.
func SetDeterministic(required bool) {
	deterministicRequired.Store(required)
}

// SetWarnOnly controls the warn-only relaxation: when true, operators
// that would otherwise abort under deterministic mode emit a warning
// and run their nondeterministic implementation anyway. Defaults to
// false. Orthogonal to SetDeterministic.
func SetWarnOnly(enabled bool) {
	warnOnly.Store(enabled)
}

// Enabled reports whether deterministic algorithms are required.
func Enabled() bool {
	return deterministicRequired.Load()
}

// WarnOnly reports whether the warn-only relaxation is active.
func WarnOnly() bool {
	return warnOnly.Load()
}

// State returns both mode flags. The two loads are individually atomic
// but not a snapshot of a single instant; the flags carry independent
// semantics, so this is sufficient.
func State() (required, warn bool) {
	return deterministicRequired.Load(), warnOnly.Load()
}
