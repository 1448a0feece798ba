package determinism

import (
	"context"
	"fmt"
)

// unavailableReason is the remediation hint carried by aborts and
// warnings for nondeterministic-only operators.
const unavailableReason = "no deterministic implementation available; " +
	"call SetDeterministic(false) to lift the requirement, or request a deterministic kernel for this operator"

// Decide is the dispatch guard: it reads the current mode state and the
// operator's contract and returns the directive binding for this call.
//
// Branch order matters. The mode-off short-circuit comes before any
// contract inspection because the overwhelming majority of calls run
// with determinism disabled and must pay nothing beyond one boolean
// load and the registry lookup. Warn-only is consulted only on the
// abort path; the warning is emitted here, once per call, with no
// deduplication unless the sink itself dedupes.
//
// Returns ErrUnknownOperator if the operator never registered itself —
// a programming defect in the operator implementation that fails
// loudly rather than silently defaulting.
func (r *Registry) Decide(name string) (Directive, error) {
	op := r.Get(name)
	if op == nil {
		return Directive{}, fmt.Errorf("%w: %s", ErrUnknownOperator, name)
	}
	return r.decide(op)
}

func (r *Registry) decide(op *Operation) (Directive, error) {
	if !Enabled() {
		return Directive{Action: ActionProceed}, nil
	}

	switch op.Behavior {
	case AlwaysDeterministic:
		return Directive{Action: ActionProceed}, nil
	case HasAlternate:
		return Directive{Action: ActionProceedAlternate}, nil
	case NondeterministicOnly:
		if WarnOnly() {
			r.warn(op.Name, unavailableReason)
			return Directive{Action: ActionProceedWithWarning, Reason: unavailableReason}, nil
		}
		return Directive{Action: ActionAbort, Reason: unavailableReason}, nil
	default:
		return Directive{}, fmt.Errorf("operator %s: unknown behavior %d", op.Name, op.Behavior)
	}
}

// Execute dispatches an operator call through the guard. This is the
// structural enforcement point: every invocation evaluates the guard
// before any kernel body runs, and the directive issued here is binding
// for the whole call even if mode state flips mid-execution.
//
// On the abort path the kernel never runs and the returned error is an
// *UnavailableError identifying the operator; it is surfaced to the
// caller untouched.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	op := r.Get(name)
	if op == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, name)
	}

	d, err := r.decide(op)
	if err != nil {
		return nil, err
	}

	switch d.Action {
	case ActionProceed, ActionProceedWithWarning:
		return op.Fast(ctx, args)
	case ActionProceedAlternate:
		return op.Deterministic(ctx, args)
	case ActionAbort:
		return nil, r.abort(op.Name, d.Reason)
	default:
		return nil, fmt.Errorf("operator %s: unknown directive %v", op.Name, d.Action)
	}
}

// Execute dispatches through the global registry.
func Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	return globalRegistry.Execute(ctx, name, args)
}

func (r *Registry) warn(operator, reason string) {
	r.mu.RLock()
	sink := r.sink
	r.mu.RUnlock()
	sink.Warn(operator, reason)
}

// abort raises the failure through the alert sink so the channel sees
// every abort, and returns the error for the operator's caller.
func (r *Registry) abort(operator, reason string) error {
	r.mu.RLock()
	sink := r.sink
	r.mu.RUnlock()
	return sink.Abort(operator, reason)
}
