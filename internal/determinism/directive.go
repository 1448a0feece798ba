package determinism

// Action is the per-call decision the dispatch guard hands back to an
// operator.
type Action int

const (
	// ActionProceed runs the operator's default implementation.
	ActionProceed Action = iota

	// ActionProceedAlternate runs the reproducible alternate.
	ActionProceedAlternate

	// ActionProceedWithWarning runs the default (nondeterministic)
	// implementation after a warning has been emitted.
	ActionProceedWithWarning

	// ActionAbort forbids the call; the operator body must not run.
	ActionAbort
)

// String returns the action name used in diagnostics.
func (a Action) String() string {
	switch a {
	case ActionProceed:
		return "proceed"
	case ActionProceedAlternate:
		return "proceed_alternate"
	case ActionProceedWithWarning:
		return "proceed_with_warning"
	case ActionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Directive is the result of one dispatch guard evaluation. It is
// created and consumed within a single call frame and is binding for
// that whole call: an operator must not re-check mode state
// mid-execution and switch paths, or a concurrent mode flip could tear
// a long-running result.
type Directive struct {
	Action Action

	// Reason carries the human-actionable message on the abort and
	// warning paths; empty otherwise.
	Reason string
}
