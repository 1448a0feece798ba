// Package alert is the diagnostic channel of the determinism
// controller: warnings on the warn-only path and the abort error for
// nondeterministic-only operators. The sink behind it is whatever zap
// logger the host provides.
package alert

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"numguard/internal/determinism"
)

// Policy controls warning deduplication. The reference behavior is one
// warning per call with no deduplication — a hot loop hitting a
// nondeterministic-only operator 10,000 times under warn-only warns
// 10,000 times. Hosts that find that noisy can opt into
// once-per-operator.
type Policy int

const (
	// WarnEveryCall emits a warning on every guarded call. Default.
	WarnEveryCall Policy = iota

	// WarnOncePerOperator emits at most one warning per operator id
	// for the process lifetime.
	WarnOncePerOperator
)

// ParsePolicy maps the config spelling to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "every_call":
		return WarnEveryCall, nil
	case "once_per_operator":
		return WarnOncePerOperator, nil
	default:
		return WarnEveryCall, fmt.Errorf("unknown warn policy %q", s)
	}
}

// Notifier emits determinism warnings and aborts through a zap logger.
// It implements determinism.AlertSink. Safe for concurrent use.
type Notifier struct {
	log    *zap.Logger
	policy Policy
	seen   sync.Map // operator id -> struct{}
}

// NewNotifier creates a notifier. A nil logger falls back to zap.NewNop.
func NewNotifier(log *zap.Logger, policy Policy) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{log: log, policy: policy}
}

// Warn emits a non-fatal notice that an operator is about to run its
// nondeterministic implementation under deterministic mode. Never
// affects control flow.
func (n *Notifier) Warn(operator, reason string) {
	if n.policy == WarnOncePerOperator {
		if _, dup := n.seen.LoadOrStore(operator, struct{}{}); dup {
			return
		}
	}
	n.log.Warn("nondeterministic operator ran under deterministic mode",
		zap.String("operator", operator),
		zap.String("reason", reason),
		zap.String("event_id", uuid.NewString()),
	)
}

// Abort records and returns the failure for an operator that may not
// run under the current mode. The returned *determinism.UnavailableError
// is for the operator's caller; it is never retried or swallowed here.
func (n *Notifier) Abort(operator, reason string) error {
	n.log.Error("operator aborted: deterministic implementation required",
		zap.String("operator", operator),
		zap.String("reason", reason),
		zap.String("event_id", uuid.NewString()),
	)
	return &determinism.UnavailableError{Operator: operator, Reason: reason}
}
