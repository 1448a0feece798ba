package determinism

import (
	"fmt"
	"sort"
	"sync"
)

// AlertSink is the diagnostic channel the guard raises through: Warn
// for the non-fatal warn-only path, Abort to record a forbidden call
// and build the error its caller receives. The concrete sink (log,
// diagnostic stream) is an external collaborator supplied by the host.
type AlertSink interface {
	Warn(operator, reason string)
	Abort(operator, reason string) error
}

// nopSink discards diagnostics. Used when the host supplies no sink;
// aborts still produce the caller-facing error.
type nopSink struct{}

func (nopSink) Warn(string, string) {}

func (nopSink) Abort(operator, reason string) error {
	return &UnavailableError{Operator: operator, Reason: reason}
}

// Registry holds the operator contracts and their kernel
// implementations. Registration is write-once-per-operator at
// initialization; steady-state operation is read-only. An RWMutex makes
// registration visible-before-use to every reader if startup
// registration races with early dispatches.
type Registry struct {
	mu   sync.RWMutex
	ops  map[string]*Operation
	sink AlertSink
}

// NewRegistry creates an empty registry. A nil sink discards warnings.
func NewRegistry(sink AlertSink) *Registry {
	if sink == nil {
		sink = nopSink{}
	}
	return &Registry{
		ops:  make(map[string]*Operation),
		sink: sink,
	}
}

// SetAlertSink replaces the warning sink. A nil sink discards warnings.
func (r *Registry) SetAlertSink(sink AlertSink) {
	if sink == nil {
		sink = nopSink{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = sink
}

// Register adds an operation to the registry.
// Returns ErrDuplicateOperator if the operator id is already taken.
func (r *Registry) Register(op *Operation) error {
	if err := op.Validate(); err != nil {
		return fmt.Errorf("invalid operation: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[op.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOperator, op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

// MustRegister registers an operation and panics on error.
// Use this for static operator registration at init time, where a
// duplicate or malformed contract is a build defect.
func (r *Registry) MustRegister(op *Operation) {
	if err := r.Register(op); err != nil {
		panic(fmt.Sprintf("failed to register operator %s: %v", op.Name, err))
	}
}

// Get returns an operation by name, or nil if not registered.
func (r *Registry) Get(name string) *Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ops[name]
}

// Has returns true if an operator with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ops[name]
	return ok
}

// Names returns all registered operator names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered operators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}

// Global registry instance for convenience.
var globalRegistry = NewRegistry(nil)

// Global returns the global operator registry.
func Global() *Registry {
	return globalRegistry
}

// Register adds an operation to the global registry.
func Register(op *Operation) error {
	return globalRegistry.Register(op)
}

// MustRegisterGlobal registers an operation in the global registry,
// panicking on error.
func MustRegisterGlobal(op *Operation) {
	globalRegistry.MustRegister(op)
}

// Decide evaluates the dispatch guard against the global registry.
func Decide(name string) (Directive, error) {
	return globalRegistry.Decide(name)
}
