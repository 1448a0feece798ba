// Package ops is the demonstration operator set for the determinism
// controller: one operator per contract variant, with deliberately
// order-dependent fast paths so the mechanism has something real to
// suppress.
package ops

import (
	"errors"
	"fmt"
	"runtime"

	"numguard/internal/determinism"
)

// Operator names as registered.
const (
	OpScale           = "scale"
	OpVectorSum       = "vector_sum"
	OpBatchedMultiply = "batched_multiply"
	OpSelectMin       = "select_min"
)

// Argument errors.
var (
	ErrMissingArg = errors.New("missing argument")
	ErrBadArgType = errors.New("argument has wrong type")
	ErrEmptyInput = errors.New("input must be non-empty")
)

// RegisterAll registers the demonstration operators. Call once at host
// startup, before any dispatches.
func RegisterAll(r *determinism.Registry) error {
	operations := []*determinism.Operation{
		{
			Name:     OpScale,
			Behavior: determinism.AlwaysDeterministic,
			Fast:     scaleKernel,
		},
		{
			Name:          OpVectorSum,
			Behavior:      determinism.HasAlternate,
			Fast:          vectorSumParallel,
			Deterministic: vectorSumSequential,
		},
		{
			Name:          OpBatchedMultiply,
			Behavior:      determinism.HasAlternate,
			Fast:          batchedMultiplyParallel,
			Deterministic: batchedMultiplySequential,
		},
		{
			Name:     OpSelectMin,
			Behavior: determinism.NondeterministicOnly,
			Fast:     selectMinParallel,
		},
	}

	for _, op := range operations {
		if err := r.Register(op); err != nil {
			return err
		}
	}
	return nil
}

// floatSlice extracts a required []float64 argument.
func floatSlice(args map[string]any, key string) ([]float64, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingArg, key)
	}
	s, ok := v.([]float64)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be []float64", ErrBadArgType, key)
	}
	return s, nil
}

// matrix extracts a required [][]float64 argument.
func matrix(args map[string]any, key string) ([][]float64, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingArg, key)
	}
	m, ok := v.([][]float64)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be [][]float64", ErrBadArgType, key)
	}
	return m, nil
}

// scalar extracts a required float64 argument.
func scalar(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingArg, key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be float64", ErrBadArgType, key)
	}
	return f, nil
}

// workerCount extracts the optional "workers" argument, defaulting to
// GOMAXPROCS. The fast paths shard work across this many goroutines;
// varying it varies the floating-point combination order.
func workerCount(args map[string]any) (int, error) {
	v, ok := args["workers"]
	if !ok {
		return runtime.GOMAXPROCS(0), nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%w: workers must be int", ErrBadArgType)
	}
	if n < 1 {
		n = 1
	}
	return n, nil
}
