package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"numguard/internal/determinism"
)

func observedNotifier(policy Policy) (*Notifier, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return NewNotifier(zap.New(core), policy), logs
}

func TestWarnEveryCall(t *testing.T) {
	n, logs := observedNotifier(WarnEveryCall)

	for i := 0; i < 5; i++ {
		n.Warn("vector_sum", "not reproducible")
	}

	require.Equal(t, 5, logs.Len(), "every call must produce a warning")
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "vector_sum", fields["operator"])
	assert.Equal(t, "not reproducible", fields["reason"])
	assert.NotEmpty(t, fields["event_id"])
}

func TestWarnOncePerOperator(t *testing.T) {
	n, logs := observedNotifier(WarnOncePerOperator)

	n.Warn("vector_sum", "r")
	n.Warn("vector_sum", "r")
	n.Warn("select_min", "r")
	n.Warn("vector_sum", "r")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "vector_sum", logs.All()[0].ContextMap()["operator"])
	assert.Equal(t, "select_min", logs.All()[1].ContextMap()["operator"])
}

func TestAbort(t *testing.T) {
	n, logs := observedNotifier(WarnEveryCall)

	err := n.Abort("select_min", "no deterministic implementation available")
	require.Error(t, err)
	assert.ErrorIs(t, err, determinism.ErrDeterminismUnavailable)

	var ue *determinism.UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "select_min", ue.Operator)
	assert.Contains(t, err.Error(), "select_min")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

// The notifier must see every abort the guard issues, not just the
// warn-only path: a nondeterministic-only operator dispatched under
// strict deterministic mode produces both the caller-facing error and
// an error-level log entry.
func TestNotifierAsRegistrySink(t *testing.T) {
	t.Cleanup(func() {
		determinism.SetDeterministic(false)
		determinism.SetWarnOnly(false)
	})

	n, logs := observedNotifier(WarnEveryCall)
	reg := determinism.NewRegistry(n)
	reg.MustRegister(&determinism.Operation{
		Name:     "unstable_reduce",
		Behavior: determinism.NondeterministicOnly,
		Fast: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, nil
		},
	})

	determinism.SetDeterministic(true)

	_, err := reg.Execute(context.Background(), "unstable_reduce", nil)
	require.ErrorIs(t, err, determinism.ErrDeterminismUnavailable)

	require.Equal(t, 1, logs.Len(), "abort must be logged through the alert channel")
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "unstable_reduce", entry.ContextMap()["operator"])

	determinism.SetWarnOnly(true)
	_, err = reg.Execute(context.Background(), "unstable_reduce", nil)
	require.NoError(t, err)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
}

func TestNewNotifierNilLogger(t *testing.T) {
	n := NewNotifier(nil, WarnEveryCall)
	// Must not panic.
	n.Warn("op", "reason")
	err := n.Abort("op", "reason")
	assert.True(t, errors.Is(err, determinism.ErrDeterminismUnavailable))
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", WarnEveryCall, false},
		{"every_call", WarnEveryCall, false},
		{"once_per_operator", WarnOncePerOperator, false},
		{"sometimes", WarnEveryCall, true},
	}

	for _, tt := range tests {
		t.Run("policy_"+tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
