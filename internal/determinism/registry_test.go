package determinism

import (
	"context"
	"errors"
	"testing"
)

func nopKernel(ctx context.Context, args map[string]any) (any, error) {
	return nil, nil
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	if reg == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if reg.Count() != 0 {
		t.Errorf("new registry should be empty, got %d operators", reg.Count())
	}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry(nil)

	op := &Operation{
		Name:     "test_op",
		Behavior: AlwaysDeterministic,
		Fast:     nopKernel,
	}

	if err := reg.Register(op); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := reg.Get("test_op")
	if got == nil {
		t.Fatal("Get returned nil for registered operator")
	}
	if got.Name != "test_op" {
		t.Errorf("got name %q, want %q", got.Name, "test_op")
	}
	if !reg.Has("test_op") {
		t.Error("Has returned false for registered operator")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry(nil)

	op := &Operation{Name: "dupe", Behavior: AlwaysDeterministic, Fast: nopKernel}
	if err := reg.Register(op); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := reg.Register(op)
	if !errors.Is(err, ErrDuplicateOperator) {
		t.Fatalf("expected ErrDuplicateOperator, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry(nil)

	tests := []struct {
		name    string
		op      *Operation
		wantErr error
	}{
		{
			name:    "empty name",
			op:      &Operation{Behavior: AlwaysDeterministic, Fast: nopKernel},
			wantErr: ErrOperationNameEmpty,
		},
		{
			name:    "nil fast kernel",
			op:      &Operation{Name: "no_fast", Behavior: AlwaysDeterministic},
			wantErr: ErrFastKernelNil,
		},
		{
			name:    "has-alternate without alternate",
			op:      &Operation{Name: "half", Behavior: HasAlternate, Fast: nopKernel},
			wantErr: ErrAlternateMissing,
		},
		{
			name: "nondeterministic-only with alternate",
			op: &Operation{
				Name:          "contradiction",
				Behavior:      NondeterministicOnly,
				Fast:          nopKernel,
				Deterministic: nopKernel,
			},
			wantErr: ErrAlternateUnexpected,
		},
		{
			name: "always-deterministic with alternate",
			op: &Operation{
				Name:          "redundant",
				Behavior:      AlwaysDeterministic,
				Fast:          nopKernel,
				Deterministic: nopKernel,
			},
			wantErr: ErrAlternateUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.op)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNamesAndCount(t *testing.T) {
	reg := NewRegistry(nil)

	reg.MustRegister(&Operation{Name: "b_op", Behavior: AlwaysDeterministic, Fast: nopKernel})
	reg.MustRegister(&Operation{Name: "a_op", Behavior: AlwaysDeterministic, Fast: nopKernel})

	if reg.Count() != 2 {
		t.Errorf("Count() = %d, want 2", reg.Count())
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "a_op" || names[1] != "b_op" {
		t.Errorf("Names() = %v, want sorted [a_op b_op]", names)
	}
}

func TestMustRegisterPanics(t *testing.T) {
	reg := NewRegistry(nil)

	defer func() {
		if recover() == nil {
			t.Error("MustRegister should panic on invalid operation")
		}
	}()
	reg.MustRegister(&Operation{Name: ""})
}

func TestGlobalRegistry(t *testing.T) {
	// Reset global registry for test
	globalRegistry = NewRegistry(nil)
	resetState(t)

	op := &Operation{
		Name:     "global_op",
		Behavior: AlwaysDeterministic,
		Fast: func(ctx context.Context, args map[string]any) (any, error) {
			return "global", nil
		},
	}

	if err := Register(op); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if Global().Get("global_op") == nil {
		t.Fatal("Get returned nil for globally registered operator")
	}

	d, err := Decide("global_op")
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if d.Action != ActionProceed {
		t.Errorf("Decide action = %v, want proceed", d.Action)
	}

	result, err := Execute(context.Background(), "global_op", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result != "global" {
		t.Errorf("got result %q, want %q", result, "global")
	}
}
