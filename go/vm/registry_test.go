package vm

import (
	"strings"
	"testing"
)

func TestInterpreterRegistry_NameCollisionsAreDetected(t *testing.T) {
	const name = "something-just-for-this-test"
	factory := func(any) (Interpreter, error) {
		return nil, nil
	}
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RegisterInterpreterFactory(name, factory); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestInterpreterRegistry_NilFactoriesAreRejected(t *testing.T) {
	const name = "something"
	if err := RegisterInterpreterFactory(name, nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestInterpreterRegistry_LookupIsCaseInsensitive(t *testing.T) {
	const name = "MixedCaseTestInterpreter"
	factory := func(any) (Interpreter, error) {
		return nil, nil
	}
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetInterpreterFactory(strings.ToUpper(name)) == nil {
		t.Errorf("failed to resolve factory using upper-case name")
	}
	if GetInterpreterFactory(strings.ToLower(name)) == nil {
		t.Errorf("failed to resolve factory using lower-case name")
	}
}

func TestNewInterpreter_UnknownNamesAreReported(t *testing.T) {
	if _, err := NewInterpreter("an-interpreter-that-does-not-exist"); err == nil {
		t.Errorf("expected error, got nil")
	}
}

func TestNewInterpreter_TooManyConfigurationsAreRejected(t *testing.T) {
	if _, err := NewInterpreter("anything", 1, 2); err == nil {
		t.Errorf("expected error, got nil")
	}
}
