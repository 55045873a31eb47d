package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "contentstore.load",
		Kind: KindInvalidConfig,
		Path: "/Game/X.X",
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindInvalidConfig {
		t.Fatalf("expected kind %s", KindInvalidConfig)
	}

	msg := err.Error()
	for _, want := range []string{"contentstore.load", "invalid_config", "path=/Game/X.X", "root"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestOpErrorNil(t *testing.T) {
	var err *OpError
	if err.Error() != "<nil>" {
		t.Fatalf("unexpected nil message %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Fatalf("expected nil unwrap")
	}
}

func TestIsKind(t *testing.T) {
	err := &OpError{Op: "x", Kind: KindNotFound, Err: ErrNotFound}

	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected IsKind to match")
	}
	if IsKind(err, KindTypeMismatch) {
		t.Fatalf("expected IsKind to reject other kinds")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Fatalf("expected IsKind false for plain errors")
	}
}

func TestTypeMismatchError(t *testing.T) {
	inner := &TypeMismatchError{Ref: "/Game/X.X", Actual: ClassDataTable, Expected: ClassDataRepository}
	err := &OpError{Op: "import.typecheck", Kind: KindTypeMismatch, Path: "/Game/X.X", Err: inner}

	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch in chain")
	}

	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected errors.As to find TypeMismatchError")
	}
	if tm.Actual != ClassDataTable || tm.Expected != ClassDataRepository {
		t.Fatalf("unexpected classes %s/%s", tm.Actual, tm.Expected)
	}
	if got := inner.Error(); got != "asset /Game/X.X was DataTable, not VulDataRepository" {
		t.Fatalf("unexpected message %q", got)
	}
}
