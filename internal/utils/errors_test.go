package utils

import (
	"errors"
	"testing"
)

func TestWrapReturnsNilForNilError(t *testing.T) {
	if got := Wrap(nil, "context"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestWrapPrefixesMessageAndPreservesUnwrap(t *testing.T) {
	base := errors.New("boom")
	wrapped := Wrap(base, "doing the thing")
	if wrapped.Error() != "doing the thing: boom" {
		t.Fatalf("unexpected message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("expected errors.Is to see through the wrap")
	}
}

func TestWrapfFormatsMessage(t *testing.T) {
	base := errors.New("boom")
	wrapped := Wrapf(base, "hop %d (%s)", 2, "cetus")
	if wrapped.Error() != "hop 2 (cetus): boom" {
		t.Fatalf("unexpected message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("expected errors.Is to see through the wrap")
	}
}
