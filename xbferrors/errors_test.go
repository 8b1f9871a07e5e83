package xbferrors

import (
	"errors"
	"testing"
)

func TestErrorIsGroupsByKind(t *testing.T) {
	inner := New(UnknownOpcode).At(42).Section(16).Detail("byte 0x%02x", 0xFF).Build()
	wrapped := New(UnknownOpcode).At(100).Wrap(inner).Build()

	if !errors.Is(wrapped, New(UnknownOpcode).Build()) {
		t.Fatalf("expected wrapped error to match by Kind")
	}
	if errors.Is(wrapped, New(InvalidMagic).Build()) {
		t.Fatalf("did not expect wrapped error to match a different Kind")
	}
}

func TestErrorUnwrapReturnsCause(t *testing.T) {
	cause := New(UnexpectedEOF).Build()
	err := New(UnknownOpcode).Wrap(cause).Build()

	if errors.Unwrap(err) != cause {
		t.Fatalf("expected Unwrap to return the original cause")
	}
}

func TestErrorMessageIncludesPositionAndDetail(t *testing.T) {
	err := New(UnknownOpcode).At(42).Detail("byte 0x%02x", 0x99).Build()
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty message")
	}
	if want := "[unknown_opcode]"; len(msg) < len(want) || msg[:len(want)] != want {
		t.Fatalf("expected message to start with %q, got %q", want, msg)
	}
}
