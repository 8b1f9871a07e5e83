// Package xbferrors provides the structured error type used across the XBF
// reader. Errors are categorized by Kind and carry the absolute file
// position and node-section base offset in effect when they were raised, so
// that an outermost call site can wrap an inner cause without losing either.
package xbferrors

import (
	"fmt"
	"strings"
)

// Kind categorizes a reader failure.
type Kind string

const (
	InvalidMagic       Kind = "invalid_magic"
	UnsupportedVersion Kind = "unsupported_version"
	UnexpectedEOF      Kind = "unexpected_eof"
	UnexpectedByte     Kind = "unexpected_byte"
	UnknownOpcode      Kind = "unknown_opcode"
	UnknownValueType   Kind = "unknown_value_type"
	UnknownSectionKind Kind = "unknown_section_kind"
	StackCorruption    Kind = "stack_corruption"
	Disposed           Kind = "disposed"
	DepthExceeded      Kind = "depth_exceeded"
	UnsupportedFeature Kind = "unsupported_feature"
)

// Error is the structured error type returned by every reader package.
type Error struct {
	Kind        Kind
	Position    int // absolute file position; -1 when not applicable
	SectionBase int // node-section base offset in effect; -1 when not applicable
	Detail      string
	Cause       error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteByte(']')
	if e.Position >= 0 {
		b.WriteString(" at position ")
		fmt.Fprintf(&b, "%d", e.Position)
	}
	if e.SectionBase >= 0 {
		fmt.Fprintf(&b, " (section base %d)", e.SectionBase)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind. Validation
// harnesses that "peel wrappers to group root causes" rely on this to group
// errors without caring about position/detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Builder fluently constructs an *Error.
type Builder struct {
	err Error
}

// New starts building an error of the given kind.
func New(kind Kind) *Builder {
	return &Builder{err: Error{Kind: kind, Position: -1, SectionBase: -1}}
}

// At records the absolute file position at which the error was raised.
func (b *Builder) At(pos int) *Builder {
	b.err.Position = pos
	return b
}

// Section records the node-section base offset in effect.
func (b *Builder) Section(base int) *Builder {
	b.err.SectionBase = base
	return b
}

// Detail sets a human-readable explanation, printf-style.
func (b *Builder) Detail(format string, args ...any) *Builder {
	b.err.Detail = fmt.Sprintf(format, args...)
	return b
}

// Wrap attaches an inner cause, preserved through Unwrap.
func (b *Builder) Wrap(cause error) *Builder {
	b.err.Cause = cause
	return b
}

// Build finalizes the error.
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}
