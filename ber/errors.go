// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"errors"
	"fmt"
)

// Kind classifies an [Error], independent of the wrapped cause.
type Kind int

const (
	// InvalidValue means a null or out-of-range argument was passed to a
	// public operation.
	InvalidValue Kind = iota
	// Conflict means a one-shot setter (SetModule, SetReader) was called a
	// second time.
	Conflict
	// ReadError means the underlying reader reported an I/O failure.
	ReadError
	// PrematureEOF means the stream ended in the middle of a TLV header or
	// a primitive TLV's value.
	PrematureEOF
	// BERError means the encoding itself is malformed: forbidden length,
	// header too long, tag or length overflow, a frame whose accounted bytes
	// exceed its declared length, or a frame stack deeper than the decoder
	// allows.
	BERError
	// OutOfCore means an allocation failed, or the image buffer would have
	// to grow past its caller-configured cap.
	OutOfCore
	// NotImplemented means a boundary case the decoder explicitly refuses.
	NotImplemented
	// General is reserved for invariant violations that indicate a bug in
	// this package rather than in the input or its caller.
	General
)

func (k Kind) String() string {
	switch k {
	case InvalidValue:
		return "InvalidValue"
	case Conflict:
		return "Conflict"
	case ReadError:
		return "ReadError"
	case PrematureEOF:
		return "PrematureEOF"
	case BERError:
		return "BERError"
	case OutOfCore:
		return "OutOfCore"
	case NotImplemented:
		return "NotImplemented"
	case General:
		return "General"
	}
	return "Kind(?)"
}

// Error is the single error type this package returns. It carries a [Kind],
// an optional wrapped cause, and positional context for diagnosing where in
// the stream or schema the failure occurred. One type carrying a Kind beats
// one type per failure class here, since the taxonomy is closed and small.
type Error struct {
	Kind Kind
	Err  error

	// Offset is the byte offset into the input stream at which the error was
	// detected, or -1 if not applicable.
	Offset int64
	// Node is the name of the schema node being matched when the error
	// occurred, or "" if none.
	Node string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Node != "" {
		msg = fmt.Sprintf("%s (node %q)", msg, e.Node)
	}
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an [*Error] with the same [Kind]. This lets
// callers write errors.Is(err, &ber.Error{Kind: ber.BERError}) without caring
// about the wrapped cause or positional context.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

var (
	errStackOverflow = errors.New("frame stack exceeds maximum depth")
	errOverLong      = errors.New("frame's accounted bytes exceed its declared length")
	errImageOverflow = errors.New("image buffer exceeds its configured cap")
	errModuleNotSet  = errors.New("no schema module set")
	errReaderNotSet  = errors.New("no reader set")
)
