// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

// Outcome is the closed set of results the matcher can return for a single
// (schema cursor, TLV header) comparison. Match driver loops re-enter the
// matcher on Skip and UseDefault; any other outcome ends that loop.
type Outcome int

const (
	// Mismatch means the schema cursor and the TLV header disagree and no
	// further advancement resolves it; the driver enters bypass.
	Mismatch Outcome = iota
	// EndOfDescription means the schema tree has been fully consumed; the
	// driver enters bypass.
	EndOfDescription
	// Skip means the cursor was advanced past a node that does not consume
	// this TLV (an absent OPTIONAL, a non-chosen CHOICE alternative, a SIZE
	// or DEFAULT pseudo-node). The matcher must be re-entered on the same
	// TLV.
	Skip
	// UseDefault means the cursor was advanced past a node with a DEFAULT
	// value; that node is recorded as matched without consuming the TLV, and
	// the matcher must be re-entered on the same TLV.
	UseDefault
	// Match means the cursor's node corresponds exactly to this TLV; the
	// driver accounts for the TLV's bytes against it.
	Match
)

// String returns the outcome's name.
func (o Outcome) String() string {
	switch o {
	case Mismatch:
		return "Mismatch"
	case EndOfDescription:
		return "EndOfDescription"
	case Skip:
		return "Skip"
	case UseDefault:
		return "UseDefault"
	case Match:
		return "Match"
	}
	return "Outcome(?)"
}

// State is the driver's top-level phase. No state ever transitions back out
// of Bypass within a single decode.
type State int

const (
	// Scanning is the initial state: no node has matched yet.
	Scanning State = iota
	// InSchema means the matcher is actively tracking the schema cursor.
	InSchema
	// Bypass means the schema is exhausted or broke earlier; remaining TLVs
	// are read but not annotated.
	Bypass
	// Done means the reader reached end of stream.
	Done
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "Scanning"
	case InSchema:
		return "InSchema"
	case Bypass:
		return "Bypass"
	case Done:
		return "Done"
	}
	return "State(?)"
}
