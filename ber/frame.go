// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import "codello.dev/berdecoder/schema"

// lengthIndefinite mirrors [codello.dev/berdecoder/tlv.LengthIndefinite]; kept
// as a separate constant so this package does not need to import tlv just
// for the sentinel.
const lengthIndefinite = -1

// maxStackDepth bounds the frame stack. This is a deliberate, caller-visible
// limit: nesting beyond this depth fails with a [*Error] of [BERError]
// rather than growing without bound or recursing on the Go call stack. 100
// is generous for any real-world X.509/CMS structure.
const maxStackDepth = 100

// frame records one open constructed TLV context plus the matcher's cursor
// state for that context. Each stack entry owns its own cursor and its own
// again/nextTag/wentUp/inSeqOf bits, because those bits describe the
// matcher's progress *within* that nesting level: pushing a constructed TLV
// snapshots the cursor at the matched node, and popping restores it.
type frame struct {
	length int  // declared length, or lengthIndefinite
	nread  int  // bytes of this frame's value consumed so far

	cursor  *schema.Node
	again   bool // re-enter the matcher on the same TLV after a skip/default
	nextTag bool // previous match consumed a TAG node; next TLV belongs to it
	wentUp  bool // at least one frame was popped since the previous match
	inSeqOf bool // cursor is inside a repeating container
}

// remaining returns the number of bytes left in f's value, or
// lengthIndefinite if f's length is not yet known.
func (f *frame) remaining() int {
	if f.length == lengthIndefinite {
		return lengthIndefinite
	}
	return f.length - f.nread
}

// stack is a bounded, array-backed stack of enclosing frames, plus the
// current (topmost) frame. This is never converted to language-level
// recursion: the bound is a deliberate defense against adversarially nested
// input, not an implementation convenience.
type stack struct {
	frames []frame
	cur    frame
}

// reset clears s to a single root frame representing the (virtual,
// indefinite-length) top level of the input stream.
func (s *stack) reset() {
	s.frames = s.frames[:0]
	s.cur = frame{length: lengthIndefinite}
}

// depth returns the number of enclosing frames, not counting the current one.
func (s *stack) depth() int { return len(s.frames) }

// push makes f the current frame, saving the previous current frame as its
// immediate parent. It reports an error if doing so would exceed
// [maxStackDepth].
func (s *stack) push(f frame) error {
	if len(s.frames) >= maxStackDepth {
		return &Error{Kind: BERError, Err: errStackOverflow, Offset: -1}
	}
	s.frames = append(s.frames, s.cur)
	s.cur = f
	return nil
}

// pop restores the enclosing frame as current. It must not be called when s
// is already at the root (depth() == 0); callers must check first.
func (s *stack) pop() {
	s.cur = s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
}
