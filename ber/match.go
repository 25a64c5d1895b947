// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"codello.dev/berdecoder"
	"codello.dev/berdecoder/schema"
)

// tagInfo is the subset of a TLV header the matcher needs to compare against
// the schema tree: class, tag number, and the constructed bit. It is built
// by the driver from a [codello.dev/berdecoder/tlv.Header].
type tagInfo struct {
	class       asn1.Class
	tag         uint64
	constructed bool
}

// isPrimitiveLike reports whether n is a node the matcher advances past
// exactly like a primitive type: a genuine primitive universal type, ANY, or
// either of the SIZE/DEFAULT pseudo-nodes (which annotate a sibling and are
// always skipped).
func isPrimitiveLike(n *schema.Node) bool {
	return n.Kind.IsPrimitive() || n.Kind == schema.KindAny ||
		n.Kind == schema.KindSize || n.Kind == schema.KindDefault
}

// reiterateOrAdvance decides, once traversal has bubbled back up to the
// boundary of a repeating container (head is its SEQUENCE_OF/SET_OF node),
// whether another repetition is expected: if the enclosing frame f still has
// bytes left (or its length is not yet known), loop back into the element
// type; otherwise move past the whole repeating field via ascendRight.
func reiterateOrAdvance(f *frame, head *schema.Node) *schema.Node {
	if rem := f.remaining(); rem == lengthIndefinite || rem > 0 {
		return head.FirstChild
	}
	return ascendRight(f, head)
}

// ascendRight advances past node's completed subtree: node's own next
// sibling if it has one, else the nearest ancestor's next sibling. The climb
// recognizes when it reaches the boundary of a repeating container:
//
//   - If it ascends into a SEQUENCE_OF/SET_OF head, one full repetition of
//     its element has just been completed; hand off to reiterateOrAdvance to
//     decide whether to loop back into the element or move past the whole
//     repeating field.
//   - If it ascends into a node flagged InArray (the constructed element
//     type of an enclosing repetition, e.g. the schema for "SEQUENCE OF
//     SEQUENCE {...}"), stop there and reiterate that element, reached here
//     because the climb started one level below it.
func ascendRight(f *frame, node *schema.Node) *schema.Node {
	for {
		if node.NextSibling != nil {
			return node.NextSibling
		}
		parent := node.Parent
		if parent == nil {
			return nil
		}
		if parent.Kind == schema.KindSequenceOf || parent.Kind == schema.KindSetOf {
			return reiterateOrAdvance(f, parent)
		}
		if parent.Flags.InArray {
			return parent
		}
		node = parent
	}
}

// advanceCursor computes the schema node the matcher should compare against
// ti, given the frame's current cursor and helper bits. The cases, in order:
// no cursor yet (anchor lookup), a pending re-examination (again), a
// primitive-like cursor, a repetition head, and any other constructed
// cursor. The again bit exists as part of the frame state but is never set
// true by this package: every Skip/UseDefault re-entry simply advances again
// from the already-updated cursor, which is sufficient on its own.
func advanceCursor(root *schema.Node, f *frame, ti tagInfo) *schema.Node {
	cur := f.cursor
	switch {
	case cur == nil:
		cur = schema.FindAnchor(root, ti.class, ti.tag, ti.constructed)
	case f.again:
		f.again = false
	case isPrimitiveLike(cur):
		// A dead end here (no sibling, not in a choice, not a repetition
		// element) means the schema has nothing more for the current
		// container even though its length is not exhausted: Mismatch. The
		// cursor must not climb out of the container on its own; leaving a
		// finished container is the frame pop's job.
		switch {
		case cur.NextSibling != nil:
			cur = cur.NextSibling
		case cur.Flags.InChoice:
			// Past the matched alternative of a CHOICE: continue after the
			// CHOICE node itself. The climb inside ascendRight also covers a
			// CHOICE that is the element type of a repeating container.
			if cur.Parent == nil {
				cur = nil
			} else {
				cur = ascendRight(f, cur.Parent)
			}
		case cur.Flags.InArray:
			// Primitive element type of a SEQUENCE_OF/SET_OF: loop for the
			// next repetition while the container has bytes left.
			cur = reiterateOrAdvance(f, cur.Parent)
		default:
			cur = nil
		}
	case cur.Kind == schema.KindSequenceOf || cur.Kind == schema.KindSetOf:
		// The cursor re-enters the repetition head when the container's own
		// frame pops (the saved cursor is restored pointing here). Exhausted
		// or left upward out of a non-array context: the repetition is over.
		exhausted := f.length != lengthIndefinite && f.nread >= f.length
		switch {
		case (f.wentUp && !cur.Flags.InArray) || exhausted:
			cur = ascendRight(f, cur)
		case cur.Flags.InArray && f.wentUp:
			// keep cursor: reiterate this repetition head within an outer array
		default:
			f.inSeqOf = true
			cur = cur.FirstChild
		}
	default: // constructed, not a repetition head
		f.inSeqOf = false
		switch {
		case cur.Flags.InArray && f.wentUp:
			// keep cursor: reiterate this constructed element
		case f.wentUp || f.nextTag:
			cur = ascendRight(f, cur)
		default:
			cur = cur.FirstChild
		}
	}
	return cur
}

// resetChoiceSkip clears SkipThis on every direct child of a CHOICE node.
// Called when the matcher reiterates a CHOICE as the element type of a
// repeating container, so each repetition gets an independent choice among
// the alternatives instead of permanently exhausting them after the first
// repetition (see DESIGN.md's matcher entry for the failure mode this
// fixes).
func resetChoiceSkip(choice *schema.Node) {
	for c := choice.FirstChild; c != nil; c = c.NextSibling {
		c.Flags.SkipThis = false
	}
}

// match implements the Matcher component: given the schema root, the
// current frame (providing cursor and helper bits), and the next TLV's tag
// info, it returns one of the five outcomes and, for Match and UseDefault,
// the matched node.
func match(root *schema.Node, f *frame, ti tagInfo) (Outcome, *schema.Node) {
	wasAnchorLookup := f.cursor == nil
	cur := advanceCursor(root, f, ti)

	f.wentUp = false
	f.nextTag = false
	f.cursor = cur

	if cur == nil {
		if wasAnchorLookup {
			return EndOfDescription, nil
		}
		return Mismatch, nil
	}

	if cur.Flags.SkipThis {
		return Skip, nil
	}
	if cur.Kind == schema.KindSize || cur.Kind == schema.KindDefault {
		return Skip, nil
	}
	if schema.CompareTag(cur, ti.class, ti.tag, ti.constructed) {
		return Match, cur
	}
	if cur.Kind == schema.KindChoice {
		resetChoiceSkip(cur)
		for alt := cur.FirstChild; alt != nil; alt = alt.NextSibling {
			if !alt.Flags.SkipThis && schema.CompareTag(alt, ti.class, ti.tag, ti.constructed) {
				for other := cur.FirstChild; other != nil; other = other.NextSibling {
					if other != alt {
						other.Flags.SkipThis = true
					}
				}
				return Match, alt
			}
		}
		for alt := cur.FirstChild; alt != nil; alt = alt.NextSibling {
			alt.Flags.SkipThis = true
		}
	}
	if cur.Flags.InChoice {
		return Skip, nil
	}
	if cur.Flags.Optional {
		if cur.Kind == schema.KindTag {
			f.nextTag = true
		}
		return Skip, nil
	}
	if cur.Flags.HasDefault {
		if cur.Kind == schema.KindTag {
			f.nextTag = true
		}
		return UseDefault, cur
	}
	return Mismatch, nil
}
