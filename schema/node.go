// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import "codello.dev/berdecoder"

// Flags holds the bitset of properties attached to a [Node]. Explicit,
// Implicit, HasTag, Optional, HasDefault, InChoice, and InArray are set once
// by the external parser and never change. TagSeen and SkipThis are mutable
// helper bits owned by the decoder: they are meaningless between decodes and
// are reset by [Clone].
type Flags struct {
	Explicit   bool
	Implicit   bool
	HasTag     bool
	Optional   bool
	HasDefault bool
	InChoice   bool
	InArray    bool

	// TagSeen and SkipThis are mutated during a single decode. A schema tree
	// must be cloned (see [Clone]) before each decode so two decodes never
	// observe each other's mutations.
	TagSeen  bool
	SkipThis bool
}

// Node is one node of a parsed ASN.1 schema tree. The tree is built once by
// an external module parser (out of scope for this package) and walked,
// read-mostly, by a decoder. The only fields a decoder mutates are Flags.TagSeen
// and Flags.SkipThis (per-decode) and the annotation fields Offset,
// HeaderLength, ValueLength, and Value (written on each successful match, so
// a repeated SEQUENCE OF/SET OF element keeps its last repetition's values).
//
// Structural links are explicit: Parent and PrevSibling are separate fields,
// so navigation never needs to disambiguate "parent" from "previous sibling".
type Node struct {
	Name  string
	Kind  Kind
	Class asn1.Class
	Flags Flags

	// Tag is the numeric tag carried by a TAG pseudo-node (Flags.HasTag), or
	// the implicit/explicit override tag number for a tagged element.
	Tag uint64

	// Value, once set by a successful primitive match, holds the decoded
	// payload. The decoder does not interpret or validate this beyond copying
	// the raw bytes; any typed conversion is the caller's responsibility.
	Value []byte

	// Offset, HeaderLength, and ValueLength annotate a matched node: Offset is
	// the byte offset of the TLV header in the stream, HeaderLength its header
	// size, ValueLength its value size. For a constructed node ValueLength is
	// the declared length of its contents (0 when indefinite); the children
	// carry their own annotations.
	Offset       int64
	HeaderLength int
	ValueLength  int

	// Defaulted is set when this node was matched via the matcher's
	// UseDefault outcome: its default value applies even though no TLV was
	// consumed for it. Offset/HeaderLength/ValueLength are meaningless when
	// Defaulted is set.
	Defaulted bool

	Parent      *Node
	PrevSibling *Node
	NextSibling *Node
	FirstChild  *Node
}

// LastChild returns the last child of n, or nil if n has no children.
func (n *Node) LastChild() *Node {
	c := n.FirstChild
	if c == nil {
		return nil
	}
	for c.NextSibling != nil {
		c = c.NextSibling
	}
	return c
}

// Depth returns the number of ancestors of n, i.e. 0 for a root node. Used by
// dump mode to compute indentation.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// next returns the node immediately following n in pre-order traversal,
// bounded by root: n's first child, else n's next sibling, else the next
// sibling of the nearest ancestor that has one. Returns nil once traversal
// would leave root.
func next(root, n *Node) *Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != root {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
		if n == nil {
			return nil
		}
	}
	return nil
}

// Walk returns the node immediately following n in pre-order traversal of the
// tree rooted at root, or nil if n is the last node of the tree.
func Walk(root, n *Node) *Node {
	return next(root, n)
}

// FindAnchor returns the first node in pre-order traversal of the tree rooted
// at root whose tag compares equal to (class, tag) via [CompareTag], or nil
// if none does. It is used only to seed the schema cursor at the start of a
// decode, when no cursor position exists yet.
func FindAnchor(root *Node, class asn1.Class, tag uint64, constructed bool) *Node {
	for n := root; n != nil; n = next(root, n) {
		if CompareTag(n, class, tag, constructed) {
			return n
		}
	}
	return nil
}

// CompareTag reports whether node's tag matches the (class, tag) pair read
// from a TLV header. The rules:
//
//   - The class must match exactly.
//   - If node is a TAG pseudo-node, compare its stored numeric tag.
//   - Else if node's Kind numerically equals tag, true.
//   - Else, for UNIVERSAL class only: SEQUENCE_OF matches SEQUENCE (16),
//     SET_OF matches SET (17), and ANY matches any primitive universal tag.
//   - Else false.
func CompareTag(node *Node, class asn1.Class, tag uint64, constructed bool) bool {
	if node.Class != class {
		return false
	}
	if node.Kind == KindTag {
		return node.Tag == tag
	}
	if uint64(node.Kind) == tag {
		return true
	}
	if class == asn1.ClassUniversal {
		switch node.Kind {
		case KindSequenceOf:
			return tag == uint64(asn1.TagSequence)
		case KindSetOf:
			return tag == uint64(asn1.TagSet)
		case KindAny:
			// The tag number must denote a primitive universal type; the
			// constructed bit itself is not consulted, so BER constructed
			// string encodings still match ANY.
			return Kind(tag).IsPrimitive()
		}
	}
	return false
}

// Clone returns a deep copy of the tree rooted at root, with Flags.TagSeen and
// Flags.SkipThis reset to false and all annotation fields (Value, Offset,
// HeaderLength, ValueLength, Defaulted) cleared on every node. A decoder
// clones its module's root once per decode so concurrent decodes sharing a
// [Module] never observe each other's helper-flag mutations.
func Clone(root *Node) *Node {
	if root == nil {
		return nil
	}
	return cloneNode(root, nil)
}

func cloneNode(n, parent *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name:  n.Name,
		Kind:  n.Kind,
		Class: n.Class,
		Tag:   n.Tag,
		Flags: Flags{
			Explicit:   n.Flags.Explicit,
			Implicit:   n.Flags.Implicit,
			HasTag:     n.Flags.HasTag,
			Optional:   n.Flags.Optional,
			HasDefault: n.Flags.HasDefault,
			InChoice:   n.Flags.InChoice,
			InArray:    n.Flags.InArray,
		},
		Parent: parent,
	}
	var prev *Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		cc := cloneNode(child, c)
		cc.PrevSibling = prev
		if prev != nil {
			prev.NextSibling = cc
		} else {
			c.FirstChild = cc
		}
		prev = cc
	}
	return c
}
