// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"testing"

	"codello.dev/berdecoder"
)

// seqOfTwoInts builds SEQUENCE { a INTEGER, b INTEGER }.
func seqOfTwoInts() *Node {
	root := &Node{Name: "seq", Kind: KindSequence, Class: asn1.ClassUniversal}
	a := &Node{Name: "a", Kind: KindInteger, Class: asn1.ClassUniversal, Parent: root}
	b := &Node{Name: "b", Kind: KindInteger, Class: asn1.ClassUniversal, Parent: root, PrevSibling: a}
	a.NextSibling = b
	root.FirstChild = a
	return root
}

func TestWalk_PreOrder(t *testing.T) {
	root := seqOfTwoInts()
	a := root.FirstChild
	b := a.NextSibling

	tests := map[string]struct {
		from *Node
		want *Node
	}{
		"RootToA": {root, a},
		"AToB":    {a, b},
		"BToNil":  {b, nil},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Walk(root, tt.from); got != tt.want {
				t.Errorf("Walk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareTag(t *testing.T) {
	seqOf := &Node{Kind: KindSequenceOf, Class: asn1.ClassUniversal}
	setOf := &Node{Kind: KindSetOf, Class: asn1.ClassUniversal}
	any := &Node{Kind: KindAny, Class: asn1.ClassUniversal}
	tagged := &Node{Kind: KindTag, Class: asn1.ClassContextSpecific, Tag: 3}
	integer := &Node{Kind: KindInteger, Class: asn1.ClassUniversal}

	tests := map[string]struct {
		node        *Node
		class       asn1.Class
		tag         uint64
		constructed bool
		want        bool
	}{
		"SequenceOfMatchesSequence":   {seqOf, asn1.ClassUniversal, uint64(asn1.TagSequence), true, true},
		"SequenceOfRejectsSet":        {seqOf, asn1.ClassUniversal, uint64(asn1.TagSet), true, false},
		"SetOfMatchesSet":             {setOf, asn1.ClassUniversal, uint64(asn1.TagSet), true, true},
		"AnyMatchesPrimitiveInteger":  {any, asn1.ClassUniversal, uint64(asn1.TagInteger), false, true},
		"AnyIgnoresConstructedBit":    {any, asn1.ClassUniversal, uint64(asn1.TagOctetString), true, true},
		"AnyRejectsSequence":          {any, asn1.ClassUniversal, uint64(asn1.TagSequence), true, false},
		"TagComparesStoredTagNumber":  {tagged, asn1.ClassContextSpecific, 3, false, true},
		"TagRejectsWrongNumber":       {tagged, asn1.ClassContextSpecific, 4, false, false},
		"ClassMismatchAlwaysRejects":  {integer, asn1.ClassApplication, uint64(asn1.TagInteger), false, false},
		"DirectKindNumberMatch":       {integer, asn1.ClassUniversal, uint64(asn1.TagInteger), false, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := CompareTag(tt.node, tt.class, tt.tag, tt.constructed); got != tt.want {
				t.Errorf("CompareTag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindAnchor(t *testing.T) {
	root := seqOfTwoInts()
	got := FindAnchor(root, asn1.ClassUniversal, uint64(asn1.TagInteger), false)
	if got != root.FirstChild {
		t.Errorf("FindAnchor() = %v, want first INTEGER child", got)
	}
	if FindAnchor(root, asn1.ClassUniversal, uint64(asn1.TagBoolean), false) != nil {
		t.Error("FindAnchor() found a node for a tag not present in the tree")
	}
}

func TestClone_IsolatesHelperFlags(t *testing.T) {
	root := seqOfTwoInts()
	root.FirstChild.Flags.SkipThis = true
	root.FirstChild.Flags.TagSeen = true
	root.FirstChild.Value = []byte{1}

	clone := Clone(root)
	if clone.FirstChild.Flags.SkipThis || clone.FirstChild.Flags.TagSeen {
		t.Error("Clone() did not reset helper flags")
	}
	if clone.FirstChild.Value != nil {
		t.Error("Clone() did not reset annotation fields")
	}
	if clone == root || clone.FirstChild == root.FirstChild {
		t.Error("Clone() did not produce independent nodes")
	}
	if clone.FirstChild.Parent != clone {
		t.Error("Clone() did not relink Parent to the cloned root")
	}
	if clone.FirstChild.NextSibling.PrevSibling != clone.FirstChild {
		t.Error("Clone() did not relink PrevSibling")
	}

	// Mutating the clone must not affect the original.
	clone.FirstChild.Flags.SkipThis = false
	if !root.FirstChild.Flags.SkipThis {
		t.Error("Clone() shares mutable state with the original tree")
	}
}

func TestDepth(t *testing.T) {
	root := seqOfTwoInts()
	if root.Depth() != 0 {
		t.Errorf("root.Depth() = %d, want 0", root.Depth())
	}
	if root.FirstChild.Depth() != 1 {
		t.Errorf("child.Depth() = %d, want 1", root.FirstChild.Depth())
	}
}
