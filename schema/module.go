// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// Module is the external contract a schema parser hands to a decoder: a root
// node to walk, an auxiliary list of every node in the tree (for bulk
// release in languages that need it; kept here mainly so callers can report
// on module size), and a filename for diagnostics. Building a Module is out
// of scope for this repository — it is produced by an ASN.1 module parser
// that is not part of this package.
type Module struct {
	Root     *Node
	Nodes    []*Node
	Filename string
}
