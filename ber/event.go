// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"codello.dev/berdecoder"
	"codello.dev/berdecoder/schema"
)

// Event describes one TLV at the moment the driver has processed it. Node is
// nil when the TLV was read in Bypass state (schema exhausted or mismatched)
// or Scanning state before any anchor was found.
//
// NonDER reports whether this specific TLV used an indefinite length, so a
// caller auditing an untrusted message can point at the offending offset
// instead of only consulting the decoder-wide [Decoder.NonDER] flag after
// the decode finishes.
type Event struct {
	Node         *schema.Node
	Class        asn1.Class
	Tag          uint64
	Constructed  bool
	Offset       int64
	HeaderLength int
	ValueLength  int
	NonDER       bool
}
