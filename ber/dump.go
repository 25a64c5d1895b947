// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"codello.dev/berdecoder"
	"codello.dev/berdecoder/internal/vlq"
	"codello.dev/berdecoder/schema"
)

// OIDFormatter, if set via [Decoder.SetOIDFormatter], is consulted by Dump to
// render an OBJECT IDENTIFIER's value in trace output. Supplements the
// decoder's raw byte annotation with a caller-supplied name lookup (e.g. a
// registry mapping 1.2.840.113549.1.1.11 to "sha256WithRSAEncryption")
// instead of only ever printing dotted numbers.
type OIDFormatter func(asn1.ObjectIdentifier) string

// SetOIDFormatter installs fn to render OBJECT IDENTIFIER values in
// [Decoder.Dump] output. Without one, Dump prints the dotted numeric form.
func (d *Decoder) SetOIDFormatter(fn OIDFormatter) { d.oidFormatter = fn }

// writeDumpLine writes one trace line for ev: offset, value length,
// indentation proportional to the matched node's depth, the node's name or a
// bracketed fallback label, and a rendering of the value for primitive
// leaves.
func writeDumpLine(out io.Writer, ev Event, oidFmt OIDFormatter, debug bool) {
	depth := 0
	label := "[No matching node]"
	if ev.Node != nil {
		depth = ev.Node.Depth()
		label = nodeLabel(ev.Node)
	}

	fmt.Fprintf(out, "%5d %5d:%s%s", ev.Offset, ev.ValueLength, strings.Repeat("  ", depth), label)

	if ev.Node != nil && !ev.Constructed {
		if v := formatValue(ev.Node, oidFmt); v != "" {
			fmt.Fprintf(out, " (%s)", v)
		}
	}
	if ev.NonDER {
		fmt.Fprint(out, " [non-DER: indefinite length]")
	}
	fmt.Fprintln(out)

	if debug {
		fmt.Fprintf(out, "      class=%d tag=%d constructed=%v\n", ev.Class, ev.Tag, ev.Constructed)
	}
}

// nodeLabel returns a node's schema name if it has one, else a bracketed
// fallback built from its Kind (or, for a TAG pseudo-node, the universal tag
// name it aliases).
func nodeLabel(n *schema.Node) string {
	if n.Name != "" {
		return n.Name
	}
	if n.Kind == schema.KindTag {
		if name := schema.UniversalTagName(n.Tag); name != "" {
			return "[" + name + "]"
		}
	}
	return n.Kind.String()
}

// formatValue renders a matched primitive leaf's value for trace output.
// OBJECT IDENTIFIER and RELATIVE-OID are decoded and rendered in dotted
// notation (OBJECT IDENTIFIER through oidFmt, if set), BOOLEAN as TRUE/FALSE,
// the UTF8, Printable, Numeric, IA5, Visible, BMP and Universal string kinds
// and the time kinds as quoted text, BIT STRING as grouped bits. Every other
// kind, and every kind whose content does not decode cleanly, falls back to a
// hex dump of the raw bytes.
func formatValue(n *schema.Node, oidFmt OIDFormatter) string {
	if n.Defaulted {
		return "default"
	}
	switch n.Kind {
	case schema.KindOID:
		oid, ok := decodeOID(n.Value)
		if !ok {
			break
		}
		if oidFmt != nil {
			if s := oidFmt(oid); s != "" {
				return s
			}
		}
		return oid.String()
	case schema.KindRelativeOID:
		roid, ok := decodeRelativeOID(n.Value)
		if !ok {
			break
		}
		return roid.String()
	case schema.KindBoolean:
		if len(n.Value) == 1 {
			if n.Value[0] == 0 {
				return "FALSE"
			}
			return "TRUE"
		}
	case schema.KindBitString:
		if bs, err := asn1.ParseBitString(n.Value); err == nil {
			return bs.String()
		}
	case schema.KindUTF8String:
		if s := asn1.UTF8String(n.Value); s.IsValid() {
			return fmt.Sprintf("%q", string(s))
		}
	case schema.KindPrintableString:
		if s := asn1.PrintableString(n.Value); s.IsValid() {
			return fmt.Sprintf("%q", string(s))
		}
	case schema.KindNumericString:
		if s := asn1.NumericString(n.Value); s.IsValid() {
			return fmt.Sprintf("%q", string(s))
		}
	case schema.KindIA5String, schema.KindUTCTime, schema.KindGeneralizedTime:
		// The time kinds carry their textual form; the decoder does not
		// check that the text is a well-formed timestamp.
		if s := asn1.IA5String(n.Value); s.IsValid() {
			return fmt.Sprintf("%q", string(s))
		}
	case schema.KindVisibleString:
		if s := asn1.VisibleString(n.Value); s.IsValid() {
			return fmt.Sprintf("%q", string(s))
		}
	case schema.KindBMPString:
		if s, err := asn1.ParseBMPString(n.Value); err == nil {
			return fmt.Sprintf("%q", string(s))
		}
	case schema.KindUniversalString:
		if s, err := asn1.ParseUniversalString(n.Value); err == nil {
			return fmt.Sprintf("%q", string(s))
		}
	}
	return fmt.Sprintf("% x", n.Value)
}

// decodeOID decodes a BER OBJECT IDENTIFIER content octet string into an
// [asn1.ObjectIdentifier]: the first octet encodes the first two arcs as
// 40*X+Y, and each subsequent arc is a base-128 value with the high bit of
// all but its last octet set. Used only to render dump output; a caller
// wanting the decoded value should consult n.Value themselves. This is the
// minimal complement to [asn1.ObjectIdentifier.String], which only knows how
// to print an already-decoded value, not to decode wire bytes.
func decodeOID(value []byte) (asn1.ObjectIdentifier, bool) {
	if len(value) == 0 {
		return nil, false
	}
	rest, ok := decodeArcs(value[1:])
	if !ok {
		return nil, false
	}
	arcs := append([]uint{uint(value[0] / 40), uint(value[0] % 40)}, rest...)
	return arcs, true
}

// decodeRelativeOID decodes a BER RELATIVE-OID content octet string into an
// [asn1.RelativeOID]. Unlike OBJECT IDENTIFIER, a RELATIVE-OID has no leading
// 40*X+Y arc: every arc, including the first, is a plain base-128 value.
func decodeRelativeOID(value []byte) (asn1.RelativeOID, bool) {
	if len(value) == 0 {
		return nil, false
	}
	return decodeArcs(value)
}

// decodeArcs reads base-128 subidentifiers until b is exhausted. A truncated
// final arc fails the whole decode.
func decodeArcs(b []byte) ([]uint, bool) {
	r := bytes.NewReader(b)
	var arcs []uint
	for r.Len() > 0 {
		arc, err := vlq.Read[uint](r)
		if err != nil {
			return nil, false
		}
		arcs = append(arcs, arc)
	}
	return arcs, true
}
