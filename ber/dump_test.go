// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"strings"
	"testing"

	"codello.dev/berdecoder"
	"codello.dev/berdecoder/schema"
	"codello.dev/berdecoder/tlv"
)

// dumpSchema builds SEQUENCE { oid OBJECT IDENTIFIER, name PrintableString }.
func dumpSchema() *schema.Node {
	root := &schema.Node{Name: "seq", Kind: schema.KindSequence, Class: asn1.ClassUniversal}
	link(root,
		&schema.Node{Name: "oid", Kind: schema.KindOID, Class: asn1.ClassUniversal},
		&schema.Node{Name: "name", Kind: schema.KindPrintableString, Class: asn1.ClassUniversal})
	return root
}

// dumpInput encodes the schema above (OID 1.2.3.4, name "abc") followed by a
// trailing BOOLEAN the schema does not describe.
var dumpInput = []byte{
	0x30, 0x0a,
	0x06, 0x03, 0x2a, 0x03, 0x04,
	0x13, 0x03, 'a', 'b', 'c',
	0x01, 0x01, 0xff,
}

func TestDump_Trace(t *testing.T) {
	t.Setenv("DEBUG_BER_DECODER", "")

	d := New()
	mustOK(t, d.SetModule(&schema.Module{Root: dumpSchema()}))
	mustOK(t, d.SetReader(tlv.NewReader(bytes.NewReader(dumpInput))))

	var out bytes.Buffer
	if err := d.Dump(&out); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	want := "    0    10:seq\n" +
		"    2     3:  oid (1.2.3.4)\n" +
		"    7     3:  name (\"abc\")\n" +
		"   12     1:[No matching node]\n"
	if got := out.String(); got != want {
		t.Errorf("Dump() output:\n%s\nwant:\n%s", got, want)
	}
}

func TestDump_OIDFormatter(t *testing.T) {
	d := New()
	mustOK(t, d.SetModule(&schema.Module{Root: dumpSchema()}))
	mustOK(t, d.SetReader(tlv.NewReader(bytes.NewReader(dumpInput))))
	d.SetOIDFormatter(func(oid asn1.ObjectIdentifier) string {
		if oid.Equal(asn1.ObjectIdentifier{1, 2, 3, 4}) {
			return "testOID"
		}
		return ""
	})

	var out bytes.Buffer
	if err := d.Dump(&out); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(out.String(), "oid (testOID)") {
		t.Errorf("Dump() output does not use the installed OID formatter:\n%s", out.String())
	}
}

func TestDump_Debug(t *testing.T) {
	t.Setenv("DEBUG_BER_DECODER", "1")

	d := New()
	mustOK(t, d.SetModule(&schema.Module{Root: dumpSchema()}))
	mustOK(t, d.SetReader(tlv.NewReader(bytes.NewReader(dumpInput))))

	var out bytes.Buffer
	if err := d.Dump(&out); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(out.String(), "class=0 tag=6 constructed=false") {
		t.Errorf("Dump() with DEBUG_BER_DECODER set is missing diagnostic lines:\n%s", out.String())
	}
}
