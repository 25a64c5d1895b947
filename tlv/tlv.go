// Package tlv reads the tag-length-value (TLV) headers used by the Basic
// Encoding Rules (BER) and related encoding rules as specified in
// [Rec. ITU-T X.690]. See also “[A Layman's Guide to a Subset of ASN.1, BER,
// and DER]”.
//
// This package deals only with the syntactic layer of TLV-encoding: reading
// one header at a time off a byte stream. It has no notion of a schema or of
// nested constructed contexts; that bookkeeping belongs to
// [codello.dev/berdecoder/ber], which uses this package as its TLV reader.
//
// # Headers
//
// In BER each value is encoded using a tag-length-value format. The tag and
// length (we call them a header) are represented by the [Header] type and
// read off a stream by [ReadHeader]. A primitive value's content octets
// follow its header directly. Values using the constructed encoding are
// followed by more BER-encoded values and can either end implicitly
// (definite-length encoding) or explicitly via an end-of-contents marker, a
// zero [Header] (indefinite length).
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import (
	"strconv"

	"codello.dev/berdecoder"
)

// TagEndOfContents is the tag that signifies the end of a constructed element.
// You can use this constant for clarity, the following are the same:
//
//	tlv.Header{}
//	tlv.Header{Tag: tlv.TagEndOfContents}
//	tlv.EndOfContents
const TagEndOfContents = asn1.TagReserved

// EndOfContents is the end-of-contents marker signalling the end of a
// constructed element. The following are equivalent:
//
//	tlv.Header{}
//	tlv.Header{Tag: tlv.TagEndOfContents}
//	tlv.EndOfContents
var EndOfContents = Header{Tag: TagEndOfContents}

// LengthIndefinite when used as a magic number for the length of a [Header]
// indicates that the data value is encoded using the constructed
// indefinite-length format.
const LengthIndefinite = -1

// MinLength returns the smaller of the two given lengths. This function is
// aware of potentially indefinite lengths and treats them properly.
func MinLength(l1, l2 int) int {
	// this works because the bit pattern of LengthIndefinite is 1111...1, which is
	// the larges uint. So any other value will be smaller.
	//
	// max(..., LengthIndefinite) fixes invalid negative lengths
	return max(int(min(uint(l1), uint(l2))), LengthIndefinite)
}

// Header represents a TLV header. The [Header.Length] may be [LengthIndefinite]
// if an indefinite-length encoding is used. It is invalid to use the
// indefinite-length encoding when [Header.Constructed] = false.
type Header struct {
	Tag         asn1.Tag
	Constructed bool
	Length      int
}

// String returns a string representation of h.
func (h Header) String() string {
	if h == (Header{}) {
		return "EndOfContents"
	}
	s := h.Tag.String()
	if h.Constructed {
		s += "/c"
	} else {
		s += "/p"
	}
	s += ":" + strconv.Itoa(h.Length)
	return s
}

// requireKeyedLiterals can be embedded in a struct to require keyed literals.
type requireKeyedLiterals struct{}

// nonComparable can be embedded in a struct to prevent comparability.
type nonComparable [0]func()
