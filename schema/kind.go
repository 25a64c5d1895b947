// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema defines the tree representation of a previously parsed
// ASN.1 module and the pure navigation helpers a decoder uses to walk that
// tree in lock-step with an incoming TLV stream. Building the tree (parsing
// ASN.1 module syntax) is out of scope; this package only consumes it.
package schema

import "codello.dev/berdecoder"

// Kind identifies the shape of a [Node]. Most values correspond directly to
// an ASN.1 universal type and share its tag number (see [asn1.Tag]); the
// remaining values are pseudo-kinds that exist only in the schema tree and
// never appear on the wire.
type Kind int

// Universal-type kinds. Their numeric value equals the corresponding
// universal tag number, so a Kind can be compared directly against a tag
// number read off the wire for the common case.
const (
	KindBoolean          Kind = Kind(asn1.TagBoolean)
	KindInteger          Kind = Kind(asn1.TagInteger)
	KindBitString        Kind = Kind(asn1.TagBitString)
	KindOctetString      Kind = Kind(asn1.TagOctetString)
	KindNull             Kind = Kind(asn1.TagNull)
	KindOID              Kind = Kind(asn1.TagOID)
	KindObjectDescriptor Kind = Kind(asn1.TagObjectDescriptor)
	KindExternal         Kind = Kind(asn1.TagExternal)
	KindReal             Kind = Kind(asn1.TagReal)
	KindEnumerated       Kind = Kind(asn1.TagEnumerated)
	KindEmbeddedPDV      Kind = Kind(asn1.TagEmbeddedPDV)
	KindUTF8String       Kind = Kind(asn1.TagUTF8String)
	KindRelativeOID      Kind = Kind(asn1.TagRelativeOID)
	KindSequence         Kind = Kind(asn1.TagSequence)
	KindSet              Kind = Kind(asn1.TagSet)
	KindNumericString    Kind = Kind(asn1.TagNumericString)
	KindPrintableString  Kind = Kind(asn1.TagPrintableString)
	KindTeletexString    Kind = Kind(asn1.TagTeletexString)
	KindVideotexString   Kind = Kind(asn1.TagVideotexString)
	KindIA5String        Kind = Kind(asn1.TagIA5String)
	KindUTCTime          Kind = Kind(asn1.TagUTCTime)
	KindGeneralizedTime  Kind = Kind(asn1.TagGeneralizedTime)
	KindGraphicString    Kind = Kind(asn1.TagGraphicString)
	KindVisibleString    Kind = Kind(asn1.TagVisibleString)
	KindGeneralString    Kind = Kind(asn1.TagGeneralString)
	KindUniversalString  Kind = Kind(asn1.TagUniversalString)
	KindCharacterString  Kind = Kind(asn1.TagCharacterString)
	KindBMPString        Kind = Kind(asn1.TagBMPString)
)

// Pseudo-kinds. These never correspond to a tag on the wire; they describe
// the shape of the schema tree itself. Values start well above any legal
// universal tag number (30 is the highest universal tag used above) so a
// Kind can never accidentally collide with a real tag.
const (
	KindConstant Kind = 128 + iota
	KindIdentifier
	KindTag
	KindDefault
	KindSize
	KindSequenceOf
	KindAny
	KindSetOf
	KindChoice
)

// IsPrimitive reports whether k denotes a universal type whose BER encoding
// is always primitive. [CompareTag] also uses this set to decide which tag
// numbers an ANY node accepts.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindBoolean, KindInteger, KindBitString, KindOctetString, KindNull,
		KindOID, KindObjectDescriptor, KindReal, KindEnumerated, KindUTF8String,
		KindRelativeOID, KindNumericString, KindPrintableString, KindTeletexString,
		KindVideotexString, KindIA5String, KindUTCTime, KindGeneralizedTime,
		KindGraphicString, KindVisibleString, KindGeneralString, KindUniversalString,
		KindCharacterString, KindBMPString:
		return true
	}
	return false
}

// String returns a human-readable ASN.1 keyword for k, used in dump-mode
// trace output. Pseudo-kinds return their schema-only name in brackets.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "BOOLEAN"
	case KindInteger:
		return "INTEGER"
	case KindBitString:
		return "BIT STRING"
	case KindOctetString:
		return "OCTET STRING"
	case KindNull:
		return "NULL"
	case KindOID:
		return "OBJECT IDENTIFIER"
	case KindObjectDescriptor:
		return "ObjectDescriptor"
	case KindExternal:
		return "EXTERNAL"
	case KindReal:
		return "REAL"
	case KindEnumerated:
		return "ENUMERATED"
	case KindEmbeddedPDV:
		return "EMBEDDED PDV"
	case KindUTF8String:
		return "UTF8String"
	case KindRelativeOID:
		return "RELATIVE-OID"
	case KindSequence:
		return "SEQUENCE"
	case KindSet:
		return "SET"
	case KindNumericString:
		return "NumericString"
	case KindPrintableString:
		return "PrintableString"
	case KindTeletexString:
		return "TeletexString"
	case KindVideotexString:
		return "VideotexString"
	case KindIA5String:
		return "IA5String"
	case KindUTCTime:
		return "UTCTime"
	case KindGeneralizedTime:
		return "GeneralizedTime"
	case KindGraphicString:
		return "GraphicString"
	case KindVisibleString:
		return "VisibleString"
	case KindGeneralString:
		return "GeneralString"
	case KindUniversalString:
		return "UniversalString"
	case KindCharacterString:
		return "CharacterString"
	case KindBMPString:
		return "BMPString"
	case KindConstant:
		return "[CONSTANT]"
	case KindIdentifier:
		return "[IDENTIFIER]"
	case KindTag:
		return "[TAG]"
	case KindDefault:
		return "[DEFAULT]"
	case KindSize:
		return "[SIZE]"
	case KindSequenceOf:
		return "SEQUENCE OF"
	case KindAny:
		return "ANY"
	case KindSetOf:
		return "SET OF"
	case KindChoice:
		return "CHOICE"
	}
	return "[unknown kind]"
}

// universalTagNames maps a bare universal tag number to its ASN.1 keyword,
// used by dump mode to label a matched TAG pseudo-node that has no name.
var universalTagNames = map[uint64]string{
	0:                               "EOC",
	uint64(asn1.TagBoolean):         "BOOLEAN",
	uint64(asn1.TagInteger):         "INTEGER",
	uint64(asn1.TagBitString):       "BIT STRING",
	uint64(asn1.TagOctetString):     "OCTET STRING",
	uint64(asn1.TagNull):            "NULL",
	uint64(asn1.TagOID):             "OBJECT IDENTIFIER",
	uint64(asn1.TagReal):            "REAL",
	uint64(asn1.TagEnumerated):      "ENUMERATED",
	uint64(asn1.TagUTF8String):      "UTF8String",
	uint64(asn1.TagRelativeOID):     "RELATIVE-OID",
	uint64(asn1.TagSequence):        "SEQUENCE",
	uint64(asn1.TagSet):             "SET",
	uint64(asn1.TagUTCTime):         "UTCTime",
	uint64(asn1.TagGeneralizedTime): "GeneralizedTime",
	uint64(asn1.TagBMPString):       "BMPString",
}

// UniversalTagName returns the ASN.1 keyword for a bare universal tag number,
// or "" if none is known. Used by dump mode to label unnamed TAG nodes;
// TLVs with no matched node are printed as "[No matching node]" instead.
func UniversalTagName(tag uint64) string {
	return universalTagNames[tag]
}
