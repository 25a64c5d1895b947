// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"errors"
	"io"
	"strconv"
)

// Sentinel errors returned by [ReadHeader]. They identify the specific
// malformation so a caller (typically [codello.dev/berdecoder/ber].Decoder)
// can classify it without string matching.
var (
	// ErrForbiddenLength is returned when the first length octet is 0xFF, a
	// value Rec. ITU-T X.690 reserves and forbids.
	ErrForbiddenLength = errors.New("tlv: forbidden length 0xFF")
	// ErrHeaderTooLarge is returned when a header needs more than
	// [MaxHeaderBytes] octets to encode its identifier and length.
	ErrHeaderTooLarge = errors.New("tlv: header exceeds maximum size")
	// ErrTagOverflow is returned when a high-tag-number form encodes a tag
	// number that does not fit the 14 bits available in an [asn1.Tag].
	ErrTagOverflow = errors.New("tlv: tag number overflow")
	// ErrLengthOverflow is returned when a long-form length does not fit an
	// int on this platform.
	ErrLengthOverflow = errors.New("tlv: length overflow")
)

// SyntaxError represents an error in the TLV encoding. The error value
// contains the location of the error within the input.
type SyntaxError struct {
	requireKeyedLiterals
	nonComparable

	Err error // underlying error

	// ByteOffset is the location of the error, usually the start of the TLV
	// header containing it.
	ByteOffset int64
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	b := []byte("tlv: syntax error")
	if e.ByteOffset > 0 {
		b = append(b, " at offset "...)
		b = strconv.AppendInt(b, e.ByteOffset, 10)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}

// noEOF returns err, unless err == io.EOF, in which case it returns
// io.ErrUnexpectedEOF. Used once a header has started: an EOF partway
// through a header is premature, not a clean end of stream.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
