// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import (
	"errors"
	"io"
	"math"

	"codello.dev/berdecoder"
	"codello.dev/berdecoder/internal/vlq"
)

// Reader is the contract a TLV reader consumes: a byte-oriented stream that
// also reports how many bytes it has delivered so far. Read may return a
// short read, including a zero-length read with no error; callers that need
// exactly n bytes must loop.
type Reader interface {
	io.Reader
	io.ByteReader

	// Tell returns the number of bytes this Reader has delivered to its
	// caller so far.
	Tell() int64
}

// MaxHeaderBytes is the largest number of octets [ReadHeader] will consume
// for a single TLV header (identifier plus length octets). Real-world
// X.509/CMS encodings never approach this; the bound exists so adversarial
// input fails deterministically instead of growing a header without limit.
const MaxHeaderBytes = 10

// maxTagNumber is the largest tag number representable by [asn1.Tag], whose
// 16-bit representation reserves its top two bits for the class.
const maxTagNumber = 1<<14 - 1

// ReadHeader reads one BER identifier and length from r, as described in
// Rec. ITU-T X.690 §8.1. It returns the parsed [Header], the exact header
// bytes consumed, and an error.
//
// If r is exhausted before any byte is read, ReadHeader returns io.EOF: this
// is a clean end of stream at a TLV boundary, not a malformed encoding. Any
// other read failure once a header has begun is reported as
// io.ErrUnexpectedEOF (premature EOF) or the underlying I/O error.
//
// ReadHeader applies one tolerance kludge: a UNIVERSAL class tag number 0
// always has its length forced to 0, regardless of what the length octets
// said. This accommodates end-of-contents markers and broken universal-zero
// encodings alike; some real-world certificates do not parse without it.
//
// Any error other than a clean io.EOF is wrapped in a [SyntaxError] carrying
// the byte offset at which the header began, so a caller using this package
// directly (without [codello.dev/berdecoder/ber].Decoder) can still report
// where in the stream the malformation was found. errors.Is/errors.As see
// through the wrapping to the sentinel errors in this package.
func ReadHeader(r Reader) (Header, []byte, error) {
	offset := r.Tell()
	hdr, buf, err := readHeader(r)
	if err != nil && err != io.EOF {
		return hdr, buf, &SyntaxError{Err: err, ByteOffset: offset}
	}
	return hdr, buf, err
}

// readHeader implements [ReadHeader]'s parsing; see that function's doc
// comment for the wire format and kludge this follows.
func readHeader(r Reader) (hdr Header, headerBytes []byte, err error) {
	var buf []byte
	readByte := func(firstByte bool) (byte, error) {
		if len(buf) >= MaxHeaderBytes {
			return 0, ErrHeaderTooLarge
		}
		b, err := r.ReadByte()
		if err != nil {
			if firstByte && err == io.EOF {
				return 0, io.EOF
			}
			return 0, noEOF(err)
		}
		buf = append(buf, b)
		return b, nil
	}

	first, err := readByte(true)
	if err != nil {
		return Header{}, buf, err
	}

	class := asn1.Class(uint16(first>>6) << 14)
	constructed := first&0x20 != 0

	var tagNum uint64
	if low := first & 0x1f; low < 0x1f {
		tagNum = uint64(low)
	} else {
		tagNum, err = vlq.Read[uint64](byteReaderFunc(func() (byte, error) { return readByte(false) }))
		if err != nil {
			if errors.Is(err, vlq.ErrOverflow) {
				err = ErrTagOverflow
			}
			return Header{}, buf, err
		}
	}
	if tagNum > maxTagNumber {
		return Header{}, buf, ErrTagOverflow
	}
	tag := class | asn1.Tag(tagNum)

	lenByte, err := readByte(false)
	if err != nil {
		return Header{}, buf, err
	}

	length := 0
	switch {
	case lenByte&0x80 == 0:
		length = int(lenByte)
	case lenByte == 0xff:
		return Header{}, buf, ErrForbiddenLength
	case lenByte == 0x80:
		length = LengthIndefinite
	default:
		n := int(lenByte & 0x7f) // 1..126
		for range n {
			b, err := readByte(false)
			if err != nil {
				return Header{}, buf, err
			}
			if length > math.MaxInt>>8 {
				return Header{}, buf, ErrLengthOverflow
			}
			length = length<<8 | int(b)
		}
	}

	// Kludge: UNIVERSAL class, tag number 0 always has length 0. This
	// matches end-of-contents (00 00) and tolerates broken encoders that emit
	// a nonzero length for universal-zero.
	if class == asn1.ClassUniversal && tagNum == 0 {
		length = 0
	}

	return Header{Tag: tag, Constructed: constructed, Length: length}, buf, nil
}
