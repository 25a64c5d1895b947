// Package vlq reads the [variable-length quantity] encoding BER uses in two
// places: the high-tag-number form of an identifier octet (Rec. ITU-T X.690
// §8.1.2.4) and the subidentifier arcs of OBJECT IDENTIFIER and RELATIVE-OID
// values. A VLQ is a big-endian base-128 representation of an unsigned
// integer in which the eighth bit of every octet but the last is set.
//
// [variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"io"
	"math/bits"
	"unsafe"
)

// ErrOverflow is returned when an encoded VLQ does not fit the target type.
var ErrOverflow = errors.New("vlq too large for target type")

// Read parses an unsigned VLQ from r. The maximum allowed value is limited by
// the size of T; exceeding it returns an error rather than wrapping.
//
// Read only consumes bytes belonging to the encoded VLQ. If r returns io.EOF
// on the first read, the returned error is io.EOF as well; an EOF after the
// first byte becomes io.ErrUnexpectedEOF. Leading zero octets (encoded as
// 0x80) are tolerated: BER does not require tag numbers to be minimally
// encoded and neither does this function.
func Read[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](r io.ByteReader) (ret T, err error) {
	b, err := r.ReadByte()
	if err != nil {
		// io.EOF stays io.EOF
		return 0, err
	}

	ret = T(b & 0x7f)
	numBits := bits.Len8(b & 0x7f)

	for b&0x80 != 0 {
		if b, err = r.ReadByte(); err != nil {
			break
		}
		ret <<= 7
		ret |= T(b & 0x7f)

		if numBits == 0 {
			numBits = bits.Len8(b & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > int(unsafe.Sizeof(ret)*8) {
			return 0, ErrOverflow
		}
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return ret, err
}
