// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlv

import "io"

// IOReader adapts an [io.Reader] to the [Reader] contract, counting bytes
// delivered so callers get Tell without the underlying stream supporting
// seeking or its own position tracking. Reads are buffered and retry-safe
// against transient short reads.
type IOReader struct {
	br bufferedReader
	n  int64
}

// NewReader returns an [IOReader] reading from r.
func NewReader(r io.Reader) *IOReader {
	ir := &IOReader{}
	ir.br.Reset(r)
	return ir
}

// Read implements [io.Reader].
func (r *IOReader) Read(p []byte) (int, error) {
	n, err := r.br.Read(p)
	r.n += int64(n)
	return n, err
}

// ReadByte implements [io.ByteReader].
func (r *IOReader) ReadByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err == nil {
		r.n++
	}
	return b, err
}

// Tell returns the number of bytes read so far.
func (r *IOReader) Tell() int64 { return r.n }

// Discard skips the next n bytes. The skipped bytes count as delivered for
// [IOReader.Tell]. An error is returned iff fewer than n bytes could be
// skipped.
func (r *IOReader) Discard(n int) (int, error) {
	d, err := r.br.Discard(n)
	r.n += int64(d)
	return d, err
}

// SetLimit bounds how far ahead the internal buffer may read past the
// current position; see [bufferedReader.SetLimit]. A decoder narrows this
// limit to the number of bytes remaining in its innermost frame so a
// malformed inner TLV cannot cause a read past that frame's boundary; a
// limit of -1 (used for an indefinite-length frame) leaves reads unbounded.
func (r *IOReader) SetLimit(n int) { r.br.SetLimit(n) }
