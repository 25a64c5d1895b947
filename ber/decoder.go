// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ber implements the Matcher and Driver components of a
// schema-driven BER/DER decoder: given a previously parsed ASN.1 schema tree
// and a byte stream believed to encode a value of that schema, [Decoder]
// walks both in lock-step, producing an annotated schema tree (and
// optionally an image buffer of every TLV's raw bytes) or a human-readable
// trace.
package ber

import (
	"errors"
	"io"
	"os"

	"codello.dev/berdecoder/schema"
	"codello.dev/berdecoder/tlv"
)

// defaultImageCap bounds the image buffer's growth when [Decoder.UseImage]
// is enabled without an explicit [Decoder.SetImageCap] call. 1 MiB comfortably
// covers any real-world X.509 certificate or CMS SignedData; larger inputs
// need an explicit cap raise from the caller, which keeps an unbounded input
// from growing the buffer without limit.
const defaultImageCap = 1 << 20

// Decoder pulls TLVs from a [tlv.Reader], feeds them to the matcher,
// maintains the frame stack, and produces either an annotated schema tree
// ([Decoder.Decode]) or a human-readable trace ([Decoder.Dump]).
//
// A Decoder is not safe for concurrent use. Its schema tree is cloned from
// the [schema.Module] at the start of each decode, so running several
// decoders concurrently against the same Module is safe as long as each has
// its own reader.
type Decoder struct {
	module *schema.Module
	reader tlv.Reader

	root *schema.Node

	st     stack
	state  State
	nonDER bool

	useImage bool
	image    []byte
	imageCap int

	onEvent      func(Event)
	oidFormatter OIDFormatter
}

// New returns an empty [Decoder]. SetModule and SetReader must each be
// called exactly once before Decode or Dump.
func New() *Decoder {
	return &Decoder{imageCap: defaultImageCap}
}

// SetModule attaches the schema module to decode against. It may be called
// only once per Decoder.
func (d *Decoder) SetModule(m *schema.Module) error {
	if d.module != nil {
		return &Error{Kind: Conflict, Err: errors.New("module already set"), Offset: -1}
	}
	if m == nil || m.Root == nil {
		return &Error{Kind: InvalidValue, Err: errors.New("module is nil or has no root"), Offset: -1}
	}
	d.module = m
	return nil
}

// limiter is implemented by readers (such as [tlv.IOReader]) that support
// bounding how far a buffer fill may read ahead of the current position.
// [Decoder.run] narrows this before every header to the number of bytes
// remaining in the current (innermost) frame, so a malformed or adversarial
// inner TLV cannot cause the reader to buffer past that frame's declared
// boundary. When the current frame is indefinite-length, no limit is set.
type limiter interface {
	SetLimit(n int)
}

// SetReader attaches the byte stream to decode. It may be called only once
// per Decoder.
func (d *Decoder) SetReader(r tlv.Reader) error {
	if d.reader != nil {
		return &Error{Kind: Conflict, Err: errors.New("reader already set"), Offset: -1}
	}
	if r == nil {
		return &Error{Kind: InvalidValue, Err: errors.New("reader is nil"), Offset: -1}
	}
	d.reader = r
	return nil
}

// UseImage enables accumulation of the image buffer: the exact header bytes
// of every TLV, plus the value bytes of every primitive TLV, in stream
// order. [Decoder.Decode] returns this buffer alongside the annotated tree.
func (d *Decoder) UseImage(use bool) { d.useImage = use }

// SetImageCap overrides the image buffer's growth cap (see [defaultImageCap]).
func (d *Decoder) SetImageCap(n int) { d.imageCap = n }

// SetEventHandler registers fn to be called once per TLV, in stream order,
// as the driver processes it. [Decoder.Dump] installs its own handler to
// produce a trace; callers decoding a message directly do not usually need
// this.
func (d *Decoder) SetEventHandler(fn func(Event)) { d.onEvent = fn }

// NonDER reports whether any TLV processed by the most recent decode used an
// indefinite length.
func (d *Decoder) NonDER() bool { return d.nonDER }

// Decode runs the driver to completion and returns the annotated schema
// tree and the image buffer (nil unless [Decoder.UseImage] was enabled). On
// success, the Decoder is left ready to be reused with a fresh SetReader
// call (SetModule's module is retained).
func (d *Decoder) Decode() (*schema.Node, []byte, error) {
	root, img, err := d.run()
	if err != nil {
		return nil, nil, err
	}
	// Ownership of the image buffer transfers to the caller: a later decode
	// must allocate afresh instead of clobbering the returned slice.
	d.reader = nil
	d.image = nil
	d.root = nil
	return root, img, nil
}

// Dump runs the driver to completion, writing one trace line per TLV to out
// (see writeDumpLine). If the environment variable DEBUG_BER_DECODER is set to a
// non-empty value, each line is followed by a verbose diagnostic line
// reporting that TLV's class, tag number and constructed bit.
func (d *Decoder) Dump(out io.Writer) error {
	debug := os.Getenv("DEBUG_BER_DECODER") != ""
	prev := d.onEvent
	d.onEvent = func(ev Event) {
		writeDumpLine(out, ev, d.oidFormatter, debug)
		if prev != nil {
			prev(ev)
		}
	}
	_, _, err := d.run()
	d.onEvent = prev
	return err
}

// run executes the main per-TLV driver loop: read a header, match it against
// the schema, account its bytes against the frame stack, then read or skip
// its value and emit the event.
func (d *Decoder) run() (*schema.Node, []byte, error) {
	if d.module == nil {
		return nil, nil, &Error{Kind: InvalidValue, Err: errModuleNotSet, Offset: -1}
	}
	if d.reader == nil {
		return nil, nil, &Error{Kind: InvalidValue, Err: errReaderNotSet, Offset: -1}
	}

	d.root = schema.Clone(d.module.Root)
	d.st.reset()
	d.state = Scanning
	d.nonDER = false
	if d.useImage {
		d.image = d.image[:0]
	} else {
		d.image = nil
	}

	lim, hasLimiter := d.reader.(limiter)

	for {
		if hasLimiter {
			lim.SetLimit(d.st.cur.remaining())
		}
		hdr, hdrBytes, err := tlv.ReadHeader(d.reader)
		if err != nil {
			if err == io.EOF {
				d.state = Done
				break
			}
			return nil, nil, wrapReadError(err, d.reader.Tell())
		}
		offset := d.reader.Tell() - int64(len(hdrBytes))

		if d.useImage {
			if len(d.image)+len(hdrBytes) > d.imageCap {
				return nil, nil, &Error{Kind: OutOfCore, Err: errImageOverflow, Offset: offset}
			}
			d.image = append(d.image, hdrBytes...)
		}

		nonDER := hdr.Length == tlv.LengthIndefinite
		if nonDER {
			d.nonDER = true
		}

		ti := tagInfo{
			class:       hdr.Tag.Class(),
			tag:         uint64(hdr.Tag.Number()),
			constructed: hdr.Constructed,
		}

		var node *schema.Node
		if d.state != Bypass {
			node, err = d.matchLoop(ti)
			if err != nil {
				return nil, nil, err
			}
			if node != nil && d.state == Scanning {
				d.state = InSchema
			}
		}

		if err := d.account(hdr, len(hdrBytes), offset); err != nil {
			return nil, nil, err
		}

		valueLen := max(hdr.Length, 0) // indefinite reads as 0, like the header kludge
		if node != nil {
			node.Offset = offset
			node.HeaderLength = len(hdrBytes)
			node.ValueLength = valueLen
		}

		if !hdr.Constructed {
			if node != nil || d.useImage {
				value, err := d.readValue(hdr.Length, offset)
				if err != nil {
					return nil, nil, err
				}
				if node != nil {
					node.Value = value
				}
			} else if err := d.skipValue(hdr.Length, offset); err != nil {
				return nil, nil, err
			}
		}

		if d.onEvent != nil {
			d.onEvent(Event{
				Node:         node,
				Class:        ti.class,
				Tag:          ti.tag,
				Constructed:  hdr.Constructed,
				Offset:       offset,
				HeaderLength: len(hdrBytes),
				ValueLength:  valueLen,
				NonDER:       nonDER,
			})
		}
	}

	return d.root, d.image, nil
}

// matchLoop re-enters the matcher on the same TLV until it returns Match,
// Mismatch, or EndOfDescription. Mismatch and EndOfDescription move the
// driver into Bypass.
func (d *Decoder) matchLoop(ti tagInfo) (*schema.Node, error) {
	for {
		outcome, node := match(d.root, &d.st.cur, ti)
		switch outcome {
		case Skip:
			continue
		case UseDefault:
			node.Defaulted = true
			continue
		case Match:
			// A node defaulted by an earlier repetition can match for real in
			// a later one; the actual match wins.
			node.Defaulted = false
			return node, nil
		case Mismatch, EndOfDescription:
			d.state = Bypass
			return nil, nil
		}
	}
}

// readValue reads exactly n bytes of a primitive TLV's value, for the image
// buffer and node annotation. An indefinite length on a primitive TLV is
// itself a malformed encoding (X.690 only allows indefinite length on
// constructed TLVs).
func (d *Decoder) readValue(n int, offset int64) ([]byte, error) {
	if n == tlv.LengthIndefinite {
		return nil, &Error{Kind: BERError, Err: errors.New("indefinite length on a primitive TLV"), Offset: offset}
	}
	if n == 0 {
		return nil, nil
	}
	// Grow in chunks rather than trusting the declared length with one
	// allocation: a bogus multi-gigabyte length inside an indefinite context
	// then fails with PrematureEOF instead of exhausting memory first.
	var buf []byte
	for len(buf) < n {
		start := len(buf)
		buf = append(buf, make([]byte, min(n-start, 32<<10))...)
		if _, err := io.ReadFull(d.reader, buf[start:]); err != nil {
			return nil, wrapReadError(err, d.reader.Tell())
		}
	}
	if d.useImage {
		if len(d.image)+len(buf) > d.imageCap {
			return nil, &Error{Kind: OutOfCore, Err: errImageOverflow, Offset: offset}
		}
		d.image = append(d.image, buf...)
	}
	return buf, nil
}

// account performs the byte accounting for one TLV against the current
// frame, pops frames whose declared length is now satisfied, and pushes a
// new frame for a constructed TLV's contents. This runs
// unconditionally, independent of whether the TLV matched a schema node, so
// the frame stack (and therefore the driver's view of nesting) stays correct
// even while bypassing unmatched or schema-exhausted content.
func (d *Decoder) account(hdr tlv.Header, headerLen int, offset int64) error {
	d.st.cur.nread += headerLen
	if !hdr.Constructed && hdr.Length > 0 {
		d.st.cur.nread += hdr.Length
	}
	d.st.cur.wentUp = false

	if err := d.popExhausted(offset); err != nil {
		return err
	}

	if hdr.Constructed {
		// The child frame starts with the cursor and helper bits carried
		// over unchanged from the just-matched constructed node; only
		// length/nread describe the new nesting level.
		next := d.st.cur
		next.length = hdr.Length
		next.nread = 0
		if err := d.st.push(next); err != nil {
			if berr, ok := err.(*Error); ok {
				berr.Offset = offset
			}
			return err
		}
		// An empty constructed TLV is complete the moment it is pushed.
		// Popping it here, rather than letting the next TLV's bytes be
		// misattributed to it, keeps the over-length check exact.
		if err := d.popExhausted(offset); err != nil {
			return err
		}
	}
	return nil
}

// popExhausted pops every definite-length frame whose declared length is now
// fully consumed, carrying the completed byte count up into the enclosing
// frame and flagging it wentUp. A frame whose count exceeds its declared
// length is a malformed encoding and fatal; see DESIGN.md for the rationale
// of failing here instead of clamping.
func (d *Decoder) popExhausted(offset int64) error {
	for d.st.cur.length != lengthIndefinite {
		if d.st.cur.nread > d.st.cur.length {
			return &Error{Kind: BERError, Err: errOverLong, Offset: offset}
		}
		if d.st.cur.nread < d.st.cur.length || d.st.depth() == 0 {
			break
		}
		n := d.st.cur.nread
		d.st.pop()
		d.st.cur.nread += n
		d.st.cur.wentUp = true
	}
	return nil
}

// skipValue discards a primitive TLV's value bytes when neither the matched
// node nor the image buffer needs them (an unmatched TLV during bypass, or a
// TLV read before any anchor was found).
func (d *Decoder) skipValue(n int, offset int64) error {
	if n == tlv.LengthIndefinite {
		return &Error{Kind: BERError, Err: errors.New("indefinite length on a primitive TLV"), Offset: offset}
	}
	if n == 0 {
		return nil
	}
	if s, ok := d.reader.(interface{ Discard(int) (int, error) }); ok {
		if _, err := s.Discard(n); err != nil {
			return wrapReadError(err, d.reader.Tell())
		}
		return nil
	}
	if _, err := io.CopyN(io.Discard, d.reader, int64(n)); err != nil {
		return wrapReadError(err, d.reader.Tell())
	}
	return nil
}

// wrapReadError classifies an I/O failure from the reader or tlv.ReadHeader
// into this package's error taxonomy.
func wrapReadError(err error, offset int64) error {
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		// A clean EOF at a TLV boundary never reaches this function; any EOF
		// here interrupted a header or a value.
		return &Error{Kind: PrematureEOF, Err: err, Offset: offset}
	case errors.Is(err, tlv.ErrForbiddenLength), errors.Is(err, tlv.ErrHeaderTooLarge),
		errors.Is(err, tlv.ErrTagOverflow), errors.Is(err, tlv.ErrLengthOverflow):
		return &Error{Kind: BERError, Err: err, Offset: offset}
	default:
		return &Error{Kind: ReadError, Err: err, Offset: offset}
	}
}
