package vlq

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// readTestCase represents a single reading test case for type T.
type readTestCase[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64] struct {
	data       []byte // input
	extraBytes int    // number of extra bytes after VLQ
	want       T      // expected output
	wantErr    error  // expected error
}

// testRead asserts that decoding a VLQ from tc.data produces the expected
// results and consumes only the VLQ's own bytes.
func testRead[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](t *testing.T, tc readTestCase[T]) {
	t.Helper()

	r := bytes.NewReader(tc.data)
	got, err := Read[T](r)
	if !errors.Is(err, tc.wantErr) {
		t.Fatalf("Read(%# x) error = %v, wantErr %v", tc.data, err, tc.wantErr)
	}
	if err != nil {
		return
	}
	if got != tc.want {
		t.Errorf("Read(%# x) got = %v, want %v", tc.data, got, tc.want)
	}
	if r.Len() != tc.extraBytes {
		t.Errorf("Read(%# x) extra bytes = %d, want %d", tc.data, r.Len(), tc.extraBytes)
	}
}

func Test_Read(t *testing.T) {
	tests := map[string]readTestCase[uint]{
		"SingleByte":    {[]byte{0x05}, 0, 5, nil},
		"MultiByte":     {[]byte{0x85, 0x01, 0x00}, 1, 641, nil},
		"NonMinimal":    {[]byte{0x80, 0x85, 0x01}, 0, 641, nil},
		"EOF":           {nil, 0, 0, io.EOF},
		"UnexpectedEOF": {[]byte{0x81, 0x80}, 0, 0, io.ErrUnexpectedEOF},
		"Overflow":      {[]byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, 0, 0, ErrOverflow}, // assumes uint size of 8 bytes (64 bit architecture)
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			testRead(t, tc)
		})
	}
}

func TestRead8(t *testing.T) {
	tests := map[string]readTestCase[uint8]{
		"SingleByte": {[]byte{0x05}, 0, 5, nil},
		"Overflow":   {[]byte{0x85, 0x01, 0x00}, 0, 0, ErrOverflow},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			testRead(t, tc)
		})
	}
}
