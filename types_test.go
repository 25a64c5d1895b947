// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"bytes"
	"testing"
	"time"
)

func TestParseBitString(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    BitString
		wantErr bool
	}{
		"Empty":      {[]byte{0x00}, BitString{Bytes: []byte{}, BitLength: 0}, false},
		"FullByte":   {[]byte{0x00, 0xa5}, BitString{Bytes: []byte{0xa5}, BitLength: 8}, false},
		"Padded":     {[]byte{0x06, 0x6e, 0x5d, 0xc0}, BitString{Bytes: []byte{0x6e, 0x5d, 0xc0}, BitLength: 18}, false},
		"NoContent":  {nil, BitString{}, true},
		"BadPadding": {[]byte{0x08, 0xff}, BitString{}, true},
		"PadOnly":    {[]byte{0x01}, BitString{}, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseBitString(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBitString(%# x) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !bytes.Equal(got.Bytes, tt.want.Bytes) || got.BitLength != tt.want.BitLength {
				t.Errorf("ParseBitString(%# x) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestBitString_String(t *testing.T) {
	s, err := ParseBitString([]byte{0x06, 0x6e, 0x5d, 0xc0})
	if err != nil {
		t.Fatalf("ParseBitString() error = %v", err)
	}
	if got, want := s.String(), "01101110 01011101 11"; got != want {
		t.Errorf("BitString.String() = %q, want %q", got, want)
	}
}

func TestObjectIdentifier_String(t *testing.T) {
	oid := ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	if got, want := oid.String(), "1.2.840.113549.1.1.11"; got != want {
		t.Errorf("ObjectIdentifier.String() = %q, want %q", got, want)
	}
	if !oid.Equal(ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}) {
		t.Error("ObjectIdentifier.Equal() = false for identical identifiers")
	}
	if oid.Equal(ObjectIdentifier{1, 2, 840}) {
		t.Error("ObjectIdentifier.Equal() = true for different identifiers")
	}
}

func TestParseBMPString(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    BMPString
		wantErr bool
	}{
		"ASCII":     {[]byte{0x00, 'h', 0x00, 'i'}, "hi", false},
		"NonASCII":  {[]byte{0x30, 0x42}, "あ", false},
		"OddLength": {[]byte{0x00, 'h', 0x00}, "", true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseBMPString(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBMPString(%# x) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseBMPString(%# x) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}
}

func TestParseUniversalString(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    UniversalString
		wantErr bool
	}{
		"ASCII":      {[]byte{0, 0, 0, 'o', 0, 0, 0, 'k'}, "ok", false},
		"BadLength":  {[]byte{0, 0, 0}, "", true},
		"BadRune":    {[]byte{0, 0xff, 0xff, 0xff}, "", true},
		"OutsideBMP": {[]byte{0x00, 0x01, 0xf6, 0x00}, "😀", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseUniversalString(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUniversalString(%# x) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseUniversalString(%# x) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}
}

func TestUTCTime_String(t *testing.T) {
	tests := map[string]struct {
		t    time.Time
		want string
	}{
		"EarlyUTC":       {time.Date(1962, 7, 23, 16, 12, 3, 0, time.UTC), "620723161203Z"},
		"LateUTC":        {time.Date(2048, 7, 23, 8, 12, 0, 0, time.UTC), "480723081200Z"},
		"PositiveOffset": {time.Date(2048, 7, 23, 23, 12, 0, 0, time.FixedZone("", 3*60*60)), "480723231200+0300"},
		"NegativeOffset": {time.Date(2048, 7, 23, 2, 12, 0, 0, time.FixedZone("", -(5*60+30)*60)), "480723021200-0530"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := UTCTime(tt.t).String(); got != tt.want {
				t.Errorf("UTCTime.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneralizedTime_String(t *testing.T) {
	tests := map[string]struct {
		t    time.Time
		want string
	}{
		"Example":       {time.Date(1985, 11, 06, 21, 06, 27, 300000000, time.Local), "19851106210627.3"},
		"ExampleUTC":    {time.Date(1985, 11, 06, 21, 06, 27, 300000000, time.UTC), "19851106210627.3Z"},
		"Fractional":    {time.Date(1985, 11, 06, 21, 06, 27, 30000000, time.UTC), "19851106210627.03Z"},
		"ExampleOffset": {time.Date(1985, 11, 06, 21, 06, 27, 300000000, time.FixedZone("", -5*3600)), "19851106210627.3-0500"},
		"Example2":      {time.Date(1985, 11, 06, 21, 06, 00, 456000000, time.Local), "19851106210600.456"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := GeneralizedTime(tt.t).String(); got != tt.want {
				t.Errorf("GeneralizedTime.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItoaN(t *testing.T) {
	tests := map[string]struct {
		i    int
		n    int
		want string
	}{
		"2-digit":     {23, 2, "23"},
		"2-digit-pad": {7, 2, "07"},
		"4-digit":     {1023, 4, "1023"},
		"4-digit-pad": {18, 4, "0018"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := itoaN(tt.i, tt.n); got != tt.want {
				t.Errorf("ItoaN() = %v, want %v", got, tt.want)
			}
		})
	}
}
