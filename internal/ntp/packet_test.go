// ABOUTME: Tests for NTP wire encoding, decoding, and validation
// ABOUTME: Covers epoch conversion and the request/response rules
package ntp

import (
	"errors"
	"testing"
	"time"
)

func TestNewRequestHeader(t *testing.T) {
	req := newRequest(time.Now())

	// leap 0, version 4, client mode 3
	if req.LiVnMode != 0x23 {
		t.Errorf("expected header byte 0x23, got 0x%02x", req.LiVnMode)
	}
	if req.version() != 4 {
		t.Errorf("expected version 4, got %d", req.version())
	}
	if req.mode() != modeClient {
		t.Errorf("expected mode %d, got %d", modeClient, req.mode())
	}
}

func TestNewRequestTransmitTimestamp(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 500000*1000, time.UTC)
	req := newRequest(at)

	wantSec := uint32(at.Unix() + unixEpochOffset)
	if req.TxSec != wantSec {
		t.Errorf("expected TxSec %d, got %d", wantSec, req.TxSec)
	}

	// 0.5s is exactly half the 32-bit fraction range
	if req.TxFrac != 1<<31 {
		t.Errorf("expected TxFrac %d, got %d", uint32(1<<31), req.TxFrac)
	}
}

func TestMicrosToFraction(t *testing.T) {
	cases := []struct {
		usec int
		want uint32
	}{
		{0, 0},
		{1, 4294},
		{500000, 1 << 31},
		{999999, 4294963001},
	}
	for _, tc := range cases {
		if got := microsToFraction(tc.usec); got != tc.want {
			t.Errorf("microsToFraction(%d) = %d, want %d", tc.usec, got, tc.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := &packet{
		LiVnMode:       (3 << 3) | modeServer,
		Stratum:        2,
		Poll:           6,
		Precision:      -20,
		RootDelay:      0x00010203,
		RootDispersion: 0x04050607,
		ReferenceID:    0x47505300, // "GPS\0"
		RefSec:         3900000000,
		RefFrac:        12345,
		OrigSec:        3900000001,
		OrigFrac:       23456,
		RecvSec:        3900000002,
		RecvFrac:       34567,
		TxSec:          3900000003,
		TxFrac:         45678,
	}

	decoded, err := decodePacket(p.encode())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if *decoded != *p {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, p)
	}
}

func TestDecodeShortDatagram(t *testing.T) {
	_, err := decodePacket(make([]byte, PacketSize-1))
	if !errors.Is(err, ErrServer) {
		t.Errorf("expected ErrServer for short datagram, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mode    byte
		stratum uint8
		ok      bool
	}{
		{"server stratum 1", modeServer, 1, true},
		{"server stratum 15", modeServer, 15, true},
		{"symmetric passive", modeSymmetricPassive, 5, true},
		{"client mode rejected", modeClient, 2, false},
		{"broadcast rejected", 5, 2, false},
		{"reserved mode rejected", 0, 2, false},
		{"kiss of death", modeServer, 0, false},
		{"unsynchronized", modeServer, 16, false},
		{"stratum above max", modeServer, 200, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &packet{
				LiVnMode: (ntpVersion << 3) | tc.mode,
				Stratum:  tc.stratum,
				// validation must not depend on timestamp fields
				TxSec:  0xdeadbeef,
				TxFrac: 0xffffffff,
			}
			err := p.validate()
			if tc.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.ok {
				if !errors.Is(err, ErrServer) {
					t.Errorf("expected ErrServer, got %v", err)
				}
			}
		})
	}
}

func TestServerUnix(t *testing.T) {
	p := &packet{TxSec: uint32(2000000000 + unixEpochOffset)}
	if got := p.serverUnix(); got != 2000000000 {
		t.Errorf("expected serverUnix 2000000000, got %d", got)
	}
}
