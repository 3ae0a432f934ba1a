// ABOUTME: NTP wire format encoding and decoding
// ABOUTME: Builds client requests and validates server responses
package ntp

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	// PacketSize is the fixed length of an NTP datagram without extensions.
	PacketSize = 48

	// unixEpochOffset is the number of seconds between the NTP epoch
	// (1900-01-01) and the Unix epoch (1970-01-01).
	unixEpochOffset = 2208988800

	ntpVersion = 4

	modeSymmetricPassive = 2
	modeClient           = 3
	modeServer           = 4

	maxStratum = 16
)

// packet is the 48-byte NTP message in host byte order. Timestamps are kept
// split into whole seconds and a 2^32-scaled binary fraction, as on the wire.
type packet struct {
	LiVnMode       byte
	Stratum        uint8
	Poll           int8
	Precision      int8
	RootDelay      uint32
	RootDispersion uint32
	ReferenceID    uint32
	RefSec         uint32
	RefFrac        uint32
	OrigSec        uint32
	OrigFrac       uint32
	RecvSec        uint32
	RecvFrac       uint32
	TxSec          uint32
	TxFrac         uint32
}

// newRequest builds a client request with the transmit timestamp set to t.
func newRequest(t time.Time) *packet {
	return &packet{
		LiVnMode: (0 << 6) | (ntpVersion << 3) | modeClient,
		TxSec:    uint32(t.Unix() + unixEpochOffset),
		TxFrac:   microsToFraction(t.Nanosecond() / 1000),
	}
}

// microsToFraction scales microseconds into the 32-bit binary fraction of a
// second used by NTP timestamps. Truncating, not rounding.
func microsToFraction(usec int) uint32 {
	return uint32(uint64(usec) << 32 / 1000000)
}

func (p *packet) encode() []byte {
	buf := make([]byte, PacketSize)
	buf[0] = p.LiVnMode
	buf[1] = p.Stratum
	buf[2] = byte(p.Poll)
	buf[3] = byte(p.Precision)
	binary.BigEndian.PutUint32(buf[4:], p.RootDelay)
	binary.BigEndian.PutUint32(buf[8:], p.RootDispersion)
	binary.BigEndian.PutUint32(buf[12:], p.ReferenceID)
	binary.BigEndian.PutUint32(buf[16:], p.RefSec)
	binary.BigEndian.PutUint32(buf[20:], p.RefFrac)
	binary.BigEndian.PutUint32(buf[24:], p.OrigSec)
	binary.BigEndian.PutUint32(buf[28:], p.OrigFrac)
	binary.BigEndian.PutUint32(buf[32:], p.RecvSec)
	binary.BigEndian.PutUint32(buf[36:], p.RecvFrac)
	binary.BigEndian.PutUint32(buf[40:], p.TxSec)
	binary.BigEndian.PutUint32(buf[44:], p.TxFrac)
	return buf
}

func decodePacket(buf []byte) (*packet, error) {
	if len(buf) < PacketSize {
		return nil, fmt.Errorf("%w: short datagram (%d bytes)", ErrServer, len(buf))
	}
	return &packet{
		LiVnMode:       buf[0],
		Stratum:        buf[1],
		Poll:           int8(buf[2]),
		Precision:      int8(buf[3]),
		RootDelay:      binary.BigEndian.Uint32(buf[4:]),
		RootDispersion: binary.BigEndian.Uint32(buf[8:]),
		ReferenceID:    binary.BigEndian.Uint32(buf[12:]),
		RefSec:         binary.BigEndian.Uint32(buf[16:]),
		RefFrac:        binary.BigEndian.Uint32(buf[20:]),
		OrigSec:        binary.BigEndian.Uint32(buf[24:]),
		OrigFrac:       binary.BigEndian.Uint32(buf[28:]),
		RecvSec:        binary.BigEndian.Uint32(buf[32:]),
		RecvFrac:       binary.BigEndian.Uint32(buf[36:]),
		TxSec:          binary.BigEndian.Uint32(buf[40:]),
		TxFrac:         binary.BigEndian.Uint32(buf[44:]),
	}, nil
}

// validate applies the response rules for a client exchange: the reply must
// come from a server or symmetric-passive association and the stratum must
// identify a synchronized server. Kiss-of-death (stratum 0) and
// unsynchronized (stratum >= 16) replies are rejected.
func (p *packet) validate() error {
	switch m := p.mode(); m {
	case modeServer, modeSymmetricPassive:
	default:
		return fmt.Errorf("%w: unexpected mode %d", ErrServer, m)
	}
	if p.Stratum == 0 || p.Stratum >= maxStratum {
		return fmt.Errorf("%w: stratum %d out of range", ErrServer, p.Stratum)
	}
	return nil
}

// serverUnix converts the transmit timestamp's whole seconds from the NTP
// epoch to Unix seconds. The result is a point in time, not a duration.
func (p *packet) serverUnix() int64 {
	return int64(p.TxSec) - unixEpochOffset
}

func (p *packet) mode() byte { return p.LiVnMode & 0x07 }

func (p *packet) version() byte { return (p.LiVnMode >> 3) & 0x07 }
