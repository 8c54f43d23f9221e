package ntp

import (
	"encoding/binary"
	"fmt"
)

const (
	Port       = "123" // NTP port number
	PacketSize = 48    // base header, no extension fields
)

type Leap byte

const (
	NOWARNING Leap = iota
	LEAP61
	LEAP59
	NOSYNC // alarm condition
)

func (l Leap) String() string {
	switch l {
	case NOWARNING:
		return "no warning"
	case LEAP61:
		return "last minute has 61 seconds"
	case LEAP59:
		return "last minute has 59 seconds"
	case NOSYNC:
		return "alarm condition (clock not synchronized)"
	}
	return fmt.Sprintf("invalid leap indicator %d", byte(l))
}

type Mode byte

const (
	RESERVED Mode = iota
	SYMMETRIC_ACTIVE
	SYMMETRIC_PASSIVE
	CLIENT
	SERVER
	BROADCAST
	CONTROL_MESSAGE
	RESERVED_PRIVATE_USE
)

func (m Mode) String() string {
	switch m {
	case RESERVED:
		return "reserved"
	case SYMMETRIC_ACTIVE:
		return "symmetric active"
	case SYMMETRIC_PASSIVE:
		return "symmetric passive"
	case CLIENT:
		return "client"
	case SERVER:
		return "server"
	case BROADCAST:
		return "broadcast"
	case CONTROL_MESSAGE:
		return "reserved for NTP control message"
	case RESERVED_PRIVATE_USE:
		return "reserved for private use"
	}
	return fmt.Sprintf("invalid mode %d", byte(m))
}

// StratumText describes a stratum value as rfc-2030 does.
func StratumText(stratum uint8) string {
	switch {
	case stratum == 0:
		return "unspecified or unavailable"
	case stratum == 1:
		return "primary reference"
	case stratum <= 15:
		return "secondary reference (via NTP or SNTP)"
	}
	return "reserved"
}

// Packet is a decoded server response.
type Packet struct {
	Leap      Leap
	Version   byte
	Mode      Mode
	Stratum   uint8
	Poll      uint8 // log2 seconds, never sign extended
	Precision int8  // log2 seconds

	RootDelay      int32  // 16.16 seconds
	RootDispersion uint32 // 16.16 seconds
	ReferenceID    [4]byte

	ReferenceTime Timestamp
	OriginTime    Timestamp
	ReceiveTime   Timestamp // t2
	TransmitTime  Timestamp // t3
}

// PollSeconds is the poll interval, 2^Poll.
func (p *Packet) PollSeconds() float64 {
	return Log2ToDouble(int(p.Poll))
}

// PrecisionSeconds is the server clock precision, 2^Precision.
func (p *Packet) PrecisionSeconds() float64 {
	return Log2ToDouble(int(p.Precision))
}

func (p *Packet) RootDelaySeconds() float64 {
	return DecodeSignedShort(binary.BigEndian.AppendUint32(nil, uint32(p.RootDelay)))
}

func (p *Packet) RootDispersionSeconds() float64 {
	return DecodeUnsignedShort(binary.BigEndian.AppendUint32(nil, p.RootDispersion))
}
