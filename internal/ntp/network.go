package ntp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// RequestHeader is the first byte of every request: LI=0, VN=3, Mode=client.
const RequestHeader byte = 0x1B

// ErrMalformedPacket is returned when a response is not exactly PacketSize bytes.
type ErrMalformedPacket struct {
	Length int
}

// Error implements the error interface.
func (e ErrMalformedPacket) Error() string {
	return fmt.Sprintf("malformed packet: got %d bytes, want %d", e.Length, PacketSize)
}

type fieldsEncoded struct {
	Stratum   byte
	Poll      uint8
	Precision uint8
	Rootdelay int32
	Rootdisp  uint32
	Refid     [4]byte
	Reftime   uint64
	Org       uint64
	Rec       uint64
	Xmt       uint64
}

func BuildRequest() []byte {
	request := make([]byte, PacketSize)
	request[0] = RequestHeader
	return request
}

func ParseResponse(encoded []byte) (*Packet, error) {
	if len(encoded) != PacketSize {
		return nil, ErrMalformedPacket{Length: len(encoded)}
	}

	reader := bytes.NewReader(encoded)
	firstByte, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	fields := fieldsEncoded{}
	if err := binary.Read(reader, binary.BigEndian, &fields); err != nil {
		return nil, err
	}

	return &Packet{
		Leap:           Leap(firstByte >> 6),
		Version:        (firstByte >> 3) & 0b111,
		Mode:           Mode(firstByte & 0b111),
		Stratum:        fields.Stratum,
		Poll:           fields.Poll,
		Precision:      DecodeSignedExponent(fields.Precision),
		RootDelay:      fields.Rootdelay,
		RootDispersion: fields.Rootdisp,
		ReferenceID:    fields.Refid,
		ReferenceTime:  Timestamp(fields.Reftime),
		OriginTime:     Timestamp(fields.Org),
		ReceiveTime:    Timestamp(fields.Rec),
		TransmitTime:   Timestamp(fields.Xmt),
	}, nil
}

// Encode serializes a packet. Servers and test fixtures use it; the client
// only ever sends BuildRequest.
func (p *Packet) Encode() []byte {
	firstByte := byte(p.Leap)<<6 | (p.Version&0b111)<<3 | byte(p.Mode)&0b111

	var buffer bytes.Buffer
	buffer.Grow(PacketSize)
	buffer.WriteByte(firstByte)
	binary.Write(&buffer, binary.BigEndian, &fieldsEncoded{
		Stratum:   p.Stratum,
		Poll:      p.Poll,
		Precision: uint8(p.Precision),
		Rootdelay: p.RootDelay,
		Rootdisp:  p.RootDispersion,
		Refid:     p.ReferenceID,
		Reftime:   uint64(p.ReferenceTime),
		Org:       uint64(p.OriginTime),
		Rec:       uint64(p.ReceiveTime),
		Xmt:       uint64(p.TransmitTime),
	})
	return buffer.Bytes()
}
