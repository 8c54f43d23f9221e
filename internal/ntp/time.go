package ntp

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	EraLength     int64   = 4_294_967_296 // 2^32
	UnixEraOffset int64   = 2_208_988_800 // 1970 - 1900 in seconds
	ShortLength   float64 = 65536         // 2^16
)

// Timestamp is the 64-bit wire timestamp: seconds since 1900-01-01T00:00:00Z
// in the high 32 bits, fraction of a second (n/2^32) in the low 32 bits.
type Timestamp uint64

func NewTimestamp(seconds, fraction uint32) Timestamp {
	return Timestamp(uint64(seconds)<<32 | uint64(fraction))
}

func (t Timestamp) Seconds() uint32  { return uint32(t >> 32) }
func (t Timestamp) Fraction() uint32 { return uint32(t) }

// Millis returns milliseconds since the NTP epoch.
func (t Timestamp) Millis() float64 {
	return float64(t.Seconds())*1000 + float64(t.Fraction())*1000/float64(EraLength)
}

func (t Timestamp) Time() time.Time {
	secs := int64(t.Seconds()) - UnixEraOffset
	nanos := (int64(t.Fraction()) * int64(time.Second)) >> 32
	return time.Unix(secs, nanos)
}

func TimestampFromTime(t time.Time) Timestamp {
	secs := t.Unix() + UnixEraOffset
	frac := (int64(t.Nanosecond()) << 32) / int64(time.Second)
	return NewTimestamp(uint32(secs), uint32(frac))
}

// TimeToMillis converts a wall-clock instant to milliseconds since the NTP epoch.
func TimeToMillis(t time.Time) float64 {
	return float64(t.Unix()+UnixEraOffset)*1000 + float64(t.Nanosecond())/1e6
}

// MillisToTime converts milliseconds since the NTP epoch to local time.
func MillisToTime(ms float64) time.Time {
	secs := math.Floor(ms / 1000)
	nanos := math.Round((ms - secs*1000) * 1e6)
	return time.Unix(int64(secs)-UnixEraOffset, int64(nanos)).Local()
}

// DecodeFractionMillis reads a 4 byte big-endian fraction of a second as milliseconds.
func DecodeFractionMillis(b []byte) float64 {
	return float64(binary.BigEndian.Uint32(b[:4])) * 1000 / float64(EraLength)
}

// DecodeSignedShort reads a signed 16.16 value in seconds.
func DecodeSignedShort(b []byte) float64 {
	return float64(int32(binary.BigEndian.Uint32(b[:4]))) / ShortLength
}

// DecodeUnsignedShort reads an unsigned 16.16 value in seconds.
func DecodeUnsignedShort(b []byte) float64 {
	return float64(binary.BigEndian.Uint32(b[:4])) / ShortLength
}

// DecodeSignedExponent sign-extends a log2 seconds byte.
func DecodeSignedExponent(b byte) int8 {
	return int8(b)
}

func Log2ToDouble(a int) float64 {
	return math.Ldexp(1, a)
}
