package sntp

import (
	"encoding/hex"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

// Result is everything learned from one exchange.
type Result struct {
	Server  string `json:"server"`
	Address string `json:"address,omitempty"`

	Time          time.Time `json:"time"`
	Offset        float64   `json:"offset_ms"`
	OffsetSeconds float64   `json:"offset_s"`
	Delay         float64   `json:"delay_ms"`

	Reference Reference `json:"reference"`
	Leap      Code      `json:"leap"`
	Version   uint8     `json:"version"`
	Mode      Code      `json:"mode"`
	Stratum   Code      `json:"stratum"`

	T1 Stamp `json:"t1"`
	T2 Stamp `json:"t2"`
	T3 Stamp `json:"t3"`
	T4 Stamp `json:"t4"`

	Poll           Exponent `json:"poll"`
	Precision      Exponent `json:"precision"`
	RootDelay      float64  `json:"root_delay_s"`
	RootDispersion float64  `json:"root_dispersion_s"`

	Raw HexBytes `json:"raw"`

	CrossCheck *CrossCheck `json:"cross_check,omitempty"`
}

// Code is a protocol enumeration with its description.
type Code struct {
	Value uint8  `json:"code"`
	Text  string `json:"text"`
}

// Stamp is a timestamp in milliseconds since the NTP epoch and as local time.
type Stamp struct {
	Millis float64   `json:"ms"`
	Time   time.Time `json:"time"`
}

// Exponent is a log2 seconds field.
type Exponent struct {
	Raw     int     `json:"raw"`
	Seconds float64 `json:"seconds"`
}

type HexBytes []byte

func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b)), nil
}

func (b *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

func newStamp(ms float64) Stamp {
	return Stamp{Millis: ms, Time: ntp.MillisToTime(ms)}
}

// Interpret assembles the result record from a validated packet.
func Interpret(server string, pkt *ntp.Packet, m Measurement, raw []byte) *Result {
	return &Result{
		Server:        server,
		Time:          m.CorrectedTime(),
		Offset:        m.Offset,
		OffsetSeconds: m.Offset / 1000,
		Delay:         m.Delay,

		Reference: ClassifyReference(pkt.Stratum, pkt.Version, pkt.ReferenceID),
		Leap:      Code{Value: uint8(pkt.Leap), Text: pkt.Leap.String()},
		Version:   pkt.Version,
		Mode:      Code{Value: uint8(pkt.Mode), Text: pkt.Mode.String()},
		Stratum:   Code{Value: pkt.Stratum, Text: ntp.StratumText(pkt.Stratum)},

		T1: newStamp(m.T1),
		T2: newStamp(m.T2),
		T3: newStamp(m.T3),
		T4: newStamp(m.T4),

		Poll:           Exponent{Raw: int(pkt.Poll), Seconds: pkt.PollSeconds()},
		Precision:      Exponent{Raw: int(pkt.Precision), Seconds: pkt.PrecisionSeconds()},
		RootDelay:      pkt.RootDelaySeconds(),
		RootDispersion: pkt.RootDispersionSeconds(),

		Raw: append(HexBytes(nil), raw...),
	}
}
