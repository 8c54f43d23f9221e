package sntp

import (
	"math"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

// Measurement holds the four exchange timestamps and the values derived from
// them, all in milliseconds since the NTP epoch.
type Measurement struct {
	T1, T2, T3, T4 float64

	Offset float64
	Delay  float64
}

func Calculate(t1, t2, t3, t4 float64) Measurement {
	return Measurement{
		T1:     t1,
		T2:     t2,
		T3:     t3,
		T4:     t4,
		Offset: ((t2 - t1) + (t3 - t4)) / 2,
		Delay:  (t4 - t1) - (t3 - t2),
	}
}

// ComputeOffset validates pkt and measures it against the local send and
// receive instants. maxOffset is in milliseconds; an offset exactly at the
// limit is accepted.
func ComputeOffset(pkt *ntp.Packet, t1, t4 time.Time, maxOffset float64) (Measurement, error) {
	if pkt.Leap == ntp.NOSYNC {
		return Measurement{}, ErrServerUnsynchronized
	}

	m := Calculate(ntp.TimeToMillis(t1), pkt.ReceiveTime.Millis(), pkt.TransmitTime.Millis(), ntp.TimeToMillis(t4))
	if math.Abs(m.Offset) > maxOffset {
		return m, &OffsetTooLargeError{Offset: m.Offset, Max: maxOffset}
	}
	return m, nil
}

// CorrectedTime is the local receive instant shifted by the offset.
func (m Measurement) CorrectedTime() time.Time {
	return ntp.MillisToTime(m.T4 + m.Offset)
}
