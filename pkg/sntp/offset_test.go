package sntp

import (
	"errors"
	"testing"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	m := Calculate(1000, 1010, 1012, 1025)
	require.Equal(t, -1.5, m.Offset)
	require.Equal(t, 23.0, m.Delay)
}

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func packetAt(t2, t3 time.Time) *ntp.Packet {
	return &ntp.Packet{
		Version:      3,
		Mode:         ntp.SERVER,
		Stratum:      2,
		ReceiveTime:  ntp.TimestampFromTime(t2),
		TransmitTime: ntp.TimestampFromTime(t3),
	}
}

func TestComputeOffset(t *testing.T) {
	t1 := base
	t4 := base.Add(40 * time.Millisecond)
	pkt := packetAt(base.Add(3*time.Second), base.Add(3*time.Second))

	m, err := ComputeOffset(pkt, t1, t4, DefaultMaxOffset)
	require.NoError(t, err)
	require.InDelta(t, 2980.0, m.Offset, 1e-3)
	require.InDelta(t, 40.0, m.Delay, 1e-3)
	require.InDelta(t, ntp.TimeToMillis(t1), m.T1, 1e-3)
	require.InDelta(t, ntp.TimeToMillis(t4), m.T4, 1e-3)

	corrected := m.CorrectedTime()
	require.Equal(t, time.Local, corrected.Location())
	require.WithinDuration(t, base.Add(3020*time.Millisecond), corrected, time.Microsecond)
}

func TestComputeOffsetBoundary(t *testing.T) {
	// offset = ((11000) + (9000)) / 2 = 10000
	t1 := base
	t4 := base.Add(2 * time.Second)
	pkt := packetAt(base.Add(11*time.Second), base.Add(11*time.Second))

	m, err := ComputeOffset(pkt, t1, t4, 10000)
	require.NoError(t, err)
	require.Equal(t, 10000.0, m.Offset)
	require.Equal(t, 2000.0, m.Delay)

	_, err = ComputeOffset(pkt, t1, t4, 9999)
	var tooLarge *OffsetTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	require.Equal(t, 10000.0, tooLarge.Offset)
	require.Equal(t, 9999.0, tooLarge.Max)
}

func TestComputeOffsetNegative(t *testing.T) {
	t1 := base.Add(20 * time.Second)
	t4 := base.Add(22 * time.Second)
	pkt := packetAt(base.Add(time.Second), base.Add(time.Second))

	_, err := ComputeOffset(pkt, t1, t4, DefaultMaxOffset)
	require.Equal(t, KindOffsetTooLarge, Kind(err))

	m, err := ComputeOffset(pkt, t1, t4, 20000)
	require.NoError(t, err)
	require.Equal(t, -20000.0, m.Offset)
}

func TestComputeOffsetUnsynchronized(t *testing.T) {
	pkt := packetAt(base, base)
	pkt.Leap = ntp.NOSYNC

	_, err := ComputeOffset(pkt, base, base, DefaultMaxOffset)
	require.ErrorIs(t, err, ErrServerUnsynchronized)

	// checked before the offset
	pkt = packetAt(base.Add(time.Hour), base.Add(time.Hour))
	pkt.Leap = ntp.NOSYNC
	_, err = ComputeOffset(pkt, base, base, DefaultMaxOffset)
	require.ErrorIs(t, err, ErrServerUnsynchronized)
}

func TestComputeOffsetLeapWarningsAccepted(t *testing.T) {
	for _, leap := range []ntp.Leap{ntp.NOWARNING, ntp.LEAP61, ntp.LEAP59} {
		pkt := packetAt(base, base)
		pkt.Leap = leap
		_, err := ComputeOffset(pkt, base, base, DefaultMaxOffset)
		require.NoError(t, err)
	}
}
