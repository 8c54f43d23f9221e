package ntp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// constructed stratum 2 reply, refid 192.0.2.1 (documentation range)
var sampleResponse = []byte{
	0x1c, 0x02, 0x03, 0xec, // LI=0 VN=3 Mode=4, stratum 2, poll 3, precision -20
	0x00, 0x00, 0x08, 0x00, // root delay 0.03125
	0x00, 0x00, 0x10, 0x00, // root dispersion 0.0625
	0xc0, 0x00, 0x02, 0x01, // refid
	0xe2, 0x7d, 0x4c, 0x00, 0x00, 0x00, 0x00, 0x00, // reference
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // originate
	0xe2, 0x7d, 0x4c, 0x10, 0x80, 0x00, 0x00, 0x00, // receive
	0xe2, 0x7d, 0x4c, 0x10, 0xc0, 0x00, 0x00, 0x00, // transmit
}

func TestBuildRequest(t *testing.T) {
	want := make([]byte, 48)
	want[0] = 0x1B
	require.Equal(t, want, BuildRequest())

	// fresh buffer each call
	a := BuildRequest()
	a[1] = 0xFF
	require.Equal(t, want, BuildRequest())
}

func TestParseResponse(t *testing.T) {
	pkt, err := ParseResponse(sampleResponse)
	require.NoError(t, err)

	want := &Packet{
		Leap:           NOWARNING,
		Version:        3,
		Mode:           SERVER,
		Stratum:        2,
		Poll:           3,
		Precision:      -20,
		RootDelay:      0x800,
		RootDispersion: 0x1000,
		ReferenceID:    [4]byte{192, 0, 2, 1},
		ReferenceTime:  NewTimestamp(0xe27d4c00, 0),
		ReceiveTime:    NewTimestamp(0xe27d4c10, 0x80000000),
		TransmitTime:   NewTimestamp(0xe27d4c10, 0xc0000000),
	}
	if diff := cmp.Diff(want, pkt); diff != "" {
		t.Fatal(diff)
	}

	require.Equal(t, 8.0, pkt.PollSeconds())
	require.Equal(t, 1.0/(1<<20), pkt.PrecisionSeconds())
	require.Equal(t, 0.03125, pkt.RootDelaySeconds())
	require.Equal(t, 0.0625, pkt.RootDispersionSeconds())
	require.Zero(t, pkt.OriginTime)
}

func TestParseResponseFlags(t *testing.T) {
	b := make([]byte, 48)
	b[0] = 0b11_100_101
	pkt, err := ParseResponse(b)
	require.NoError(t, err)
	require.Equal(t, NOSYNC, pkt.Leap)
	require.Equal(t, byte(4), pkt.Version)
	require.Equal(t, BROADCAST, pkt.Mode)
}

func TestParseResponseNegativeRootDelay(t *testing.T) {
	b := append([]byte(nil), sampleResponse...)
	copy(b[4:8], []byte{0xFF, 0xFF, 0x80, 0x00})
	pkt, err := ParseResponse(b)
	require.NoError(t, err)
	require.Equal(t, -0.5, pkt.RootDelaySeconds())
}

func TestParseResponseMalformed(t *testing.T) {
	for _, n := range []int{0, 1, 47, 49, 68, 1300} {
		_, err := ParseResponse(make([]byte, n))
		var malformed ErrMalformedPacket
		require.True(t, errors.As(err, &malformed))
		require.Equal(t, n, malformed.Length)
	}
}

func TestPacketEncode(t *testing.T) {
	pkt, err := ParseResponse(sampleResponse)
	require.NoError(t, err)
	require.Equal(t, sampleResponse, pkt.Encode())
}

func TestEnumText(t *testing.T) {
	require.Equal(t, "no warning", NOWARNING.String())
	require.Equal(t, "last minute has 61 seconds", LEAP61.String())
	require.Equal(t, "last minute has 59 seconds", LEAP59.String())
	require.Equal(t, "alarm condition (clock not synchronized)", NOSYNC.String())

	modes := []string{
		"reserved", "symmetric active", "symmetric passive", "client",
		"server", "broadcast", "reserved for NTP control message", "reserved for private use",
	}
	for i, text := range modes {
		require.Equal(t, text, Mode(i).String())
	}

	require.Equal(t, "unspecified or unavailable", StratumText(0))
	require.Equal(t, "primary reference", StratumText(1))
	require.Equal(t, "secondary reference (via NTP or SNTP)", StratumText(2))
	require.Equal(t, "secondary reference (via NTP or SNTP)", StratumText(15))
	require.Equal(t, "reserved", StratumText(16))
	require.Equal(t, "reserved", StratumText(255))
}

func TestPacketMarshalLogObject(t *testing.T) {
	pkt, err := ParseResponse(sampleResponse)
	require.NoError(t, err)

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, pkt.MarshalLogObject(enc))
	require.Equal(t, uint8(2), enc.Fields["stratum"])
	require.Equal(t, int8(-20), enc.Fields["precision"])
	require.Equal(t, map[string]interface{}{
		"seconds":  uint32(0xe27d4c10),
		"fraction": uint32(0xc0000000),
	}, enc.Fields["transmit_time"])
}

func TestParseResponseFieldDecoding(t *testing.T) {
	for _, ca := range []struct {
		name       string
		precision  byte
		delay      []byte
		dispersion []byte
	}{
		{"positive", 0x06, []byte{0x00, 0x01, 0x80, 0x00}, []byte{0x00, 0x01, 0x80, 0x00}},
		{"negative", 0xEC, []byte{0xFF, 0xFE, 0x80, 0x00}, []byte{0xFF, 0xFE, 0x80, 0x00}},
		{"extremes", 0x80, []byte{0x80, 0x00, 0x00, 0x00}, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
	} {
		t.Run(ca.name, func(t *testing.T) {
			b := append([]byte(nil), sampleResponse...)
			b[3] = ca.precision
			copy(b[4:8], ca.delay)
			copy(b[8:12], ca.dispersion)

			pkt, err := ParseResponse(b)
			require.NoError(t, err)
			require.Equal(t, DecodeSignedExponent(ca.precision), pkt.Precision)
			require.Equal(t, DecodeSignedShort(ca.delay), pkt.RootDelaySeconds())
			require.Equal(t, DecodeUnsignedShort(ca.dispersion), pkt.RootDispersionSeconds())
			require.Equal(t, b, pkt.Encode())
		})
	}

	pkt, err := ParseResponse(sampleResponse)
	require.NoError(t, err)
	require.Equal(t, int8(-20), pkt.Precision)
}
