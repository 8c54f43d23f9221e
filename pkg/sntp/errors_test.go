package sntp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/AndrewLester/sntpal/internal/ntp"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	for _, ca := range []struct {
		err  error
		kind ErrorKind
	}{
		{nil, KindNone},
		{io.EOF, KindUnknown},
		{&ConnectError{Server: "a", Err: io.EOF}, KindConnect},
		{fmt.Errorf("query a: %w", &TransportError{Op: "receive", Err: os.ErrDeadlineExceeded}), KindTransport},
		{fmt.Errorf("query a: %w", ntp.ErrMalformedPacket{Length: 12}), KindMalformedPacket},
		{fmt.Errorf("query a: %w", ErrServerUnsynchronized), KindServerUnsynchronized},
		{fmt.Errorf("query a: %w", &OffsetTooLargeError{Offset: 1, Max: 0}), KindOffsetTooLarge},
	} {
		t.Run(ca.kind.String(), func(t *testing.T) {
			require.Equal(t, ca.kind, Kind(ca.err))
		})
	}
}

func TestTransportErrorTimeout(t *testing.T) {
	err := &TransportError{Op: "receive", Err: os.ErrDeadlineExceeded}
	require.True(t, err.Timeout())
	require.Equal(t, "receive timed out: i/o timeout", err.Error())

	err = &TransportError{Op: "send", Err: errors.New("network is unreachable")}
	require.False(t, err.Timeout())
	require.Equal(t, "send failed: network is unreachable", err.Error())
}

func TestErrorMessages(t *testing.T) {
	require.Equal(t, "cannot reach time.example.com: no such host",
		(&ConnectError{Server: "time.example.com", Err: errors.New("no such host")}).Error())
	require.Equal(t, "offset -12000.500 ms exceeds maximum of 10000 ms",
		(&OffsetTooLargeError{Offset: -12000.5, Max: 10000}).Error())
}
