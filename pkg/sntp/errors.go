package sntp

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

var ErrServerUnsynchronized = errors.New("server is not synchronized")

// ConnectError is returned when the server cannot be reached.
type ConnectError struct {
	Server string
	Err    error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot reach %s: %v", e.Server, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// TransportError is returned when sending or receiving the datagram fails.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the operation hit its deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// OffsetTooLargeError is returned when the measured offset exceeds the
// configured maximum. Offset and Max are in milliseconds.
type OffsetTooLargeError struct {
	Offset float64
	Max    float64
}

// Error implements the error interface.
func (e *OffsetTooLargeError) Error() string {
	return fmt.Sprintf("offset %.3f ms exceeds maximum of %.0f ms", e.Offset, e.Max)
}

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnknown
	KindConnect
	KindTransport
	KindMalformedPacket
	KindServerUnsynchronized
	KindOffsetTooLarge
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConnect:
		return "connect"
	case KindTransport:
		return "transport"
	case KindMalformedPacket:
		return "malformed packet"
	case KindServerUnsynchronized:
		return "server unsynchronized"
	case KindOffsetTooLarge:
		return "offset too large"
	}
	return "unknown"
}

// Kind classifies an error returned by Query.
func Kind(err error) ErrorKind {
	var (
		connectErr   *ConnectError
		transportErr *TransportError
		malformed    ntp.ErrMalformedPacket
		offsetErr    *OffsetTooLargeError
	)

	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &connectErr):
		return KindConnect
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &malformed):
		return KindMalformedPacket
	case errors.Is(err, ErrServerUnsynchronized):
		return KindServerUnsynchronized
	case errors.As(err, &offsetErr):
		return KindOffsetTooLarge
	}
	return KindUnknown
}
