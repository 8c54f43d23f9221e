package sntp

import (
	"context"
	"net"
	"strconv"
	"time"
)

//go:generate go run github.com/golang/mock/mockgen -package mocks -destination ../../internal/mocks/transport.go github.com/AndrewLester/sntpal/pkg/sntp Transport,Dialer,Resolver

// MTU bounds a received datagram. Anything longer than a bare header is
// still read in full so that it can be rejected as malformed.
const MTU = 1300

// Transport carries one request/response exchange. Implementations are not
// shared between exchanges.
type Transport interface {
	Send(packet []byte, timeout time.Duration) error
	Receive(timeout time.Duration) ([]byte, error)
	RemoteAddr() net.Addr
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, server string, port int) (Transport, error)
}

// UDPDialer connects a UDP socket to the server.
type UDPDialer struct {
	LocalAddress string
}

func (d UDPDialer) Dial(ctx context.Context, server string, port int) (Transport, error) {
	var dialer net.Dialer
	if d.LocalAddress != "" {
		laddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(d.LocalAddress, "0"))
		if err != nil {
			return nil, err
		}
		dialer.LocalAddr = laddr
	}

	conn, err := dialer.DialContext(ctx, "udp", serverAddress(server, port))
	if err != nil {
		return nil, err
	}
	return &udpTransport{conn: conn}, nil
}

// serverAddress joins server and port unless server already names a port.
func serverAddress(server string, port int) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, strconv.Itoa(port))
}

type udpTransport struct {
	conn net.Conn
}

func (t *udpTransport) Send(packet []byte, timeout time.Duration) error {
	if err := t.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	_, err := t.conn.Write(packet)
	return err
}

func (t *udpTransport) Receive(timeout time.Duration) ([]byte, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	packet := make([]byte, MTU)
	n, err := t.conn.Read(packet)
	if err != nil {
		return nil, err
	}
	return packet[:n], nil
}

func (t *udpTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

func (t *udpTransport) Close() error {
	return t.conn.Close()
}
