// Package ntptest provides an in-process SNTP server for tests.
package ntptest

import (
	"encoding/binary"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

// Server answers client requests on a loopback UDP port. Configure the
// fields before calling Start.
type Server struct {
	Leap        ntp.Leap
	Stratum     uint8
	Poll        uint8
	Precision   int8
	ReferenceID [4]byte

	// Offset is added to the local clock when stamping replies.
	Offset time.Duration
	// Silent drops every request.
	Silent bool
	// Length overrides the reply size, for malformed replies.
	Length int

	conn     net.PacketConn
	wg       sync.WaitGroup
	mu       sync.Mutex
	requests int
}

func (s *Server) Start() error {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	s.conn = conn

	s.wg.Add(1)
	go s.serve()
	return nil
}

func (s *Server) Addr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

func (s *Server) Host() string {
	return s.Addr().IP.String()
}

func (s *Server) Port() int {
	return s.Addr().Port
}

// Requests returns how many datagrams the server has received.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) Close() error {
	err := s.conn.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()

	packet := make([]byte, ntp.PacketSize)
	for {
		n, addr, err := s.conn.ReadFrom(packet)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		recv := time.Now().Add(s.Offset)

		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		if s.Silent || n < ntp.PacketSize {
			continue
		}
		s.conn.WriteTo(s.reply(packet, recv), addr)
	}
}

func (s *Server) reply(request []byte, recv time.Time) []byte {
	version := (request[0] >> 3) & 0b111
	xmt := ntp.Timestamp(binary.BigEndian.Uint64(request[40:48]))

	pkt := &ntp.Packet{
		Leap:          s.Leap,
		Version:       version,
		Mode:          ntp.SERVER,
		Stratum:       s.Stratum,
		Poll:          s.Poll,
		Precision:     s.Precision,
		ReferenceID:   s.ReferenceID,
		ReferenceTime: ntp.TimestampFromTime(recv.Add(-time.Minute)),
		OriginTime:    xmt,
		ReceiveTime:   ntp.TimestampFromTime(recv),
		TransmitTime:  ntp.TimestampFromTime(time.Now().Add(s.Offset)),
	}
	encoded := pkt.Encode()

	if s.Length > 0 {
		sized := make([]byte, s.Length)
		copy(sized, encoded)
		return sized
	}
	return encoded
}
