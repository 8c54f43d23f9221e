package sntp

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultServer    = "pool.ntp.org"
	DefaultPort      = 123
	DefaultTimeout   = 2 * time.Second
	DefaultMaxOffset = 10000.0 // ms
)

// Options configures a single Query. The zero value queries port 123 with a
// two second timeout, a 10 s offset limit and reference DNS lookups enabled.
type Options struct {
	Port    int
	Timeout time.Duration

	// MaxOffset is the largest acceptable |offset| in milliseconds. Values
	// <= 0 select DefaultMaxOffset.
	MaxOffset float64

	SkipReferenceLookup bool
	Nameserver          string

	// LocalAddress is the source IP for the default dialer.
	LocalAddress string

	Dialer   Dialer
	Resolver Resolver
	Clock    Clock
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxOffset <= 0 {
		o.MaxOffset = DefaultMaxOffset
	}
	if o.Dialer == nil {
		o.Dialer = UDPDialer{LocalAddress: o.LocalAddress}
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Resolver == nil && !o.SkipReferenceLookup {
		o.Resolver = &DNSResolver{Nameserver: o.Nameserver, Timeout: o.Timeout}
	}
	return o
}
