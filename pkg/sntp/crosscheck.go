package sntp

import (
	"net"
	"strconv"
	"time"

	beevik "github.com/beevik/ntp"
)

// CrossCheck is a second, independent measurement of the same server taken
// with github.com/beevik/ntp.
type CrossCheck struct {
	Offset     float64 `json:"offset_ms"`
	RTT        float64 `json:"rtt_ms"`
	Stratum    uint8   `json:"stratum"`
	Difference float64 `json:"difference_ms"` // our offset minus theirs
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// CrossCheckServer queries server with beevik/ntp and validates the reply.
func CrossCheckServer(server string, opts Options) (*CrossCheck, error) {
	opts = opts.withDefaults()
	if server == "" {
		server = DefaultServer
	}

	host, port := server, opts.Port
	if h, p, err := net.SplitHostPort(serverAddress(server, opts.Port)); err == nil {
		if n, err := strconv.Atoi(p); err == nil {
			host, port = h, n
		}
	}

	response, err := beevik.QueryWithOptions(host, beevik.QueryOptions{
		Timeout:      opts.Timeout,
		Port:         port,
		LocalAddress: opts.LocalAddress,
	})
	if err != nil {
		return nil, err
	}
	if err := response.Validate(); err != nil {
		return nil, err
	}

	return &CrossCheck{
		Offset:  millis(response.ClockOffset),
		RTT:     millis(response.RTT),
		Stratum: response.Stratum,
	}, nil
}

// Compare attaches cc to the result.
func (r *Result) Compare(cc *CrossCheck) {
	cc.Difference = r.Offset - cc.Offset
	r.CrossCheck = cc
}
