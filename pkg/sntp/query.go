package sntp

import (
	"context"
	"fmt"

	"github.com/AndrewLester/sntpal/internal/ntp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Query performs one SNTP exchange with server and returns the decoded
// measurement. The socket lives only for the duration of the call.
func Query(ctx context.Context, server string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if server == "" {
		server = DefaultServer
	}
	log := opts.Logger.With(zap.String("server", server))

	tr, err := opts.Dialer.Dial(ctx, server, opts.Port)
	if err != nil {
		return nil, &ConnectError{Server: server, Err: err}
	}
	defer tr.Close()

	response, t1, t4, err := Exchange(tr, opts.Clock, ntp.BuildRequest(), opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", server, err)
	}

	pkt, err := ntp.ParseResponse(response)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", server, err)
	}
	log.Debug("received response",
		zap.Object("packet", pkt),
		zap.Time("t1", t1),
		zap.Time("t4", t4),
	)

	m, err := ComputeOffset(pkt, t1, t4, opts.MaxOffset)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", server, err)
	}

	result := Interpret(server, pkt, m, response)
	if addr := tr.RemoteAddr(); addr != nil {
		result.Address = addr.String()
	}
	if !opts.SkipReferenceLookup {
		annotateReference(ctx, &result.Reference, opts.Resolver, log)
	}

	log.Info("measured offset",
		zap.Float64("offset_ms", result.Offset),
		zap.Float64("delay_ms", result.Delay),
		zap.Stringer("reference", result.Reference),
	)
	return result, nil
}

// Outcome pairs a server with its result or error.
type Outcome struct {
	Server string
	Result *Result
	Err    error
}

// QueryMany queries every server concurrently, one socket each. A failure
// for one server does not affect the others.
func QueryMany(ctx context.Context, servers []string, opts Options) []Outcome {
	outcomes := make([]Outcome, len(servers))

	var g errgroup.Group
	for i, server := range servers {
		i, server := i, server
		g.Go(func() error {
			result, err := Query(ctx, server, opts)
			outcomes[i] = Outcome{Server: server, Result: result, Err: err}
			return nil
		})
	}
	g.Wait()

	return outcomes
}
