package sntp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"
)

const resolvConf = "/etc/resolv.conf"

var errNoPTR = errors.New("no PTR record")

// Resolver maps an address back to a host name.
type Resolver interface {
	LookupAddr(ctx context.Context, ip net.IP) (string, error)
}

// DNSResolver sends a single PTR query. An empty Nameserver means the first
// server listed in /etc/resolv.conf.
type DNSResolver struct {
	Nameserver string
	Timeout    time.Duration
}

func (r *DNSResolver) LookupAddr(ctx context.Context, ip net.IP) (string, error) {
	arpa, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return "", err
	}
	server, err := r.server()
	if err != nil {
		return "", err
	}

	m := new(dns.Msg)
	m.SetQuestion(arpa, dns.TypePTR)

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &dns.Client{Net: "udp", Timeout: timeout}
	in, _, err := client.ExchangeContext(ctx, m, server)
	if err != nil {
		return "", err
	}
	if in.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("lookup %s: %s", arpa, dns.RcodeToString[in.Rcode])
	}

	for _, answer := range in.Answer {
		if ptr, ok := answer.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}
	return "", errNoPTR
}

func (r *DNSResolver) server() (string, error) {
	if r.Nameserver != "" {
		if _, _, err := net.SplitHostPort(r.Nameserver); err == nil {
			return r.Nameserver, nil
		}
		return net.JoinHostPort(r.Nameserver, "53"), nil
	}

	config, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil {
		return "", err
	}
	if len(config.Servers) == 0 {
		return "", fmt.Errorf("no nameservers in %s", resolvConf)
	}
	return net.JoinHostPort(config.Servers[0], config.Port), nil
}

// annotateReference adds a host name to an IPv4 reference. Lookup failures
// leave the reference as it was.
func annotateReference(ctx context.Context, ref *Reference, resolver Resolver, log *zap.Logger) {
	if ref.Kind != RefSecondaryV3 || resolver == nil {
		return
	}

	host, err := resolver.LookupAddr(ctx, ref.IP)
	if err != nil {
		log.Debug("reference lookup failed", zap.Stringer("ip", ref.IP), zap.Error(err))
		return
	}
	ref.Host = host
}
