package addrutil

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/miekg/dns"
	ma "github.com/multiformats/go-multiaddr"
)

const (
	dnsaddrTXTPrefix    = "dnsaddr="
	dnsaddrDomainPrefix = "_dnsaddr."

	fallbackNameserver = "127.0.0.53:53"
)

// DNSAddrResolver expands /dnsaddr multiaddrs through DNS TXT records.
type DNSAddrResolver struct {
	server   string
	client   *dns.Client
	maxDepth int
	log      *slog.Logger
}

// NewDNSAddrResolver creates a resolver querying server ("host:port").
// When server is empty the first nameserver of /etc/resolv.conf is used.
func NewDNSAddrResolver(server string, timeout time.Duration, log *slog.Logger) *DNSAddrResolver {
	if log == nil {
		log = slog.Default()
	}

	if server == "" {
		server = fallbackNameserver
		if conf, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(conf.Servers) > 0 {
			server = conf.Servers[0] + ":" + conf.Port
		}
	}

	return &DNSAddrResolver{
		server:   server,
		client:   &dns.Client{Timeout: timeout},
		maxDepth: 3,
		log:      log,
	}
}

// Resolve returns addr unchanged unless it starts with /dnsaddr, in which case
// the first TXT entry that resolves to a dialable multiaddr is returned.
func (r *DNSAddrResolver) Resolve(ctx context.Context, addr ma.Multiaddr) (ma.Multiaddr, error) {
	return r.resolve(ctx, addr, 0)
}

func (r *DNSAddrResolver) resolve(ctx context.Context, addr ma.Multiaddr, depth int) (ma.Multiaddr, error) {
	first, rest := ma.SplitFirst(addr)
	if first == nil || first.Protocol().Code != ma.P_DNSADDR {
		return addr, nil
	}
	if depth >= r.maxDepth {
		return nil, fmt.Errorf("dnsaddr recursion limit reached for %s", addr)
	}

	records, err := r.lookupTXT(ctx, dnsaddrDomainPrefix+first.Value())
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if !strings.HasPrefix(record, dnsaddrTXTPrefix) {
			continue
		}

		candidate, err := ma.NewMultiaddr(strings.TrimPrefix(record, dnsaddrTXTPrefix))
		if err != nil {
			r.log.Debug("Skipping malformed dnsaddr record", "record", record, "err", err)
			continue
		}

		resolved, err := r.resolve(ctx, candidate, depth+1)
		if err != nil {
			r.log.Debug("Failed to resolve nested dnsaddr", "record", record, "err", err)
			continue
		}

		if rest != nil {
			resolved = resolved.Encapsulate(rest)
		}
		return resolved, nil
	}

	return nil, fmt.Errorf("no usable dnsaddr records for %s", first.Value())
}

func (r *DNSAddrResolver) lookupTXT(ctx context.Context, domain string) ([]string, error) {
	m := new(dns.Msg)
	m.Id = dns.Id()
	m.RecursionDesired = true
	m.SetQuestion(dns.Fqdn(domain), dns.TypeTXT)

	in, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return nil, fmt.Errorf("dnsaddr lookup of %s failed: %w", domain, err)
	}

	var records []string
	for _, answer := range in.Answer {
		if txt, ok := answer.(*dns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}
	return records, nil
}
