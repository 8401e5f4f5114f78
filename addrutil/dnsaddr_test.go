package addrutil

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTXTServer serves the given TXT records on a local UDP port.
func startTXTServer(t *testing.T, records map[string][]string) string {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		for _, q := range r.Question {
			for _, txt := range records[q.Name] {
				m.Answer = append(m.Answer, &dns.TXT{
					Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
					Txt: []string{txt},
				})
			}
		}
		w.WriteMsg(m)
	})

	started := make(chan struct{})
	server := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go server.ActivateAndServe()
	<-started

	t.Cleanup(func() { server.Shutdown() })
	return pc.LocalAddr().String()
}

func TestDNSAddrResolver_Resolve(t *testing.T) {
	server := startTXTServer(t, map[string][]string{
		"_dnsaddr.api.example.com.": {"garbage", "dnsaddr=/ip4/10.0.0.1/tcp/5001"},
		"_dnsaddr.nested.example.com.": {"dnsaddr=/dnsaddr/api.example.com"},
		"_dnsaddr.broken.example.com.": {"dnsaddr=not-a-multiaddr"},
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := NewDNSAddrResolver(server, time.Second, logger)

	tests := []struct {
		name     string
		address  string
		expected string
		wantErr  bool
	}{
		{name: "plain address passes through", address: "/ip4/127.0.0.1/tcp/5001", expected: "/ip4/127.0.0.1/tcp/5001"},
		{name: "dnsaddr resolved", address: "/dnsaddr/api.example.com", expected: "/ip4/10.0.0.1/tcp/5001"},
		{name: "nested dnsaddr resolved", address: "/dnsaddr/nested.example.com", expected: "/ip4/10.0.0.1/tcp/5001"},
		{name: "no usable records", address: "/dnsaddr/broken.example.com", wantErr: true},
		{name: "unknown domain", address: "/dnsaddr/missing.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ma.NewMultiaddr(tt.address)
			require.NoError(t, err)

			resolved, err := resolver.Resolve(context.Background(), addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resolved.String())
		})
	}
}
