package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/ruteri/getipfs/addrutil"
	"github.com/ruteri/getipfs/ambient"
	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errUnreachable = errors.New("unreachable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// probeFor passes for clients in ok and records every probed client.
func probeFor(ok ...interfaces.IPFSClient) (interfaces.ConnectionTest, *[]interfaces.IPFSClient) {
	var probed []interfaces.IPFSClient
	return func(ctx context.Context, client interfaces.IPFSClient) error {
		probed = append(probed, client)
		for _, c := range ok {
			if c == client {
				return nil
			}
		}
		return errUnreachable
	}, &probed
}

type fakeEnabler struct {
	client   interfaces.IPFSClient
	err      error
	commands []string
}

func (f *fakeEnabler) Enable(ctx context.Context, commands []string) (interfaces.IPFSClient, error) {
	f.commands = commands
	return f.client, f.err
}

func TestCompanion_Attempt(t *testing.T) {
	good := new(ipfsclient.MockClient)
	bad := new(ipfsclient.MockClient)
	test, _ := probeFor(good)

	tests := []struct {
		name     string
		value    any
		present  bool
		expected interfaces.IPFSClient
	}{
		{name: "client passes connection test", value: good, present: true, expected: good},
		{name: "client fails connection test", value: bad, present: true, expected: nil},
		{name: "value is not a client", value: "ipfs", present: true, expected: nil},
		{name: "nothing injected", value: nil, present: false, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := new(ambient.MockRoot)
			root.On("Lookup", interfaces.CompanionPath).Return(tt.value, tt.present)

			s := &Companion{Root: root, Test: test, Log: discardLogger()}
			res := s.Attempt(context.Background())

			if tt.expected == nil {
				assert.Nil(t, res)
			} else {
				require.NotNil(t, res)
				assert.Same(t, tt.expected, res.Client)
				assert.Equal(t, interfaces.ProviderCompanion, res.Provider)
			}
			root.AssertExpectations(t)
		})
	}

	assert.Nil(t, (&Companion{Test: test}).Attempt(context.Background()))
}

func TestWindow_Attempt(t *testing.T) {
	good := new(ipfsclient.MockClient)
	bad := new(ipfsclient.MockClient)
	test, _ := probeFor(good)

	t.Run("plain injected client", func(t *testing.T) {
		root := ambient.NewMapRoot()
		root.Set(interfaces.WindowPath, good)

		res := (&Window{Root: root, Test: test, Log: discardLogger()}).Attempt(context.Background())
		require.NotNil(t, res)
		assert.Same(t, good, res.Client)
		assert.Equal(t, interfaces.ProviderWindow, res.Provider)
	})

	t.Run("enabler grants access", func(t *testing.T) {
		enabler := &fakeEnabler{client: good}
		root := ambient.NewMapRoot()
		root.Set(interfaces.WindowPath, enabler)

		s := &Window{Root: root, Commands: []string{"cat", "ls"}, Test: test, Log: discardLogger()}
		res := s.Attempt(context.Background())
		require.NotNil(t, res)
		assert.Same(t, good, res.Client)
		assert.Equal(t, []string{"cat", "ls"}, enabler.commands)
	})

	t.Run("enabler refuses access", func(t *testing.T) {
		root := ambient.NewMapRoot()
		root.Set(interfaces.WindowPath, &fakeEnabler{err: errors.New("denied")})

		assert.Nil(t, (&Window{Root: root, Test: test, Log: discardLogger()}).Attempt(context.Background()))
	})

	t.Run("enabler returns nothing", func(t *testing.T) {
		root := ambient.NewMapRoot()
		root.Set(interfaces.WindowPath, &fakeEnabler{})

		assert.Nil(t, (&Window{Root: root, Test: test, Log: discardLogger()}).Attempt(context.Background()))
	})

	t.Run("client fails connection test", func(t *testing.T) {
		root := ambient.NewMapRoot()
		root.Set(interfaces.WindowPath, bad)

		assert.Nil(t, (&Window{Root: root, Test: test, Log: discardLogger()}).Attempt(context.Background()))
	})

	t.Run("nothing injected", func(t *testing.T) {
		assert.Nil(t, (&Window{Root: ambient.NewMapRoot(), Test: test, Log: discardLogger()}).Attempt(context.Background()))
	})
}

// constructorFor returns a constructor handing out one mock client per address.
func constructorFor(failing ...string) (ClientConstructor, map[string]*ipfsclient.MockClient, *[]string) {
	clients := make(map[string]*ipfsclient.MockClient)
	var calls []string
	return func(address string, location *url.URL) (interfaces.IPFSClient, error) {
		calls = append(calls, address)
		for _, f := range failing {
			if f == address {
				return nil, errors.New("cannot construct")
			}
		}
		c, ok := clients[address]
		if !ok {
			c = new(ipfsclient.MockClient)
			clients[address] = c
		}
		return c, nil
	}, clients, &calls
}

func TestAPI_Candidates(t *testing.T) {
	mustURL := func(s string) *url.URL {
		u, err := url.Parse(s)
		require.NoError(t, err)
		return u
	}
	const def = "/ip4/127.0.0.1/tcp/5001"

	tests := []struct {
		name     string
		api      API
		expected []string
	}{
		{
			name:     "explicit address only",
			api:      API{APIAddress: "/ip4/10.0.0.1/tcp/5001", DefaultAPIAddress: def, Location: mustURL("https://example.com")},
			expected: []string{"/ip4/10.0.0.1/tcp/5001"},
		},
		{
			name:     "no location",
			api:      API{DefaultAPIAddress: def},
			expected: []string{def},
		},
		{
			name:     "remote location before default",
			api:      API{DefaultAPIAddress: def, Location: mustURL("https://example.com/app")},
			expected: []string{"/dns4/example.com/tcp/443/https", def},
		},
		{
			name:     "default api origin is skipped",
			api:      API{DefaultAPIAddress: def, Location: mustURL("http://127.0.0.1:5001/webui")},
			expected: []string{def},
		},
		{
			name:     "unsupported location scheme is skipped",
			api:      API{DefaultAPIAddress: def, Location: mustURL("file:///tmp/index.html")},
			expected: []string{def},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.api.Log = discardLogger()
			assert.Equal(t, tt.expected, tt.api.Candidates())
		})
	}
}

func TestAPI_Attempt(t *testing.T) {
	const def = "/ip4/127.0.0.1/tcp/5001"
	location, err := url.Parse("https://example.com")
	require.NoError(t, err)

	t.Run("falls back from location to default", func(t *testing.T) {
		newClient, clients, calls := constructorFor()
		var okClient interfaces.IPFSClient
		test := func(ctx context.Context, client interfaces.IPFSClient) error {
			if client == okClient {
				return nil
			}
			return errUnreachable
		}
		// the default address is the only reachable one
		okClient, _ = newClient(def, nil)
		*calls = nil

		s := &API{DefaultAPIAddress: def, Location: location, NewClient: newClient, Test: test, Log: discardLogger()}
		res := s.Attempt(context.Background())
		require.NotNil(t, res)
		assert.Same(t, clients[def], res.Client)
		assert.Equal(t, def, res.Address)
		assert.Equal(t, interfaces.ProviderAPI, res.Provider)
		assert.Equal(t, []string{"/dns4/example.com/tcp/443/https", def}, *calls)
	})

	t.Run("constructor failure is absorbed", func(t *testing.T) {
		newClient, _, calls := constructorFor(def)
		test, _ := probeFor()

		s := &API{DefaultAPIAddress: def, NewClient: newClient, Test: test, Log: discardLogger()}
		assert.Nil(t, s.Attempt(context.Background()))
		assert.Equal(t, []string{def}, *calls)
	})

	t.Run("unreachable explicit address", func(t *testing.T) {
		newClient, _, calls := constructorFor()
		test, probed := probeFor()

		s := &API{APIAddress: "/ip4/10.0.0.1/tcp/5001", DefaultAPIAddress: def, NewClient: newClient, Test: test, Log: discardLogger()}
		assert.Nil(t, s.Attempt(context.Background()))
		assert.Equal(t, []string{"/ip4/10.0.0.1/tcp/5001"}, *calls)
		assert.Len(t, *probed, 1)
	})

	t.Run("no constructor", func(t *testing.T) {
		assert.Nil(t, (&API{DefaultAPIAddress: def, Log: discardLogger()}).Attempt(context.Background()))
	})
}

func TestAPI_AttemptResolvesDNSAddr(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		m.Answer = append(m.Answer, &dns.TXT{
			Hdr: dns.RR_Header{Name: r.Question[0].Name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
			Txt: []string{"dnsaddr=/ip4/10.0.0.7/tcp/5001"},
		})
		w.WriteMsg(m)
	})
	started := make(chan struct{})
	server := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go server.ActivateAndServe()
	<-started
	defer server.Shutdown()

	newClient, _, calls := constructorFor()
	test := func(ctx context.Context, client interfaces.IPFSClient) error { return nil }

	s := &API{
		APIAddress: "/dnsaddr/ipfs.example.com",
		NewClient:  newClient,
		DNS:        addrutil.NewDNSAddrResolver(pc.LocalAddr().String(), time.Second, discardLogger()),
		Test:       test,
		Log:        discardLogger(),
	}
	res := s.Attempt(context.Background())
	require.NotNil(t, res)
	assert.Equal(t, "/ip4/10.0.0.7/tcp/5001", res.Address)
	assert.Equal(t, []string{"/ip4/10.0.0.7/tcp/5001"}, *calls)
}

func TestInProcess_Attempt(t *testing.T) {
	node := new(ipfsclient.MockClient)
	options := map[string]any{"repo": "/tmp/node"}

	t.Run("factory receives options", func(t *testing.T) {
		var got map[string]any
		factory := func(ctx context.Context, opts map[string]any) (interfaces.IPFSClient, error) {
			got = opts
			return node, nil
		}
		test, _ := probeFor(node)

		res := (&InProcess{Options: options, Factory: factory, Test: test, Log: discardLogger()}).Attempt(context.Background())
		require.NotNil(t, res)
		assert.Same(t, node, res.Client)
		assert.Equal(t, interfaces.ProviderInProcess, res.Provider)
		assert.Equal(t, options, got)
	})

	t.Run("factory error", func(t *testing.T) {
		factory := func(ctx context.Context, opts map[string]any) (interfaces.IPFSClient, error) {
			return nil, errors.New("repo locked")
		}
		assert.Nil(t, (&InProcess{Factory: factory, Log: discardLogger()}).Attempt(context.Background()))
	})

	t.Run("node fails connection test", func(t *testing.T) {
		factory := func(ctx context.Context, opts map[string]any) (interfaces.IPFSClient, error) {
			return node, nil
		}
		test, _ := probeFor()
		assert.Nil(t, (&InProcess{Factory: factory, Test: test, Log: discardLogger()}).Attempt(context.Background()))
	})

	t.Run("no factory", func(t *testing.T) {
		assert.Nil(t, (&InProcess{Log: discardLogger()}).Attempt(context.Background()))
	})
}

func TestDefaultConnectionTestWithMockClient(t *testing.T) {
	client := new(ipfsclient.MockClient)
	client.On("Ls", mock.Anything, ipfsclient.EmptyDirCID).Return([]interfaces.Link{}, nil)

	root := ambient.NewMapRoot()
	root.Set(interfaces.CompanionPath, client)

	res := (&Companion{Root: root, Test: ipfsclient.DefaultConnectionTest(), Log: discardLogger()}).Attempt(context.Background())
	require.NotNil(t, res)
	client.AssertExpectations(t)
}

func TestAttempt_NilTestUsesDefaultConnectionTest(t *testing.T) {
	reachable := new(ipfsclient.MockClient)
	reachable.On("Ls", mock.Anything, ipfsclient.EmptyDirCID).Return([]interfaces.Link{}, nil)
	unreachable := new(ipfsclient.MockClient)
	unreachable.On("Ls", mock.Anything, ipfsclient.EmptyDirCID).Return(nil, errUnreachable)

	t.Run("reachable client is returned", func(t *testing.T) {
		root := ambient.NewMapRoot()
		root.Set(interfaces.CompanionPath, reachable)

		res := (&Companion{Root: root, Log: discardLogger()}).Attempt(context.Background())
		require.NotNil(t, res)
		assert.Same(t, reachable, res.Client)
	})

	t.Run("unreachable client is not returned", func(t *testing.T) {
		root := ambient.NewMapRoot()
		root.Set(interfaces.WindowPath, unreachable)

		assert.Nil(t, (&Window{Root: root, Log: discardLogger()}).Attempt(context.Background()))
	})

	t.Run("in-process node is validated", func(t *testing.T) {
		factory := func(ctx context.Context, options map[string]any) (interfaces.IPFSClient, error) {
			return unreachable, nil
		}
		assert.Nil(t, (&InProcess{Factory: factory, Log: discardLogger()}).Attempt(context.Background()))
	})

	reachable.AssertCalled(t, "Ls", mock.Anything, ipfsclient.EmptyDirCID)
	unreachable.AssertNumberOfCalls(t, "Ls", 2)
}
