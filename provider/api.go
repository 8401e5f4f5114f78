package provider

import (
	"context"
	"log/slog"
	"net/url"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/ruteri/getipfs/addrutil"
	"github.com/ruteri/getipfs/interfaces"
)

// ClientConstructor builds a client bound to an API address. location is the
// host location, for constructors that resolve relative addressing.
type ClientConstructor func(address string, location *url.URL) (interfaces.IPFSClient, error)

// API connects to an IPFS HTTP API endpoint.
//
// An explicit APIAddress is the only candidate when set. Otherwise the host
// location is tried when it is not the default local API origin, followed by
// DefaultAPIAddress.
type API struct {
	APIAddress        string
	DefaultAPIAddress string
	Location          *url.URL
	NewClient         ClientConstructor

	// DNS expands /dnsaddr candidates. Optional.
	DNS *addrutil.DNSAddrResolver

	Test interfaces.ConnectionTest
	Log  *slog.Logger
}

// Name returns interfaces.ProviderAPI.
func (s *API) Name() interfaces.ProviderName {
	return interfaces.ProviderAPI
}

// Attempt returns a client for the first candidate address that passes the connection test.
func (s *API) Attempt(ctx context.Context) *Result {
	log := loggerOrDefault(s.Log).With("provider", s.Name().String())

	if s.NewClient == nil {
		log.Debug("No API client constructor configured")
		return nil
	}

	for _, candidate := range s.Candidates() {
		address, err := s.resolve(ctx, candidate)
		if err != nil {
			log.Info("Failed to resolve IPFS API address", slog.String("address", candidate), "err", err)
			continue
		}

		client, err := s.NewClient(address, s.Location)
		if err != nil {
			log.Info("Failed to create IPFS API client", slog.String("address", address), "err", err)
			continue
		}

		if err := validate(ctx, s.Test, client); err != nil {
			log.Info("Failed to connect to IPFS API", slog.String("address", address), "err", err)
			continue
		}

		return &Result{Client: client, Provider: s.Name(), Address: address}
	}

	return nil
}

// Candidates returns the API addresses in the order they are tried.
func (s *API) Candidates() []string {
	if s.APIAddress != "" {
		return []string{s.APIAddress}
	}

	var candidates []string
	if s.Location != nil && !addrutil.IsDefaultAPILocation(s.Location) {
		origin, err := addrutil.LocationToMultiaddr(s.Location)
		if err != nil {
			loggerOrDefault(s.Log).Debug("Location is not usable as API address",
				slog.String("location", s.Location.String()), "err", err)
		} else if origin.String() != s.DefaultAPIAddress {
			candidates = append(candidates, origin.String())
		}
	}

	if s.DefaultAPIAddress != "" {
		candidates = append(candidates, s.DefaultAPIAddress)
	}
	return candidates
}

func (s *API) resolve(ctx context.Context, address string) (string, error) {
	if s.DNS == nil {
		return address, nil
	}

	m, err := ma.NewMultiaddr(address)
	if err != nil {
		// not a multiaddr, let the constructor decide
		return address, nil
	}

	resolved, err := s.DNS.Resolve(ctx, m)
	if err != nil {
		return "", err
	}
	return resolved.String(), nil
}
