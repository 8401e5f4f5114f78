package ambient

import (
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
)

const (
	// EnvInjectedAPI holds the address of a client injected by the host.
	EnvInjectedAPI = "IPFS_API"

	// EnvLocation holds the location the host is served from.
	EnvLocation = "IPFS_PROVIDER_LOCATION"
)

// EnvRoot is a root object derived from the process environment.
//
//   - CompanionPath resolves to the daemon announced in the local repository
//     api file ($IPFS_PATH/api).
//   - WindowPath resolves to the API address in IPFS_API.
//   - Location is parsed from IPFS_PROVIDER_LOCATION.
type EnvRoot struct {
	log *slog.Logger
}

// NewEnvRoot creates a root object reading the process environment on every lookup.
func NewEnvRoot(log *slog.Logger) *EnvRoot {
	if log == nil {
		log = slog.Default()
	}
	return &EnvRoot{log: log}
}

// Lookup constructs the client stored under one of the well-known paths.
func (r *EnvRoot) Lookup(path string) (any, bool) {
	switch path {
	case interfaces.CompanionPath:
		client, err := ipfsclient.NewLocalClient(r.log)
		if err != nil {
			r.log.Debug("No companion daemon announced", "err", err)
			return nil, false
		}
		return client, true

	case interfaces.WindowPath:
		address := strings.TrimSpace(os.Getenv(EnvInjectedAPI))
		if address == "" {
			return nil, false
		}
		client, err := ipfsclient.NewHTTPClient(address, r.log)
		if err != nil {
			r.log.Warn("Ignoring injected IPFS API address", slog.String("env", EnvInjectedAPI), "err", err)
			return nil, false
		}
		return client, true

	default:
		return nil, false
	}
}

// Location returns the parsed IPFS_PROVIDER_LOCATION, or nil.
func (r *EnvRoot) Location() *url.URL {
	raw := strings.TrimSpace(os.Getenv(EnvLocation))
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		r.log.Warn("Ignoring invalid location", slog.String("env", EnvLocation), "err", err)
		return nil
	}
	return u
}
