package getipfs

import (
	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
)

// DefaultAPIAddress is the API address of a local IPFS daemon.
const DefaultAPIAddress = "/ip4/127.0.0.1/tcp/5001"

// DefaultWindowCommands are the commands requested from an injected client
// that must grant access first.
var DefaultWindowCommands = []string{"id", "version", "cat", "ls", "add"}

// Config is the effective configuration of a single resolution.
type Config struct {
	TryCompanion bool
	TryWindow    bool
	TryAPI       bool
	TryInProcess bool

	// DefaultAPIAddress is tried by the API strategy when no explicit address is set.
	DefaultAPIAddress string
	// APIAddress is an explicit API multiaddr. Empty means absent.
	APIAddress string
	// StrictAPIAddress rejects an invalid APIAddress instead of falling back.
	StrictAPIAddress bool

	// InProcessOptions are forwarded unchanged to InProcessFactory.
	InProcessOptions map[string]any
	InProcessFactory interfaces.NodeFactory

	WindowCommands []string
	ConnectionTest interfaces.ConnectionTest
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		TryCompanion:      true,
		TryWindow:         true,
		TryAPI:            true,
		TryInProcess:      false,
		DefaultAPIAddress: DefaultAPIAddress,
		InProcessOptions:  map[string]any{},
		WindowCommands:    DefaultWindowCommands,
		ConnectionTest:    ipfsclient.DefaultConnectionTest(),
	}
}

// Options overrides configuration fields. Nil fields keep their defaults.
type Options struct {
	TryCompanion *bool
	TryWindow    *bool
	TryAPI       *bool
	TryInProcess *bool

	DefaultAPIAddress *string
	APIAddress        *string
	StrictAPIAddress  *bool

	InProcessOptions map[string]any
	InProcessFactory interfaces.NodeFactory

	WindowCommands []string
	ConnectionTest interfaces.ConnectionTest
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Merge applies every set field of opts over base. The merge is shallow:
// InProcessOptions and WindowCommands replace the base values wholesale.
func Merge(base Config, opts *Options) Config {
	if opts == nil {
		return base
	}

	cfg := base
	if opts.TryCompanion != nil {
		cfg.TryCompanion = *opts.TryCompanion
	}
	if opts.TryWindow != nil {
		cfg.TryWindow = *opts.TryWindow
	}
	if opts.TryAPI != nil {
		cfg.TryAPI = *opts.TryAPI
	}
	if opts.TryInProcess != nil {
		cfg.TryInProcess = *opts.TryInProcess
	}
	if opts.DefaultAPIAddress != nil {
		cfg.DefaultAPIAddress = *opts.DefaultAPIAddress
	}
	if opts.APIAddress != nil {
		cfg.APIAddress = *opts.APIAddress
	}
	if opts.StrictAPIAddress != nil {
		cfg.StrictAPIAddress = *opts.StrictAPIAddress
	}
	if opts.InProcessOptions != nil {
		cfg.InProcessOptions = opts.InProcessOptions
	}
	if opts.InProcessFactory != nil {
		cfg.InProcessFactory = opts.InProcessFactory
	}
	if opts.WindowCommands != nil {
		cfg.WindowCommands = opts.WindowCommands
	}
	if opts.ConnectionTest != nil {
		cfg.ConnectionTest = opts.ConnectionTest
	}
	return cfg
}
