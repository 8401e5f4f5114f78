package interfaces

import (
	"context"
	"net/url"
)

// Well-known property paths looked up on the root object.
const (
	// CompanionPath holds a client exposed by a companion.
	CompanionPath = "ipfsCompanion.ipfs"

	// WindowPath holds a client injected directly on the root object.
	WindowPath = "ipfs"
)

// ProviderName identifies the strategy that produced a client.
type ProviderName string

const (
	ProviderCompanion ProviderName = "ipfs-companion"
	ProviderWindow    ProviderName = "window.ipfs"
	ProviderAPI       ProviderName = "api"
	ProviderInProcess ProviderName = "in-process"
)

// String returns the provider name.
func (p ProviderName) String() string {
	return string(p)
}

// Root is the ambient environment the discovery strategies inspect.
// It replaces implicit global lookups with an injected dependency.
type Root interface {
	// Lookup returns the value stored under a dotted property path.
	Lookup(path string) (any, bool)

	// Location returns the location the host is served from, or nil.
	Location() *url.URL
}

// Enabler is implemented by injected objects that must grant access before
// handing out a client.
type Enabler interface {
	// Enable requests access to the given API commands and returns the client.
	Enable(ctx context.Context, commands []string) (IPFSClient, error)
}
