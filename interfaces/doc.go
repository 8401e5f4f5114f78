// Package interfaces defines the contracts shared by the IPFS discovery packages,
// separating interface definitions from implementations.
//
// # Client Interfaces
//
// IPFSClient: a handle capable of content-addressed retrieval. The discovery
// core never inspects it beyond what a ConnectionTest needs.
//
// ConnectionTest: a predicate deciding whether a candidate client is reachable.
//
// NodeFactory: constructs an in-process node on demand.
//
// # Environment Interfaces
//
// Root: the ambient environment (injected companion client, injected client,
// host location) passed explicitly to the discovery strategies.
//
// Enabler: an injected object that grants access before returning a client.
//
// # Errors
//
// The package declares the sentinel errors returned across packages, such as
// ErrInvalidAPIAddress and ErrNoProvider.
package interfaces
