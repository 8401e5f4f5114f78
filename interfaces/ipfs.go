package interfaces

import (
	"context"
	"errors"
	"io"
)

// Link is a single entry of a listed IPFS directory.
type Link struct {
	Name string
	Hash string
	Size uint64
	Type int
}

// IPFSClient is a handle capable of content-addressed retrieval.
type IPFSClient interface {
	// Cat streams the content found at an IPFS path or CID.
	Cat(ctx context.Context, path string) (io.ReadCloser, error)

	// Ls lists the links of the directory found at an IPFS path or CID.
	Ls(ctx context.Context, path string) ([]Link, error)

	// Add stores data and returns its CID.
	Add(ctx context.Context, r io.Reader) (string, error)
}

// ConnectionTest reports whether a candidate client is usable.
// A nil error means the client is reachable.
type ConnectionTest func(ctx context.Context, client IPFSClient) error

// NodeFactory constructs an in-process IPFS node from opaque options.
type NodeFactory func(ctx context.Context, options map[string]any) (IPFSClient, error)

var (
	// ErrInvalidAPIAddress is returned when an API address is not a valid multiaddr.
	ErrInvalidAPIAddress = errors.New("invalid IPFS API address")

	// ErrNoProvider is returned when no discovery strategy produced a usable client.
	ErrNoProvider = errors.New("no usable IPFS provider found")

	// ErrNotAClient is returned when a root object property does not hold an IPFS client.
	ErrNotAClient = errors.New("value is not an IPFS client")

	// ErrNoFactory is returned when the in-process strategy has no node factory.
	ErrNoFactory = errors.New("in-process node factory not configured")

	// ErrInvalidCID is returned when a content identifier cannot be parsed.
	ErrInvalidCID = errors.New("invalid content identifier")
)
