// Package getipfs locates a usable IPFS client.
//
// Resolution tries the following strategies in order and returns the first
// client that passes the connection test:
//
//  1. a client exposed by a companion on the root object
//  2. a client injected directly on the root object
//  3. an IPFS HTTP API endpoint (explicit address, host origin, default address)
//  4. an in-process node built by a caller supplied factory (disabled by default)
//
// Later strategies are never started once one succeeds. A strategy that fails
// only means the next one is tried; when all fail the result is nil without an
// error.
//
// # Usage
//
//	root := ambient.NewMapRoot()
//	client, err := getipfs.GetIPFS(ctx, root, &getipfs.Options{
//	    APIAddress: getipfs.String("/ip4/127.0.0.1/tcp/5001"),
//	})
//	if err != nil {
//	    return err
//	}
//	if client == nil {
//	    return interfaces.ErrNoProvider
//	}
//
// An invalid APIAddress is reported with a warning and ignored, so the default
// address is used instead. Set StrictAPIAddress to turn it into an error.
package getipfs
