// Package ipfsclient provides the IPFS HTTP API client and the connectivity
// probe used to decide whether a discovered client is usable.
//
// HTTPClient wraps go-ipfs-api and accepts either a multiaddr or an http(s)
// URL. NewLocalClient reads the API address a running daemon announces in its
// repository.
//
// The default connectivity probe lists the empty unixfs directory
// (QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn), which every healthy node
// can resolve without network access:
//
//	test := ipfsclient.DefaultConnectionTest()
//	if err := test(ctx, client); err != nil {
//	    // client is unreachable
//	}
package ipfsclient
