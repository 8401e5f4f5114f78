// Package addrutil validates and converts IPFS API addresses.
//
// API addresses are multiaddrs such as /ip4/127.0.0.1/tcp/5001. The package
// validates user supplied addresses, converts host locations into multiaddrs,
// turns multiaddrs into HTTP base URLs and expands /dnsaddr entries through
// DNS TXT records.
package addrutil
