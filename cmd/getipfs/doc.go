// Package main (cmd/getipfs) is the command line front end of the provider
// discovery library.
//
// Every command first runs discovery: the local daemon announced in
// $IPFS_PATH/api (companion), a client injected through $IPFS_API (window),
// the HTTP API endpoints derived from --api-address, the provider location and
// --default-api-address, in that order. The first provider whose connection
// test passes is used.
//
// Commands:
//
//   - resolve: print the winning provider, its address and the daemon version.
//   - cat <path>: stream the content at an IPFS path to stdout.
//   - ls <path>: list the links of an IPFS directory.
//   - add [<file>]: store a file, or stdin, and print its CID.
//   - serve: run a read-only HTTP gateway with health, drain and metrics
//     endpoints over the discovered client.
//
// Example usage:
//
//	getipfs --api-address /dns4/ipfs.example.com/tcp/5001/https resolve
//	getipfs --try-companion=false cat QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn
//	getipfs serve --listen-addr 0.0.0.0:8080 --metrics-addr 0.0.0.0:8090
//
// The server implements graceful shutdown on SIGINT/SIGTERM.
package main
