// Package provider implements the IPFS client discovery strategies.
//
// Each Strategy independently looks for a candidate client and validates it
// with a connection test:
//
//   - Companion: a client exposed by a companion under interfaces.CompanionPath
//   - Window: a client injected on the root object under interfaces.WindowPath
//   - API: an IPFS HTTP API endpoint (explicit, host origin, then default address)
//   - InProcess: an in-process node built by a caller supplied factory
//
// Strategies never return errors. A failure to find or validate a client is
// logged and reported as a nil *Result, so the next strategy can run.
package provider
