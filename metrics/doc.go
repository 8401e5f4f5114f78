// Package metrics records IPFS discovery metrics with Prometheus and serves
// them on a dedicated listener.
package metrics
