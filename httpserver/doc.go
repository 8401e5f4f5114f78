/*
Package httpserver implements a read-only IPFS gateway on top of the client
found by IPFS discovery.

The gateway resolves a client at startup and streams content through it. The
resolution can be re-run at any time, for example after the local daemon was
started.

# Endpoints

  - GET /ipfs/{cid}[/path] - Stream content through the current client
  - GET /api/provider - Report the provider and address of the current client
  - POST /api/resolve - Re-run discovery and report the new provider
  - GET /livez - Liveness probe
  - GET /readyz - Readiness probe, not ready while draining or without a client
  - GET /drain, GET /undrain - Toggle readiness for load balancer draining

Prometheus metrics of the discovery attempts are served on a separate listener
at /metrics.
*/
package httpserver
