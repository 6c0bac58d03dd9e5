// Package server provides the MCP server context and transports for the
// mailtrim application.
//
// # Key Components
//
// ServerContext manages per-account Gmail clients, cache-backed message
// fetchers, and rewrite orchestrators with lazy initialization and caching.
// Clients are built through a google.TokenProvider, which reads per-account
// token files by default and can be swapped out in tests.
//
// HTTPServer exposes the MCP API over the streamable HTTP transport on /mcp
// alongside the health endpoints. The stdio transport is served directly by
// the serve command and needs nothing from this package beyond the context.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed. Readiness
// includes a message cache check, since every fetch writes to the cache
// before any mailbox mutation is considered.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated from
// the MCP traffic.
package server
