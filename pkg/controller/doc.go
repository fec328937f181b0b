// Package controller contains the HTTP middlewares shared by every route of
// the API server:
//   - WithCORS answers preflight requests and allows any origin.
//   - WithLogger attaches a request ID and a request-scoped logger, then writes
//     an access log line.
//   - WithMetrics records request counts and latencies per route pattern.
//
// PprofMux exposes net/http/pprof for mounting under a debug prefix.
package controller
