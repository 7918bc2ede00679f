// Package api serves extraction and reconciliation over HTTP.
//
// # Routes
//
//	GET  /healthz        liveness and build information
//	GET  /v1/fields      field names and value kinds
//	POST /v1/reconcile   guesses → record
//	POST /v1/update      record + guesses → record and changes
//	POST /v1/extract     artifacts + seed → guesses and record
//
// Request and response bodies are JSON. Guesses use the same encoding as
// the CLI's JSON output. Artifacts use the envelope format of
// [github.com/matzehuels/upstreamer/pkg/io].
//
// # Errors
//
// Failures are reported as
//
//	{"error": {"code": "INVALID_GUESS", "message": "..."}}
//
// Invalid input (any INVALID_* code) is a 400; everything else is a 500.
//
// # Caching
//
// /v1/extract runs through a [pipeline.Runner] backed by the server's
// cache. When Options.ClientHeader is set and a request carries that
// header, its cache keys are scoped to the header value.
package api
