/*
Package gate provides the HTTP glue between admission control and a
downstream handler.

The middleware extracts a session key and a declared token cost from each
request, runs the admission check, and either forwards the request or
answers 429 without touching the downstream:

	store := session.New(limits)
	g, _ := gate.New(gate.Config{Store: store})

	mux := http.NewServeMux()
	mux.Handle("/v1/completions", g.Middleware(completionsHandler))
	mux.HandleFunc("/healthz", gate.HealthHandler())

By default the session key comes from the X-Session-ID header (client IP
as fallback) and the token cost from the X-Tokens-Requested header; both
are pluggable via Config. The declared cost is exactly what gets recorded
on admission, so callers must not re-account a different cost afterwards.

Responses carry X-RateLimit-Limit, X-RateLimit-Remaining and
X-RateLimit-Tokens-Remaining headers; rejections add Retry-After with the
window length in seconds.
*/
package gate
