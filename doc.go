/*
Package tokengate provides per-session admission control for services that
front token-metered model endpoints.

Admission Control (pkg/admission):
  - slidingwindow: Dual-limit sliding window evaluator (requests + tokens)
  - session: Concurrency-safe store of per-session ledgers

Transport Glue (pkg/gate):
  - HTTP middleware mapping rejections to 429
  - Health check handler

Example usage:

	import (
		"github.com/vnykmshr/tokengate/pkg/admission/session"
		"github.com/vnykmshr/tokengate/pkg/admission/slidingwindow"
	)

	store, _ := session.NewSafe(slidingwindow.Limits{
		Requests: 60,
		Tokens:   10000,
		Window:   time.Minute,
	})

	if store.Check("session-1", 250).Admitted() {
		// Forward the prompt to the model endpoint.
	}
*/
package tokengate
