/*
Package slidingwindow provides dual-limit sliding window admission control.

A limiter keeps a ledger of admitted calls, each with a timestamp and a
caller-declared token cost, and enforces two limits at once over a trailing
window: a cap on the number of admitted calls and a cap on total token
volume. Both must pass for a call to be admitted.

Basic usage:

	limiter := slidingwindow.New(slidingwindow.Limits{
		Requests: 60,          // 60 calls per window
		Tokens:   10000,       // 10k tokens per window
		Window:   time.Minute, // trailing 60s window
	})

	if limiter.Check(250).Admitted() {
		// Forward the call downstream.
	}

Semantics:

Each check is one atomic step under the ledger lock:

  - Records older than the window are evicted. A record whose age equals
    the window exactly is retained.
  - The call is rejected if admitting it would push the call count over
    Limits.Requests, or the token sum over Limits.Tokens.
  - On admission the call is appended to the ledger; on rejection the
    ledger is left as-is apart from the eviction of expired records.

Eviction is lazy: it happens only when a check (or Len/TokensUsed) runs.
There is no background sweeping and no retry or backoff; a rejection is
terminal for that call and the caller decides whether to try again later.

A token cost of zero is legal and always passes the volume check. Negative
token costs are a caller bug and make Check panic.

Deterministic testing:

The limiter reads time through the Clock interface, so tests can drive the
window with a fake clock instead of sleeping:

	clock := testutil.NewMockClock(time.Now())
	limiter := slidingwindow.NewWithConfig(slidingwindow.Config{
		Limits: limits,
		Clock:  clock,
	})
	clock.Advance(time.Minute) // age out everything

Thread Safety:

All operations are safe for concurrent use. The ledger is guarded by a
mutex held for the full evict-check-append sequence, so concurrent callers
on the same limiter cannot interleave a read-modify-write.
*/
package slidingwindow
