/*
Package admission provides admission control primitives for token-metered
endpoints.

This package offers two cooperating pieces:

  - slidingwindow: Dual-limit sliding window evaluator over a session ledger
  - session: Concurrency-safe store mapping session identifiers to ledgers

The evaluator enforces two limits at once over a trailing window: a cap on
admitted calls and a cap on token volume. Both must pass for a call to be
admitted and recorded:

	limiter := slidingwindow.New(slidingwindow.Limits{
		Requests: 60,
		Tokens:   10000,
		Window:   time.Minute,
	})

	if limiter.Check(tokens).Admitted() {
		// Forward the call downstream.
	}

The session store isolates concurrent callers from one another. Each session
identifier owns its own ledger; limits are enforced per session, never
globally:

	store := session.New(limits)
	store.Check("session-a", 500) // never affected by session-b

All operations are safe for concurrent use. Each ledger is guarded by its own
mutex, so a check is atomic from the caller's point of view: eviction of
expired records, both limit checks, and the append on admission happen under
one lock acquisition.
*/
package admission
