/*
Package session provides a concurrency-safe store of per-session admission
limiters.

Each session identifier owns an isolated sliding window ledger, created
lazily and empty the first time the session is seen. Limits apply per
session: two sessions passing through the same store never observe or
influence each other's admission outcomes.

Basic usage:

	store := session.New(slidingwindow.Limits{
		Requests: 60,
		Tokens:   10000,
		Window:   time.Minute,
	})

	if store.Check("session-a", 500).Admitted() {
		// Forward the call downstream.
	}

The store replaces ambient, context-local session state with an explicit
registry: callers supply a session key (one per inbound request chain,
connection, or user) and the store maps it to the session's ledger. The
registry lock covers only map access; each ledger has its own lock, so
checks for different sessions never contend.

Idle sessions:

Ledger records expire lazily inside each limiter, but abandoned sessions
would otherwise accumulate in the registry forever. PurgeIdle drops
sessions unseen for longer than a given duration, and StartSweeper runs it
periodically on a cron schedule:

	store.StartSweeper(time.Minute) // purge sessions idle > Config.MaxIdle
	defer store.StopSweeper()
*/
package session
