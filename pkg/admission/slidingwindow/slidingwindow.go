package slidingwindow

import "time"

// Check decides whether a call with the given token cost may proceed.
//
// The evaluation is one atomic step under the ledger lock: evict expired
// records, check the request-count limit, check the token-volume limit,
// and append the call on admission. A rejected call never appends; the
// only mutation a rejected call can leave behind is the eviction of
// records that had already aged past the window.
func (l *ledger) Check(tokens int) Decision {
	if tokens < 0 {
		panic("tokens must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.evict(now)

	if len(l.records)+1 > l.limits.Requests {
		return Reject
	}

	sum := 0
	for _, r := range l.records {
		sum += r.Tokens
	}
	if sum+tokens > l.limits.Tokens {
		return Reject
	}

	l.records = append(l.records, Record{At: now, Tokens: tokens})
	return Admit
}

// Allow is shorthand for Check(tokens).Admitted().
func (l *ledger) Allow(tokens int) bool {
	return l.Check(tokens).Admitted()
}

// Len returns the number of admitted calls currently in the window.
func (l *ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(l.clock.Now())
	return len(l.records)
}

// TokensUsed returns the token volume currently in the window.
func (l *ledger) TokensUsed() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(l.clock.Now())
	sum := 0
	for _, r := range l.records {
		sum += r.Tokens
	}
	return sum
}

// Limits returns the limits the limiter enforces.
func (l *ledger) Limits() Limits {
	return l.limits
}

// Snapshot returns a copy of the ledger as stored. It does not evict, so
// records past the window may still appear until the next check.
func (l *ledger) Snapshot() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Reset discards all recorded calls.
func (l *ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = l.records[:0]
}

// evict drops records whose age exceeds the window. A record exactly at
// the window boundary is retained. Must be called with mu held.
func (l *ledger) evict(now time.Time) {
	cutoff := now.Add(-l.limits.Window)
	i := 0
	for i < len(l.records) && l.records[i].At.Before(cutoff) {
		i++
	}
	if i > 0 {
		l.records = append(l.records[:0], l.records[i:]...)
	}
}
