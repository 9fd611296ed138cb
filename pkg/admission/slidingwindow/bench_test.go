package slidingwindow

import (
	"testing"
	"time"
)

// BenchmarkCheck measures the performance of Check calls on a window that
// never fills (every call admitted and appended).
func BenchmarkCheck(b *testing.B) {
	limiter := New(Limits{
		Requests: 1 << 30,
		Tokens:   1 << 30,
		Window:   time.Millisecond,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Check(1)
	}
}

// BenchmarkCheckRejecting measures the performance of Check calls that are
// rejected on the count limit (no append, no eviction churn).
func BenchmarkCheckRejecting(b *testing.B) {
	limiter := New(Limits{
		Requests: 1,
		Tokens:   1 << 30,
		Window:   time.Hour,
	})
	limiter.Check(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Check(1)
	}
}

// BenchmarkCheckParallel measures contended Check calls on one ledger.
func BenchmarkCheckParallel(b *testing.B) {
	limiter := New(Limits{
		Requests: 1 << 30,
		Tokens:   1 << 30,
		Window:   time.Millisecond,
	})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			limiter.Check(1)
		}
	})
}

// BenchmarkTokensUsed measures window-sum introspection on a populated ledger.
func BenchmarkTokensUsed(b *testing.B) {
	limiter := New(Limits{
		Requests: 1 << 20,
		Tokens:   1 << 30,
		Window:   time.Hour,
	})
	for i := 0; i < 1000; i++ {
		limiter.Check(10)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.TokensUsed()
	}
}
