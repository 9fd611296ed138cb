package session

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/tokengate/internal/testutil"
	"github.com/vnykmshr/tokengate/pkg/admission/slidingwindow"
	"github.com/vnykmshr/tokengate/pkg/common/errors"
	"github.com/vnykmshr/tokengate/pkg/metrics"
)

var testLimits = slidingwindow.Limits{
	Requests: 60,
	Tokens:   10000,
	Window:   time.Minute,
}

func TestNew(t *testing.T) {
	store := New(testLimits)
	testutil.AssertEqual(t, store.Len(), 0)
}

func TestNewPanicsOnInvalidLimits(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()

	New(slidingwindow.Limits{Requests: 0, Tokens: 1, Window: time.Minute})
}

func TestNewSafeValidation(t *testing.T) {
	_, err := NewSafe(slidingwindow.Limits{Requests: -1, Tokens: 1, Window: time.Minute})
	testutil.AssertError(t, err)
	if !errors.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}

	_, err = NewWithConfigSafe(Config{Limits: testLimits, MaxIdle: -time.Second})
	testutil.AssertError(t, err)
}

func TestLazyCreation(t *testing.T) {
	store := New(testLimits)

	testutil.AssertEqual(t, store.Len(), 0)

	lim := store.Get("session-a")
	testutil.AssertEqual(t, store.Len(), 1)
	testutil.AssertEqual(t, lim.Len(), 0)

	// Same session yields the same ledger.
	lim.Check(100)
	testutil.AssertEqual(t, store.Get("session-a").TokensUsed(), 100)
	testutil.AssertEqual(t, store.Len(), 1)
}

func TestSessionIsolation(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	store := NewWithConfig(Config{Limits: testLimits, Clock: clock})

	// Drive two sessions near their own token limits independently.
	testutil.AssertEqual(t, store.Check("a", 9900), slidingwindow.Admit)
	testutil.AssertEqual(t, store.Check("b", 9950), slidingwindow.Admit)

	// Session a is out of budget for 150 tokens; session b still fits 50.
	testutil.AssertEqual(t, store.Check("a", 150), slidingwindow.Reject)
	testutil.AssertEqual(t, store.Check("b", 50), slidingwindow.Admit)

	// The rejection on a left b untouched and vice versa.
	testutil.AssertEqual(t, store.Get("a").TokensUsed(), 9900)
	testutil.AssertEqual(t, store.Get("b").TokensUsed(), 10000)
}

func TestEachSessionGetsFullBudget(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	store := NewWithConfig(Config{Limits: testLimits, Clock: clock})

	for s := 0; s < 3; s++ {
		id := fmt.Sprintf("session-%d", s)
		for i := 0; i < testLimits.Requests; i++ {
			if !store.Check(id, 10).Admitted() {
				t.Fatalf("%s call %d should be admitted", id, i+1)
			}
		}
		testutil.AssertEqual(t, store.Check(id, 10), slidingwindow.Reject)
	}
}

func TestConcurrentSessions(t *testing.T) {
	store := New(slidingwindow.Limits{
		Requests: 100,
		Tokens:   1 << 30,
		Window:   time.Hour,
	})

	const sessions = 8

	var wg sync.WaitGroup
	for s := 0; s < sessions; s++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			admitted := 0
			for i := 0; i < 150; i++ {
				if store.Check(id, 1).Admitted() {
					admitted++
				}
			}
			// Each session has its own 100-call budget.
			if admitted != 100 {
				t.Errorf("%s: admitted %d calls, want 100", id, admitted)
			}
		}(fmt.Sprintf("session-%d", s))
	}
	wg.Wait()

	testutil.AssertEqual(t, store.Len(), sessions)
}

func TestRemove(t *testing.T) {
	store := New(testLimits)

	store.Check("a", 9999)
	store.Check("b", 1)
	testutil.AssertEqual(t, store.Len(), 2)

	store.Remove("a")
	testutil.AssertEqual(t, store.Len(), 1)

	// A removed session starts over with a fresh ledger.
	testutil.AssertEqual(t, store.Check("a", 10000), slidingwindow.Admit)
}

func TestSessions(t *testing.T) {
	store := New(testLimits)
	store.Get("a")
	store.Get("b")

	ids := store.Sessions()
	testutil.AssertEqual(t, len(ids), 2)

	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("Sessions() = %v, want a and b", ids)
	}
}

func TestPurgeIdle(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	store := NewWithConfig(Config{Limits: testLimits, Clock: clock})

	store.Get("old")
	clock.Advance(5 * time.Minute)
	store.Get("fresh")

	purged := store.PurgeIdle(time.Minute)
	testutil.AssertEqual(t, purged, 1)
	testutil.AssertEqual(t, store.Len(), 1)
	testutil.AssertEqual(t, store.Sessions()[0], "fresh")
}

func TestPurgeIdleTouchedByCheck(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	store := NewWithConfig(Config{Limits: testLimits, Clock: clock})

	store.Get("a")
	clock.Advance(5 * time.Minute)

	// A check refreshes the session's last-seen instant.
	store.Check("a", 1)
	testutil.AssertEqual(t, store.PurgeIdle(time.Minute), 0)
	testutil.AssertEqual(t, store.Len(), 1)
}

func TestSweeperLifecycle(t *testing.T) {
	store := New(testLimits)

	testutil.AssertNoError(t, store.StartSweeper(time.Minute))

	err := store.StartSweeper(time.Minute)
	testutil.AssertError(t, err)

	var opErr *errors.OperationError
	if !stderrors.As(err, &opErr) {
		t.Fatalf("expected OperationError, got %T", err)
	}
	testutil.AssertEqual(t, opErr.Operation, "StartSweeper")

	store.StopSweeper()
	// Stopping twice is harmless, and the sweeper can be restarted.
	store.StopSweeper()
	testutil.AssertNoError(t, store.StartSweeper(time.Minute))
	store.StopSweeper()
}

func TestStartSweeperValidatesInterval(t *testing.T) {
	store := New(testLimits)

	err := store.StartSweeper(0)
	testutil.AssertError(t, err)
	if !errors.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestMetricsStorePassthrough(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	store := NewWithConfigAndMetrics(
		Config{Limits: testLimits, Clock: clock},
		"test",
		metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()},
	)

	testutil.AssertEqual(t, store.Check("a", 9900), slidingwindow.Admit)
	testutil.AssertEqual(t, store.Check("a", 101), slidingwindow.Reject)
	testutil.AssertEqual(t, store.Check("b", 101), slidingwindow.Admit)
	testutil.AssertEqual(t, store.Len(), 2)

	clock.Advance(time.Minute)
	testutil.AssertEqual(t, store.PurgeIdle(time.Second), 2)
	testutil.AssertEqual(t, store.Len(), 0)

	ms, ok := store.(*MetricsStore)
	if !ok {
		t.Fatalf("expected *MetricsStore, got %T", store)
	}
	testutil.AssertEqual(t, ms.MetricsEnabled(), true)
	ms.DisableMetrics()
	testutil.AssertEqual(t, ms.MetricsEnabled(), false)
}
