package slidingwindow

import (
	"sync"
	"time"

	"github.com/vnykmshr/tokengate/pkg/common/errors"
	"github.com/vnykmshr/tokengate/pkg/common/validation"
)

// Decision is the outcome of an admission check.
type Decision int

const (
	// Reject means the call would exceed a limit and must not proceed.
	Reject Decision = iota

	// Admit means the call was accepted and recorded in the ledger.
	Admit
)

// Admitted reports whether the decision allows the call to proceed.
func (d Decision) Admitted() bool {
	return d == Admit
}

// String returns a human-readable form of the decision.
func (d Decision) String() string {
	if d == Admit {
		return "admit"
	}
	return "reject"
}

// Limits holds the admission limits enforced over the trailing window.
// Limits are fixed for the lifetime of a limiter.
type Limits struct {
	// Requests is the maximum number of admitted calls in any window.
	Requests int

	// Tokens is the maximum token volume across admitted calls in any window.
	Tokens int

	// Window is the trailing window length.
	Window time.Duration
}

// Record is one admitted call in a session's ledger.
type Record struct {
	// At is the instant the call was admitted.
	At time.Time

	// Tokens is the token cost the caller declared for the call.
	Tokens int
}

// Limiter gates calls under simultaneous request-count and token-volume
// limits measured over a trailing time window. A limiter owns one ledger
// of admitted calls; use one limiter per logical session.
type Limiter interface {
	// Check decides whether a call with the given token cost may proceed.
	// On Admit the call is recorded in the ledger; on Reject the ledger is
	// unchanged except for eviction of records that had already expired.
	// Check panics if tokens is negative.
	Check(tokens int) Decision

	// Allow is shorthand for Check(tokens).Admitted().
	Allow(tokens int) bool

	// Len returns the number of admitted calls currently in the window.
	Len() int

	// TokensUsed returns the token volume currently in the window.
	TokensUsed() int

	// Limits returns the limits the limiter enforces.
	Limits() Limits

	// Snapshot returns a copy of the ledger as stored, including any
	// records that have aged past the window but have not yet been
	// evicted by a check.
	Snapshot() []Record

	// Reset discards all recorded calls.
	Reset()
}

// Clock provides the current time. It can be mocked for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Config holds configuration options for creating a new Limiter.
type Config struct {
	// Limits are the admission limits to enforce.
	Limits Limits

	// Clock provides the current time. If nil, SystemClock is used.
	Clock Clock
}

// ledger implements the Limiter interface. It holds the admitted-call
// records for one session, oldest first.
type ledger struct {
	mu      sync.Mutex
	limits  Limits
	records []Record
	clock   Clock
}

// New creates a new sliding window limiter with the given limits.
// It panics if the limits are invalid; use NewSafe for error returns.
func New(limits Limits) Limiter {
	return NewWithConfig(Config{
		Limits: limits,
		Clock:  SystemClock{},
	})
}

// NewWithConfig creates a new sliding window limiter with the specified
// configuration. It panics if the configuration is invalid.
func NewWithConfig(config Config) Limiter {
	lim, err := NewWithConfigSafe(config)
	if err != nil {
		panic(err)
	}
	return lim
}

// NewSafe creates a new sliding window limiter with validation that returns
// an error instead of panicking. This is the recommended way to create
// limiters for production use.
func NewSafe(limits Limits) (Limiter, error) {
	return NewWithConfigSafe(Config{
		Limits: limits,
		Clock:  SystemClock{},
	})
}

// NewWithConfigSafe creates a new sliding window limiter with validation
// that returns an error instead of panicking.
func NewWithConfigSafe(config Config) (Limiter, error) {
	if config.Limits.Requests <= 0 {
		return nil, errors.NewValidationError("slidingwindow", "requests", config.Limits.Requests, "must be positive").
			WithHint("set the maximum number of admitted calls per window")
	}
	if config.Limits.Tokens <= 0 {
		return nil, errors.NewValidationError("slidingwindow", "tokens", config.Limits.Tokens, "must be positive").
			WithHint("set the maximum token volume per window")
	}
	if err := validation.ValidatePositiveDuration("slidingwindow", "window", config.Limits.Window); err != nil {
		return nil, err
	}
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}

	return &ledger{
		limits: config.Limits,
		clock:  config.Clock,
	}, nil
}
