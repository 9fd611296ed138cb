package session

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/tokengate/pkg/admission/slidingwindow"
	"github.com/vnykmshr/tokengate/pkg/common/errors"
	"github.com/vnykmshr/tokengate/pkg/common/validation"
)

// DefaultMaxIdle is how long a session may go unseen before the sweeper
// drops it.
const DefaultMaxIdle = 10 * time.Minute

var errSweeperRunning = stderrors.New("already running")

// Store maps session identifiers to their admission limiters. Each session
// owns an isolated ledger; limits are enforced per session, never globally.
type Store interface {
	// Get returns the limiter bound to the given session, creating an
	// empty one on first sight.
	Get(sessionID string) slidingwindow.Limiter

	// Check runs an admission check against the session's limiter.
	Check(sessionID string, tokens int) slidingwindow.Decision

	// Len returns the number of sessions currently tracked.
	Len() int

	// Sessions returns the identifiers of all tracked sessions.
	Sessions() []string

	// Remove drops the given session and its ledger.
	Remove(sessionID string)

	// PurgeIdle drops sessions not seen for longer than maxIdle and
	// returns how many were dropped.
	PurgeIdle(maxIdle time.Duration) int

	// StartSweeper begins purging idle sessions on the given interval.
	// It returns an error if the sweeper is already running.
	StartSweeper(every time.Duration) error

	// StopSweeper stops the sweeper if it is running.
	StopSweeper()
}

// Config holds configuration options for creating a new Store.
type Config struct {
	// Limits are the admission limits applied to every session.
	Limits slidingwindow.Limits

	// Clock provides the current time. If nil, SystemClock is used.
	// It is shared with each session's limiter.
	Clock slidingwindow.Clock

	// MaxIdle is how long a session may go unseen before the sweeper
	// drops it. If zero, DefaultMaxIdle is used.
	MaxIdle time.Duration
}

// entry pairs a session's limiter with its last-seen instant.
// lastSeen is guarded by the store mutex, not the limiter's.
type entry struct {
	limiter  slidingwindow.Limiter
	lastSeen time.Time
}

// store implements the Store interface with a mutex-guarded registry.
// The registry lock is held only for map access; ledger evaluation runs
// under each limiter's own lock.
type store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	limits  slidingwindow.Limits
	clock   slidingwindow.Clock
	maxIdle time.Duration

	sweeper *cron.Cron
}

// New creates a new session store with the given limits.
// It panics if the limits are invalid; use NewSafe for error returns.
func New(limits slidingwindow.Limits) Store {
	return NewWithConfig(Config{Limits: limits})
}

// NewWithConfig creates a new session store with the specified
// configuration. It panics if the configuration is invalid.
func NewWithConfig(config Config) Store {
	s, err := NewWithConfigSafe(config)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSafe creates a new session store with validation that returns an
// error instead of panicking.
func NewSafe(limits slidingwindow.Limits) (Store, error) {
	return NewWithConfigSafe(Config{Limits: limits})
}

// NewWithConfigSafe creates a new session store with validation that
// returns an error instead of panicking.
func NewWithConfigSafe(config Config) (Store, error) {
	// Validate limits once here; per-session limiters reuse them.
	if _, err := slidingwindow.NewWithConfigSafe(slidingwindow.Config{
		Limits: config.Limits,
		Clock:  config.Clock,
	}); err != nil {
		return nil, err
	}
	if config.MaxIdle < 0 {
		return nil, errors.NewValidationError("session", "maxIdle", config.MaxIdle, "cannot be negative").
			WithHint("use 0 for the default idle timeout")
	}
	if config.Clock == nil {
		config.Clock = slidingwindow.SystemClock{}
	}
	if config.MaxIdle == 0 {
		config.MaxIdle = DefaultMaxIdle
	}

	return &store{
		entries: make(map[string]*entry),
		limits:  config.Limits,
		clock:   config.Clock,
		maxIdle: config.MaxIdle,
	}, nil
}

// Get returns the limiter bound to the given session, creating an empty
// one on first sight.
func (s *store) Get(sessionID string) slidingwindow.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		e = &entry{
			limiter: slidingwindow.NewWithConfig(slidingwindow.Config{
				Limits: s.limits,
				Clock:  s.clock,
			}),
		}
		s.entries[sessionID] = e
	}
	e.lastSeen = s.clock.Now()
	return e.limiter
}

// Check runs an admission check against the session's limiter.
func (s *store) Check(sessionID string, tokens int) slidingwindow.Decision {
	return s.Get(sessionID).Check(tokens)
}

// Len returns the number of sessions currently tracked.
func (s *store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sessions returns the identifiers of all tracked sessions.
func (s *store) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	return ids
}

// Remove drops the given session and its ledger.
func (s *store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

// PurgeIdle drops sessions not seen for longer than maxIdle and returns
// how many were dropped.
func (s *store) PurgeIdle(maxIdle time.Duration) int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > maxIdle {
			delete(s.entries, id)
			purged++
		}
	}
	return purged
}

// StartSweeper begins purging idle sessions on the given interval using
// the store's configured MaxIdle.
func (s *store) StartSweeper(every time.Duration) error {
	if err := validation.ValidatePositiveDuration("session", "every", every); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sweeper != nil {
		return errors.NewOperationError("session", "StartSweeper", errSweeperRunning)
	}

	c := cron.New()
	if _, err := c.AddFunc("@every "+every.String(), func() {
		s.PurgeIdle(s.maxIdle)
	}); err != nil {
		return errors.NewOperationError("session", "StartSweeper", err)
	}
	c.Start()
	s.sweeper = c
	return nil
}

// StopSweeper stops the sweeper if it is running.
func (s *store) StopSweeper() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sweeper != nil {
		s.sweeper.Stop()
		s.sweeper = nil
	}
}
