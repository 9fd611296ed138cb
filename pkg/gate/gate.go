package gate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vnykmshr/tokengate/pkg/admission/session"
	tgcontext "github.com/vnykmshr/tokengate/pkg/common/context"
	"github.com/vnykmshr/tokengate/pkg/common/errors"
	"github.com/vnykmshr/tokengate/pkg/metrics"
)

const (
	// SessionHeader carries the caller's session identifier.
	SessionHeader = "X-Session-ID"

	// TokensHeader carries the declared token cost of the request.
	TokensHeader = "X-Tokens-Requested"
)

// SessionKeyFunc extracts a session identifier from the request.
type SessionKeyFunc func(*http.Request) string

// TokenCostFunc extracts the declared token cost from the request.
type TokenCostFunc func(*http.Request) (int, error)

// Gate is HTTP middleware that runs admission control in front of a
// downstream handler. Rejected requests are answered with 429 and never
// reach the downstream.
type Gate struct {
	store      session.Store
	sessionKey SessionKeyFunc
	tokenCost  TokenCostFunc
	name       string
	registry   *metrics.Registry
	timeout    time.Duration
}

// Config holds configuration for creating a Gate.
type Config struct {
	// Store is the session store to check against. Required.
	Store session.Store

	// SessionKey extracts the session identifier from a request.
	// If nil, DefaultSessionKey is used.
	SessionKey SessionKeyFunc

	// TokenCost extracts the declared token cost from a request.
	// If nil, DefaultTokenCost is used.
	TokenCost TokenCostFunc

	// Name labels this gate in metrics. Defaults to "gate".
	Name string

	// Registry receives gate metrics. If nil, metrics are disabled.
	Registry *metrics.Registry

	// RequestTimeout bounds downstream handling of admitted requests.
	// Zero disables the timeout.
	RequestTimeout time.Duration
}

// ErrorResponse is the JSON body sent for rejected or malformed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// New creates a Gate from the given configuration.
func New(config Config) (*Gate, error) {
	if config.Store == nil {
		return nil, errors.NewValidationError("gate", "store", nil, "cannot be nil").
			WithHint("provide a session.Store")
	}
	if config.SessionKey == nil {
		config.SessionKey = DefaultSessionKey
	}
	if config.TokenCost == nil {
		config.TokenCost = DefaultTokenCost
	}
	if config.Name == "" {
		config.Name = "gate"
	}
	if config.RequestTimeout < 0 {
		return nil, errors.NewValidationError("gate", "requestTimeout", config.RequestTimeout, "cannot be negative").
			WithHint("use 0 to disable the request timeout")
	}

	return &Gate{
		store:      config.Store,
		sessionKey: config.SessionKey,
		tokenCost:  config.TokenCost,
		name:       config.Name,
		registry:   config.Registry,
		timeout:    config.RequestTimeout,
	}, nil
}

// DefaultSessionKey reads the session identifier from the X-Session-ID
// header, falling back to the client IP.
func DefaultSessionKey(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}

	// Try X-Forwarded-For first (for proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// DefaultTokenCost reads the declared token cost from the
// X-Tokens-Requested header. A missing header costs zero tokens.
func DefaultTokenCost(r *http.Request) (int, error) {
	raw := r.Header.Get(TokensHeader)
	if raw == "" {
		return 0, nil
	}

	tokens, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s header %q: %w", TokensHeader, raw, err)
	}
	if tokens < 0 {
		return 0, fmt.Errorf("invalid %s header %q: must not be negative", TokensHeader, raw)
	}
	return tokens, nil
}

// Middleware wraps an http.Handler with admission control.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.registry != nil {
			g.registry.GateRequests.WithLabelValues(g.name).Inc()
		}

		tokens, err := g.tokenCost(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_token_cost",
				Message: err.Error(),
			})
			return
		}

		limiter := g.store.Get(g.sessionKey(r))
		decision := limiter.Check(tokens)
		limits := limiter.Limits()

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limits.Requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limits.Requests-limiter.Len()))
		w.Header().Set("X-RateLimit-Tokens-Remaining", strconv.Itoa(limits.Tokens-limiter.TokensUsed()))

		if !decision.Admitted() {
			if g.registry != nil {
				g.registry.GateRejected.WithLabelValues(g.name).Inc()
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(limits.Window/time.Second)))
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests. Please try again later.",
			})
			return
		}

		if g.timeout > 0 {
			ctx, cancel := tgcontext.WithTimeoutOrCancel(r.Context(), g.timeout)
			defer cancel()
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// CheckError runs an admission check for non-HTTP callers, returning
// ErrRateLimited on rejection.
func (g *Gate) CheckError(sessionID string, tokens int) error {
	if g.store.Check(sessionID, tokens).Admitted() {
		return nil
	}
	return errors.ErrRateLimited
}

// HealthHandler answers health checks with a static OK body.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
