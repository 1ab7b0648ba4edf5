package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"hourbank/internal/transport/http/api"
)

// Limiter is a fixed-window counter per key.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*bucket
	sweepAt time.Time
}

type bucket struct {
	count int
	reset time.Time
}

type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Duration
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{limit: limit, window: window, buckets: map[string]*bucket{}}
}

// Allow counts one hit for key. Expired buckets are dropped at most once per
// window.
func (l *Limiter) Allow(key string, now time.Time) Decision {
	if l.limit <= 0 {
		return Decision{Allowed: true}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.sweepAt) {
		for k, b := range l.buckets {
			if now.After(b.reset) {
				delete(l.buckets, k)
			}
		}
		l.sweepAt = now.Add(l.window)
	}
	b, ok := l.buckets[key]
	if !ok || now.After(b.reset) {
		b = &bucket{reset: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.count++
	return Decision{
		Allowed:   b.count <= l.limit,
		Remaining: max(l.limit-b.count, 0),
		Reset:     b.reset.Sub(now),
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit applies limit per authenticated user, or per client address for
// anonymous callers.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	l := NewLimiter(limit, window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enforce(w, r, l, actorKey(r)) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit adds tighter limits on login (per submitted
// username) and on balance and configuration writes (per actor).
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	logins := NewLimiter(max(baseLimit/4, 1), window)
	writes := NewLimiter(max(baseLimit/2, 1), window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed := true
			switch {
			case isLogin(r):
				allowed = enforce(w, r, logins, loginKey(r))
			case isBalanceWrite(r):
				allowed = enforce(w, r, writes, actorKey(r))
			}
			if allowed {
				next.ServeHTTP(w, r)
			}
		})
	}
}

func enforce(w http.ResponseWriter, r *http.Request, l *Limiter, key string) bool {
	d := l.Allow(key, time.Now())
	resetSec := int((d.Reset + time.Second - 1) / time.Second)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if d.Allowed {
		return true
	}
	w.Header().Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	zap.L().Warn("rate limit exceeded",
		zap.String("key", key),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func actorKey(r *http.Request) string {
	if p := GetPrincipal(r.Context()); p != nil && p.UserID != "" {
		return "user:" + p.UserID
	}
	return "ip:" + clientIP(r)
}

// clientIP relies on chi's RealIP having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// loginKey reads the username from the JSON body and restores the body for
// the handler.
func loginKey(r *http.Request) string {
	if r.Body == nil {
		return "ip:" + clientIP(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	var payload struct {
		Username string `json:"username"`
	}
	if err != nil || json.Unmarshal(raw, &payload) != nil || strings.TrimSpace(payload.Username) == "" {
		return "ip:" + clientIP(r)
	}
	return "username:" + strings.ToLower(strings.TrimSpace(payload.Username))
}

func isLogin(r *http.Request) bool {
	return r.Method == http.MethodPost && strings.TrimPrefix(r.URL.Path, "/api/v1") == "/auth/login"
}

func isBalanceWrite(r *http.Request) bool {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	switch r.Method {
	case http.MethodPost:
		return strings.HasPrefix(path, "/balances/") &&
			(strings.HasSuffix(path, "/recompute") || strings.HasSuffix(path, "/close"))
	case http.MethodPut:
		return strings.HasPrefix(path, "/configuration/")
	}
	return false
}
