package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
	httputil "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/http"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
)

// PhoneExtractor returns the phone a request is attributed to, or "" to let
// the request through unthrottled.
type PhoneExtractor func(r *http.Request) string

// PhoneRateLimiter is a sliding-window limiter keyed by phone number.
type PhoneRateLimiter struct {
	mu             sync.Mutex
	requests       map[string][]time.Time
	limit          int
	window         time.Duration
	phoneExtractor PhoneExtractor
	log            *logger.Logger
	now            func() time.Time
	stopCh         chan struct{}
	stopOnce       sync.Once
}

func NewPhoneRateLimiter(limit int, window time.Duration, extractor PhoneExtractor, log *logger.Logger) *PhoneRateLimiter {
	limiter := &PhoneRateLimiter{
		requests:       make(map[string][]time.Time),
		limit:          limit,
		window:         window,
		phoneExtractor: extractor,
		log:            log,
		now:            time.Now,
		stopCh:         make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *PhoneRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evict()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *PhoneRateLimiter) evict() {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for phone, timestamps := range rl.requests {
		if len(timestamps) == 0 || now.Sub(timestamps[len(timestamps)-1]) >= rl.window {
			delete(rl.requests, phone)
		}
	}
}

// Close stops the background eviction. Safe to call more than once.
func (rl *PhoneRateLimiter) Close() error {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
	return nil
}

// Allow records an attempt for phone and reports whether it fits the window.
// Rejected attempts are not recorded.
func (rl *PhoneRateLimiter) Allow(phone string) bool {
	if phone == "" {
		return true
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.requests[phone][:0]
	for _, ts := range rl.requests[phone] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[phone] = valid
		return false
	}

	rl.requests[phone] = append(valid, now)
	return true
}

func PhoneRateLimit(limiter *PhoneRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			phone := extractPhoneNumber(r, limiter.phoneExtractor)

			if phone == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(phone) {
				rejectRateLimited(w, limiter, r, phone)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractPhoneNumber(r *http.Request, extractor PhoneExtractor) string {
	if extractor == nil {
		return DefaultPhoneExtractor(r)
	}
	return extractor(r)
}

func rejectRateLimited(w http.ResponseWriter, limiter *PhoneRateLimiter, r *http.Request, phone string) {
	limiter.log.Warn("Rate limit exceeded",
		"request_id", RequestID(r.Context()),
		"phone", phone,
		"path", r.URL.Path,
	)

	w.Header().Set("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
	err := apperrors.RateLimited("Rate limit exceeded").WithDetails(map[string]any{
		"limit":  limiter.limit,
		"window": limiter.window.String(),
	})
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		limiter.log.Error("failed to write rate limit response", "error", writeErr)
	}
}

func DefaultPhoneExtractor(r *http.Request) string {
	return r.Header.Get("X-Phone-Number")
}

// JSONPhoneExtractor reads field from a JSON request body and passes it
// through normalize. The body is restored for the next handler.
func JSONPhoneExtractor(field string, normalize func(string) string) PhoneExtractor {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil {
			return ""
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return ""
		}
		var phone string
		if err := json.Unmarshal(fields[field], &phone); err != nil || phone == "" {
			return ""
		}
		if normalize != nil {
			if normalized := normalize(phone); normalized != "" {
				return normalized
			}
		}
		return phone
	}
}
