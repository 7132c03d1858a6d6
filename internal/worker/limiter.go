package worker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles requests per domain. A crawl delay passed to
// WaitWithDelay spaces consecutive requests to the same domain.
type Limiter struct {
	domains      map[string]*domainState
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

type domainState struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	next    time.Time // earliest start allowed by the crawl delay
}

// NewLimiter creates a limiter; a non-positive rate disables throttling
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		domains:      make(map[string]*domainState),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until a request to rawURL's domain is allowed
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	return l.WaitWithDelay(ctx, rawURL, 0)
}

// WaitWithDelay blocks for the rate limit, then until crawlDelay has
// passed since the previous delayed request to the same domain
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, crawlDelay time.Duration) error {
	domain, err := extractDomain(rawURL)
	if err != nil {
		return err
	}

	st := l.state(domain)
	if err := st.limiter.Wait(ctx); err != nil {
		return err
	}
	if crawlDelay <= 0 {
		return nil
	}

	st.mu.Lock()
	now := time.Now()
	start := st.next
	if start.Before(now) {
		start = now
	}
	st.next = start.Add(crawlDelay)
	st.mu.Unlock()

	wait := start.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Allow reports whether a request is allowed now, consuming a token if so
func (l *Limiter) Allow(rawURL string) bool {
	domain, err := extractDomain(rawURL)
	if err != nil {
		return false
	}
	return l.state(domain).limiter.Allow()
}

func (l *Limiter) state(domain string) *domainState {
	l.mu.RLock()
	st, exists := l.domains[domain]
	l.mu.RUnlock()

	if exists {
		return st
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if st, exists := l.domains[domain]; exists {
		return st
	}

	st = &domainState{limiter: rate.NewLimiter(l.defaultRate, l.defaultBurst)}
	l.domains[domain] = st
	return st
}

// extractDomain returns the lower-cased host (with port) of rawURL
func extractDomain(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}
	return strings.ToLower(parsed.Host), nil
}
