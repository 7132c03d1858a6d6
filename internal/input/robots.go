package input

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker decides whether a document URL may be loaded. One
// robots.txt is fetched per origin and kept for the checker's lifetime.
type RobotsChecker struct {
	mu      sync.RWMutex
	origins map[string]*robotstxt.RobotsData
	client  *http.Client
	ua      string // sent with the robots.txt request
	agent   string // product token matched against User-agent lines
}

// NewRobotsChecker creates a checker that identifies itself as userAgent
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		origins: make(map[string]*robotstxt.RobotsData),
		client:  &http.Client{Timeout: timeout},
		ua:      userAgent,
		agent:   NormalizeUserAgent(userAgent),
	}
}

// CanFetch reports whether rawURL is allowed for this agent and the crawl
// delay its group asks for. An unreachable robots.txt allows the document.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	robots, err := r.lookup(ctx, u.Scheme+"://"+u.Host)
	if err != nil {
		return true, 0, nil
	}

	group := robots.FindGroup(r.agent)
	if group == nil {
		return true, 0, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path), group.CrawlDelay, nil
}

// lookup returns the parsed robots.txt of origin, fetching it once
func (r *RobotsChecker) lookup(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	robots, ok := r.origins[origin]
	r.mu.RUnlock()
	if ok {
		return robots, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.ua)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 4xx allows everything, 5xx disallows everything
	robots, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.mu.Lock()
	r.origins[origin] = robots
	r.mu.Unlock()
	return robots, nil
}

// Clear forgets every fetched robots.txt
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	r.origins = make(map[string]*robotstxt.RobotsData)
	r.mu.Unlock()
}

// NormalizeUserAgent returns the product token of ua, "FastBunkai/0.1 (+url)"
// becoming "FastBunkai"
func NormalizeUserAgent(ua string) string {
	product, _, _ := strings.Cut(strings.TrimSpace(ua), " ")
	if product == "" {
		return ua
	}
	name, _, _ := strings.Cut(product, "/")
	return name
}
