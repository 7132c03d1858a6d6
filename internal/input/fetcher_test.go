package input

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func noSleep(t *testing.T) {
	t.Helper()
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = origSleep })
}

func newTestFetcher() *Fetcher {
	return NewFetcher(5*time.Second, "test-agent", 1<<20, false, "", "", "")
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	result, err := newTestFetcher().FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Body != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if !result.IsHTML() {
		t.Error("Expected HTML content type to be detected")
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "こんにちは。")
	}))
	defer server.Close()

	noSleep(t)

	result, err := newTestFetcher().FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.Body != "こんにちは。" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if result.IsHTML() {
		t.Error("Expected plain text not to be treated as HTML")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	noSleep(t)

	_, err := newTestFetcher().FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Expected ErrUnexpectedStatus, got %v", err)
	}
	if got := err.Error(); got != "unexpected status: 404 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	// 404 is not retryable, so should fail immediately
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var slept []time.Duration
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { fetchSleepFunc = origSleep }()

	_, err := newTestFetcher().FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Errorf("Expected backoff [1s 2s], got %v", slept)
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	noSleep(t)

	result, err := newTestFetcher().FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if result.Body != "<html>OK</html>" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "test-agent", 4, false, "", "", "")
	result, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Body != "0123" {
		t.Errorf("Expected truncated body, got %q", result.Body)
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	urlErr := func(msg string) error {
		return fmt.Errorf("fetch: %w", &url.Error{Op: "Get", URL: "http://example.com", Err: errors.New(msg)})
	}

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"503", &StatusError{Code: 503, Status: "503 Service Unavailable"}, true},
		{"500", &StatusError{Code: 500, Status: "500 Internal Server Error"}, true},
		{"502", &StatusError{Code: 502, Status: "502 Bad Gateway"}, true},
		{"429", &StatusError{Code: 429, Status: "429 Too Many Requests"}, true},
		{"404", &StatusError{Code: 404, Status: "404 Not Found"}, false},
		{"403", &StatusError{Code: 403, Status: "403 Forbidden"}, false},
		{"connection refused", urlErr("connection refused"), true},
		{"connection reset", urlErr("connection reset by peer"), true},
		{"cancelled", fmt.Errorf("fetch: %w", &url.Error{Op: "Get", URL: "http://example.com", Err: context.Canceled}), false},
		{"create request", fmt.Errorf("create request: %w", errors.New("invalid URL")), false},
		{"read body", fmt.Errorf("read body: %w", errors.New("unexpected EOF")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isRetryableFetchError(tt.err)
			if got != tt.retryable {
				t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}

func TestSubjectFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com", "example.com"},
		{"https://example.com/wiki/Sentence_boundary", "Sentence boundary"},
		{"https://example.com/posts/hello-world.html", "hello world"},
		{"https://ja.example.com/wiki/%E6%96%87", "文"},
	}

	for _, tt := range tests {
		if got := subjectFromURL(tt.url); got != tt.want {
			t.Errorf("subjectFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "http://secure.local:3128", "internal.example")

	req := httptest.NewRequest(http.MethodGet, "http://example.com/a", nil)
	got, err := proxy(req)
	if err != nil || got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("Expected http proxy, got %v (%v)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "https://example.com/a", nil)
	got, err = proxy(req)
	if err != nil || got == nil || got.Host != "secure.local:3128" {
		t.Errorf("Expected https proxy, got %v (%v)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "http://internal.example/a", nil)
	got, err = proxy(req)
	if err != nil || got != nil {
		t.Errorf("Expected no proxy for no_proxy host, got %v (%v)", got, err)
	}
}
