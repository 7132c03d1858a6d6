// Package input loads text to segment from stdin, files and URLs.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// Kind classifies an input reference
type Kind int

const (
	KindFile Kind = iota
	KindStdin
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindStdin:
		return "stdin"
	case KindURL:
		return "url"
	default:
		return "file"
	}
}

// Classify returns the kind of ref: "-" is stdin, http(s) URLs are fetched,
// anything else is a file path
func Classify(ref string) Kind {
	switch {
	case ref == "-":
		return KindStdin
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return KindURL
	default:
		return KindFile
	}
}

// Document is loaded text ready to segment
type Document struct {
	Ref     string
	Kind    Kind
	Subject string
	Text    string
}

// RateLimiter throttles requests per domain
type RateLimiter interface {
	WaitWithDelay(ctx context.Context, rawURL string, additionalDelay time.Duration) error
}

// Loader resolves refs into documents
type Loader struct {
	fetcher *Fetcher
	robots  *RobotsChecker
	limiter RateLimiter
	logger  hclog.Logger
	stdin   io.Reader
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithRobots checks robots.txt before every URL fetch
func WithRobots(r *RobotsChecker) LoaderOption {
	return func(l *Loader) { l.robots = r }
}

// WithRateLimiter throttles URL fetches
func WithRateLimiter(r RateLimiter) LoaderOption {
	return func(l *Loader) { l.limiter = r }
}

// WithLogger sets the loader logger
func WithLogger(logger hclog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithStdin replaces os.Stdin for the "-" ref
func WithStdin(r io.Reader) LoaderOption {
	return func(l *Loader) { l.stdin = r }
}

// NewLoader creates a loader; fetcher may be nil when URLs are not expected
func NewLoader(fetcher *Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher: fetcher,
		logger:  hclog.NewNullLogger(),
		stdin:   os.Stdin,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads one ref. HTML files and pages are reduced to visible text.
func (l *Loader) Load(ctx context.Context, ref string) (*Document, error) {
	switch Classify(ref) {
	case KindStdin:
		return l.loadStdin()
	case KindURL:
		return l.loadURL(ctx, ref)
	default:
		return l.loadFile(ref)
	}
}

func (l *Loader) loadStdin() (*Document, error) {
	data, err := io.ReadAll(l.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return &Document{Ref: "-", Kind: KindStdin, Subject: "stdin", Text: normalize(string(data))}, nil
}

func (l *Loader) loadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		text, err = VisibleText(strings.NewReader(text))
		if err != nil {
			return nil, err
		}
	}

	base := filepath.Base(path)
	return &Document{
		Ref:     path,
		Kind:    KindFile,
		Subject: strings.TrimSuffix(base, filepath.Ext(base)),
		Text:    normalize(text),
	}, nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (*Document, error) {
	if l.fetcher == nil {
		return nil, fmt.Errorf("load %s: URL inputs are not enabled", rawURL)
	}

	var crawlDelay time.Duration
	if l.robots != nil {
		allowed, delay, err := l.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
		}
		crawlDelay = delay
	}

	if l.limiter != nil {
		if err := l.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	l.logger.Debug("fetching", "url", rawURL)
	result, err := l.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	text := result.Body
	if result.IsHTML() {
		text, err = VisibleText(strings.NewReader(result.Body))
		if err != nil {
			return nil, err
		}
	}
	l.logger.Debug("fetched", "url", result.FinalURL, "status", result.StatusCode, "bytes", len(result.Body))

	return &Document{
		Ref:     rawURL,
		Kind:    KindURL,
		Subject: result.Subject,
		Text:    normalize(text),
	}, nil
}

// normalize repairs invalid UTF-8 and unifies line endings
func normalize(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
