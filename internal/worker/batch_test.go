package worker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ppiankov/fastbunkai/internal/cache"
	"github.com/ppiankov/fastbunkai/internal/input"
	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/pkg/bunkai"
)

// MockLoader serves documents from a map
type MockLoader struct {
	Docs map[string]string
}

func (m *MockLoader) Load(ctx context.Context, ref string) (*input.Document, error) {
	time.Sleep(time.Millisecond) // Simulate work
	text, ok := m.Docs[ref]
	if !ok {
		return nil, errors.New("no such ref")
	}
	return &input.Document{Ref: ref, Kind: input.Classify(ref), Subject: ref, Text: text}, nil
}

// countingSegmenter counts calls to the real engine
type countingSegmenter struct {
	engine *bunkai.Engine
	calls  atomic.Int32
}

func (c *countingSegmenter) Segment(text string) model.Segmentation {
	c.calls.Add(1)
	return c.engine.Segment(text)
}

func newDocs() *MockLoader {
	return &MockLoader{Docs: map[string]string{
		"a.txt":               "こんにちは。ありがとう。",
		"b.txt":               "スタッフ? と話し込み。",
		"https://example.com": "改行を\n含む文章です。",
	}}
}

func TestBatchProcessor_ProcessRefs(t *testing.T) {
	processor := NewBatchProcessor(newDocs(), bunkai.New(), 2)

	refs := []string{"a.txt", "b.txt", "https://example.com"}
	results := processor.ProcessRefs(context.Background(), refs)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Ref != refs[i] {
			t.Errorf("result %d is for %s, want %s", i, res.Ref, refs[i])
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Ref, res.Error)
		}
		if strings.Join(res.Sentences, "") != res.Document.Text {
			t.Errorf("sentences of %s do not reproduce the text: %q", res.Ref, res.Sentences)
		}
	}

	if got := results[0].Sentences; len(got) != 2 || got[0] != "こんにちは。" {
		t.Errorf("unexpected sentences: %q", got)
	}
	if got := results[2].Segmentation.FinalBoundaries; len(got) != 2 || got[0] != 4 || got[1] != 11 {
		t.Errorf("unexpected boundaries: %v", got)
	}
}

func TestBatchProcessor_ProcessRefs_Error(t *testing.T) {
	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &logs, Level: hclog.Info})
	processor := NewBatchProcessor(newDocs(), bunkai.New(), 2, WithBatchLogger(logger))

	results := processor.ProcessRefs(context.Background(), []string{"missing.txt", "a.txt"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Document != nil {
		t.Error("expected nil document on error")
	}
	if results[1].Error != nil {
		t.Errorf("expected second ref to succeed, got %v", results[1].Error)
	}
	if !strings.Contains(logs.String(), "load failed") || !strings.Contains(logs.String(), "failed=1") {
		t.Errorf("expected failure to be logged, got %q", logs.String())
	}
}

func TestBatchProcessor_ProcessRefs_Empty(t *testing.T) {
	processor := NewBatchProcessor(newDocs(), bunkai.New(), 2)

	results := processor.ProcessRefs(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Cache(t *testing.T) {
	seg := &countingSegmenter{engine: bunkai.New()}
	store := cache.NewSegmentations(cache.NewMemoryCache(time.Minute, time.Minute), "", 0)
	processor := NewBatchProcessor(newDocs(), seg, 2, WithCache(store))

	first := processor.ProcessRefs(context.Background(), []string{"a.txt"})
	second := processor.ProcessRefs(context.Background(), []string{"a.txt"})

	if seg.calls.Load() != 1 {
		t.Errorf("expected 1 segment call, got %d", seg.calls.Load())
	}
	if first[0].Cached || !second[0].Cached {
		t.Errorf("expected miss then hit, got %v then %v", first[0].Cached, second[0].Cached)
	}
	if len(second[0].Sentences) != 2 {
		t.Errorf("unexpected cached sentences: %q", second[0].Sentences)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestBatchProcessor_ProgressThrottled(t *testing.T) {
	var logs syncBuffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &logs, Level: hclog.Info})
	processor := NewBatchProcessor(newDocs(), bunkai.New(), 4,
		WithBatchLogger(logger), WithProgressInterval(time.Hour))

	refs := make([]string, 20)
	for i := range refs {
		refs[i] = "a.txt"
	}
	processor.ProcessRefs(context.Background(), refs)

	if got := strings.Count(logs.String(), "progress"); got != 1 {
		t.Errorf("expected 1 progress line, got %d:\n%s", got, logs.String())
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(newDocs(), bunkai.New(), 2)
	results := processor.ProcessRefs(ctx, []string{"a.txt", "b.txt"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("expected context.Canceled for %s, got %v", res.Ref, res.Error)
		}
	}
}

func TestSegmentResult_GetError(t *testing.T) {
	r1 := &SegmentResult{Ref: "a.txt", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("segment failed")
	r2 := &SegmentResult{Ref: "a.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := "a.txt\nb.txt\n# comment\n\nhttps://example.com\n"

	tmpfile, err := os.CreateTemp("", "batch_refs")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(newDocs(), bunkai.New(), 2)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(newDocs(), bunkai.New(), 2)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
