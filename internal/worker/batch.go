package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/ppiankov/fastbunkai/internal/cache"
	"github.com/ppiankov/fastbunkai/internal/input"
	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/pkg/bunkai"
)

// Loader resolves a ref into a document
type Loader interface {
	Load(ctx context.Context, ref string) (*input.Document, error)
}

// Segmenter segments one text
type Segmenter interface {
	Segment(text string) model.Segmentation
}

// SegmentJob loads and segments one ref
type SegmentJob struct {
	Ref       string
	processor *BatchProcessor
}

// Execute executes the segment job
func (j *SegmentJob) Execute(ctx context.Context) Result {
	res := j.processor.process(ctx, j.Ref)
	j.processor.reportProgress()
	return res
}

// SegmentResult is the outcome for one ref
type SegmentResult struct {
	Ref          string
	Document     *input.Document
	Segmentation model.Segmentation
	Sentences    []string
	Cached       bool
	Duration     time.Duration
	Error        error
}

// GetError returns the error from the segment result
func (r *SegmentResult) GetError() error {
	return r.Error
}

// BatchProcessor segments many refs concurrently
type BatchProcessor struct {
	loader      Loader
	segmenter   Segmenter
	store       *cache.Segmentations
	concurrency int
	logger      hclog.Logger

	progress rate.Sometimes
	total    atomic.Int64
	done     atomic.Int64
}

// BatchOption configures a BatchProcessor
type BatchOption func(*BatchProcessor)

// WithCache looks results up in store before segmenting and stores new ones
func WithCache(store *cache.Segmentations) BatchOption {
	return func(b *BatchProcessor) { b.store = store }
}

// WithBatchLogger sets the logger used for progress and failures
func WithBatchLogger(logger hclog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithProgressInterval sets how often progress is logged
func WithProgressInterval(d time.Duration) BatchOption {
	return func(b *BatchProcessor) {
		b.progress = rate.Sometimes{First: 1, Interval: d}
	}
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(loader Loader, segmenter Segmenter, concurrency int, opts ...BatchOption) *BatchProcessor {
	b := &BatchProcessor{
		loader:      loader,
		segmenter:   segmenter,
		concurrency: concurrency,
		logger:      hclog.NewNullLogger(),
		progress:    rate.Sometimes{First: 1, Interval: 2 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ProcessRefs processes refs concurrently and returns one result per ref,
// in the order given. A failing ref never stops the batch.
func (b *BatchProcessor) ProcessRefs(ctx context.Context, refs []string) []*SegmentResult {
	if len(refs) == 0 {
		return []*SegmentResult{}
	}

	b.total.Store(int64(len(refs)))
	b.done.Store(0)

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for _, ref := range refs {
		pool.Submit(&SegmentJob{Ref: ref, processor: b})
	}

	results := pool.Wait()

	out := make([]*SegmentResult, len(refs))
	for i := range refs {
		if i < len(results) && results[i] != nil {
			out[i] = results[i].(*SegmentResult)
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = errors.New("not processed")
		}
		out[i] = &SegmentResult{Ref: refs[i], Error: err}
	}

	b.logger.Info("batch complete", "total", len(refs), "failed", countFailed(out))
	return out
}

// ProcessFile reads refs from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*SegmentResult, error) {
	refs, err := input.ReadRefsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read refs: %w", err)
	}

	return b.ProcessRefs(ctx, refs), nil
}

func (b *BatchProcessor) process(ctx context.Context, ref string) *SegmentResult {
	start := time.Now()
	res := &SegmentResult{Ref: ref}

	doc, err := b.loader.Load(ctx, ref)
	if err != nil {
		b.logger.Warn("load failed", "ref", ref, "error", err)
		res.Error = err
		res.Duration = time.Since(start)
		return res
	}
	res.Document = doc

	if b.store != nil {
		seg, hit, err := b.store.GetOrCompute(doc.Text, b.segmenter.Segment)
		if err != nil {
			b.logger.Warn("cache store failed", "ref", ref, "error", err)
		}
		res.Segmentation = seg
		res.Cached = hit
	} else {
		res.Segmentation = b.segmenter.Segment(doc.Text)
	}

	res.Sentences = bunkai.Split(doc.Text, res.Segmentation.FinalBoundaries)
	res.Duration = time.Since(start)
	return res
}

func (b *BatchProcessor) reportProgress() {
	done := b.done.Add(1)
	b.progress.Do(func() {
		b.logger.Info("progress", "done", done, "total", b.total.Load())
	})
}

func countFailed(results []*SegmentResult) int {
	n := 0
	for _, r := range results {
		if r.Error != nil {
			n++
		}
	}
	return n
}
