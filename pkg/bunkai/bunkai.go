// Package bunkai segments text into sentences.
//
// An Engine runs an ordered list of rule layers over the text. Each layer
// proposes candidate break spans; spans already accepted by the previous
// layer or earlier in the same layer are dropped; the accepted spans are
// resolved into a strictly increasing list of boundary offsets.
//
// All offsets are rune (Unicode code point) offsets. An Engine holds no
// mutable state and is safe for concurrent use.
package bunkai

import (
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/ppiankov/fastbunkai/internal/boundary"
	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/pipeline"
	"github.com/ppiankov/fastbunkai/internal/rules"
)

type (
	// Span is a candidate or accepted break region
	Span = model.Span
	// SpanKey is the (start, end) identity of a span
	SpanKey = model.SpanKey
	// Layer is one rule layer and its accepted spans
	Layer = model.Layer
	// Segmentation is the layered result plus final boundaries
	Segmentation = model.Segmentation
)

// Engine is an immutable segmentation pipeline
type Engine struct {
	acc          *pipeline.Accumulator
	resolver     *boundary.Resolver
	logger       hclog.Logger
	warnAboveLen int
}

// New creates an engine; without options it uses the built-in rules and policy
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{
		acc:          pipeline.NewAccumulator(o.source),
		resolver:     boundary.NewResolver(o.policy),
		logger:       o.logger,
		warnAboveLen: o.warnAboveLen,
	}
}

// Layers returns the configured layer names in pipeline order
func (e *Engine) Layers() []string {
	return e.acc.Layers()
}

// Segment runs every layer and returns all accepted spans with the final boundaries
func (e *Engine) Segment(text string) Segmentation {
	layers, boundaries := e.run(text)
	return Segmentation{
		Layers:          layers,
		FinalBoundaries: boundaries,
	}
}

// SegmentBoundaries returns only the final boundaries; it always equals
// Segment(text).FinalBoundaries
func (e *Engine) SegmentBoundaries(text string) []int {
	_, boundaries := e.run(text)
	return boundaries
}

func (e *Engine) run(text string) ([]model.Layer, []int) {
	e.warnLargeText(text)

	rt := rules.NewText(text)
	layers := e.acc.Run(rt)
	return layers, e.resolver.Resolve(layers, rt.Len())
}

func (e *Engine) warnLargeText(text string) {
	if e.warnAboveLen <= 0 {
		return
	}
	size := estimateSize(text)
	if size < e.warnAboveLen {
		return
	}
	e.logger.Warn("large input; segmentation keeps intermediate annotations in memory",
		"estimated_mib", float64(size)/(1024*1024))
}

// estimateSize charges one byte per rune for ASCII text and three otherwise
func estimateSize(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return utf8.RuneCountInString(text) * 3
		}
	}
	return len(text)
}

var defaultEngine = New()

// Segment segments text with the built-in rules
func Segment(text string) Segmentation {
	return defaultEngine.Segment(text)
}

// SegmentBoundaries returns the boundaries of text under the built-in rules
func SegmentBoundaries(text string) []int {
	return defaultEngine.SegmentBoundaries(text)
}

// Sentences splits text with the built-in rules
func Sentences(text string) []string {
	return defaultEngine.Sentences(text)
}
