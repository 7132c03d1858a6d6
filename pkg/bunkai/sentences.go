package bunkai

import (
	"github.com/ppiankov/fastbunkai/internal/annotations"
	"github.com/ppiankov/fastbunkai/internal/rules"
	"github.com/ppiankov/fastbunkai/internal/token"
)

// Sentences cuts text at every boundary. Text after the last boundary is
// returned as a final sentence. Joining the result reproduces text.
func (e *Engine) Sentences(text string) []string {
	boundaries := e.SegmentBoundaries(text)
	return Split(text, boundaries)
}

// Split cuts text at the given rune offsets
func Split(text string, boundaries []int) []string {
	rt := rules.NewText(text)
	out := make([]string, 0, len(boundaries)+1)
	start := 0
	for _, end := range boundaries {
		if end <= start {
			continue
		}
		out = append(out, rt.Slice(start, end))
		start = end
	}
	if start < rt.Len() {
		out = append(out, rt.Slice(start, rt.Len()))
	}
	return out
}

// Annotate returns the accepted layers as an annotation collection.
// When include is non-empty only the named layers are kept. The token
// layer is attached lazily after the basic punctuation layer; it is built
// only when read.
func (e *Engine) Annotate(text string, include ...string) *annotations.Annotations {
	want := make(map[string]bool, len(include))
	for _, name := range include {
		want[name] = true
	}
	keep := func(name string) bool {
		return len(want) == 0 || want[name]
	}

	out := annotations.New()
	needSegment := len(want) == 0
	for name := range want {
		if name != token.LayerName {
			needSegment = true
		}
	}

	tokens := func() []Span {
		return token.Tokenize(rules.NewText(text))
	}

	if !needSegment {
		e.warnLargeText(text)
		out.AddLazyLayer(token.LayerName, tokens)
		return out
	}

	for _, layer := range e.Segment(text).Layers {
		if !keep(layer.Name) {
			continue
		}
		out.AddLayer(layer.Name, layer.Spans)
		if layer.Name == rules.LayerBasicRule && keep(token.LayerName) {
			out.AddLazyLayer(token.LayerName, tokens)
		}
	}
	return out
}
