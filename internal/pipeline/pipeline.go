package pipeline

import (
	"github.com/ppiankov/fastbunkai/internal/filter"
	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/rules"
)

// Accumulator drives the ordered rule layers over one text
type Accumulator struct {
	source rules.Source
	layers []string
}

// NewAccumulator creates an accumulator over the source's layers.
// The layer order is fixed at construction.
func NewAccumulator(source rules.Source) *Accumulator {
	return &Accumulator{
		source: source,
		layers: source.Layers(),
	}
}

// Layers returns the configured layer names in pipeline order
func (a *Accumulator) Layers() []string {
	out := make([]string, len(a.layers))
	copy(out, a.layers)
	return out
}

// Run executes every layer and returns one Layer per configured name.
// Each layer is filtered against the keys accepted by the layer directly
// before it, not against the union of all earlier layers.
func (a *Accumulator) Run(text *rules.Text) []model.Layer {
	out := make([]model.Layer, 0, len(a.layers))
	var previous []model.SpanKey

	for _, name := range a.layers {
		// 1. Raw candidates, with the layers accepted so far
		raw := a.source.Spans(name, text, out)

		// 2. Drop keys of the previous layer and repeats within this one
		accepted := filter.PreviousRuleSameSpan(previous, raw)

		// 3. Record in pipeline order
		out = append(out, model.Layer{Name: name, Spans: accepted})

		// 4. Carry this layer's keys forward
		previous = model.Keys(accepted)
	}

	return out
}
