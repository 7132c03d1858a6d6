// Package annotations holds named span layers in insertion order, some of
// which may be built lazily on first access.
package annotations

import (
	"sort"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// Factory builds the spans of a lazy layer
type Factory func() []model.Span

// Annotations is an ordered collection of layers.
// It is not safe for concurrent use.
type Annotations struct {
	forward string
	spans   map[string][]model.Span
	order   map[string]int
	lazy    map[string]Factory
	next    int
}

// New creates an empty collection
func New() *Annotations {
	return &Annotations{
		spans: make(map[string][]model.Span),
		order: make(map[string]int),
		lazy:  make(map[string]Factory),
	}
}

// AddLayer appends a layer; it becomes the final layer
func (a *Annotations) AddLayer(name string, spans []model.Span) {
	if _, ok := a.lazy[name]; ok {
		a.materialize(name)
	}
	a.spans[name] = spans
	a.order[name] = a.next
	a.forward = name
	a.next++
}

// AddLazyLayer appends a layer built on first access; it becomes the final layer
func (a *Annotations) AddLazyLayer(name string, factory Factory) {
	a.lazy[name] = factory
	a.order[name] = a.next
	a.forward = name
	a.next++
}

// FinalLayer returns the spans of the most recently added layer
func (a *Annotations) FinalLayer() []model.Span {
	if a.forward == "" {
		return nil
	}
	a.materialize(a.forward)
	return a.spans[a.forward]
}

// FinalLayerName returns the name of the most recently added layer
func (a *Annotations) FinalLayerName() string {
	return a.forward
}

// Layer returns the spans of one layer
func (a *Annotations) Layer(name string) ([]model.Span, bool) {
	a.materialize(name)
	spans, ok := a.spans[name]
	return spans, ok
}

// Has reports whether a layer exists, built or not
func (a *Annotations) Has(name string) bool {
	_, ok := a.order[name]
	return ok
}

// AvailableLayers returns layer names in insertion order
func (a *Annotations) AvailableLayers() []string {
	names := make([]string, 0, len(a.order))
	for name := range a.order {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return a.order[names[i]] < a.order[names[j]]
	})
	return names
}

// Flatten returns the spans of every layer in insertion order
func (a *Annotations) Flatten() []model.Span {
	var out []model.Span
	for _, name := range a.AvailableLayers() {
		a.materialize(name)
		out = append(out, a.spans[name]...)
	}
	return out
}

func (a *Annotations) materialize(name string) {
	factory, ok := a.lazy[name]
	if !ok {
		return
	}
	delete(a.lazy, name)
	a.spans[name] = factory()
}
