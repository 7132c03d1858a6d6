package pipeline

import (
	"testing"

	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/rules"
)

// stubSource returns fixed spans per layer and records the prior layers
// it was handed
type stubSource struct {
	names []string
	spans map[string][]model.Span
	seen  map[string]int
}

func (s *stubSource) Layers() []string {
	return s.names
}

func (s *stubSource) Spans(layer string, text *rules.Text, prior []model.Layer) []model.Span {
	if s.seen != nil {
		s.seen[layer] = len(prior)
	}
	return s.spans[layer]
}

func sp(start, end int) model.Span {
	return model.Span{RuleName: "stub", Start: start, End: end}
}

func keysOf(l model.Layer) []model.SpanKey {
	return model.Keys(l.Spans)
}

func TestAccumulator_LayerCountAndOrder(t *testing.T) {
	src := &stubSource{
		names: []string{"a", "b", "c"},
		spans: map[string][]model.Span{"b": {sp(0, 1)}},
	}
	acc := NewAccumulator(src)

	layers := acc.Run(rules.NewText("xyz"))

	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(layers))
	}
	for i, name := range []string{"a", "b", "c"} {
		if layers[i].Name != name {
			t.Errorf("layer %d: expected %s, got %s", i, name, layers[i].Name)
		}
		if layers[i].Spans == nil {
			t.Errorf("layer %s: spans should be empty, not nil", name)
		}
	}
	if len(layers[1].Spans) != 1 {
		t.Errorf("expected 1 span in layer b, got %d", len(layers[1].Spans))
	}
}

func TestAccumulator_FiltersAgainstPreviousLayer(t *testing.T) {
	src := &stubSource{
		names: []string{"first", "second"},
		spans: map[string][]model.Span{
			"first":  {sp(0, 1), sp(4, 5)},
			"second": {sp(0, 1), sp(8, 9), sp(8, 9), sp(12, 13)},
		},
	}

	layers := NewAccumulator(src).Run(rules.NewText("0123456789abcd"))

	got := keysOf(layers[1])
	want := []model.SpanKey{{Start: 8, End: 9}, {Start: 12, End: 13}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("span %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestAccumulator_OnlyImmediatePredecessorFilters(t *testing.T) {
	// (0,1) is accepted by layer a, absent from b, and must be accepted
	// again by c
	src := &stubSource{
		names: []string{"a", "b", "c"},
		spans: map[string][]model.Span{
			"a": {sp(0, 1)},
			"b": {sp(2, 3)},
			"c": {sp(0, 1), sp(2, 3)},
		},
	}

	layers := NewAccumulator(src).Run(rules.NewText("abcd"))

	got := keysOf(layers[2])
	if len(got) != 1 || got[0] != (model.SpanKey{Start: 0, End: 1}) {
		t.Errorf("expected [(0,1)] in layer c, got %v", got)
	}
}

func TestAccumulator_PassesPriorLayers(t *testing.T) {
	src := &stubSource{
		names: []string{"a", "b", "c"},
		spans: map[string][]model.Span{},
		seen:  map[string]int{},
	}

	NewAccumulator(src).Run(rules.NewText(""))

	for i, name := range src.names {
		if src.seen[name] != i {
			t.Errorf("layer %s: expected %d prior layers, got %d", name, i, src.seen[name])
		}
	}
}

func TestAccumulator_LayersIsACopy(t *testing.T) {
	acc := NewAccumulator(&stubSource{names: []string{"a", "b"}})

	names := acc.Layers()
	names[0] = "mutated"

	if acc.Layers()[0] != "a" {
		t.Error("Layers should return a copy")
	}
}

func TestAccumulator_DefaultRulesIntraLayerUniqueness(t *testing.T) {
	acc := NewAccumulator(rules.Default())
	text := "価格は3.5万円です。No. 10の選手が来た！ スタッフ? と話し込み\n\n次の行。"

	layers := acc.Run(rules.NewText(text))

	if len(layers) != len(rules.Default().Layers()) {
		t.Fatalf("expected %d layers, got %d", len(rules.Default().Layers()), len(layers))
	}
	for i, l := range layers {
		seen := make(map[model.SpanKey]bool)
		for _, s := range l.Spans {
			if seen[s.Key()] {
				t.Errorf("layer %s: duplicate key %v", l.Name, s.Key())
			}
			seen[s.Key()] = true
			if s.Start < 0 || s.Start >= s.End {
				t.Errorf("layer %s: malformed span %v", l.Name, s.Key())
			}
		}
		if i == 0 {
			continue
		}
		for _, s := range layers[i-1].Spans {
			if seen[s.Key()] {
				t.Errorf("layer %s: key %v also accepted by %s", l.Name, s.Key(), layers[i-1].Name)
			}
		}
	}
}
