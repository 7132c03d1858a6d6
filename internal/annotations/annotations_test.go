package annotations

import (
	"testing"

	"github.com/ppiankov/fastbunkai/internal/model"
)

func spans(keys ...int) []model.Span {
	var out []model.Span
	for i := 0; i+1 < len(keys); i += 2 {
		out = append(out, model.Span{RuleName: "t", Start: keys[i], End: keys[i+1]})
	}
	return out
}

func TestAnnotations_Order(t *testing.T) {
	a := New()
	a.AddLayer("first", spans(0, 1))
	a.AddLazyLayer("lazy", func() []model.Span { return spans(1, 2) })
	a.AddLayer("last", spans(2, 3))

	got := a.AvailableLayers()
	want := []string{"first", "lazy", "last"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if a.FinalLayerName() != "last" {
		t.Errorf("expected final layer last, got %s", a.FinalLayerName())
	}
}

func TestAnnotations_LazyBuiltOnce(t *testing.T) {
	calls := 0
	a := New()
	a.AddLayer("base", spans(0, 1))
	a.AddLazyLayer("lazy", func() []model.Span {
		calls++
		return spans(3, 4)
	})

	if calls != 0 {
		t.Fatal("factory should not run before access")
	}

	final := a.FinalLayer()
	if len(final) != 1 || final[0].Start != 3 {
		t.Errorf("unexpected final layer %v", final)
	}
	if _, ok := a.Layer("lazy"); !ok {
		t.Error("expected lazy layer to exist")
	}
	a.Flatten()

	if calls != 1 {
		t.Errorf("expected factory to run once, ran %d times", calls)
	}
}

func TestAnnotations_Flatten(t *testing.T) {
	a := New()
	a.AddLayer("a", spans(0, 1, 1, 2))
	a.AddLazyLayer("b", func() []model.Span { return spans(5, 6) })

	flat := a.Flatten()

	if len(flat) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(flat))
	}
	if flat[2].Start != 5 {
		t.Errorf("expected lazy span last, got %v", flat[2])
	}
}

func TestAnnotations_Empty(t *testing.T) {
	a := New()
	if a.FinalLayer() != nil {
		t.Error("expected nil final layer")
	}
	if a.Has("x") {
		t.Error("expected no layers")
	}
	if _, ok := a.Layer("x"); ok {
		t.Error("expected missing layer")
	}
}

func TestAnnotations_ReplaceLazyWithConcrete(t *testing.T) {
	a := New()
	a.AddLazyLayer("x", func() []model.Span { return spans(0, 1) })
	a.AddLayer("x", spans(7, 8))

	got, _ := a.Layer("x")
	if len(got) != 1 || got[0].Start != 7 {
		t.Errorf("expected concrete layer to win, got %v", got)
	}
}
