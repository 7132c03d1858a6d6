// Package rules supplies candidate break-point spans for each rule layer.
package rules

import (
	"regexp"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// Source supplies the raw candidate spans of each layer.
// Spans must be a pure function of the layer name, the text and the
// layers accepted so far.
type Source interface {
	// Layers returns the layer names in pipeline order
	Layers() []string

	// Spans returns raw candidates for one layer, in rule order
	Spans(layer string, text *Text, prior []model.Layer) []model.Span
}

// Rule produces the candidates of one layer
type Rule interface {
	// Name returns the layer name
	Name() string

	// Find returns raw candidate spans for the text
	Find(text *Text, prior []model.Layer) []model.Span
}

// Registry is an ordered set of rules
type Registry struct {
	rules  []Rule
	byName map[string]Rule
}

// NewRegistry creates a registry holding rules in the given order
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{
		rules:  make([]Rule, 0, len(rules)),
		byName: make(map[string]Rule, len(rules)),
	}
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// Default returns the built-in rule layers in pipeline order
func Default() *Registry {
	return NewRegistry(
		NewFaceMarkDetector(),
		NewEmotionExpressionAnnotator(),
		NewEmojiAnnotator(),
		NewBasicRule(),
		NewIndirectQuoteExceptionAnnotator(),
		NewDotExceptionAnnotator(),
		NewNumberExceptionAnnotator(),
		NewLinebreakForceAnnotator(),
	)
}

// Register appends a rule; a rule with an existing name replaces it in place
func (r *Registry) Register(rule Rule) {
	name := rule.Name()
	if _, exists := r.byName[name]; exists {
		for i, existing := range r.rules {
			if existing.Name() == name {
				r.rules[i] = rule
			}
		}
	} else {
		r.rules = append(r.rules, rule)
	}
	r.byName[name] = rule
}

// Lookup returns the rule for a layer name
func (r *Registry) Lookup(name string) (Rule, bool) {
	rule, ok := r.byName[name]
	return rule, ok
}

// Layers returns layer names in pipeline order
func (r *Registry) Layers() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name()
	}
	return names
}

// Spans runs the rule for layer; unknown layers produce no spans
func (r *Registry) Spans(layer string, text *Text, prior []model.Layer) []model.Span {
	rule, ok := r.byName[layer]
	if !ok {
		return nil
	}
	return rule.Find(text, prior)
}

// matchSpans converts regexp matches into rune-offset spans
func matchSpans(text *Text, re *regexp.Regexp, rule string, splitType int) []model.Span {
	matches := re.FindAllStringIndex(text.String(), -1)
	if len(matches) == 0 {
		return nil
	}
	spans := make([]model.Span, 0, len(matches))
	for _, m := range matches {
		start := text.RuneOffset(m[0])
		end := text.RuneOffset(m[1])
		if start >= end {
			continue
		}
		spans = append(spans, model.NewSpan(rule, start, end, splitType, text.String()[m[0]:m[1]]))
	}
	return spans
}
