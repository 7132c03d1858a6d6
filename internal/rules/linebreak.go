package rules

import (
	"regexp"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// LayerLinebreakForce is the name of the forced newline layer
const LayerLinebreakForce = "LinebreakForceAnnotator"

var linebreakPattern = regexp.MustCompile(`\n+`)

// LinebreakForceAnnotator proposes a break after every run of newlines
type LinebreakForceAnnotator struct{}

// NewLinebreakForceAnnotator creates the newline rule
func NewLinebreakForceAnnotator() *LinebreakForceAnnotator {
	return &LinebreakForceAnnotator{}
}

// Name returns the layer name
func (r *LinebreakForceAnnotator) Name() string {
	return LayerLinebreakForce
}

// Find returns one span per newline run
func (r *LinebreakForceAnnotator) Find(text *Text, prior []model.Layer) []model.Span {
	return matchSpans(text, linebreakPattern, LayerLinebreakForce, model.SplitLinebreak)
}
