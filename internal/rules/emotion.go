package rules

import (
	"regexp"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// LayerEmotionExpression is the name of the emotion marker layer
const LayerEmotionExpression = "EmotionExpressionAnnotator"

var emotionPattern = regexp.MustCompile(`[(（][笑泣嬉怒汗涙喜悲驚苦焦爆][)）]`)

// EmotionExpressionAnnotator proposes a break after markers such as (笑)
// when nothing else closes the sentence
type EmotionExpressionAnnotator struct{}

// NewEmotionExpressionAnnotator creates the emotion marker rule
func NewEmotionExpressionAnnotator() *EmotionExpressionAnnotator {
	return &EmotionExpressionAnnotator{}
}

// Name returns the layer name
func (r *EmotionExpressionAnnotator) Name() string {
	return LayerEmotionExpression
}

// Find skips markers followed by punctuation or at the end of the text
func (r *EmotionExpressionAnnotator) Find(text *Text, prior []model.Layer) []model.Span {
	candidates := matchSpans(text, emotionPattern, LayerEmotionExpression, model.SplitEmotion)
	spans := candidates[:0]
	for _, s := range candidates {
		if s.End >= text.Len() {
			continue
		}
		next := text.At(s.End)
		if isTerminalPunct(next) || isClosingBracket(next) || next == '\n' {
			continue
		}
		spans = append(spans, s)
	}
	return spans
}
