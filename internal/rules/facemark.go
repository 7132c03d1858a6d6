package rules

import (
	"regexp"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// LayerFaceMark is the name of the kaomoji layer
const LayerFaceMark = "FaceMarkDetector"

// A parenthesised run holding at least one character typical of kaomoji
var faceMarkPattern = regexp.MustCompile("[(（][^()（）\\s]{0,8}[\\^＾´｀`ﾟ∀ω;；_＿*＊・ノдД°][^()（）\\s]{0,8}[)）]")

// FaceMarkDetector marks kaomoji such as (*^_^*) so that punctuation
// inside them never ends a sentence
type FaceMarkDetector struct{}

// NewFaceMarkDetector creates the kaomoji rule
func NewFaceMarkDetector() *FaceMarkDetector {
	return &FaceMarkDetector{}
}

// Name returns the layer name
func (r *FaceMarkDetector) Name() string {
	return LayerFaceMark
}

// Find returns one span per face mark
func (r *FaceMarkDetector) Find(text *Text, prior []model.Layer) []model.Span {
	return matchSpans(text, faceMarkPattern, LayerFaceMark, model.SplitFaceMark)
}
