package rules

import (
	"regexp"
	"unicode"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// LayerBasicRule is the name of the sentence-final punctuation layer
const LayerBasicRule = "BasicRule"

var (
	// Punctuation run, closing brackets, then any newlines that end the line
	sentenceEndPattern = regexp.MustCompile(`[。！？!?．…‥]+[」』）)】〉》"'”’]*\n*`)
	// ASCII periods only end a sentence before whitespace or end of text
	periodPattern = regexp.MustCompile(`\.+["')\]”’]*`)
)

// BasicRule proposes a break after every sentence-final punctuation run
type BasicRule struct{}

// NewBasicRule creates the basic punctuation rule
func NewBasicRule() *BasicRule {
	return &BasicRule{}
}

// Name returns the layer name
func (r *BasicRule) Name() string {
	return LayerBasicRule
}

// Find returns punctuation spans in text order
func (r *BasicRule) Find(text *Text, prior []model.Layer) []model.Span {
	spans := matchSpans(text, sentenceEndPattern, LayerBasicRule, model.SplitPunctuation)

	for _, m := range periodPattern.FindAllStringIndex(text.String(), -1) {
		start := text.RuneOffset(m[0])
		end := text.RuneOffset(m[1])
		if end < text.Len() && !unicode.IsSpace(text.At(end)) {
			continue
		}
		for end < text.Len() && text.At(end) == '\n' {
			end++
		}
		spans = append(spans, model.NewSpan(LayerBasicRule, start, end, model.SplitPunctuation, text.Slice(start, end)))
	}

	return spans
}

// isTerminalPunct reports whether r ends a sentence on its own
func isTerminalPunct(r rune) bool {
	switch r {
	case '。', '！', '？', '!', '?', '．', '…', '‥', '.':
		return true
	}
	return false
}

// isClosingBracket reports whether r closes a bracket or quotation
func isClosingBracket(r rune) bool {
	switch r {
	case '」', '』', '）', ')', '】', '〉', '》', '"', '\'', '”', '’':
		return true
	}
	return false
}
