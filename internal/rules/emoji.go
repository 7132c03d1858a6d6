package rules

import (
	"unicode"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// LayerEmoji is the name of the emoji layer
const LayerEmoji = "EmojiAnnotator"

// EmojiAnnotator marks emoji runs. A run followed by whitespace or the end
// of the text is terminal.
type EmojiAnnotator struct{}

// NewEmojiAnnotator creates the emoji rule
func NewEmojiAnnotator() *EmojiAnnotator {
	return &EmojiAnnotator{}
}

// Name returns the layer name
func (r *EmojiAnnotator) Name() string {
	return LayerEmoji
}

// Find returns one span per emoji run
func (r *EmojiAnnotator) Find(text *Text, prior []model.Layer) []model.Span {
	var spans []model.Span
	n := text.Len()
	for i := 0; i < n; {
		if !isEmoji(text.At(i)) {
			i++
			continue
		}
		start := i
		for i < n && (isEmoji(text.At(i)) || isEmojiJoiner(text.At(i))) {
			i++
		}
		splitType := model.SplitEmoji
		if i == n || unicode.IsSpace(text.At(i)) {
			splitType = model.SplitEmojiTerminal
		}
		spans = append(spans, model.NewSpan(LayerEmoji, start, i, splitType, text.Slice(start, i)))
	}
	return spans
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	}
	return false
}

// isEmojiJoiner covers zero width joiners, variation selectors and tags
func isEmojiJoiner(r rune) bool {
	return r == 0x200D || (r >= 0xFE00 && r <= 0xFE0F) || (r >= 0xE0020 && r <= 0xE007F)
}
