// Package token provides the morphological analysis layer. Text is split
// into morphemes by kagome with the IPA dictionary; each span carries the
// part of speech.
package token

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/rules"
)

// LayerName is the layer the morpheme spans are attached to
const LayerName = "MorphAnnotatorKagome"

// posDepth is the number of leading features that form the part of speech
const posDepth = 4

// IPA feature index of the base form
const baseFormIndex = 6

// Features given to text the analyzer skips, such as a trailing newline
var blankFeatures = []string{"記号", "空白", "*", "*"}

// The IPA dictionary is large; it is loaded on first use and shared
var analyzer = sync.OnceValues(func() (*tokenizer.Tokenizer, error) {
	return tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
})

// Token is one morpheme with rune offsets into the analysed text
type Token struct {
	Start    int
	End      int
	Surface  string
	Features []string
}

// POS returns the part-of-speech features
func (t Token) POS() []string {
	if len(t.Features) > posDepth {
		return t.Features[:posDepth]
	}
	return t.Features
}

// BaseForm returns the dictionary form, or the surface when unknown
func (t Token) BaseForm() string {
	if len(t.Features) > baseFormIndex && t.Features[baseFormIndex] != "*" {
		return t.Features[baseFormIndex]
	}
	return t.Surface
}

// Analyze splits text into morphemes. The tokens cover the text without
// gaps; stretches the analyzer skips become blank tokens.
func Analyze(text *rules.Text) []Token {
	t, err := analyzer()
	if err != nil {
		panic(fmt.Sprintf("token: load IPA dictionary: %v", err))
	}

	out := make([]Token, 0, text.Len()/2+1)
	cursor := 0
	for _, tok := range t.Tokenize(text.String()) {
		start := text.RuneOffset(tok.Position)
		if start < cursor {
			continue
		}
		if start > cursor {
			out = append(out, blank(text, cursor, start))
		}
		end := start + utf8.RuneCountInString(tok.Surface)
		out = append(out, Token{
			Start:    start,
			End:      end,
			Surface:  tok.Surface,
			Features: tok.Features(),
		})
		cursor = end
	}
	if cursor < text.Len() {
		out = append(out, blank(text, cursor, text.Len()))
	}
	return out
}

func blank(text *rules.Text, start, end int) Token {
	return Token{Start: start, End: end, Surface: text.Slice(start, end), Features: blankFeatures}
}

// Tokenize returns one span per morpheme; the split value is the part of
// speech joined by commas
func Tokenize(text *rules.Text) []model.Span {
	tokens := Analyze(text)
	spans := make([]model.Span, 0, len(tokens))
	for _, tok := range tokens {
		spans = append(spans, model.NewSpan(LayerName, tok.Start, tok.End, model.SplitToken, strings.Join(tok.POS(), ",")))
	}
	return spans
}
