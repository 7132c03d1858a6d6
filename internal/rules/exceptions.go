package rules

import (
	"regexp"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// Exception layer names
const (
	LayerIndirectQuote   = "IndirectQuoteExceptionAnnotator"
	LayerDotException    = "DotExceptionAnnotator"
	LayerNumberException = "NumberExceptionAnnotator"
)

var (
	// 「スタッフ? と話し込み」: the mark is quoted, not final
	indirectQuotePattern = regexp.MustCompile(`[?？!！]+[ 　]*(?:って|と|の)`)
	abbreviationPattern  = regexp.MustCompile(`\b(?:No|Nos|Mr|Mrs|Ms|Dr|Prof|St|Jr|Sr|vs|etc|Inc|Ltd|Co|Corp|Fig|Vol|pp|approx|e\.g|i\.e|a\.m|p\.m|U\.S)\.`)
	dottedPattern        = regexp.MustCompile(`[0-9A-Za-z０-９Ａ-Ｚａ-ｚ][．.][0-9A-Za-z０-９Ａ-Ｚａ-ｚ]`)
	decimalPattern       = regexp.MustCompile(`[0-9０-９]+[.．][0-9０-９]+`)
)

// IndirectQuoteExceptionAnnotator marks question and exclamation marks
// that are followed by a quotative particle
type IndirectQuoteExceptionAnnotator struct{}

// NewIndirectQuoteExceptionAnnotator creates the indirect quote rule
func NewIndirectQuoteExceptionAnnotator() *IndirectQuoteExceptionAnnotator {
	return &IndirectQuoteExceptionAnnotator{}
}

// Name returns the layer name
func (r *IndirectQuoteExceptionAnnotator) Name() string {
	return LayerIndirectQuote
}

// Find returns spans covering the mark and the particle
func (r *IndirectQuoteExceptionAnnotator) Find(text *Text, prior []model.Layer) []model.Span {
	return matchSpans(text, indirectQuotePattern, LayerIndirectQuote, model.SplitIndirectQuote)
}

// DotExceptionAnnotator marks abbreviations and dots between alphanumerics
type DotExceptionAnnotator struct{}

// NewDotExceptionAnnotator creates the dot exception rule
func NewDotExceptionAnnotator() *DotExceptionAnnotator {
	return &DotExceptionAnnotator{}
}

// Name returns the layer name
func (r *DotExceptionAnnotator) Name() string {
	return LayerDotException
}

// Find returns abbreviation spans first, then dotted identifiers
func (r *DotExceptionAnnotator) Find(text *Text, prior []model.Layer) []model.Span {
	spans := matchSpans(text, abbreviationPattern, LayerDotException, model.SplitDotException)
	return append(spans, matchSpans(text, dottedPattern, LayerDotException, model.SplitDotException)...)
}

// NumberExceptionAnnotator marks decimal numbers
type NumberExceptionAnnotator struct{}

// NewNumberExceptionAnnotator creates the decimal number rule
func NewNumberExceptionAnnotator() *NumberExceptionAnnotator {
	return &NumberExceptionAnnotator{}
}

// Name returns the layer name
func (r *NumberExceptionAnnotator) Name() string {
	return LayerNumberException
}

// Find returns one span per decimal number
func (r *NumberExceptionAnnotator) Find(text *Text, prior []model.Layer) []model.Span {
	return matchSpans(text, decimalPattern, LayerNumberException, model.SplitNumberException)
}
