package model

// Split types tag the sub-kind of break a rule reports.
// The boundary policy maps each of them to an action.
const (
	SplitPunctuation     = 1 // Sentence-final punctuation run
	SplitLinebreak       = 2 // Forced break after a newline run
	SplitFaceMark        = 3 // Parenthesised kaomoji
	SplitEmotion         = 4 // Emotion marker such as (笑)
	SplitEmoji           = 5 // Emoji run inside a sentence
	SplitEmojiTerminal   = 6 // Emoji run followed by whitespace or end of text
	SplitIndirectQuote   = 7 // Question/exclamation mark followed by a particle
	SplitDotException    = 8 // Abbreviation or dotted identifier
	SplitNumberException = 9 // Decimal number
	SplitToken           = 10
)

// SplitTypeName returns a readable name for a split type
func SplitTypeName(t int) string {
	switch t {
	case SplitPunctuation:
		return "punctuation"
	case SplitLinebreak:
		return "linebreak"
	case SplitFaceMark:
		return "face_mark"
	case SplitEmotion:
		return "emotion"
	case SplitEmoji:
		return "emoji"
	case SplitEmojiTerminal:
		return "emoji_terminal"
	case SplitIndirectQuote:
		return "indirect_quote"
	case SplitDotException:
		return "dot_exception"
	case SplitNumberException:
		return "number_exception"
	case SplitToken:
		return "token"
	default:
		return "unknown"
	}
}
