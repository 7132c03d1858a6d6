package model

// SpanKey identifies a break for deduplication purposes.
// Two spans with the same key are the same break regardless of provenance.
type SpanKey struct {
	Start int
	End   int
}

// Span is a candidate or accepted break-point region.
// Offsets are half-open rune (code point) offsets into the input text.
type Span struct {
	RuleName   string           `json:"rule_name"`   // Rule that produced the span
	Start      int              `json:"start"`       // Inclusive start offset
	End        int              `json:"end"`         // Exclusive end offset
	SplitType  Optional[int]    `json:"split_type"`  // Sub-kind of break within the rule
	SplitValue Optional[string] `json:"split_value"` // Associated string, e.g. the matched delimiter
}

// Key returns the (start, end) identity of the span
func (s Span) Key() SpanKey {
	return SpanKey{Start: s.Start, End: s.End}
}

// NewSpan builds a span carrying a split type and a split value
func NewSpan(rule string, start, end int, splitType int, splitValue string) Span {
	return Span{
		RuleName:   rule,
		Start:      start,
		End:        end,
		SplitType:  Some(splitType),
		SplitValue: Some(splitValue),
	}
}

// Keys returns the keys of spans in order
func Keys(spans []Span) []SpanKey {
	keys := make([]SpanKey, len(spans))
	for i, s := range spans {
		keys[i] = s.Key()
	}
	return keys
}
