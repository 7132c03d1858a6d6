package model

// Layer is one stage of the rule pipeline and the spans it accepted,
// in first-accepted order
type Layer struct {
	Name  string `json:"name"`
	Spans []Span `json:"spans"`
}

// Segmentation is the complete result of segmenting one text
type Segmentation struct {
	Layers          []Layer `json:"layers"`           // One entry per configured layer, in pipeline order
	FinalBoundaries []int   `json:"final_boundaries"` // Strictly increasing rune offsets
}

// Layer returns the layer with the given name
func (s *Segmentation) Layer(name string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// LayerNames returns layer names in pipeline order
func (s *Segmentation) LayerNames() []string {
	names := make([]string, len(s.Layers))
	for i, l := range s.Layers {
		names[i] = l.Name
	}
	return names
}

// SpanCount returns the number of accepted spans across all layers
func (s *Segmentation) SpanCount() int {
	n := 0
	for _, l := range s.Layers {
		n += len(l.Spans)
	}
	return n
}
