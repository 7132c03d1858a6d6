// Package boundary resolves accepted spans into final sentence boundaries.
package boundary

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// Resolver turns accepted layers into a strictly increasing boundary list.
// The result depends only on the set of accepted spans, never on their order.
type Resolver struct {
	policy   Policy
	terminal map[string]struct{}
}

// NewResolver creates a resolver for the given policy
func NewResolver(policy Policy) *Resolver {
	r := &Resolver{policy: policy}
	if len(policy.Terminal) > 0 {
		r.terminal = make(map[string]struct{}, len(policy.Terminal))
		for _, name := range policy.Terminal {
			r.terminal[name] = struct{}{}
		}
	}
	return r
}

// Policy returns the resolver's policy
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve returns the boundaries contributed by the terminal layers, minus
// those removed by suppressing spans. textLen is the rune length of the text.
// It panics if a span lies outside [0, textLen], or if textLen does not
// fit the 32-bit offsets of the boundary bitmap.
func (r *Resolver) Resolve(layers []model.Layer, textLen int) []int {
	if textLen < 0 || uint64(textLen) > math.MaxUint32 {
		panic(fmt.Sprintf("boundary: text length %d outside the supported range [0, %d]", textLen, uint64(math.MaxUint32)))
	}

	breaks := roaring.New()
	suppressed := roaring.New()

	for _, layer := range layers {
		if !r.contributes(layer.Name) {
			continue
		}
		for _, s := range layer.Spans {
			if s.Start < 0 || s.End > textLen || s.Start > s.End {
				panic(fmt.Sprintf("boundary: span %d-%d from %s outside text of length %d", s.Start, s.End, s.RuleName, textLen))
			}

			switch r.policy.Action(s) {
			case ActionEnd:
				breaks.Add(uint32(s.End))
			case ActionStart:
				breaks.Add(uint32(s.Start))
			case ActionBoth:
				breaks.Add(uint32(s.Start))
				breaks.Add(uint32(s.End))
			case ActionSuppress:
				suppressed.AddRange(uint64(s.Start)+1, uint64(s.End)+1)
			}
		}
	}

	breaks.AndNot(suppressed)

	out := make([]int, 0, breaks.GetCardinality())
	it := breaks.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func (r *Resolver) contributes(layer string) bool {
	if r.terminal == nil {
		return true
	}
	_, ok := r.terminal[layer]
	return ok
}
