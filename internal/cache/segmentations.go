package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/fastbunkai/internal/model"
)

// Segmentations stores segmentation results keyed by input text.
// The namespace separates results produced under different rule
// layers or boundary policies.
type Segmentations struct {
	cache     Cache
	namespace string
	ttl       time.Duration
}

// NewSegmentations wraps c; a zero ttl uses the layer defaults
func NewSegmentations(c Cache, namespace string, ttl time.Duration) *Segmentations {
	return &Segmentations{cache: c, namespace: namespace, ttl: ttl}
}

func (s *Segmentations) key(text string) string {
	if s.namespace == "" {
		return Key(text)
	}
	return Key(s.namespace + "\x00" + text)
}

// Get returns the cached segmentation of text
func (s *Segmentations) Get(text string) (model.Segmentation, bool) {
	data, ok := s.cache.Get(s.key(text))
	if !ok {
		return model.Segmentation{}, false
	}

	var seg model.Segmentation
	if err := json.Unmarshal(data, &seg); err != nil {
		_ = s.cache.Delete(s.key(text))
		return model.Segmentation{}, false
	}
	return seg, true
}

// Put stores the segmentation of text
func (s *Segmentations) Put(text string, seg model.Segmentation) error {
	data, err := json.Marshal(seg)
	if err != nil {
		return fmt.Errorf("marshal segmentation: %w", err)
	}
	return s.cache.Set(s.key(text), data, s.ttl)
}

// GetOrCompute returns the cached segmentation or computes and stores it.
// A failed store is returned alongside the computed result.
func (s *Segmentations) GetOrCompute(text string, compute func(string) model.Segmentation) (model.Segmentation, bool, error) {
	if seg, ok := s.Get(text); ok {
		return seg, true, nil
	}
	seg := compute(text)
	return seg, false, s.Put(text, seg)
}
