// Package query holds validated retrieval parameters shared by the
// single-corpus executor and the multi-corpus aggregator.
package query

import (
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
)

// Hard bounds, independent of configured defaults.
const (
	// MaxQueryLength is the maximum allowed query text length.
	MaxQueryLength = 4096
	MaxTopK        = 100
)

// Params is a validated retrieval request (immutable value object).
type Params struct {
	text      string
	topK      int
	fetch     int
	threshold float64
	filter    metadata.Filter
}

// New validates retrieval parameters. topK and threshold must already
// be resolved against configured defaults by the caller; topK above
// MaxTopK is clamped.
func New(text string, topK int, threshold float64, f metadata.Filter) (Params, error) {
	if text == "" {
		return Params{}, fmt.Errorf("query text is required")
	}
	if len(text) > MaxQueryLength {
		return Params{}, fmt.Errorf("query text too long (max %d chars)", MaxQueryLength)
	}
	if topK <= 0 {
		return Params{}, fmt.Errorf("top_k must be positive")
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	if threshold < 0 || threshold > 1 {
		return Params{}, fmt.Errorf("relevance threshold must be between 0 and 1")
	}
	return Params{text: text, topK: topK, threshold: threshold, filter: f}, nil
}

// Text returns the query text.
func (p Params) Text() string { return p.text }

// TopK returns the number of results to keep.
func (p Params) TopK() int { return p.topK }

// Threshold returns the relevance threshold hint passed to providers.
func (p Params) Threshold() float64 { return p.threshold }

// Filter returns the canonical metadata filter (possibly empty).
func (p Params) Filter() metadata.Filter { return p.filter }

// HasFilter reports whether metadata filtering is active.
func (p Params) HasFilter() bool { return !p.filter.IsEmpty() }

// WithFetch returns a copy that asks providers for n raw candidates.
// Values at or below topK are ignored: widening never shrinks the set.
func (p Params) WithFetch(n int) Params {
	if n > p.topK {
		p.fetch = n
	}
	return p
}

// Fetch returns the raw candidate count providers should return:
// topK unless the executor widened it via WithFetch.
func (p Params) Fetch() int {
	if p.fetch > p.topK {
		return p.fetch
	}
	return p.topK
}
