// Package passage holds the retrieved-passage value object, the
// page-number recovery chain, and citation rendering.
package passage

import "strings"

// Passage is one candidate chunk returned by a retrieval provider
// (immutable value object).
type Passage struct {
	text      string
	sourceURI string
	score     *float64
	metadata  map[string]string
	page      int // 0 = not recovered
}

// New creates a Passage. score may be nil when the provider returned no
// relevance signal; page 0 means the provider carried no structured
// page field.
func New(text, sourceURI string, score *float64, metadata map[string]string, page int) Passage {
	if page < 0 {
		page = 0
	}
	return Passage{
		text:      text,
		sourceURI: sourceURI,
		score:     score,
		metadata:  metadata,
		page:      page,
	}
}

// Text returns the passage body.
func (p Passage) Text() string { return p.text }

// SourceURI returns the locator of the source document, possibly empty.
func (p Passage) SourceURI() string { return p.sourceURI }

// Score returns the provider relevance score, nil when absent.
func (p Passage) Score() *float64 { return p.score }

// ScoreOrZero returns the relevance score treating absent as 0.
// Used as the sort key when merging result sets.
func (p Passage) ScoreOrZero() float64 {
	if p.score == nil {
		return 0
	}
	return *p.score
}

// Metadata returns the tag-set attached to the source document, nil
// when the provider carried none.
func (p Passage) Metadata() map[string]string { return p.metadata }

// Page returns the recovered page number, 0 when none was found.
func (p Passage) Page() int { return p.page }

// HasPage reports whether a page number was recovered.
func (p Passage) HasPage() bool { return p.page > 0 }

// Filename returns the last path segment of the source URI with any
// fragment suffix stripped, or "" when the passage has no locator.
func (p Passage) Filename() string {
	if p.sourceURI == "" {
		return ""
	}
	name := p.sourceURI
	if i := strings.Index(name, "#"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
