package passage

import (
	"regexp"
	"strconv"
	"strings"
)

// extractor recovers a page number from one aspect of a passage,
// returning 0 when that aspect carries none.
type extractor func(Passage) int

// extractors run in fixed priority order; the first hit wins and at
// most one page number is ever attached.
var extractors = []extractor{
	structuredPage,
	metadataPage,
	uriFragmentPage,
	textPatternPage,
}

// metadataPageKeys are tag keys that may carry a page number.
var metadataPageKeys = []string{"page_number", "page", "page_num"}

// textPagePatterns match a page reference embedded in passage text,
// e.g. "page 45", "p. 45", "pg 45", "page: 45", "(page 45)", "[page 45]".
var textPagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpage\s+(\d+)\b`),
	regexp.MustCompile(`(?i)\bp\.\s*(\d+)\b`),
	regexp.MustCompile(`(?i)\bpg\.?\s*(\d+)\b`),
	regexp.MustCompile(`(?i)\bpage\s*:\s*(\d+)\b`),
	regexp.MustCompile(`(?i)\(page\s+(\d+)\)`),
	regexp.MustCompile(`(?i)\[page\s+(\d+)\]`),
}

// ResolvePage returns p with its page number recovered through the
// extractor chain: structured field, then metadata tags, then a
// "#page=N" URI fragment, then textual patterns in the body. p is
// returned unchanged when no extractor succeeds.
func ResolvePage(p Passage) Passage {
	for _, ex := range extractors {
		if page := ex(p); page > 0 {
			p.page = page
			return p
		}
	}
	return p
}

func structuredPage(p Passage) int { return p.page }

func metadataPage(p Passage) int {
	for _, key := range metadataPageKeys {
		raw, ok := p.metadata[key]
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func uriFragmentPage(p Passage) int {
	_, frag, ok := strings.Cut(p.sourceURI, "#page=")
	if !ok {
		return 0
	}
	frag, _, _ = strings.Cut(frag, "&")
	n, err := strconv.Atoi(frag)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func textPatternPage(p Passage) int {
	for _, pattern := range textPagePatterns {
		m := pattern.FindStringSubmatch(p.text)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
