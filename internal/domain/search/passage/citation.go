package passage

import (
	"fmt"
	"strings"
)

// Citation renders the provenance string for a passage owned by the
// given corpus: "[Source: Science (42) File: unit3.pdf Page: 7]".
// The file part is omitted when the passage has no source locator and
// the page part when no page number was recovered.
func Citation(corpusName, corpusID string, p Passage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Source: %s (%s)", corpusName, corpusID)
	if name := p.Filename(); name != "" {
		fmt.Fprintf(&b, " File: %s", name)
	}
	if p.HasPage() {
		fmt.Fprintf(&b, " Page: %d", p.Page())
	}
	b.WriteString("]")
	return b.String()
}

// SummaryLine renders one citations-summary entry:
// "Science (42): 3 results".
func SummaryLine(corpusName, corpusID string, count int) string {
	return fmt.Sprintf("%s (%s): %d results", corpusName, corpusID, count)
}
