package passage

import "testing"

func TestResolvePage_LocatorBeatsText(t *testing.T) {
	// No structured page, a #page= fragment, and a conflicting textual
	// mention: the fragment must win.
	p := New("as discussed on page 45 of the chapter", "gs://b/f.pdf#page=12", nil, nil, 0)

	resolved := ResolvePage(p)

	if resolved.Page() != 12 {
		t.Errorf("Page() = %d, want 12", resolved.Page())
	}
}

func TestResolvePage_StructuredWins(t *testing.T) {
	p := New("page 45", "gs://b/f.pdf#page=12", nil, nil, 3)

	if got := ResolvePage(p).Page(); got != 3 {
		t.Errorf("Page() = %d, want 3", got)
	}
}

func TestResolvePage_MetadataTags(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want int
	}{
		{"page_number key", map[string]string{"page_number": "7"}, 7},
		{"page key", map[string]string{"page": "4"}, 4},
		{"page_num key", map[string]string{"page_num": "9"}, 9},
		{"page_number preferred", map[string]string{"page_number": "7", "page": "4"}, 7},
		{"non-numeric skipped", map[string]string{"page_number": "seven", "page": "4"}, 4},
		{"padded value", map[string]string{"page": " 5 "}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("no patterns here", "gs://b/f.pdf", nil, tt.tags, 0)
			if got := ResolvePage(p).Page(); got != tt.want {
				t.Errorf("Page() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolvePage_URIFragment(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		text string
		want int
	}{
		{"plain fragment", "gs://b/f.pdf#page=12", "", 12},
		{"fragment with extras", "gs://b/f.pdf#page=12&zoom=100", "", 12},
		{"non-numeric falls through to text", "gs://b/f.pdf#page=abc", "see page 45", 45},
		{"no fragment", "gs://b/f.pdf", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.text, tt.uri, nil, nil, 0)
			if got := ResolvePage(p).Page(); got != tt.want {
				t.Errorf("Page() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolvePage_TextPatterns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"page word", "as shown on page 45 above", 45},
		{"capitalized", "Page 45 covers this topic", 45},
		{"p dot", "see p. 12 for details", 12},
		{"pg", "continued on pg 9", 9},
		{"pg dot", "continued on pg. 9", 9},
		{"page colon", "reference page: 33", 33},
		{"parenthesized", "the formula (page 7) applies", 7},
		{"bracketed", "the proof [page 8] follows", 8},
		{"first pattern wins", "page 2 and later p. 99", 2},
		{"no match", "nothing to see here", 0},
		{"page without number", "turn the page now", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.text, "", nil, nil, 0)
			if got := ResolvePage(p).Page(); got != tt.want {
				t.Errorf("Page() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolvePage_NothingFound(t *testing.T) {
	p := ResolvePage(New("plain text", "gs://b/f.pdf", nil, map[string]string{"subject": "Math"}, 0))

	if p.HasPage() {
		t.Errorf("HasPage() = true, Page() = %d", p.Page())
	}
}
