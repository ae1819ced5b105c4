package passage

import "testing"

func TestCitation(t *testing.T) {
	p := ResolvePage(New("chlorophyll absorbs light", "gs://b/unit3.pdf#page=7", floatPtr(0.9), nil, 0))

	got := Citation("Science", "42", p)
	want := "[Source: Science (42) File: unit3.pdf Page: 7]"
	if got != want {
		t.Errorf("Citation() = %q, want %q", got, want)
	}
}

func TestCitation_NoPage(t *testing.T) {
	p := New("text", "gs://b/unit3.pdf", nil, nil, 0)

	got := Citation("Science", "42", p)
	want := "[Source: Science (42) File: unit3.pdf]"
	if got != want {
		t.Errorf("Citation() = %q, want %q", got, want)
	}
}

func TestCitation_NoSourceURI(t *testing.T) {
	p := New("text", "", nil, nil, 0)

	got := Citation("History", "7", p)
	want := "[Source: History (7)]"
	if got != want {
		t.Errorf("Citation() = %q, want %q", got, want)
	}
}

func TestSummaryLine(t *testing.T) {
	got := SummaryLine("Science", "42", 3)
	want := "Science (42): 3 results"
	if got != want {
		t.Errorf("SummaryLine() = %q, want %q", got, want)
	}
}
