package query

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
)

func TestNew_Valid(t *testing.T) {
	p, err := New("photosynthesis", 10, 0.5, metadata.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Text() != "photosynthesis" {
		t.Errorf("Text() = %q", p.Text())
	}
	if p.TopK() != 10 {
		t.Errorf("TopK() = %d", p.TopK())
	}
	if p.Threshold() != 0.5 {
		t.Errorf("Threshold() = %v", p.Threshold())
	}
	if p.HasFilter() {
		t.Error("HasFilter() = true for empty filter")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		topK      int
		threshold float64
		wantErr   string
	}{
		{"empty text", "", 10, 0.5, "query text is required"},
		{"long text", strings.Repeat("q", MaxQueryLength+1), 10, 0.5, "too long"},
		{"zero topK", "q", 0, 0.5, "top_k must be positive"},
		{"negative topK", "q", -3, 0.5, "top_k must be positive"},
		{"negative threshold", "q", 10, -0.1, "between 0 and 1"},
		{"threshold above one", "q", 10, 1.5, "between 0 and 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.text, tt.topK, tt.threshold, metadata.Filter{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_ClampsTopK(t *testing.T) {
	p, err := New("q", MaxTopK+50, 0.5, metadata.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TopK() != MaxTopK {
		t.Errorf("TopK() = %d, want %d", p.TopK(), MaxTopK)
	}
}

func TestWithFetch(t *testing.T) {
	p, err := New("q", 5, 0.5, metadata.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Fetch() != 5 {
		t.Errorf("Fetch() unwidened = %d, want 5", p.Fetch())
	}

	widened := p.WithFetch(10)
	if widened.Fetch() != 10 {
		t.Errorf("Fetch() widened = %d, want 10", widened.Fetch())
	}
	if widened.TopK() != 5 {
		t.Errorf("TopK() after widening = %d, want 5", widened.TopK())
	}
	if p.Fetch() != 5 {
		t.Error("WithFetch must not mutate the receiver")
	}

	if got := p.WithFetch(3).Fetch(); got != 5 {
		t.Errorf("Fetch() after shrinking attempt = %d, want 5", got)
	}
}
