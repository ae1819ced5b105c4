package passage

import "testing"

func floatPtr(f float64) *float64 { return &f }

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"gcs path", "gs://bucket/books/unit3.pdf", "unit3.pdf"},
		{"fragment stripped", "gs://bucket/f.pdf#page=12", "f.pdf"},
		{"no slashes", "file.pdf", "file.pdf"},
		{"fragment without slash", "file.pdf#page=3", "file.pdf"},
		{"empty", "", ""},
		{"trailing slash", "gs://bucket/dir/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("", tt.uri, nil, nil, 0)
			if got := p.Filename(); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScoreOrZero(t *testing.T) {
	if got := New("", "", nil, nil, 0).ScoreOrZero(); got != 0 {
		t.Errorf("ScoreOrZero() with nil score = %v", got)
	}
	if got := New("", "", floatPtr(0.83), nil, 0).ScoreOrZero(); got != 0.83 {
		t.Errorf("ScoreOrZero() = %v, want 0.83", got)
	}
}

func TestNew_NegativePageDropped(t *testing.T) {
	p := New("", "", nil, nil, -4)
	if p.HasPage() {
		t.Error("negative page treated as recovered")
	}
}
