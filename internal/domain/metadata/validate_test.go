package metadata

import (
	"strings"
	"testing"
)

func validTags() map[string]any {
	return map[string]any{
		"board":   "CBSE",
		"grade":   "10",
		"subject": "Mathematics",
	}
}

func TestValidate_MinimumValid(t *testing.T) {
	report := Validate(validTags(), false)

	if !report.Valid {
		t.Fatalf("expected valid, got errors: %v", report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors = %v, want none", report.Errors)
	}
	if report.Normalized == nil {
		t.Fatal("Normalized is nil for a valid tag-set")
	}
	if report.Normalized["board"] != "CBSE" {
		t.Errorf("normalized board = %q", report.Normalized["board"])
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	report := Validate(map[string]any{"subject": "Math"}, false)

	if report.Valid {
		t.Fatal("expected invalid")
	}
	if len(report.Errors) != 2 {
		t.Fatalf("Errors = %v, want exactly 2", report.Errors)
	}
	if report.Errors[0] != "Missing required field: 'board'" {
		t.Errorf("first error = %q", report.Errors[0])
	}
	if report.Errors[1] != "Missing required field: 'grade'" {
		t.Errorf("second error = %q", report.Errors[1])
	}
	if report.Normalized != nil {
		t.Errorf("Normalized = %v, want nil when invalid", report.Normalized)
	}
}

func TestValidate_EmptyRequired(t *testing.T) {
	tags := validTags()
	tags["board"] = "  "
	tags["grade"] = ""

	report := Validate(tags, false)

	if report.Valid {
		t.Fatal("expected invalid")
	}
	if len(report.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2", report.Errors)
	}
	if report.Errors[0] != "Required field 'board' must not be empty" {
		t.Errorf("board error = %q", report.Errors[0])
	}
	if report.Errors[1] != "Required field 'grade' must not be empty" {
		t.Errorf("grade error = %q", report.Errors[1])
	}
	if report.Normalized != nil {
		t.Errorf("Normalized = %v, want nil when invalid", report.Normalized)
	}
}

func TestValidate_WrongType(t *testing.T) {
	tags := validTags()
	tags["grade"] = 10
	tags["term"] = true

	report := Validate(tags, false)

	if report.Valid {
		t.Fatal("expected invalid")
	}
	if len(report.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2", report.Errors)
	}
	if report.Errors[0] != "Field 'grade' must be a string, got number" {
		t.Errorf("grade error = %q", report.Errors[0])
	}
	if report.Errors[1] != "Optional field 'term' must be a string, got boolean" {
		t.Errorf("term error = %q", report.Errors[1])
	}
}

func TestValidate_BoardNormalizationWarning(t *testing.T) {
	tags := validTags()
	tags["board"] = "Tamil Nadu Board"

	report := Validate(tags, false)

	if !report.Valid {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if report.Normalized["board"] != "TAMIL_NADU_BOARD" {
		t.Errorf("normalized board = %q", report.Normalized["board"])
	}
	want := "Board name normalized: 'Tamil Nadu Board' -> 'TAMIL_NADU_BOARD'"
	if len(report.Warnings) != 1 || report.Warnings[0] != want {
		t.Errorf("Warnings = %v, want [%q]", report.Warnings, want)
	}
}

func TestValidate_UnknownFieldsDropped(t *testing.T) {
	tags := validTags()
	tags["xtra"] = "1"
	tags["custom_tag"] = "2"

	report := Validate(tags, false)

	if !report.Valid {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if _, ok := report.Normalized["xtra"]; ok {
		t.Error("unknown field retained in normalized output")
	}
	want := "Unknown fields found (will be ignored): custom_tag, xtra"
	if len(report.Warnings) != 1 || report.Warnings[0] != want {
		t.Errorf("Warnings = %v, want [%q]", report.Warnings, want)
	}
}

func TestValidate_NonLowercaseKey(t *testing.T) {
	report := Validate(map[string]any{
		"Board":   "CBSE",
		"grade":   "10",
		"subject": "Science",
	}, false)

	// Lookups are exact: 'Board' is unknown and 'board' is missing.
	if report.Valid {
		t.Fatal("expected invalid")
	}
	if len(report.Errors) != 1 || report.Errors[0] != "Missing required field: 'board'" {
		t.Errorf("Errors = %v", report.Errors)
	}

	var caseWarn, unknownWarn bool
	for _, w := range report.Warnings {
		if w == "Key 'Board' should be lowercase (use 'board')" {
			caseWarn = true
		}
		if strings.Contains(w, "Unknown fields found") && strings.Contains(w, "Board") {
			unknownWarn = true
		}
	}
	if !caseWarn {
		t.Errorf("missing case warning, got %v", report.Warnings)
	}
	if !unknownWarn {
		t.Errorf("missing unknown-field warning, got %v", report.Warnings)
	}
}

func TestValidate_EnumStrict(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		strict  bool
		wantErr bool
	}{
		{"content_type valid strict", "content_type", "theory", true, false},
		{"content_type invalid strict", "content_type", "videos", true, true},
		{"content_type invalid lenient", "content_type", "videos", false, false},
		{"difficulty valid strict", "difficulty", "medium", true, false},
		{"difficulty invalid strict", "difficulty", "expert", true, true},
		{"difficulty invalid lenient", "difficulty", "expert", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := validTags()
			tags[tt.field] = tt.value

			report := Validate(tags, tt.strict)

			if tt.wantErr {
				if report.Valid {
					t.Fatal("expected invalid")
				}
				if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], tt.field) {
					t.Errorf("Errors = %v", report.Errors)
				}
				return
			}
			if !report.Valid {
				t.Fatalf("unexpected errors: %v", report.Errors)
			}
			if report.Normalized[tt.field] != tt.value {
				t.Errorf("normalized %s = %q", tt.field, report.Normalized[tt.field])
			}
		})
	}
}

func TestValidate_TrimWarning(t *testing.T) {
	tags := validTags()
	tags["publisher"] = " NCERT "

	report := Validate(tags, false)

	if !report.Valid {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if report.Normalized["publisher"] != "NCERT" {
		t.Errorf("normalized publisher = %q", report.Normalized["publisher"])
	}
	want := "Field 'publisher' normalized: ' NCERT ' -> 'NCERT'"
	if len(report.Warnings) != 1 || report.Warnings[0] != want {
		t.Errorf("Warnings = %v, want [%q]", report.Warnings, want)
	}
}

func TestValidate_CompleteTagSet(t *testing.T) {
	tags := map[string]any{
		"board": "CBSE", "grade": "10", "subject": "Mathematics",
		"term": "1", "chapter": "Algebra", "chapter_number": "3",
		"publisher": "NCERT", "edition": "2024", "language": "English",
		"content_type": "theory", "difficulty": "medium",
	}

	report := Validate(tags, true)

	if !report.Valid {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", report.Warnings)
	}
	if len(report.Normalized) != 11 {
		t.Errorf("normalized has %d fields, want 11", len(report.Normalized))
	}
}

func TestInfo(t *testing.T) {
	info := Info()

	if len(info.RequiredFields) != 3 {
		t.Errorf("RequiredFields = %v", info.RequiredFields)
	}
	if len(info.OptionalFields) != 8 {
		t.Errorf("OptionalFields = %v", info.OptionalFields)
	}
	if info.FieldTypes["board"] != "string" {
		t.Errorf("FieldTypes[board] = %q", info.FieldTypes["board"])
	}
	if _, ok := info.Examples["minimum"]; !ok {
		t.Error("missing minimum example")
	}
}
