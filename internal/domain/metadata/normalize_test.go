package metadata

import "testing"

func TestNormalizeBoard(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"camel case", "TamilNaduBoard", "TAMIL_NADU_BOARD"},
		{"spaces", "Tamil Nadu Board", "TAMIL_NADU_BOARD"},
		{"already canonical", "TAMIL_NADU_BOARD", "TAMIL_NADU_BOARD"},
		{"lowercase", "cbse", "CBSE"},
		{"acronym stays whole", "CBSE", "CBSE"},
		{"hyphens and dots", "Tamil-Nadu.Board", "TAMIL_NADU_BOARD"},
		{"surrounding space", "  ICSE  ", "ICSE"},
		{"double spaces collapse", "State  Board", "STATE_BOARD"},
		{"edge underscores stripped", "_State_Board_", "STATE_BOARD"},
		{"digit to capital boundary", "Class10Board", "CLASS10_BOARD"},
		{"mixed everything", " tamil-nadu StateBoard ", "TAMIL_NADU_STATE_BOARD"},
		{"empty", "", ""},
		{"only separators", "-._", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBoard(tt.in); got != tt.want {
				t.Errorf("NormalizeBoard(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeBoard_Idempotent(t *testing.T) {
	inputs := []string{
		"TamilNaduBoard", "Tamil Nadu Board", "TAMIL_NADU_BOARD",
		"CBSE", "cbse", "State-Board", "IGCSE", "  IB  ",
		"MaharashtraStateBoard", "up_board", "Class10Board", "",
	}

	for _, in := range inputs {
		once := NormalizeBoard(in)
		twice := NormalizeBoard(once)
		if once != twice {
			t.Errorf("NormalizeBoard not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	if got := NormalizeValue(FieldBoard, "stateBoard"); got != "STATE_BOARD" {
		t.Errorf("board value = %q, want %q", got, "STATE_BOARD")
	}
	if got := NormalizeValue(FieldSubject, "  Mathematics "); got != "Mathematics" {
		t.Errorf("subject value = %q, want %q", got, "Mathematics")
	}
	if got := NormalizeValue(FieldGrade, " 10 "); got != "10" {
		t.Errorf("grade value = %q, want %q", got, "10")
	}
}
