package metadata

import (
	"regexp"
	"strings"
)

var (
	boardSeparators = strings.NewReplacer("-", "_", ".", "_")
	camelBoundary   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	underscoreRuns  = regexp.MustCompile(`_+`)
)

// NormalizeBoard canonicalizes a board name so differently-written
// variants compare equal: "TamilNaduBoard", "Tamil Nadu Board" and
// "TAMIL_NADU_BOARD" all normalize to "TAMIL_NADU_BOARD".
//
// Steps: trim, map "-"/"." to "_", split camelCase, uppercase, map
// spaces to "_", collapse underscore runs, strip edge underscores.
//
// The transformation is idempotent: the camel split fires only at a
// lowercase-or-digit to capital boundary, and no such boundary survives
// uppercasing. The same function is applied at import time, when
// building a filter, and on the stored side of every comparison.
func NormalizeBoard(value string) string {
	v := strings.TrimSpace(value)
	v = boardSeparators.Replace(v)
	v = camelBoundary.ReplaceAllString(v, "${1}_${2}")
	v = strings.ToUpper(v)
	v = strings.ReplaceAll(v, " ", "_")
	v = underscoreRuns.ReplaceAllString(v, "_")
	return strings.Trim(v, "_")
}

// NormalizeValue canonicalizes one field value for filtering: board goes
// through NormalizeBoard, every other field is trimmed.
func NormalizeValue(field, value string) string {
	if field == FieldBoard {
		return NormalizeBoard(value)
	}
	return strings.TrimSpace(value)
}
