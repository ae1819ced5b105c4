package metadata

import (
	"fmt"
	"sort"
	"strings"
)

// Report is the outcome of validating one metadata tag-set.
// Normalized is populated only when Errors is empty.
type Report struct {
	Valid      bool
	Errors     []string
	Warnings   []string
	Normalized map[string]string
}

// Validate checks a raw tag-set against the schema. Values are untyped
// because tag-sets arrive as decoded JSON; non-string values are
// reported per field without short-circuiting the remaining checks.
// Required fields must be present, string-typed and non-empty after
// trimming.
//
// strict additionally enforces the content_type and difficulty enums,
// checked against the raw (untrimmed) value. Unknown keys warn and are
// excluded from the normalized output. Lookups are by exact key, so a
// required field supplied under a non-lowercase key counts as missing
// and surfaces as unknown, plus a casing warning.
//
// Import gate: callers must reject an import when Valid is false,
// surfacing the joined error list.
func Validate(tags map[string]any, strict bool) Report {
	var errs, warnings []string
	normalized := make(map[string]string, len(tags))

	for _, field := range requiredFields {
		value, ok := tags[field]
		if !ok {
			errs = append(errs, fmt.Sprintf("Missing required field: '%s'", field))
			continue
		}
		s, ok := value.(string)
		if !ok {
			errs = append(errs, fmt.Sprintf("Field '%s' must be a string, got %s", field, typeName(value)))
			continue
		}
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Sprintf("Required field '%s' must not be empty", field))
			continue
		}
		if field == FieldBoard {
			canon := NormalizeBoard(s)
			if canon != s {
				warnings = append(warnings, fmt.Sprintf("Board name normalized: '%s' -> '%s'", s, canon))
			}
			normalized[field] = canon
			continue
		}
		normalized[field] = trimWarn(field, s, &warnings)
	}

	for _, field := range optionalFields {
		value, ok := tags[field]
		if !ok {
			continue
		}
		s, ok := value.(string)
		if !ok {
			errs = append(errs, fmt.Sprintf("Optional field '%s' must be a string, got %s", field, typeName(value)))
			continue
		}
		if strict {
			if field == FieldContentType && !contains(AllowedContentTypes, s) {
				errs = append(errs, enumError(FieldContentType, AllowedContentTypes, s))
				continue
			}
			if field == FieldDifficulty && !contains(AllowedDifficultyLevels, s) {
				errs = append(errs, enumError(FieldDifficulty, AllowedDifficultyLevels, s))
				continue
			}
		}
		normalized[field] = trimWarn(field, s, &warnings)
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var unknown []string
	for _, k := range keys {
		if !recognizedFields[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		warnings = append(warnings, fmt.Sprintf("Unknown fields found (will be ignored): %s", strings.Join(unknown, ", ")))
	}
	for _, k := range keys {
		if lower := strings.ToLower(k); k != lower {
			warnings = append(warnings, fmt.Sprintf("Key '%s' should be lowercase (use '%s')", k, lower))
		}
	}

	report := Report{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
	if report.Valid {
		report.Normalized = normalized
	}
	return report
}

func trimWarn(field, value string, warnings *[]string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed != value {
		*warnings = append(*warnings, fmt.Sprintf("Field '%s' normalized: '%s' -> '%s'", field, value, trimmed))
	}
	return trimmed
}

func enumError(field string, allowed []string, got string) string {
	return fmt.Sprintf("%s must be one of [%s], got '%s'", field, strings.Join(allowed, ", "), got)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// typeName renders a decoded value's type the way clients sent it.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, int, int64, float32:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
