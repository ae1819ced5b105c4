package metadata

import "strings"

// Filter is a canonicalized set of query-time filter criteria
// (immutable value object). The zero value matches everything.
type Filter struct {
	criteria map[string]string
}

// NewFilter canonicalizes raw criteria into a Filter. Unrecognized
// field names are dropped. Values are normalized with the same rules
// applied to stored metadata, so a filter and a tag entered in
// different casing conventions still compare equal.
func NewFilter(criteria map[string]string) Filter {
	if len(criteria) == 0 {
		return Filter{}
	}
	canonical := make(map[string]string, len(criteria))
	for field, value := range criteria {
		if !recognizedFields[field] {
			continue
		}
		canonical[field] = NormalizeValue(field, value)
	}
	if len(canonical) == 0 {
		return Filter{}
	}
	return Filter{criteria: canonical}
}

// IsEmpty reports whether the filter carries no criteria.
func (f Filter) IsEmpty() bool { return len(f.criteria) == 0 }

// Len returns the number of criteria.
func (f Filter) Len() int { return len(f.criteria) }

// Criteria returns a copy of the canonical criteria.
func (f Filter) Criteria() map[string]string {
	if len(f.criteria) == 0 {
		return nil
	}
	out := make(map[string]string, len(f.criteria))
	for k, v := range f.criteria {
		out[k] = v
	}
	return out
}

// Matches reports whether a stored tag-set satisfies every criterion.
// An empty filter matches everything; a nil or empty tag-set never
// matches a non-empty filter. The board field is compared through
// NormalizeBoard on both sides; all other fields compare
// case-insensitively after trimming.
func (f Filter) Matches(tags map[string]string) bool {
	if f.IsEmpty() {
		return true
	}
	if len(tags) == 0 {
		return false
	}
	for field, want := range f.criteria {
		got, ok := tags[field]
		if !ok {
			return false
		}
		if field == FieldBoard {
			if NormalizeBoard(got) != want {
				return false
			}
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(got), want) {
			return false
		}
	}
	return true
}
