package ragdex

import "github.com/kailas-cloud/ragdex/internal/domain/metadata"

// ValidationReport is the outcome of validating one metadata tag-set.
// Normalized is populated only when Errors is empty.
type ValidationReport struct {
	Valid      bool
	Errors     []string
	Warnings   []string
	Normalized map[string]string
}

// ValidateMetadata checks a tag-set against the import schema without
// touching the provider — the same gate Import applies to every
// source. strict additionally enforces the content_type and difficulty
// enums.
func ValidateMetadata(tags map[string]any, strict bool) ValidationReport {
	r := metadata.Validate(tags, strict)
	return ValidationReport{
		Valid:      r.Valid,
		Errors:     r.Errors,
		Warnings:   r.Warnings,
		Normalized: r.Normalized,
	}
}

// SchemaInfo describes the metadata schema imports are validated
// against.
type SchemaInfo struct {
	RequiredFields          []string
	OptionalFields          []string
	FieldTypes              map[string]string
	AllowedContentTypes     []string // enforced under strict validation
	AllowedDifficultyLevels []string // enforced under strict validation
	CommonBoards            []string // guidance only, any board is accepted
	Examples                map[string]map[string]string
}

// MetadataSchema returns the import schema: required and optional
// fields, strict-mode enums, and example tag-sets.
func MetadataSchema() SchemaInfo {
	info := metadata.Info()
	return SchemaInfo{
		RequiredFields:          info.RequiredFields,
		OptionalFields:          info.OptionalFields,
		FieldTypes:              info.FieldTypes,
		AllowedContentTypes:     info.AllowedContentTypes,
		AllowedDifficultyLevels: info.AllowedDifficultyLevels,
		CommonBoards:            info.CommonBoards,
		Examples:                info.Examples,
	}
}
