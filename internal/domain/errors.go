package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation signals malformed caller input, caught before any
	// provider call.
	ErrValidation = errors.New("validation failed")
	// ErrCorpusNotFound signals a missing corpus.
	ErrCorpusNotFound = errors.New("corpus not found")
	// ErrFileNotFound signals a missing corpus file.
	ErrFileNotFound = errors.New("corpus file not found")
	// ErrInvalidMetadata signals a metadata tag-set rejected by validation.
	ErrInvalidMetadata = errors.New("invalid metadata")
	// ErrDiscoveryFailed signals that listing the available corpora failed.
	ErrDiscoveryFailed = errors.New("corpus discovery failed")
	// ErrCorpusNotEmpty signals a delete of a corpus that still holds files.
	ErrCorpusNotEmpty = errors.New("corpus not empty")

	// ErrUnauthorized signals a rejected credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrProviderUnavailable signals a retrieval provider failure.
	ErrProviderUnavailable = errors.New("retrieval provider unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// MetadataValidationError wraps ErrInvalidMetadata with the per-field error list
// produced by schema validation.
type MetadataValidationError struct {
	Errors []string
}

func (e *MetadataValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidMetadata.Error(), strings.Join(e.Errors, "; "))
}

func (e *MetadataValidationError) Unwrap() error { return ErrInvalidMetadata }

// NewMetadataValidation creates a validation error from a report's error list.
func NewMetadataValidation(errs []string) error {
	return &MetadataValidationError{Errors: errs}
}
