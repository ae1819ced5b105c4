package ragdex

import "github.com/kailas-cloud/ragdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation          = domain.ErrValidation
	ErrInvalidMetadata     = domain.ErrInvalidMetadata
	ErrCorpusNotFound      = domain.ErrCorpusNotFound
	ErrFileNotFound        = domain.ErrFileNotFound
	ErrCorpusNotEmpty      = domain.ErrCorpusNotEmpty
	ErrDiscoveryFailed     = domain.ErrDiscoveryFailed
	ErrUnauthorized        = domain.ErrUnauthorized
	ErrProviderUnavailable = domain.ErrProviderUnavailable
)
