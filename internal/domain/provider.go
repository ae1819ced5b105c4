package domain

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	"github.com/kailas-cloud/ragdex/internal/domain/search/query"
)

// Directory is the shared corpus-management contract between layers.
// Implementations map provider identifiers and resource names to domain
// corpora; lookups for unknown corpora return ErrCorpusNotFound.
type Directory interface {
	ListCorpora(ctx context.Context) ([]corpus.Corpus, error)
	GetCorpus(ctx context.Context, corpusID string) (corpus.Corpus, error)
	CreateCorpus(ctx context.Context, displayName, description string) (corpus.Corpus, error)
	UpdateCorpus(ctx context.Context, corpusID string, displayName, description *string) (corpus.Corpus, error)
	DeleteCorpus(ctx context.Context, corpusID string, force bool) error
	ImportFiles(ctx context.Context, corpusID string, sources []corpus.ImportSource) (corpus.ImportOutcome, error)
	ListFiles(ctx context.Context, corpusID string, pageSize int, pageToken string) ([]corpus.File, string, error)
	GetFile(ctx context.Context, corpusID, fileID string) (corpus.File, error)
	DeleteFile(ctx context.Context, corpusID, fileID string) error
}

// Retriever runs a relevance query against a single corpus. Implementations
// that cannot filter by metadata server-side report it via
// SupportsMetadataFilter so callers can fall back to client-side filtering.
type Retriever interface {
	Query(ctx context.Context, corpusID string, params query.Params) ([]passage.Passage, error)
	SupportsMetadataFilter() bool
}

// Provider is the full retrieval backend contract.
type Provider interface {
	Directory
	Retriever
}
