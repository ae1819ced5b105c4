package corpus

import (
	"context"

	domcorpus "github.com/kailas-cloud/ragdex/internal/domain/corpus"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
)

// Directory is the provider contract for corpus and file management.
type Directory interface {
	ListCorpora(ctx context.Context) ([]domcorpus.Corpus, error)
	GetCorpus(ctx context.Context, corpusID string) (domcorpus.Corpus, error)
	CreateCorpus(ctx context.Context, displayName, description string) (domcorpus.Corpus, error)
	UpdateCorpus(ctx context.Context, corpusID string, displayName, description *string) (domcorpus.Corpus, error)
	DeleteCorpus(ctx context.Context, corpusID string, force bool) error
	ImportFiles(ctx context.Context, corpusID string, sources []domcorpus.ImportSource) (domcorpus.ImportOutcome, error)
	ListFiles(ctx context.Context, corpusID string, pageSize int, pageToken string) ([]domcorpus.File, string, error)
	GetFile(ctx context.Context, corpusID, fileID string) (domcorpus.File, error)
	DeleteFile(ctx context.Context, corpusID, fileID string) error
}

// Sampler runs unfiltered sample queries for metadata inspection.
type Sampler interface {
	Query(ctx context.Context, corpusID string, params domquery.Params) (queryuc.Result, error)
}
