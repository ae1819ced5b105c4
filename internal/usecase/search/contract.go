package search

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
)

// Directory lists available corpora for discovery and name resolution.
type Directory interface {
	ListCorpora(ctx context.Context) ([]corpus.Corpus, error)
}

// Executor runs one single-corpus query with post-processing (page
// recovery, client-side filtering, top-k cap) already applied.
type Executor interface {
	Query(ctx context.Context, corpusID string, params domquery.Params) (queryuc.Result, error)
}
