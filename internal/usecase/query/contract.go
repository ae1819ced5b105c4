package query

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
)

// Retriever is the provider contract for raw candidate retrieval.
// Implementations honor params.Fetch and treat the threshold as a hint;
// SupportsMetadataFilter reports whether filter criteria are applied
// server-side, which decides how wide the executor fetches.
type Retriever interface {
	Query(ctx context.Context, corpusID string, params domquery.Params) ([]passage.Passage, error)
	SupportsMetadataFilter() bool
}
