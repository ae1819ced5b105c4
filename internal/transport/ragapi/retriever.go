package ragapi

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	"github.com/kailas-cloud/ragdex/internal/domain/search/query"
)

// Query runs a relevance query against one corpus. The API cannot filter
// by metadata, so the executor widens params.Fetch whenever it will
// filter candidates afterwards. The threshold is a provider hint.
func (c *Client) Query(ctx context.Context, corpusID string, params query.Params) ([]passage.Passage, error) {
	req := queryRequest{
		Query:     params.Text(),
		TopK:      params.Fetch(),
		Threshold: params.Threshold(),
	}

	var resp queryResponse
	path := corpusPath(corpusID) + "/query"
	if err := c.doJSON(ctx, "query", http.MethodPost, path, req, &resp, domain.ErrCorpusNotFound); err != nil {
		return nil, err
	}

	passages := make([]passage.Passage, len(resp.Contexts))
	for i, o := range resp.Contexts {
		passages[i] = passageFromWire(o)
	}
	return passages, nil
}
