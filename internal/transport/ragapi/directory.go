package ragapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
)

// Ping verifies API reachability with a minimal corpora listing.
func (c *Client) Ping(ctx context.Context) error {
	var resp listCorporaResponse
	return c.doJSON(ctx, "ping", http.MethodGet, "/corpora?page_size=1", nil, &resp, domain.ErrCorpusNotFound)
}

// ListCorpora fetches all corpora, following pagination to the end.
func (c *Client) ListCorpora(ctx context.Context) ([]corpus.Corpus, error) {
	var out []corpus.Corpus
	token := ""
	for {
		path := "/corpora"
		if token != "" {
			path += "?page_token=" + url.QueryEscape(token)
		}

		var resp listCorporaResponse
		if err := c.doJSON(ctx, "list_corpora", http.MethodGet, path, nil, &resp, domain.ErrCorpusNotFound); err != nil {
			return nil, err
		}
		for _, o := range resp.Corpora {
			out = append(out, corpusFromWire(o))
		}

		if resp.NextPageToken == "" {
			return out, nil
		}
		token = resp.NextPageToken
	}
}

// GetCorpus fetches a single corpus by id.
func (c *Client) GetCorpus(ctx context.Context, corpusID string) (corpus.Corpus, error) {
	var resp corpusObject
	if err := c.doJSON(ctx, "get_corpus", http.MethodGet, corpusPath(corpusID), nil, &resp, domain.ErrCorpusNotFound); err != nil {
		return corpus.Corpus{}, err
	}
	return corpusFromWire(resp), nil
}

// CreateCorpus provisions a new corpus.
func (c *Client) CreateCorpus(ctx context.Context, displayName, description string) (corpus.Corpus, error) {
	req := createCorpusRequest{DisplayName: displayName, Description: description}
	var resp corpusObject
	if err := c.doJSON(ctx, "create_corpus", http.MethodPost, "/corpora", req, &resp, domain.ErrCorpusNotFound); err != nil {
		return corpus.Corpus{}, err
	}
	return corpusFromWire(resp), nil
}

// UpdateCorpus patches display name and/or description. Nil fields are
// left unchanged.
func (c *Client) UpdateCorpus(ctx context.Context, corpusID string, displayName, description *string) (corpus.Corpus, error) {
	req := updateCorpusRequest{DisplayName: displayName, Description: description}
	var resp corpusObject
	if err := c.doJSON(ctx, "update_corpus", http.MethodPatch, corpusPath(corpusID), req, &resp, domain.ErrCorpusNotFound); err != nil {
		return corpus.Corpus{}, err
	}
	return corpusFromWire(resp), nil
}

// DeleteCorpus removes a corpus. Without force the API rejects deletion
// of a non-empty corpus with 409.
func (c *Client) DeleteCorpus(ctx context.Context, corpusID string, force bool) error {
	path := corpusPath(corpusID)
	if force {
		path += "?force=true"
	}
	return c.doJSON(ctx, "delete_corpus", http.MethodDelete, path, nil, nil, domain.ErrCorpusNotFound)
}

// ImportFiles queues documents for ingestion and reports the outcome.
func (c *Client) ImportFiles(ctx context.Context, corpusID string, sources []corpus.ImportSource) (corpus.ImportOutcome, error) {
	req := importFilesRequest{Sources: make([]importSourceObject, len(sources))}
	for i, s := range sources {
		req.Sources[i] = importSourceObject{URI: s.URI, Text: s.Text, Metadata: s.Metadata}
	}

	var resp importFilesResponse
	path := corpusPath(corpusID) + "/files/import"
	if err := c.doJSON(ctx, "import_files", http.MethodPost, path, req, &resp, domain.ErrCorpusNotFound); err != nil {
		return corpus.ImportOutcome{}, err
	}
	return corpus.ImportOutcome{Imported: resp.ImportedCount, Failed: resp.FailedCount}, nil
}

// ListFiles fetches one page of the corpus file listing.
func (c *Client) ListFiles(ctx context.Context, corpusID string, pageSize int, pageToken string) ([]corpus.File, string, error) {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprintf("%d", pageSize))
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	path := corpusPath(corpusID) + "/files"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp listFilesResponse
	if err := c.doJSON(ctx, "list_files", http.MethodGet, path, nil, &resp, domain.ErrCorpusNotFound); err != nil {
		return nil, "", err
	}

	files := make([]corpus.File, len(resp.Files))
	for i, o := range resp.Files {
		files[i] = fileFromWire(o)
	}
	return files, resp.NextPageToken, nil
}

// GetFile fetches a single file record.
func (c *Client) GetFile(ctx context.Context, corpusID, fileID string) (corpus.File, error) {
	var resp fileObject
	if err := c.doJSON(ctx, "get_file", http.MethodGet, filePath(corpusID, fileID), nil, &resp, domain.ErrFileNotFound); err != nil {
		return corpus.File{}, err
	}
	return fileFromWire(resp), nil
}

// DeleteFile removes a file from the corpus.
func (c *Client) DeleteFile(ctx context.Context, corpusID, fileID string) error {
	return c.doJSON(ctx, "delete_file", http.MethodDelete, filePath(corpusID, fileID), nil, nil, domain.ErrFileNotFound)
}

func corpusPath(corpusID string) string {
	return "/corpora/" + url.PathEscape(corpusID)
}

func filePath(corpusID, fileID string) string {
	return corpusPath(corpusID) + "/files/" + url.PathEscape(fileID)
}
