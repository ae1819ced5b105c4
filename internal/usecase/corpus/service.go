// Package corpus implements corpus and file management over a
// retrieval provider: CRUD, the metadata-validated import gate, and
// corpus introspection.
package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
	domcorpus "github.com/kailas-cloud/ragdex/internal/domain/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
)

// ImportRequest is one document submitted for import, its metadata not
// yet validated. Text carries inline content for providers that ingest
// locally instead of fetching the URI.
type ImportRequest struct {
	URI      string
	Text     string
	Metadata map[string]any
}

// Service handles corpus management operations.
type Service struct {
	directory Directory
	sampler   Sampler
	cfg       domain.QueryConfig
}

// New creates a corpus service.
func New(directory Directory, sampler Sampler, cfg domain.QueryConfig) *Service {
	return &Service{directory: directory, sampler: sampler, cfg: cfg}
}

// Create provisions a new corpus.
func (s *Service) Create(ctx context.Context, displayName, description string) (domcorpus.Corpus, error) {
	if err := domcorpus.ValidateDisplayName(displayName); err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err := domcorpus.ValidateDescription(description); err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	created, err := s.directory.CreateCorpus(ctx, strings.TrimSpace(displayName), description)
	if err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("create corpus: %w", err)
	}
	return created, nil
}

// Update changes the display name and/or description of a corpus. At
// least one field must be provided.
func (s *Service) Update(ctx context.Context, corpusID string, displayName, description *string) (domcorpus.Corpus, error) {
	if displayName == nil && description == nil {
		return domcorpus.Corpus{}, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if displayName != nil {
		if err := domcorpus.ValidateDisplayName(*displayName); err != nil {
			return domcorpus.Corpus{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}
	if description != nil {
		if err := domcorpus.ValidateDescription(*description); err != nil {
			return domcorpus.Corpus{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}
	updated, err := s.directory.UpdateCorpus(ctx, corpusID, displayName, description)
	if err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("update corpus: %w", err)
	}
	return updated, nil
}

// List returns all corpora known to the provider.
func (s *Service) List(ctx context.Context) ([]domcorpus.Corpus, error) {
	corpora, err := s.directory.ListCorpora(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}
	return corpora, nil
}

// Get returns one corpus by id.
func (s *Service) Get(ctx context.Context, corpusID string) (domcorpus.Corpus, error) {
	c, err := s.directory.GetCorpus(ctx, corpusID)
	if err != nil {
		return domcorpus.Corpus{}, fmt.Errorf("get corpus: %w", err)
	}
	return c, nil
}

// Delete removes a corpus. force is required when it still holds
// files; without it the provider refuses with ErrCorpusNotEmpty.
func (s *Service) Delete(ctx context.Context, corpusID string, force bool) error {
	if err := s.directory.DeleteCorpus(ctx, corpusID, force); err != nil {
		return fmt.Errorf("delete corpus: %w", err)
	}
	return nil
}

// ImportFiles validates every source's metadata tag-set and forwards
// the batch to the provider with normalized tags. Any invalid tag-set
// aborts the whole import before the provider is called; the returned
// warnings carry normalization notes for tag-sets that passed.
func (s *Service) ImportFiles(ctx context.Context, corpusID string, reqs []ImportRequest) (domcorpus.ImportOutcome, []string, error) {
	if len(reqs) == 0 {
		return domcorpus.ImportOutcome{}, nil, fmt.Errorf("%w: no sources to import", domain.ErrValidation)
	}

	sources := make([]domcorpus.ImportSource, 0, len(reqs))
	var errs, warnings []string
	for i, r := range reqs {
		if r.URI == "" && r.Text == "" {
			errs = append(errs, sourceLabel(i, len(reqs))+"source location required: provide 'uri' or 'text'")
			continue
		}
		report := metadata.Validate(r.Metadata, false)
		if !report.Valid {
			for _, e := range report.Errors {
				errs = append(errs, sourceLabel(i, len(reqs))+e)
			}
			continue
		}
		for _, w := range report.Warnings {
			warnings = append(warnings, sourceLabel(i, len(reqs))+w)
		}
		sources = append(sources, domcorpus.ImportSource{
			URI:      r.URI,
			Text:     r.Text,
			Metadata: report.Normalized,
		})
	}
	if len(errs) > 0 {
		return domcorpus.ImportOutcome{}, nil, domain.NewMetadataValidation(errs)
	}

	outcome, err := s.directory.ImportFiles(ctx, corpusID, sources)
	if err != nil {
		return domcorpus.ImportOutcome{}, nil, fmt.Errorf("import files: %w", err)
	}
	return outcome, warnings, nil
}

// sourceLabel prefixes per-source messages in multi-source batches.
// Single-source imports keep the bare validator wording.
func sourceLabel(i, total int) string {
	if total < 2 {
		return ""
	}
	return fmt.Sprintf("source %d: ", i+1)
}

// ListFiles pages through a corpus's files. pageSize falls back to the
// configured default and is capped at the configured maximum.
func (s *Service) ListFiles(ctx context.Context, corpusID string, pageSize int, pageToken string) ([]domcorpus.File, string, error) {
	if pageSize <= 0 {
		pageSize = s.cfg.PageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}
	files, next, err := s.directory.ListFiles(ctx, corpusID, pageSize, pageToken)
	if err != nil {
		return nil, "", fmt.Errorf("list files: %w", err)
	}
	return files, next, nil
}

// GetFile returns one imported file's record.
func (s *Service) GetFile(ctx context.Context, corpusID, fileID string) (domcorpus.File, error) {
	f, err := s.directory.GetFile(ctx, corpusID, fileID)
	if err != nil {
		return domcorpus.File{}, fmt.Errorf("get file: %w", err)
	}
	return f, nil
}

// DeleteFile removes one imported file.
func (s *Service) DeleteFile(ctx context.Context, corpusID, fileID string) error {
	if err := s.directory.DeleteFile(ctx, corpusID, fileID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// SchemaInfo describes the metadata schema imports are validated
// against. Pure, no provider calls.
func (s *Service) SchemaInfo() metadata.SchemaInfo {
	return metadata.Info()
}
