package ragdex

import (
	"context"
	"fmt"
	"time"

	corpusuc "github.com/kailas-cloud/ragdex/internal/usecase/corpus"
)

// CorpusService manages corpora and their files.
type CorpusService struct {
	svc corpusUseCase
	obs *observer
}

// Create provisions a new corpus.
func (s *CorpusService) Create(
	ctx context.Context, name, description string,
) (_ CorpusInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("corpus.create", start, err) }()

	c, err := s.svc.Create(ctx, name, description)
	if err != nil {
		return CorpusInfo{}, fmt.Errorf("create corpus: %w", err)
	}
	return fromInternalCorpus(c), nil
}

// Get retrieves one corpus by id.
func (s *CorpusService) Get(ctx context.Context, corpusID string) (_ CorpusInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("corpus.get", start, err) }()

	c, err := s.svc.Get(ctx, corpusID)
	if err != nil {
		return CorpusInfo{}, fmt.Errorf("get corpus: %w", err)
	}
	return fromInternalCorpus(c), nil
}

// List returns all corpora known to the provider.
func (s *CorpusService) List(ctx context.Context) (_ []CorpusInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("corpus.list", start, err) }()

	corpora, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}
	out := make([]CorpusInfo, len(corpora))
	for i, c := range corpora {
		out[i] = fromInternalCorpus(c)
	}
	return out, nil
}

// Update changes the display name and/or description of a corpus.
// Nil leaves a field unchanged; at least one must be given.
func (s *CorpusService) Update(
	ctx context.Context, corpusID string, name, description *string,
) (_ CorpusInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("corpus.update", start, err) }()

	c, err := s.svc.Update(ctx, corpusID, name, description)
	if err != nil {
		return CorpusInfo{}, fmt.Errorf("update corpus: %w", err)
	}
	return fromInternalCorpus(c), nil
}

// Delete removes a corpus. force is required when it still holds
// files; without it the call fails with ErrCorpusNotEmpty.
func (s *CorpusService) Delete(ctx context.Context, corpusID string, force bool) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("corpus.delete", start, err) }()

	if err = s.svc.Delete(ctx, corpusID, force); err != nil {
		return fmt.Errorf("delete corpus: %w", err)
	}
	return nil
}

// Import validates every file's metadata and forwards the batch to the
// provider. Any invalid tag-set aborts the whole import with
// ErrInvalidMetadata before the provider is called; the report carries
// normalization warnings for tag-sets that passed.
func (s *CorpusService) Import(
	ctx context.Context, corpusID string, files []ImportFile,
) (_ ImportReport, err error) {
	start := time.Now()
	defer func() { s.obs.observe("corpus.import", start, err) }()

	reqs := make([]corpusuc.ImportRequest, len(files))
	for i, f := range files {
		reqs[i] = corpusuc.ImportRequest{URI: f.URI, Text: f.Text, Metadata: f.Metadata}
	}
	outcome, warnings, err := s.svc.ImportFiles(ctx, corpusID, reqs)
	if err != nil {
		return ImportReport{}, fmt.Errorf("import files: %w", err)
	}
	return ImportReport{
		Imported: outcome.Imported,
		Failed:   outcome.Failed,
		Warnings: warnings,
	}, nil
}

// Files pages through a corpus's imported files. pageSize 0 uses the
// configured default; pageToken empty starts from the beginning.
func (s *CorpusService) Files(
	ctx context.Context, corpusID string, pageSize int, pageToken string,
) (_ FilePage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("file.list", start, err) }()

	files, next, err := s.svc.ListFiles(ctx, corpusID, pageSize, pageToken)
	if err != nil {
		return FilePage{}, fmt.Errorf("list files: %w", err)
	}
	page := FilePage{Files: make([]FileInfo, len(files)), NextPageToken: next}
	for i, f := range files {
		page.Files[i] = fromInternalFile(f)
	}
	return page, nil
}

// File retrieves one imported file's record.
func (s *CorpusService) File(ctx context.Context, corpusID, fileID string) (_ FileInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("file.get", start, err) }()

	f, err := s.svc.GetFile(ctx, corpusID, fileID)
	if err != nil {
		return FileInfo{}, fmt.Errorf("get file: %w", err)
	}
	return fromInternalFile(f), nil
}

// DeleteFile removes one imported file.
func (s *CorpusService) DeleteFile(ctx context.Context, corpusID, fileID string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("file.delete", start, err) }()

	if err = s.svc.DeleteFile(ctx, corpusID, fileID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// Inspect samples a corpus with a broad unfiltered query and reports
// which metadata fields and values its passages actually carry. Empty
// sampleQuery and zero sampleSize use the configured defaults.
func (s *CorpusService) Inspect(
	ctx context.Context, corpusID, sampleQuery string, sampleSize int,
) (_ MetadataInspection, err error) {
	start := time.Now()
	defer func() { s.obs.observe("corpus.inspect", start, err) }()

	in, err := s.svc.InspectMetadata(ctx, corpusID, sampleQuery, sampleSize)
	if err != nil {
		return MetadataInspection{}, fmt.Errorf("inspect metadata: %w", err)
	}
	return fromInternalInspection(in), nil
}
