package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
)

// ImportFiles ingests each source: the inline text is chunked, every
// chunk embedded and stored alongside the tag-set. Sources without
// inline text cannot be ingested locally and count as failed. One
// failing source does not abort the rest.
func (d *Driver) ImportFiles(ctx context.Context, corpusID string, sources []corpus.ImportSource) (outcome corpus.ImportOutcome, err error) {
	defer func(start time.Time) { observe("import_files", start, err) }(time.Now())

	id, err := parseID(corpusID, domain.ErrCorpusNotFound)
	if err != nil {
		return corpus.ImportOutcome{}, err
	}
	if err := d.requireCorpus(ctx, id); err != nil {
		return corpus.ImportOutcome{}, err
	}

	for _, src := range sources {
		if strings.TrimSpace(src.Text) == "" {
			outcome.Failed++
			continue
		}
		if err := d.ingestSource(ctx, id, src); err != nil {
			outcome.Failed++
			continue
		}
		outcome.Imported++
	}
	return outcome, nil
}

// ingestSource stores one document: a file row plus embedded chunks,
// atomically.
func (d *Driver) ingestSource(ctx context.Context, corpusID uuid.UUID, src corpus.ImportSource) error {
	var metaJSON []byte
	if len(src.Metadata) > 0 {
		data, err := json.Marshal(src.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metaJSON = data
	}

	chunks := splitText(src.Text, d.chunkSize, d.chunkOverlap)

	// Embed before opening the transaction: provider calls are slow and
	// must not hold row locks.
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		emb, err := d.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		vectors[i] = emb.Embedding
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return providerErr("begin import", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	fileID := uuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO corpus_files (id, corpus_id, display_name, source_uri, size_bytes, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fileID, corpusID, displayNameFromURI(src.URI), src.URI, int64(len(src.Text)), metaJSON)
	if err != nil {
		return providerErr("insert file", err)
	}

	for i, chunk := range chunks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO corpus_chunks (corpus_id, file_id, content, embedding, metadata)
			 VALUES ($1, $2, $3, $4, $5)`,
			corpusID, fileID, chunk, vectorParam(vectors[i]), metaJSON)
		if err != nil {
			return providerErr(fmt.Sprintf("insert chunk %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return providerErr("commit import", err)
	}
	return nil
}

// splitText cuts text into overlapping rune windows.
func splitText(text string, maxChunkSize, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= maxChunkSize {
		return []string{text}
	}

	var chunks []string
	for i := 0; i < len(runes); {
		end := i + maxChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == len(runes) {
			break
		}

		step := maxChunkSize - overlap
		if step <= 0 {
			step = 1
		}
		i += step
	}

	return chunks
}

// displayNameFromURI derives a file display name from the source URI.
func displayNameFromURI(uri string) string {
	if uri == "" {
		return "document"
	}
	name := uri
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "#"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "document"
	}
	return name
}
