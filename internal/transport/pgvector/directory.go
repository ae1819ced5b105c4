package pgvector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
)

const corpusColumns = `c.id, c.display_name, c.description, c.state, c.created_at,
	(SELECT COUNT(*) FROM corpus_files f WHERE f.corpus_id = c.id)`

// ListCorpora returns all corpora ordered by creation time.
func (d *Driver) ListCorpora(ctx context.Context) (items []corpus.Corpus, err error) {
	defer func(start time.Time) { observe("list_corpora", start, err) }(time.Now())

	rows, err := d.db.QueryContext(ctx,
		`SELECT `+corpusColumns+` FROM corpora c ORDER BY c.created_at, c.id`)
	if err != nil {
		return nil, providerErr("list corpora", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, scanErr := scanCorpus(rows)
		if scanErr != nil {
			return nil, providerErr("scan corpus", scanErr)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, providerErr("list corpora", err)
	}
	return items, nil
}

// GetCorpus returns a single corpus by id.
func (d *Driver) GetCorpus(ctx context.Context, corpusID string) (item corpus.Corpus, err error) {
	defer func(start time.Time) { observe("get_corpus", start, err) }(time.Now())

	id, err := parseID(corpusID, domain.ErrCorpusNotFound)
	if err != nil {
		return corpus.Corpus{}, err
	}

	row := d.db.QueryRowContext(ctx,
		`SELECT `+corpusColumns+` FROM corpora c WHERE c.id = $1`, id)
	item, err = scanCorpus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return corpus.Corpus{}, domain.ErrCorpusNotFound
	}
	if err != nil {
		return corpus.Corpus{}, providerErr("get corpus", err)
	}
	return item, nil
}

// CreateCorpus inserts a corpus with a fresh UUID.
func (d *Driver) CreateCorpus(ctx context.Context, displayName, description string) (item corpus.Corpus, err error) {
	defer func(start time.Time) { observe("create_corpus", start, err) }(time.Now())

	id := uuid.New()
	var createdAt time.Time
	err = d.db.QueryRowContext(ctx,
		`INSERT INTO corpora (id, display_name, description) VALUES ($1, $2, $3) RETURNING created_at`,
		id, displayName, description).Scan(&createdAt)
	if err != nil {
		return corpus.Corpus{}, providerErr("create corpus", err)
	}
	return corpus.Reconstruct(id.String(), displayName, description, 0, corpus.StateActive, createdAt.UnixMilli()), nil
}

// UpdateCorpus patches the given fields; nil fields stay unchanged.
func (d *Driver) UpdateCorpus(ctx context.Context, corpusID string, displayName, description *string) (item corpus.Corpus, err error) {
	defer func(start time.Time) { observe("update_corpus", start, err) }(time.Now())

	id, err := parseID(corpusID, domain.ErrCorpusNotFound)
	if err != nil {
		return corpus.Corpus{}, err
	}

	sets, args := buildUpdateSet(displayName, description)
	if len(sets) == 0 {
		return d.GetCorpus(ctx, corpusID)
	}
	args = append(args, id)

	res, err := d.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE corpora SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return corpus.Corpus{}, providerErr("update corpus", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return corpus.Corpus{}, domain.ErrCorpusNotFound
	}
	return d.GetCorpus(ctx, corpusID)
}

// DeleteCorpus removes a corpus. Without force, deletion is rejected
// while the corpus still has files.
func (d *Driver) DeleteCorpus(ctx context.Context, corpusID string, force bool) (err error) {
	defer func(start time.Time) { observe("delete_corpus", start, err) }(time.Now())

	id, err := parseID(corpusID, domain.ErrCorpusNotFound)
	if err != nil {
		return err
	}

	if !force {
		var n int
		if err := d.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM corpus_files WHERE corpus_id = $1`, id).Scan(&n); err != nil {
			return providerErr("count files", err)
		}
		if n > 0 {
			return fmt.Errorf("corpus has %d files: %w", n, domain.ErrCorpusNotEmpty)
		}
	}

	res, err := d.db.ExecContext(ctx, `DELETE FROM corpora WHERE id = $1`, id)
	if err != nil {
		return providerErr("delete corpus", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCorpusNotFound
	}
	return nil
}

// ListFiles returns one page of the corpus file listing. Page tokens are
// numeric offsets.
func (d *Driver) ListFiles(ctx context.Context, corpusID string, pageSize int, pageToken string) (files []corpus.File, next string, err error) {
	defer func(start time.Time) { observe("list_files", start, err) }(time.Now())

	id, err := parseID(corpusID, domain.ErrCorpusNotFound)
	if err != nil {
		return nil, "", err
	}
	if err := d.requireCorpus(ctx, id); err != nil {
		return nil, "", err
	}

	offset := 0
	if pageToken != "" {
		offset, err = strconv.Atoi(pageToken)
		if err != nil || offset < 0 {
			return nil, "", fmt.Errorf("invalid page token %q", pageToken)
		}
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	// Fetch one extra row to detect whether another page exists.
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, display_name, source_uri, size_bytes, imported_at
		 FROM corpus_files WHERE corpus_id = $1
		 ORDER BY imported_at, id LIMIT $2 OFFSET $3`,
		id, pageSize+1, offset)
	if err != nil {
		return nil, "", providerErr("list files", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			fileID     uuid.UUID
			name, uri  string
			sizeBytes  int64
			importedAt time.Time
		)
		if err := rows.Scan(&fileID, &name, &uri, &sizeBytes, &importedAt); err != nil {
			return nil, "", providerErr("scan file", err)
		}
		files = append(files, corpus.ReconstructFile(fileID.String(), name, uri, sizeBytes, importedAt.UnixMilli()))
	}
	if err := rows.Err(); err != nil {
		return nil, "", providerErr("list files", err)
	}

	if len(files) > pageSize {
		files = files[:pageSize]
		next = strconv.Itoa(offset + pageSize)
	}
	return files, next, nil
}

// GetFile returns a single file record.
func (d *Driver) GetFile(ctx context.Context, corpusID, fileID string) (file corpus.File, err error) {
	defer func(start time.Time) { observe("get_file", start, err) }(time.Now())

	cid, err := parseID(corpusID, domain.ErrCorpusNotFound)
	if err != nil {
		return corpus.File{}, err
	}
	fid, err := parseID(fileID, domain.ErrFileNotFound)
	if err != nil {
		return corpus.File{}, err
	}

	var (
		name, uri  string
		sizeBytes  int64
		importedAt time.Time
	)
	err = d.db.QueryRowContext(ctx,
		`SELECT display_name, source_uri, size_bytes, imported_at
		 FROM corpus_files WHERE corpus_id = $1 AND id = $2`,
		cid, fid).Scan(&name, &uri, &sizeBytes, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return corpus.File{}, domain.ErrFileNotFound
	}
	if err != nil {
		return corpus.File{}, providerErr("get file", err)
	}
	return corpus.ReconstructFile(fid.String(), name, uri, sizeBytes, importedAt.UnixMilli()), nil
}

// DeleteFile removes a file and its chunks (cascade).
func (d *Driver) DeleteFile(ctx context.Context, corpusID, fileID string) (err error) {
	defer func(start time.Time) { observe("delete_file", start, err) }(time.Now())

	cid, err := parseID(corpusID, domain.ErrCorpusNotFound)
	if err != nil {
		return err
	}
	fid, err := parseID(fileID, domain.ErrFileNotFound)
	if err != nil {
		return err
	}

	res, err := d.db.ExecContext(ctx,
		`DELETE FROM corpus_files WHERE corpus_id = $1 AND id = $2`, cid, fid)
	if err != nil {
		return providerErr("delete file", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

// requireCorpus fails with ErrCorpusNotFound when the corpus is missing.
func (d *Driver) requireCorpus(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM corpora WHERE id = $1)`, id).Scan(&exists); err != nil {
		return providerErr("check corpus", err)
	}
	if !exists {
		return domain.ErrCorpusNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCorpus(s scanner) (corpus.Corpus, error) {
	var (
		id         uuid.UUID
		name, desc string
		state      string
		createdAt  time.Time
		fileCount  int
	)
	if err := s.Scan(&id, &name, &desc, &state, &createdAt, &fileCount); err != nil {
		return corpus.Corpus{}, err
	}
	return corpus.Reconstruct(id.String(), name, desc, fileCount, corpus.State(state), createdAt.UnixMilli()), nil
}

// buildUpdateSet collects SET clauses for the non-nil fields.
func buildUpdateSet(displayName, description *string) ([]string, []any) {
	var sets []string
	var args []any
	if displayName != nil {
		args = append(args, *displayName)
		sets = append(sets, fmt.Sprintf("display_name = $%d", len(args)))
	}
	if description != nil {
		args = append(args, *description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	return sets, args
}

// parseID validates a caller-supplied id. Malformed ids cannot exist in
// the store, so they map to the same sentinel as a missing row.
func parseID(raw string, missing error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, missing
	}
	return id, nil
}

func providerErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrProviderUnavailable)
}
