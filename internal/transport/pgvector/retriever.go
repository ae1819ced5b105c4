package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	"github.com/kailas-cloud/ragdex/internal/domain/search/query"
)

// Query embeds the text and ranks chunks by cosine similarity. Metadata
// criteria become SQL conditions, so the executor never widens the
// fetch size. The threshold applies server-side as similarity floor.
func (d *Driver) Query(ctx context.Context, corpusID string, params query.Params) (passages []passage.Passage, err error) {
	defer func(start time.Time) { observe("query", start, err) }(time.Now())

	id, err := parseID(corpusID, domain.ErrCorpusNotFound)
	if err != nil {
		return nil, err
	}
	if err := d.requireCorpus(ctx, id); err != nil {
		return nil, err
	}

	emb, err := d.embedder.Embed(ctx, params.Text())
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	args := []any{vectorParam(emb.Embedding), id}
	where := ""
	if params.Threshold() > 0 {
		args = append(args, params.Threshold())
		where += fmt.Sprintf(" AND 1 - (c.embedding <=> $1) >= $%d", len(args))
	}
	filterCond, filterArgs := buildFilterWhere(params.Filter(), len(args))
	where += filterCond
	args = append(args, filterArgs...)

	stmt := fmt.Sprintf(`
		SELECT c.content, f.source_uri, 1 - (c.embedding <=> $1), c.metadata, c.page_number
		FROM corpus_chunks c
		JOIN corpus_files f ON f.id = c.file_id
		WHERE c.corpus_id = $2%s
		ORDER BY c.embedding <=> $1
		LIMIT %d`, where, params.Fetch())

	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, providerErr("query chunks", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			content, uri string
			score        float64
			metaRaw      []byte
			pageNumber   int
		)
		if err := rows.Scan(&content, &uri, &score, &metaRaw, &pageNumber); err != nil {
			return nil, providerErr("scan chunk", err)
		}

		var tags map[string]string
		if len(metaRaw) > 0 {
			if err := json.Unmarshal(metaRaw, &tags); err != nil {
				tags = nil
			}
		}

		s := score
		passages = append(passages, passage.New(content, uri, &s, tags, pageNumber))
	}
	if err := rows.Err(); err != nil {
		return nil, providerErr("query chunks", err)
	}
	return passages, nil
}

// buildFilterWhere renders filter criteria as SQL conditions over the
// JSONB tag column. Board values are already normalized on both sides
// at import and filter construction, so a case-insensitive equality
// works uniformly for every field. Keys are ordered for stable SQL.
func buildFilterWhere(f metadata.Filter, argOffset int) (string, []any) {
	criteria := f.Criteria()
	if len(criteria) == 0 {
		return "", nil
	}

	fields := make([]string, 0, len(criteria))
	for field := range criteria {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	cond := ""
	args := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		args = append(args, field)
		keyIdx := argOffset + len(args)
		args = append(args, criteria[field])
		valIdx := argOffset + len(args)
		cond += fmt.Sprintf(" AND lower(c.metadata->>$%d) = lower($%d)", keyIdx, valIdx)
	}
	return cond, args
}
