package dircache

import "github.com/kailas-cloud/ragdex/internal/domain/corpus"

// corpusRow is the JSON-serializable representation of a corpus for caching.
type corpusRow struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	FileCount   int    `json:"file_count"`
	State       string `json:"state"`
	CreatedAt   int64  `json:"created_at"` // unix millis
}

func toRow(c corpus.Corpus) corpusRow {
	return corpusRow{
		ID:          c.ID(),
		DisplayName: c.DisplayName(),
		Description: c.Description(),
		FileCount:   c.FileCount(),
		State:       string(c.State()),
		CreatedAt:   c.CreatedAt(),
	}
}

func fromRow(r corpusRow) corpus.Corpus {
	return corpus.Reconstruct(r.ID, r.DisplayName, r.Description, r.FileCount, corpus.State(r.State), r.CreatedAt)
}

func toRows(items []corpus.Corpus) []corpusRow {
	rows := make([]corpusRow, len(items))
	for i, c := range items {
		rows[i] = toRow(c)
	}
	return rows
}

func fromRows(rows []corpusRow) []corpus.Corpus {
	items := make([]corpus.Corpus, len(rows))
	for i, r := range rows {
		items[i] = fromRow(r)
	}
	return items
}
