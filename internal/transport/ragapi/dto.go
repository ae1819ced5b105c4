package ragapi

import (
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
)

// corpusObject is the wire representation of a corpus. The API uses
// resource names ("corpora/<id>"); the driver exposes bare ids.
type corpusObject struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	FileCount   int    `json:"file_count"`
	State       string `json:"state,omitempty"`
	CreateTime  int64  `json:"create_time,omitempty"` // unix millis
}

type listCorporaResponse struct {
	Corpora       []corpusObject `json:"corpora"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

type createCorpusRequest struct {
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
}

type updateCorpusRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// fileObject is the wire representation of an imported file.
type fileObject struct {
	Name        string `json:"name"` // corpora/<id>/files/<fileID>
	DisplayName string `json:"display_name"`
	SourceURI   string `json:"source_uri,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	ImportTime  int64  `json:"import_time,omitempty"` // unix millis
}

type listFilesResponse struct {
	Files         []fileObject `json:"files"`
	NextPageToken string       `json:"next_page_token,omitempty"`
}

type importFilesRequest struct {
	Sources []importSourceObject `json:"sources"`
}

// importSourceObject carries one document to ingest. Text is inline
// content; when empty the service fetches the URI instead.
type importSourceObject struct {
	URI      string            `json:"uri"`
	Text     string            `json:"text,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type importFilesResponse struct {
	ImportedCount int `json:"imported_count"`
	FailedCount   int `json:"failed_count"`
}

type queryRequest struct {
	Query     string  `json:"query"`
	TopK      int     `json:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// contextObject is one retrieved chunk on the wire.
type contextObject struct {
	Text       string            `json:"text"`
	SourceURI  string            `json:"source_uri,omitempty"`
	Score      *float64          `json:"score,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	PageNumber int               `json:"page_number,omitempty"`
}

type queryResponse struct {
	Contexts []contextObject `json:"contexts"`
}

// idFromName strips the resource prefix: "corpora/497" -> "497".
func idFromName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func corpusFromWire(o corpusObject) corpus.Corpus {
	return corpus.Reconstruct(
		idFromName(o.Name), o.DisplayName, o.Description,
		o.FileCount, corpus.State(o.State), o.CreateTime,
	)
}

func fileFromWire(o fileObject) corpus.File {
	return corpus.ReconstructFile(
		idFromName(o.Name), o.DisplayName, o.SourceURI,
		o.SizeBytes, o.ImportTime,
	)
}

func passageFromWire(o contextObject) passage.Passage {
	return passage.New(o.Text, o.SourceURI, o.Score, o.Metadata, o.PageNumber)
}
