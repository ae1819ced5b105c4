package ragdex

import (
	domcorpus "github.com/kailas-cloud/ragdex/internal/domain/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	corpusuc "github.com/kailas-cloud/ragdex/internal/usecase/corpus"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
	searchuc "github.com/kailas-cloud/ragdex/internal/usecase/search"
)

// CorpusInfo is corpus metadata as reported by the provider.
type CorpusInfo struct {
	ID          string
	Name        string
	Description string
	FileCount   int
	State       string // "active", "creating", or "error"; empty when unreported
	CreatedAt   int64  // unix milliseconds; 0 when unreported
}

// FileInfo is one imported file's record.
type FileInfo struct {
	ID         string
	Name       string
	SourceURI  string
	SizeBytes  int64
	ImportedAt int64 // unix milliseconds; 0 when unreported
}

// FilePage is one page of a corpus's file listing.
type FilePage struct {
	Files         []FileInfo
	NextPageToken string // empty on the last page
}

// ImportFile is one document queued for import. Provide URI or inline
// Text; Metadata must satisfy the schema or the whole batch is
// rejected before the provider is called.
type ImportFile struct {
	URI      string
	Text     string
	Metadata map[string]any
}

// ImportReport is the provider's account of an import batch, plus
// normalization warnings from the metadata gate.
type ImportReport struct {
	Imported int
	Failed   int
	Warnings []string
}

// Passage is one retrieved chunk.
type Passage struct {
	Text       string
	SourceURI  string
	Score      *float64 // nil when the provider reports none
	Metadata   map[string]string
	PageNumber int // 0 when unknown
}

// QueryResult is the outcome of one corpus query.
type QueryResult struct {
	Passages []Passage
	Note     string // set when several passages come from one document
}

// Hit is one passage annotated with its owning corpus and a rendered
// citation.
type Hit struct {
	Passage
	CorpusID   string
	CorpusName string
	Citation   string
}

// CorpusHits groups the hits contributed by one corpus.
type CorpusHits struct {
	CorpusID   string
	CorpusName string
	Hits       []Hit
}

// SearchReport is the merged outcome of a search across all corpora,
// sorted by descending relevance. PerCorpus, SearchedCorpora, and
// CitationsSummary cover only corpora that contributed hits.
type SearchReport struct {
	Results          []Hit
	PerCorpus        []CorpusHits
	SearchedCorpora  []string
	CitationsSummary []string
	Warning          string // set when no corpora exist to search
}

// NamedResult is the outcome of a query against a corpus resolved by
// display name.
type NamedResult struct {
	Corpus   CorpusInfo
	Passages []Passage
	Note     string
}

// MetadataInspection summarizes the tag values observed in a sample of
// a corpus's passages.
type MetadataInspection struct {
	SampleQuery      string
	ResultsInspected int
	NoMetadata       int // sampled passages carrying no tags at all
	Fields           []FieldSample
}

// FieldSample aggregates the values seen for one metadata field.
type FieldSample struct {
	Field        string
	TotalUnique  int
	UniqueValues []string     // most frequent first, capped
	ValueCounts  []ValueCount // most frequent first, capped
}

// ValueCount is one observed value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// --- internal → public conversions ---

func fromInternalCorpus(c domcorpus.Corpus) CorpusInfo {
	return CorpusInfo{
		ID:          c.ID(),
		Name:        c.DisplayName(),
		Description: c.Description(),
		FileCount:   c.FileCount(),
		State:       string(c.State()),
		CreatedAt:   c.CreatedAt(),
	}
}

func fromInternalFile(f domcorpus.File) FileInfo {
	return FileInfo{
		ID:         f.ID(),
		Name:       f.DisplayName(),
		SourceURI:  f.SourceURI(),
		SizeBytes:  f.SizeBytes(),
		ImportedAt: f.ImportedAt(),
	}
}

func fromInternalPassage(p passage.Passage) Passage {
	return Passage{
		Text:       p.Text(),
		SourceURI:  p.SourceURI(),
		Score:      p.Score(),
		Metadata:   p.Metadata(),
		PageNumber: p.Page(),
	}
}

func fromInternalResult(r queryuc.Result) QueryResult {
	out := QueryResult{Passages: make([]Passage, len(r.Passages)), Note: r.Note}
	for i, p := range r.Passages {
		out.Passages[i] = fromInternalPassage(p)
	}
	return out
}

func fromInternalHit(h searchuc.Hit) Hit {
	return Hit{
		Passage:    fromInternalPassage(h.Passage),
		CorpusID:   h.CorpusID,
		CorpusName: h.CorpusName,
		Citation:   h.Citation,
	}
}

func fromInternalAggregate(r searchuc.AggregateResult) SearchReport {
	out := SearchReport{
		Results:          make([]Hit, len(r.Results)),
		PerCorpus:        make([]CorpusHits, len(r.PerCorpus)),
		SearchedCorpora:  r.SearchedCorpora,
		CitationsSummary: r.CitationsSummary,
		Warning:          r.Warning,
	}
	for i, h := range r.Results {
		out.Results[i] = fromInternalHit(h)
	}
	for i, ch := range r.PerCorpus {
		hits := make([]Hit, len(ch.Hits))
		for j, h := range ch.Hits {
			hits[j] = fromInternalHit(h)
		}
		out.PerCorpus[i] = CorpusHits{
			CorpusID:   ch.CorpusID,
			CorpusName: ch.CorpusName,
			Hits:       hits,
		}
	}
	return out
}

func fromInternalInspection(in corpusuc.MetadataInspection) MetadataInspection {
	out := MetadataInspection{
		SampleQuery:      in.SampleQuery,
		ResultsInspected: in.ResultsInspected,
		NoMetadata:       in.NoMetadata,
		Fields:           make([]FieldSample, len(in.Fields)),
	}
	for i, f := range in.Fields {
		counts := make([]ValueCount, len(f.ValueCounts))
		for j, vc := range f.ValueCounts {
			counts[j] = ValueCount{Value: vc.Value, Count: vc.Count}
		}
		out.Fields[i] = FieldSample{
			Field:        f.Field,
			TotalUnique:  f.TotalUnique,
			UniqueValues: f.UniqueValues,
			ValueCounts:  counts,
		}
	}
	return out
}
