package chi

import (
	"time"

	domcorpus "github.com/kailas-cloud/ragdex/internal/domain/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	corpusuc "github.com/kailas-cloud/ragdex/internal/usecase/corpus"
	searchuc "github.com/kailas-cloud/ragdex/internal/usecase/search"
)

// Envelope status values. Every response carries one.
const (
	statusSuccess = "success"
	statusError   = "error"
	statusWarning = "warning"
)

// --- Requests ---

type createCorpusRequest struct {
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

type updateCorpusRequest struct {
	DisplayName *string `json:"display_name"`
	Description *string `json:"description"`
}

type importFileSource struct {
	URI      string         `json:"uri"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

type importFilesRequest struct {
	Files []importFileSource `json:"files"`
}

type queryCorpusRequest struct {
	Query          string            `json:"query"`
	TopK           *int              `json:"top_k"`
	Threshold      *float64          `json:"threshold"`
	MetadataFilter map[string]string `json:"metadata_filter"`
}

type searchAllRequest struct {
	Query          string            `json:"query"`
	TopKPerCorpus  *int              `json:"top_k_per_corpus"`
	Threshold      *float64          `json:"threshold"`
	MetadataFilter map[string]string `json:"metadata_filter"`
}

type searchByNameRequest struct {
	CorpusName     string            `json:"corpus_name"`
	Query          string            `json:"query"`
	TopK           *int              `json:"top_k"`
	Threshold      *float64          `json:"threshold"`
	MetadataFilter map[string]string `json:"metadata_filter"`
}

type validateMetadataRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// --- Responses ---

type errorResponse struct {
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	ErrorMessage string   `json:"error_message"`
	Errors       []string `json:"errors,omitempty"` // metadata validation detail
}

type corpusPayload struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Description string     `json:"description,omitempty"`
	FilesCount  int        `json:"files_count"`
	Status      string     `json:"status,omitempty"`
	CreateTime  *time.Time `json:"create_time,omitempty"`
}

type corpusResponse struct {
	Status  string        `json:"status"`
	Corpus  corpusPayload `json:"corpus"`
	Message string        `json:"message"`
}

type corpusListResponse struct {
	Status  string          `json:"status"`
	Corpora []corpusPayload `json:"corpora"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
}

type deleteCorpusResponse struct {
	Status   string `json:"status"`
	CorpusID string `json:"corpus_id"`
	Message  string `json:"message"`
}

type importFilesResponse struct {
	Status   string   `json:"status"`
	CorpusID string   `json:"corpus_id"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message"`
}

type filePayload struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name,omitempty"`
	SourceURI   string     `json:"source_uri,omitempty"`
	SizeBytes   int64      `json:"size_bytes,omitempty"`
	CreateTime  *time.Time `json:"create_time,omitempty"`
}

type fileListResponse struct {
	Status        string        `json:"status"`
	CorpusID      string        `json:"corpus_id"`
	Files         []filePayload `json:"files"`
	Count         int           `json:"count"`
	NextPageToken string        `json:"next_page_token,omitempty"`
	Message       string        `json:"message"`
}

type fileResponse struct {
	Status   string      `json:"status"`
	CorpusID string      `json:"corpus_id"`
	File     filePayload `json:"file"`
	Message  string      `json:"message"`
}

type deleteFileResponse struct {
	Status   string `json:"status"`
	CorpusID string `json:"corpus_id"`
	FileID   string `json:"file_id"`
	Message  string `json:"message"`
}

// passagePayload keeps the score nullable: a provider that reports no
// score is not the same as a score of 0.
type passagePayload struct {
	Text           string            `json:"text"`
	SourceURI      string            `json:"source_uri,omitempty"`
	RelevanceScore *float64          `json:"relevance_score,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	PageNumber     *int              `json:"page_number,omitempty"`
}

type queryCorpusResponse struct {
	Status         string            `json:"status"`
	CorpusID       string            `json:"corpus_id"`
	Results        []passagePayload  `json:"results"`
	Count          int               `json:"count"`
	Query          string            `json:"query"`
	MetadataFilter map[string]string `json:"metadata_filter,omitempty"`
	Note           string            `json:"note,omitempty"`
	Message        string            `json:"message"`
}

type hitPayload struct {
	passagePayload
	CorpusID   string `json:"corpus_id"`
	CorpusName string `json:"corpus_name"`
	Citation   string `json:"citation"`
}

type corpusHitsPayload struct {
	CorpusID   string       `json:"corpus_id"`
	CorpusName string       `json:"corpus_name"`
	Results    []hitPayload `json:"results"`
	Count      int          `json:"count"`
}

type searchAllResponse struct {
	Status           string                       `json:"status"`
	Results          []hitPayload                 `json:"results"`
	CorpusResults    map[string]corpusHitsPayload `json:"corpus_results,omitempty"`
	SearchedCorpora  []string                     `json:"searched_corpora,omitempty"`
	CitationsSummary []string                     `json:"citations_summary,omitempty"`
	Count            int                          `json:"count"`
	Query            string                       `json:"query"`
	MetadataFilter   map[string]string            `json:"metadata_filter,omitempty"`
	Message          string                       `json:"message"`
}

type schemaResponse struct {
	Status  string        `json:"status"`
	Schema  schemaPayload `json:"schema"`
	Message string        `json:"message"`
}

type schemaPayload struct {
	RequiredFields          []string                     `json:"required_fields"`
	OptionalFields          []string                     `json:"optional_fields"`
	FieldTypes              map[string]string            `json:"field_types"`
	AllowedContentTypes     []string                     `json:"allowed_content_types"`
	AllowedDifficultyLevels []string                     `json:"allowed_difficulty_levels"`
	CommonBoards            []string                     `json:"common_boards"`
	Examples                map[string]map[string]string `json:"examples"`
}

type validateMetadataResponse struct {
	Status     string            `json:"status"`
	Valid      bool              `json:"valid"`
	Errors     []string          `json:"errors,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
	Normalized map[string]string `json:"normalized,omitempty"`
	Message    string            `json:"message"`
}

type fieldSamplePayload struct {
	UniqueValues []string       `json:"unique_values"`
	TotalUnique  int            `json:"total_unique"`
	ValueCounts  map[string]int `json:"value_counts"`
}

type inspectMetadataResponse struct {
	Status              string                        `json:"status"`
	CorpusID            string                        `json:"corpus_id"`
	QueryText           string                        `json:"query_text"`
	ResultsInspected    int                           `json:"results_inspected"`
	NoMetadata          int                           `json:"results_without_metadata,omitempty"`
	MetadataFieldsFound []string                      `json:"metadata_fields_found"`
	MetadataSamples     map[string]fieldSamplePayload `json:"metadata_samples"`
	Message             string                        `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// --- Converters ---

func corpusToPayload(c domcorpus.Corpus) corpusPayload {
	p := corpusPayload{
		ID:          c.ID(),
		DisplayName: c.DisplayName(),
		Description: c.Description(),
		FilesCount:  c.FileCount(),
		Status:      string(c.State()),
	}
	if c.CreatedAt() > 0 {
		t := time.UnixMilli(c.CreatedAt()).UTC()
		p.CreateTime = &t
	}
	return p
}

func fileToPayload(f domcorpus.File) filePayload {
	p := filePayload{
		ID:          f.ID(),
		DisplayName: f.DisplayName(),
		SourceURI:   f.SourceURI(),
		SizeBytes:   f.SizeBytes(),
	}
	if f.ImportedAt() > 0 {
		t := time.UnixMilli(f.ImportedAt()).UTC()
		p.CreateTime = &t
	}
	return p
}

func passageToPayload(p passage.Passage) passagePayload {
	out := passagePayload{
		Text:           p.Text(),
		SourceURI:      p.SourceURI(),
		RelevanceScore: p.Score(),
		Metadata:       p.Metadata(),
	}
	if p.HasPage() {
		page := p.Page()
		out.PageNumber = &page
	}
	return out
}

func hitToPayload(h searchuc.Hit) hitPayload {
	return hitPayload{
		passagePayload: passageToPayload(h.Passage),
		CorpusID:       h.CorpusID,
		CorpusName:     h.CorpusName,
		Citation:       h.Citation,
	}
}

func schemaToPayload(info metadata.SchemaInfo) schemaPayload {
	return schemaPayload{
		RequiredFields:          info.RequiredFields,
		OptionalFields:          info.OptionalFields,
		FieldTypes:              info.FieldTypes,
		AllowedContentTypes:     info.AllowedContentTypes,
		AllowedDifficultyLevels: info.AllowedDifficultyLevels,
		CommonBoards:            info.CommonBoards,
		Examples:                info.Examples,
	}
}

func inspectionToResponse(corpusID string, insp corpusuc.MetadataInspection) inspectMetadataResponse {
	fields := make([]string, 0, len(insp.Fields))
	samples := make(map[string]fieldSamplePayload, len(insp.Fields))
	for _, fs := range insp.Fields {
		fields = append(fields, fs.Field)
		counts := make(map[string]int, len(fs.ValueCounts))
		for _, vc := range fs.ValueCounts {
			counts[vc.Value] = vc.Count
		}
		samples[fs.Field] = fieldSamplePayload{
			UniqueValues: fs.UniqueValues,
			TotalUnique:  fs.TotalUnique,
			ValueCounts:  counts,
		}
	}
	return inspectMetadataResponse{
		Status:              statusSuccess,
		CorpusID:            corpusID,
		QueryText:           insp.SampleQuery,
		ResultsInspected:    insp.ResultsInspected,
		NoMetadata:          insp.NoMetadata,
		MetadataFieldsFound: fields,
		MetadataSamples:     samples,
	}
}
