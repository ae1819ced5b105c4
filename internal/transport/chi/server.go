// Package chi exposes the retrieval engine over HTTP. Every response
// carries a status envelope (success/error/warning) the way agent
// tooling expects; errors additionally carry the raw cause in
// error_message.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
	corpusuc "github.com/kailas-cloud/ragdex/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
	searchuc "github.com/kailas-cloud/ragdex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server routes HTTP requests to the usecase services.
type Server struct {
	corpora       *corpusuc.Service
	query         *queryuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	defaults      domain.QueryConfig
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	corpora *corpusuc.Service,
	query *queryuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	defaults domain.QueryConfig,
	logger *zap.Logger,
) *Server {
	s := &Server{
		corpora:  corpora,
		query:    query,
		search:   search,
		health:   health,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		metadataValidationHandler,
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidMetadata, http.StatusBadRequest),
		sentinelHandler(domain.ErrCorpusNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrFileNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrCorpusNotEmpty, http.StatusConflict),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized),
		sentinelHandler(domain.ErrDiscoveryFailed, http.StatusBadGateway),
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusBadGateway),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented),
	}
	return s
}

// Routes registers every API route on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/corpora", func(r chi.Router) {
			r.Post("/", s.CreateCorpus)
			r.Get("/", s.ListCorpora)
			r.Route("/{corpusID}", func(r chi.Router) {
				r.Get("/", s.GetCorpus)
				r.Patch("/", s.UpdateCorpus)
				r.Delete("/", s.DeleteCorpus)
				r.Post("/files/import", s.ImportFiles)
				r.Get("/files", s.ListFiles)
				r.Get("/files/{fileID}", s.GetFile)
				r.Delete("/files/{fileID}", s.DeleteFile)
				r.Post("/query", s.QueryCorpus)
				r.Get("/metadata", s.InspectMetadata)
			})
		})
		r.Post("/search", s.SearchAll)
		r.Post("/search/by-name", s.SearchByName)
		r.Get("/metadata/schema", s.MetadataSchema)
		r.Post("/metadata/validate", s.ValidateMetadata)
	})
}

// CreateCorpus handles POST /v1/corpora.
func (s *Server) CreateCorpus(w http.ResponseWriter, r *http.Request) {
	var req createCorpusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	created, err := s.corpora.Create(r.Context(), req.DisplayName, req.Description)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, corpusResponse{
		Status:  statusSuccess,
		Corpus:  corpusToPayload(created),
		Message: fmt.Sprintf("Successfully created corpus '%s'", created.DisplayName()),
	})
}

// ListCorpora handles GET /v1/corpora.
func (s *Server) ListCorpora(w http.ResponseWriter, r *http.Request) {
	corpora, err := s.corpora.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]corpusPayload, len(corpora))
	for i, c := range corpora {
		items[i] = corpusToPayload(c)
	}

	writeJSON(w, http.StatusOK, corpusListResponse{
		Status:  statusSuccess,
		Corpora: items,
		Count:   len(items),
		Message: fmt.Sprintf("Found %d corpora", len(items)),
	})
}

// GetCorpus handles GET /v1/corpora/{corpusID}.
func (s *Server) GetCorpus(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")

	c, err := s.corpora.Get(r.Context(), corpusID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, corpusResponse{
		Status: statusSuccess,
		Corpus: corpusToPayload(c),
		Message: fmt.Sprintf("Successfully retrieved corpus '%s' with %d files",
			corpusID, c.FileCount()),
	})
}

// UpdateCorpus handles PATCH /v1/corpora/{corpusID}.
func (s *Server) UpdateCorpus(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")

	var req updateCorpusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	updated, err := s.corpora.Update(r.Context(), corpusID, req.DisplayName, req.Description)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, corpusResponse{
		Status:  statusSuccess,
		Corpus:  corpusToPayload(updated),
		Message: fmt.Sprintf("Successfully updated corpus '%s'", corpusID),
	})
}

// DeleteCorpus handles DELETE /v1/corpora/{corpusID}?force=.
func (s *Server) DeleteCorpus(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")

	var force *bool
	if err := runtime.BindQueryParameter("form", true, false, "force", r.URL.Query(), &force); err != nil {
		writeBadParam(w, "force", err)
		return
	}

	if err := s.corpora.Delete(r.Context(), corpusID, force != nil && *force); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteCorpusResponse{
		Status:   statusSuccess,
		CorpusID: corpusID,
		Message:  fmt.Sprintf("Successfully deleted corpus '%s'", corpusID),
	})
}

// ImportFiles handles POST /v1/corpora/{corpusID}/files/import.
func (s *Server) ImportFiles(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")

	var req importFilesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	reqs := make([]corpusuc.ImportRequest, len(req.Files))
	for i, f := range req.Files {
		reqs[i] = corpusuc.ImportRequest{URI: f.URI, Text: f.Text, Metadata: f.Metadata}
	}

	outcome, warnings, err := s.corpora.ImportFiles(r.Context(), corpusID, reqs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, importFilesResponse{
		Status:   statusSuccess,
		CorpusID: corpusID,
		Imported: outcome.Imported,
		Failed:   outcome.Failed,
		Warnings: warnings,
		Message: fmt.Sprintf("Successfully imported %d file(s) to corpus '%s'",
			outcome.Imported, corpusID),
	})
}

// ListFiles handles GET /v1/corpora/{corpusID}/files?page_size=&page_token=.
func (s *Server) ListFiles(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")

	var pageSize *int
	if err := runtime.BindQueryParameter("form", true, false, "page_size", r.URL.Query(), &pageSize); err != nil {
		writeBadParam(w, "page_size", err)
		return
	}
	var pageToken *string
	if err := runtime.BindQueryParameter("form", true, false, "page_token", r.URL.Query(), &pageToken); err != nil {
		writeBadParam(w, "page_token", err)
		return
	}

	files, next, err := s.corpora.ListFiles(r.Context(), corpusID, derefInt(pageSize), derefString(pageToken))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]filePayload, len(files))
	for i, f := range files {
		items[i] = fileToPayload(f)
	}

	writeJSON(w, http.StatusOK, fileListResponse{
		Status:        statusSuccess,
		CorpusID:      corpusID,
		Files:         items,
		Count:         len(items),
		NextPageToken: next,
		Message:       fmt.Sprintf("Found %d file(s) in corpus '%s'", len(items), corpusID),
	})
}

// GetFile handles GET /v1/corpora/{corpusID}/files/{fileID}.
func (s *Server) GetFile(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")
	fileID := chi.URLParam(r, "fileID")

	f, err := s.corpora.GetFile(r.Context(), corpusID, fileID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fileResponse{
		Status:   statusSuccess,
		CorpusID: corpusID,
		File:     fileToPayload(f),
		Message: fmt.Sprintf("Successfully retrieved file '%s' from corpus '%s'",
			fileID, corpusID),
	})
}

// DeleteFile handles DELETE /v1/corpora/{corpusID}/files/{fileID}.
func (s *Server) DeleteFile(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")
	fileID := chi.URLParam(r, "fileID")

	if err := s.corpora.DeleteFile(r.Context(), corpusID, fileID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteFileResponse{
		Status:   statusSuccess,
		CorpusID: corpusID,
		FileID:   fileID,
		Message: fmt.Sprintf("Successfully deleted file '%s' from corpus '%s'",
			fileID, corpusID),
	})
}

// QueryCorpus handles POST /v1/corpora/{corpusID}/query.
func (s *Server) QueryCorpus(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")

	var req queryCorpusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	params, err := s.buildParams(req.Query, req.TopK, s.defaults.TopK, req.Threshold, req.MetadataFilter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.query.Query(r.Context(), corpusID, params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]passagePayload, len(res.Passages))
	for i, p := range res.Passages {
		items[i] = passageToPayload(p)
	}

	writeJSON(w, http.StatusOK, queryCorpusResponse{
		Status:         statusSuccess,
		CorpusID:       corpusID,
		Results:        items,
		Count:          len(items),
		Query:          req.Query,
		MetadataFilter: req.MetadataFilter,
		Note:           res.Note,
		Message:        fmt.Sprintf("Found %d results for query: '%s'", len(items), req.Query),
	})
}

// SearchAll handles POST /v1/search.
func (s *Server) SearchAll(w http.ResponseWriter, r *http.Request) {
	var req searchAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	params, err := s.buildParams(req.Query, req.TopKPerCorpus, s.defaults.PerCorpusTopK, req.Threshold, req.MetadataFilter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	agg, err := s.search.SearchAll(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if agg.Warning != "" {
		writeJSON(w, http.StatusOK, searchAllResponse{
			Status:  statusWarning,
			Results: []hitPayload{},
			Query:   req.Query,
			Message: agg.Warning,
		})
		return
	}

	items := make([]hitPayload, len(agg.Results))
	for i, h := range agg.Results {
		items[i] = hitToPayload(h)
	}

	perCorpus := make(map[string]corpusHitsPayload, len(agg.PerCorpus))
	for _, ch := range agg.PerCorpus {
		hits := make([]hitPayload, len(ch.Hits))
		for i, h := range ch.Hits {
			hits[i] = hitToPayload(h)
		}
		perCorpus[ch.CorpusName] = corpusHitsPayload{
			CorpusID:   ch.CorpusID,
			CorpusName: ch.CorpusName,
			Results:    hits,
			Count:      len(hits),
		}
	}

	writeJSON(w, http.StatusOK, searchAllResponse{
		Status:           statusSuccess,
		Results:          items,
		CorpusResults:    perCorpus,
		SearchedCorpora:  agg.SearchedCorpora,
		CitationsSummary: agg.CitationsSummary,
		Count:            len(items),
		Query:            req.Query,
		MetadataFilter:   req.MetadataFilter,
		Message: fmt.Sprintf("Found %d results for query '%s' across %d corpora",
			len(items), req.Query, len(agg.SearchedCorpora)),
	})
}

// SearchByName handles POST /v1/search/by-name.
func (s *Server) SearchByName(w http.ResponseWriter, r *http.Request) {
	var req searchByNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	if req.CorpusName == "" {
		s.handleDomainError(w, fmt.Errorf("%w: corpus_name is required", domain.ErrValidation))
		return
	}

	params, err := s.buildParams(req.Query, req.TopK, s.defaults.TopK, req.Threshold, req.MetadataFilter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	c, res, err := s.search.SearchByName(r.Context(), req.CorpusName, params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]passagePayload, len(res.Passages))
	for i, p := range res.Passages {
		items[i] = passageToPayload(p)
	}

	writeJSON(w, http.StatusOK, queryCorpusResponse{
		Status:         statusSuccess,
		CorpusID:       c.ID(),
		Results:        items,
		Count:          len(items),
		Query:          req.Query,
		MetadataFilter: req.MetadataFilter,
		Note:           res.Note,
		Message:        fmt.Sprintf("Found %d results for query: '%s'", len(items), req.Query),
	})
}

// InspectMetadata handles GET /v1/corpora/{corpusID}/metadata?query=&sample_size=.
func (s *Server) InspectMetadata(w http.ResponseWriter, r *http.Request) {
	corpusID := chi.URLParam(r, "corpusID")

	var query *string
	if err := runtime.BindQueryParameter("form", true, false, "query", r.URL.Query(), &query); err != nil {
		writeBadParam(w, "query", err)
		return
	}
	var sampleSize *int
	if err := runtime.BindQueryParameter("form", true, false, "sample_size", r.URL.Query(), &sampleSize); err != nil {
		writeBadParam(w, "sample_size", err)
		return
	}

	insp, err := s.corpora.InspectMetadata(r.Context(), corpusID, derefString(query), derefInt(sampleSize))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := inspectionToResponse(corpusID, insp)
	resp.Message = fmt.Sprintf("Inspected %d results from corpus '%s'",
		insp.ResultsInspected, corpusID)
	writeJSON(w, http.StatusOK, resp)
}

// MetadataSchema handles GET /v1/metadata/schema.
func (s *Server) MetadataSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schemaResponse{
		Status:  statusSuccess,
		Schema:  schemaToPayload(s.corpora.SchemaInfo()),
		Message: "Metadata schema information retrieved successfully",
	})
}

// ValidateMetadata handles POST /v1/metadata/validate?strict=. The
// report is the payload, valid or not; only a malformed request is an
// error.
func (s *Server) ValidateMetadata(w http.ResponseWriter, r *http.Request) {
	var strict *bool
	if err := runtime.BindQueryParameter("form", true, false, "strict", r.URL.Query(), &strict); err != nil {
		writeBadParam(w, "strict", err)
		return
	}

	var req validateMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}

	report := metadata.Validate(req.Metadata, strict != nil && *strict)

	msg := "Metadata is valid"
	if !report.Valid {
		msg = "Metadata validation failed"
	}
	resp := validateMetadataResponse{
		Status:   statusSuccess,
		Valid:    report.Valid,
		Errors:   report.Errors,
		Warnings: report.Warnings,
		Message:  msg,
	}
	if report.Valid {
		resp.Normalized = report.Normalized
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// buildParams resolves optional body parameters against configured
// defaults and validates them. Validation failures wrap ErrValidation.
func (s *Server) buildParams(
	text string, topK *int, defaultTopK int, threshold *float64, criteria map[string]string,
) (domquery.Params, error) {
	k := defaultTopK
	if topK != nil {
		k = *topK
	}
	th := s.defaults.Threshold
	if threshold != nil {
		th = *threshold
	}
	params, err := domquery.New(text, k, th, metadata.NewFilter(criteria))
	if err != nil {
		return domquery.Params{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return params, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, errMsg string) {
	writeJSON(w, status, errorResponse{
		Status:       statusError,
		Message:      message,
		ErrorMessage: errMsg,
	})
}

func writeBadBody(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
}

func writeBadParam(w http.ResponseWriter, name string, err error) {
	writeError(w, http.StatusBadRequest,
		fmt.Sprintf("Invalid query parameter '%s'", name), err.Error())
}

// sentinelHandler returns an errorHandler that matches a single
// sentinel error. The sentinel text is the safe client-facing message;
// the full chain lands in error_message.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Error(), err.Error())
		return true
	}
}

// metadataValidationHandler handles MetadataValidationError with the
// per-field error list.
func metadataValidationHandler(w http.ResponseWriter, err error) bool {
	var mve *domain.MetadataValidationError
	if !errors.As(err, &mve) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Status:       statusError,
		Message:      domain.ErrInvalidMetadata.Error(),
		ErrorMessage: err.Error(),
		Errors:       mve.Errors,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", "internal error")
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
