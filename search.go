package ragdex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
)

// SearchService runs semantic queries against one corpus or all of
// them.
type SearchService struct {
	search   searchUseCase
	query    queryUseCase
	defaults domain.QueryConfig
	obs      *observer
}

// QueryOption tunes one query or search call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	topK      int
	threshold *float64
	filter    map[string]string
}

// WithTopK overrides how many passages to return (per corpus for All).
// Capped at the configured maximum.
func WithTopK(k int) QueryOption {
	return func(q *queryOptions) { q.topK = k }
}

// WithThreshold overrides the relevance threshold hint forwarded to
// the provider. Providers that cannot honor it return unfiltered
// results; scores are never re-filtered client-side.
func WithThreshold(t float64) QueryOption {
	return func(q *queryOptions) { q.threshold = &t }
}

// WithFilter keeps only passages whose metadata matches every
// criterion. Board values match across formatting variants.
func WithFilter(criteria map[string]string) QueryOption {
	return func(q *queryOptions) { q.filter = criteria }
}

// Corpus queries one corpus by id and returns its kept passages in
// provider order.
func (s *SearchService) Corpus(
	ctx context.Context, corpusID, text string, opts ...QueryOption,
) (_ QueryResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.corpus", start, err) }()

	params, err := s.params(text, s.defaults.TopK, opts)
	if err != nil {
		return QueryResult{}, err
	}
	res, err := s.query.Query(ctx, corpusID, params)
	if err != nil {
		return QueryResult{}, fmt.Errorf("query corpus: %w", err)
	}
	return fromInternalResult(res), nil
}

// All fans the query out across every corpus the provider knows and
// merges the per-corpus results into one ranked, citation-annotated
// set. A single corpus failing is omitted from the outcome; zero
// corpora yield an empty report with Warning set.
func (s *SearchService) All(
	ctx context.Context, text string, opts ...QueryOption,
) (_ SearchReport, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.all", start, err) }()

	params, err := s.params(text, s.defaults.PerCorpusTopK, opts)
	if err != nil {
		return SearchReport{}, err
	}
	res, err := s.search.SearchAll(ctx, params)
	if err != nil {
		return SearchReport{}, fmt.Errorf("search all: %w", err)
	}
	return fromInternalAggregate(res), nil
}

// ByName resolves a corpus by display name (case-insensitive) and
// queries it. Fails with ErrCorpusNotFound when no corpus matches.
func (s *SearchService) ByName(
	ctx context.Context, name, text string, opts ...QueryOption,
) (_ NamedResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.by_name", start, err) }()

	params, err := s.params(text, s.defaults.TopK, opts)
	if err != nil {
		return NamedResult{}, err
	}
	c, res, err := s.search.SearchByName(ctx, name, params)
	if err != nil {
		return NamedResult{}, fmt.Errorf("search by name: %w", err)
	}
	qr := fromInternalResult(res)
	return NamedResult{
		Corpus:   fromInternalCorpus(c),
		Passages: qr.Passages,
		Note:     qr.Note,
	}, nil
}

// params resolves per-call options against the configured defaults
// into validated retrieval parameters.
func (s *SearchService) params(
	text string, defaultTopK int, opts []QueryOption,
) (domquery.Params, error) {
	var q queryOptions
	for _, o := range opts {
		o(&q)
	}

	topK := q.topK
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > s.defaults.MaxTopK {
		topK = s.defaults.MaxTopK
	}
	threshold := s.defaults.Threshold
	if q.threshold != nil {
		threshold = *q.threshold
	}

	params, err := domquery.New(text, topK, threshold, metadata.NewFilter(q.filter))
	if err != nil {
		return domquery.Params{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return params, nil
}
