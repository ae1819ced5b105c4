// Package search implements the multi-corpus aggregator and the
// name-based corpus resolver, both layered on the single-corpus
// executor.
package search

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
	"github.com/kailas-cloud/ragdex/internal/logger"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
)

// NoCorporaWarning is returned when discovery finds nothing to search.
const NoCorporaWarning = "No corpora found to search in"

// DefaultFanoutWorkers bounds concurrent per-corpus queries when no
// worker count is configured.
const DefaultFanoutWorkers = 4

// Hit is one kept passage annotated with its owning corpus and a
// rendered citation.
type Hit struct {
	Passage    passage.Passage
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

// AggregateResult is the merged outcome of a search across all
// corpora. Results are sorted by descending relevance with ties
// keeping corpus discovery order. PerCorpus, SearchedCorpora, and
// CitationsSummary cover only corpora that contributed at least one
// hit, in discovery order.
type AggregateResult struct {
	Results          []Hit
	PerCorpus        []CorpusHits
	SearchedCorpora  []string
	CitationsSummary []string
	Warning          string // NoCorporaWarning when discovery found nothing
}

// Service fans queries out across corpora and merges the results.
type Service struct {
	directory Directory
	executor  Executor
	workers   int
}

// New creates a search service. workers bounds the per-corpus fan-out;
// non-positive values fall back to DefaultFanoutWorkers.
func New(directory Directory, executor Executor, workers int) *Service {
	if workers <= 0 {
		workers = DefaultFanoutWorkers
	}
	return &Service{directory: directory, executor: executor, workers: workers}
}

// SearchAll queries every available corpus and merges the per-corpus
// results into one ranked, citation-annotated set. A single corpus
// failing is logged and omitted from the outcome; discovery failing or
// every corpus failing aborts the whole search.
func (s *Service) SearchAll(ctx context.Context, params domquery.Params) (AggregateResult, error) {
	corpora, err := s.directory.ListCorpora(ctx)
	if err != nil {
		return AggregateResult{}, fmt.Errorf("%w: %w", domain.ErrDiscoveryFailed, err)
	}
	if len(corpora) == 0 {
		return AggregateResult{Warning: NoCorporaWarning}, nil
	}

	outcomes := s.fanOut(ctx, corpora, params)

	log := logger.FromContext(ctx)
	var out AggregateResult
	var failures int
	var firstErr error
	for i, c := range corpora {
		oc := outcomes[i]
		if oc.err != nil {
			failures++
			if firstErr == nil {
				firstErr = oc.err
			}
			log.Warn("corpus query failed",
				zap.String("corpus_id", c.ID()),
				zap.String("corpus_name", c.DisplayName()),
				zap.Error(oc.err),
			)
			continue
		}
		hits := annotate(c, oc.result.Passages)
		if len(hits) == 0 {
			continue
		}
		out.Results = append(out.Results, hits...)
		out.PerCorpus = append(out.PerCorpus, CorpusHits{
			CorpusID:   c.ID(),
			CorpusName: c.DisplayName(),
			Hits:       hits,
		})
		out.SearchedCorpora = append(out.SearchedCorpora, c.DisplayName())
		out.CitationsSummary = append(out.CitationsSummary,
			passage.SummaryLine(c.DisplayName(), c.ID(), len(hits)))
	}

	if failures == len(corpora) {
		return AggregateResult{}, fmt.Errorf("all %d corpus queries failed: %w", len(corpora), firstErr)
	}

	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].Passage.ScoreOrZero() > out.Results[j].Passage.ScoreOrZero()
	})
	return out, nil
}

// SearchByName resolves a display name to a corpus and queries it.
// Matching is case-insensitive on trimmed names; when several corpora
// share a display name the first match in discovery order wins.
func (s *Service) SearchByName(ctx context.Context, displayName string, params domquery.Params) (corpus.Corpus, queryuc.Result, error) {
	corpora, err := s.directory.ListCorpora(ctx)
	if err != nil {
		return corpus.Corpus{}, queryuc.Result{}, fmt.Errorf("%w: %w", domain.ErrDiscoveryFailed, err)
	}
	for _, c := range corpora {
		if !c.NameMatches(displayName) {
			continue
		}
		res, err := s.executor.Query(ctx, c.ID(), params)
		if err != nil {
			return corpus.Corpus{}, queryuc.Result{}, err
		}
		return c, res, nil
	}
	return corpus.Corpus{}, queryuc.Result{}, fmt.Errorf("corpus %q: %w", displayName, domain.ErrCorpusNotFound)
}

type outcome struct {
	result queryuc.Result
	err    error
}

// fanOut runs one executor query per corpus through a bounded worker
// pool. Each outcome lands at its corpus's discovery index, so merge
// order is deterministic regardless of scheduling.
func (s *Service) fanOut(ctx context.Context, corpora []corpus.Corpus, params domquery.Params) []outcome {
	outcomes := make([]outcome, len(corpora))

	workers := s.workers
	if workers > len(corpora) {
		workers = len(corpora)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := s.executor.Query(ctx, corpora[i].ID(), params)
				outcomes[i] = outcome{result: res, err: err}
			}
		}()
	}
	for i := range corpora {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// annotate attaches corpus identity and a rendered citation to each
// kept passage.
func annotate(c corpus.Corpus, passages []passage.Passage) []Hit {
	if len(passages) == 0 {
		return nil
	}
	hits := make([]Hit, 0, len(passages))
	for _, p := range passages {
		hits = append(hits, Hit{
			Passage:    p,
			CorpusID:   c.ID(),
			CorpusName: c.DisplayName(),
			Citation:   passage.Citation(c.DisplayName(), c.ID(), p),
		})
	}
	return hits
}
