// Package query implements the single-corpus retrieval executor: fetch
// raw candidates from the provider, recover page numbers, apply
// client-side metadata filtering, and cap the kept set at top-k.
package query

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
)

// ChunkingNote explains why a result set may contain several passages
// from the same document.
const ChunkingNote = "Multiple chunks retrieved from the same document(s) - this is normal as documents are split into chunks for better search."

// Reasons recorded on the dropped-candidates counter.
const (
	dropNoMetadata = "no_metadata"
	dropMismatch   = "mismatch"
)

// Result carries the kept passages of one corpus query.
type Result struct {
	Passages []passage.Passage
	Note     string // ChunkingNote when several passages share a document
}

// Service executes one semantic query against one corpus.
type Service struct {
	retriever Retriever
	dropped   *prometheus.CounterVec
}

// New creates a query service. dropped counts candidates removed by
// client-side filtering, labeled by reason; nil disables counting.
func New(retriever Retriever, dropped *prometheus.CounterVec) *Service {
	return &Service{retriever: retriever, dropped: dropped}
}

// Query fetches candidates and post-processes them. The relevance
// threshold travels to the provider as a hint only; scores are never
// re-filtered here. When a metadata filter is active and the provider
// cannot apply it server-side, the fetch is widened to twice top-k to
// absorb local filtering losses. Candidates without metadata are then
// dropped and every filter criterion is matched locally even if the
// provider already filtered server-side.
func (s *Service) Query(ctx context.Context, corpusID string, params domquery.Params) (Result, error) {
	if params.HasFilter() && !s.retriever.SupportsMetadataFilter() {
		params = params.WithFetch(2 * params.TopK())
	}

	raw, err := s.retriever.Query(ctx, corpusID, params)
	if err != nil {
		return Result{}, fmt.Errorf("query corpus: %w", err)
	}

	filter := params.Filter()
	kept := make([]passage.Passage, 0, params.TopK())
	for _, cand := range raw {
		cand = passage.ResolvePage(cand)
		if params.HasFilter() {
			if len(cand.Metadata()) == 0 {
				s.drop(dropNoMetadata)
				continue
			}
			if !filter.Matches(cand.Metadata()) {
				s.drop(dropMismatch)
				continue
			}
		}
		kept = append(kept, cand)
		if len(kept) == params.TopK() {
			break
		}
	}

	return Result{Passages: kept, Note: chunkingNote(kept)}, nil
}

func (s *Service) drop(reason string) {
	if s.dropped != nil {
		s.dropped.WithLabelValues(reason).Inc()
	}
}

// chunkingNote returns ChunkingNote when at least two kept passages
// share a source locator. Passages without a locator never count as
// duplicates of each other.
func chunkingNote(kept []passage.Passage) string {
	if len(kept) < 2 {
		return ""
	}
	seen := make(map[string]struct{}, len(kept))
	for _, p := range kept {
		uri := p.SourceURI()
		if uri == "" {
			continue
		}
		if _, dup := seen[uri]; dup {
			return ChunkingNote
		}
		seen[uri] = struct{}{}
	}
	return ""
}
