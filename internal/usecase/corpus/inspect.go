package corpus

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
)

// Caps keeping inspection payloads bounded.
const (
	maxUniqueValues = 50
	maxValueCounts  = 10
)

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

// InspectMetadata samples a corpus with a broad unfiltered query and
// reports which metadata fields and values its passages actually
// carry. Useful for diagnosing why a filter matches nothing. Empty
// sampleQuery and non-positive sampleSize fall back to configured
// defaults; the threshold hint is zero so the sample is as wide as the
// provider allows.
func (s *Service) InspectMetadata(ctx context.Context, corpusID, sampleQuery string, sampleSize int) (MetadataInspection, error) {
	if sampleQuery == "" {
		sampleQuery = s.cfg.SampleQuery
	}
	if sampleSize <= 0 {
		sampleSize = s.cfg.SampleSize
	}
	params, err := domquery.New(sampleQuery, sampleSize, 0, metadata.Filter{})
	if err != nil {
		return MetadataInspection{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	res, err := s.sampler.Query(ctx, corpusID, params)
	if err != nil {
		return MetadataInspection{}, fmt.Errorf("inspect metadata: %w", err)
	}
	return summarizeTags(sampleQuery, res.Passages), nil
}

// summarizeTags aggregates per-field value counts across sampled
// passages. Fields are ordered by name, values by descending count
// with ties alphabetical, so output is deterministic.
func summarizeTags(sampleQuery string, passages []passage.Passage) MetadataInspection {
	counts := make(map[string]map[string]int)
	noMetadata := 0
	for _, p := range passages {
		tags := p.Metadata()
		if len(tags) == 0 {
			noMetadata++
			continue
		}
		for field, value := range tags {
			if counts[field] == nil {
				counts[field] = make(map[string]int)
			}
			counts[field][value]++
		}
	}

	fields := make([]string, 0, len(counts))
	for field := range counts {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	insp := MetadataInspection{
		SampleQuery:      sampleQuery,
		ResultsInspected: len(passages),
		NoMetadata:       noMetadata,
		Fields:           make([]FieldSample, 0, len(fields)),
	}
	for _, field := range fields {
		byValue := counts[field]
		ordered := make([]ValueCount, 0, len(byValue))
		for value, n := range byValue {
			ordered = append(ordered, ValueCount{Value: value, Count: n})
		}
		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].Count != ordered[j].Count {
				return ordered[i].Count > ordered[j].Count
			}
			return ordered[i].Value < ordered[j].Value
		})

		fs := FieldSample{Field: field, TotalUnique: len(ordered)}
		for i, vc := range ordered {
			if i < maxUniqueValues {
				fs.UniqueValues = append(fs.UniqueValues, vc.Value)
			}
			if i < maxValueCounts {
				fs.ValueCounts = append(fs.ValueCounts, vc)
			}
		}
		insp.Fields = append(insp.Fields, fs)
	}
	return insp
}
