package domain

// KeyPrefix namespaces every cache key written by this service.
const KeyPrefix = "ragdex:"

// QueryConfig holds engine-wide retrieval defaults, fixed at startup and
// passed into constructors. No package carries mutable global state.
type QueryConfig struct {
	TopK          int     // single-corpus queries
	PerCorpusTopK int     // per corpus during multi-corpus fan-out
	Threshold     float64 // relevance threshold hint passed to providers
	MaxTopK       int
	PageSize      int // file listings
	MaxPageSize   int
	SampleQuery   string // metadata inspection probe
	SampleSize    int
	FanoutWorkers int
}

// DefaultQueryConfig returns the stock defaults.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:          10,
		PerCorpusTopK: 5,
		Threshold:     0.5,
		MaxTopK:       100,
		PageSize:      50,
		MaxPageSize:   200,
		SampleQuery:   "science",
		SampleSize:    20,
		FanoutWorkers: 4,
	}
}
