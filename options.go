package ragdex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver string // "ragapi" or "pgvector"

	// ragapi
	baseURL string
	apiKey  string

	// pgvector
	dsn        string
	dimensions int

	embedder       Embedder
	openAIEmbedder *OpenAIEmbedderConfig

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	defaults      *QueryDefaults
	fanoutWorkers int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// QueryDefaults overrides the stock query tuning. Zero fields keep
// their defaults; per-call options override both.
type QueryDefaults struct {
	TopK          int     // single-corpus queries (default 10)
	PerCorpusTopK int     // per corpus during multi-corpus fan-out (default 5)
	Threshold     float64 // relevance hint forwarded to providers (default 0.5)
	MaxTopK       int     // cap on any requested top_k (default 100)
	PageSize      int     // file listings (default 50)
}

// WithRagAPI configures the client to retrieve through a hosted RAG
// corpus API. apiKey may be empty for unauthenticated deployments.
func WithRagAPI(baseURL, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "ragapi"
		c.baseURL = baseURL
		c.apiKey = apiKey
	})
}

// WithPgvector configures the client to retrieve from a Postgres
// database with the pgvector extension. Requires an embedder (see
// WithEmbedder and WithOpenAIEmbedder).
func WithPgvector(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "pgvector"
		c.dsn = dsn
	})
}

// WithVectorDimensions sets the embedding dimension for the pgvector
// provider. Defaults to 1536 (text-embedding-3-small).
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithEmbedder sets a custom text embedding provider for pgvector.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAIEmbedder uses the bundled OpenAI-compatible embedding
// client for pgvector. Ignored when WithEmbedder is also given.
func WithOpenAIEmbedder(cfg OpenAIEmbedderConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIEmbedder = &cfg
	})
}

// WithCache caches corpus directory reads in a Redis instance.
// Mutations invalidate the affected entries; cache outages degrade to
// direct provider reads.
func WithCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets how long cached directory entries live.
// Default: 30s.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithDefaults overrides the stock query tuning.
func WithDefaults(d QueryDefaults) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaults = &d
	})
}

// WithFanoutWorkers bounds how many corpora a multi-corpus search
// queries concurrently. Default: 4; 1 searches sequentially.
func WithFanoutWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.fanoutWorkers = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations,
// directory cache hits) on the given registerer. Pass nil to disable
// (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
