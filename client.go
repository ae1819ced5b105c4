package ragdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/ragdex/internal/db/redis"
	"github.com/kailas-cloud/ragdex/internal/domain"
	domcorpus "github.com/kailas-cloud/ragdex/internal/domain/corpus"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
	"github.com/kailas-cloud/ragdex/internal/repository/dircache"
	openaiEmb "github.com/kailas-cloud/ragdex/internal/transport/openai"
	"github.com/kailas-cloud/ragdex/internal/transport/pgvector"
	"github.com/kailas-cloud/ragdex/internal/transport/ragapi"
	corpusuc "github.com/kailas-cloud/ragdex/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
	searchuc "github.com/kailas-cloud/ragdex/internal/usecase/search"
)

const (
	defaultCacheReadiness = 10 * time.Second
	defaultCacheTTL       = 30 * time.Second
)

// Internal interfaces so tests can substitute the services.
type corpusUseCase interface {
	Create(ctx context.Context, displayName, description string) (domcorpus.Corpus, error)
	Get(ctx context.Context, corpusID string) (domcorpus.Corpus, error)
	List(ctx context.Context) ([]domcorpus.Corpus, error)
	Update(ctx context.Context, corpusID string, displayName, description *string) (domcorpus.Corpus, error)
	Delete(ctx context.Context, corpusID string, force bool) error
	ImportFiles(ctx context.Context, corpusID string, reqs []corpusuc.ImportRequest) (domcorpus.ImportOutcome, []string, error)
	ListFiles(ctx context.Context, corpusID string, pageSize int, pageToken string) ([]domcorpus.File, string, error)
	GetFile(ctx context.Context, corpusID, fileID string) (domcorpus.File, error)
	DeleteFile(ctx context.Context, corpusID, fileID string) error
	InspectMetadata(ctx context.Context, corpusID, sampleQuery string, sampleSize int) (corpusuc.MetadataInspection, error)
}

type queryUseCase interface {
	Query(ctx context.Context, corpusID string, params domquery.Params) (queryuc.Result, error)
}

type searchUseCase interface {
	SearchAll(ctx context.Context, params domquery.Params) (searchuc.AggregateResult, error)
	SearchByName(ctx context.Context, displayName string, params domquery.Params) (domcorpus.Corpus, queryuc.Result, error)
}

// retrievalProvider is what the client needs from a driver: the full
// provider surface plus a liveness probe.
type retrievalProvider interface {
	domain.Provider
	Ping(ctx context.Context) error
}

// Client is the ragdex SDK entry point.
type Client struct {
	provider      retrievalProvider
	closeProvider func()
	cache         *dbRedis.Store

	corpusSvc corpusUseCase
	querySvc  queryUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase

	defaults domain.QueryConfig
	obs      *observer
}

// New creates a ragdex Client over the configured retrieval provider.
// The provided context is used for provider setup and the cache
// readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{cacheTTL: defaultCacheTTL}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("ragdex: retrieval provider required (use WithRagAPI or WithPgvector)")
	}

	provider, closeProvider, err := createProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var directory domain.Directory = provider
	var cache *dbRedis.Store
	if len(cfg.cacheAddrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			closeProvider()
			return nil, fmt.Errorf("ragdex: create cache store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultCacheReadiness); err != nil {
			store.Close()
			closeProvider()
			return nil, fmt.Errorf("ragdex: cache not ready: %w", err)
		}
		counter, err := newCacheCounter(cfg.metricsReg)
		if err != nil {
			store.Close()
			closeProvider()
			return nil, err
		}
		directory = dircache.New(provider, store, cfg.cacheTTL, counter, zap.NewNop())
		cache = store
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		closeProvider()
		return nil, err
	}
	return wireClient(provider, directory, cache, closeProvider, cfg, obs), nil
}

func createProvider(ctx context.Context, cfg *clientConfig) (retrievalProvider, func(), error) {
	switch cfg.driver {
	case "ragapi":
		client, err := ragapi.NewClient(ragapi.Config{
			BaseURL: cfg.baseURL,
			APIKey:  cfg.apiKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ragdex: create rag api client: %w", err)
		}
		return client, func() {}, nil
	case "pgvector":
		embedder, err := buildEmbedder(cfg)
		if err != nil {
			return nil, nil, err
		}
		driver, err := pgvector.New(ctx, pgvector.Config{
			DSN:        cfg.dsn,
			Dimensions: cfg.dimensions,
		}, embedder)
		if err != nil {
			return nil, nil, fmt.Errorf("ragdex: open pgvector: %w", err)
		}
		if err := driver.EnsureSchema(ctx); err != nil {
			_ = driver.Close()
			return nil, nil, fmt.Errorf("ragdex: ensure pgvector schema: %w", err)
		}
		return driver, func() { _ = driver.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("ragdex: unknown provider driver %q", cfg.driver)
	}
}

func buildEmbedder(cfg *clientConfig) (domain.Embedder, error) {
	if cfg.embedder != nil {
		return &embedderAdapter{inner: cfg.embedder}, nil
	}
	if oc := cfg.openAIEmbedder; oc != nil {
		dims := oc.Dimensions
		if dims <= 0 {
			dims = cfg.dimensions
		}
		return openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     oc.APIKey,
			BaseURL:    oc.BaseURL,
			Model:      oc.Model,
			Dimensions: dims,
			Provider:   "openai",
			Timeout:    oc.Timeout,
		}), nil
	}
	return nil, errors.New("ragdex: pgvector requires an embedder (use WithEmbedder or WithOpenAIEmbedder)")
}

func wireClient(
	provider retrievalProvider,
	directory domain.Directory,
	cache *dbRedis.Store,
	closeProvider func(),
	cfg *clientConfig,
	obs *observer,
) *Client {
	defaults := resolveDefaults(cfg)

	querySvc := queryuc.New(provider, nil)
	searchSvc := searchuc.New(directory, querySvc, defaults.FanoutWorkers)
	corpusSvc := corpusuc.New(directory, querySvc, defaults)

	// Health pings the raw provider so cached directory reads never
	// mask an outage.
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(provider, cachePinger)

	return &Client{
		provider:      provider,
		closeProvider: closeProvider,
		cache:         cache,
		corpusSvc:     corpusSvc,
		querySvc:      querySvc,
		searchSvc:     searchSvc,
		healthSvc:     healthSvc,
		defaults:      defaults,
		obs:           obs,
	}
}

func resolveDefaults(cfg *clientConfig) domain.QueryConfig {
	d := domain.DefaultQueryConfig()
	if o := cfg.defaults; o != nil {
		if o.TopK > 0 {
			d.TopK = o.TopK
		}
		if o.PerCorpusTopK > 0 {
			d.PerCorpusTopK = o.PerCorpusTopK
		}
		if o.Threshold > 0 {
			d.Threshold = o.Threshold
		}
		if o.MaxTopK > 0 {
			d.MaxTopK = o.MaxTopK
		}
		if o.PageSize > 0 {
			d.PageSize = o.PageSize
		}
	}
	if cfg.fanoutWorkers > 0 {
		d.FanoutWorkers = cfg.fanoutWorkers
	}
	return d
}

// Close releases the provider connection and cache resources.
func (c *Client) Close() {
	if c.closeProvider != nil {
		c.closeProvider()
	}
	if c.cache != nil {
		c.cache.Close()
	}
}

// Ping checks retrieval provider connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.provider.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Corpora returns the corpus management service.
func (c *Client) Corpora() *CorpusService {
	return &CorpusService{svc: c.corpusSvc, obs: c.obs}
}

// Search returns the retrieval service.
func (c *Client) Search() *SearchService {
	return &SearchService{
		search:   c.searchSvc,
		query:    c.querySvc,
		defaults: c.defaults,
		obs:      c.obs,
	}
}

// embedderAdapter wraps the public Embedder to satisfy the internal
// contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
