// Package dircache is a caching decorator over the provider directory.
// Corpus listings and lookups are served from a key-value store with a
// TTL; mutations invalidate the affected entries. Cache failures degrade
// to the inner directory with a logged warning.
package dircache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
)

var (
	listKey         = domain.KeyPrefix + "dir:corpora"
	corpusKeyPrefix = domain.KeyPrefix + "dir:corpus:"
)

// Compile-time check: CachedDirectory implements domain.Directory.
var _ domain.Directory = (*CachedDirectory)(nil)

// store is the consumer interface for the directory cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedDirectory caches corpus listings and lookups in a key-value store.
type CachedDirectory struct {
	inner      domain.Directory
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Directory,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedDirectory {
	return &CachedDirectory{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// ListCorpora returns the cached corpus listing or calls the inner directory.
func (c *CachedDirectory) ListCorpora(ctx context.Context) ([]corpus.Corpus, error) {
	if items, ok := c.getList(ctx); ok {
		c.incCache("hit")
		return items, nil
	}
	c.incCache("miss")

	items, err := c.inner.ListCorpora(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}

	c.putList(ctx, items)
	return items, nil
}

// GetCorpus returns the cached corpus or calls the inner directory.
func (c *CachedDirectory) GetCorpus(ctx context.Context, corpusID string) (corpus.Corpus, error) {
	key := corpusKey(corpusID)

	if item, ok := c.getCorpus(ctx, key); ok {
		c.incCache("hit")
		return item, nil
	}
	c.incCache("miss")

	item, err := c.inner.GetCorpus(ctx, corpusID)
	if err != nil {
		return corpus.Corpus{}, fmt.Errorf("get corpus: %w", err)
	}

	c.putCorpus(ctx, key, item)
	return item, nil
}

// CreateCorpus delegates to the inner directory and invalidates the listing.
func (c *CachedDirectory) CreateCorpus(ctx context.Context, displayName, description string) (corpus.Corpus, error) {
	created, err := c.inner.CreateCorpus(ctx, displayName, description)
	if err != nil {
		return corpus.Corpus{}, err
	}
	c.invalidate(ctx, created.ID())
	return created, nil
}

// UpdateCorpus delegates to the inner directory and invalidates affected entries.
func (c *CachedDirectory) UpdateCorpus(ctx context.Context, corpusID string, displayName, description *string) (corpus.Corpus, error) {
	updated, err := c.inner.UpdateCorpus(ctx, corpusID, displayName, description)
	if err != nil {
		return corpus.Corpus{}, err
	}
	c.invalidate(ctx, corpusID)
	return updated, nil
}

// DeleteCorpus delegates to the inner directory and invalidates affected entries.
func (c *CachedDirectory) DeleteCorpus(ctx context.Context, corpusID string, force bool) error {
	if err := c.inner.DeleteCorpus(ctx, corpusID, force); err != nil {
		return err
	}
	c.invalidate(ctx, corpusID)
	return nil
}

// ImportFiles delegates to the inner directory and invalidates affected
// entries: imports change the corpus file count.
func (c *CachedDirectory) ImportFiles(ctx context.Context, corpusID string, sources []corpus.ImportSource) (corpus.ImportOutcome, error) {
	outcome, err := c.inner.ImportFiles(ctx, corpusID, sources)
	if err != nil {
		return corpus.ImportOutcome{}, err
	}
	c.invalidate(ctx, corpusID)
	return outcome, nil
}

// ListFiles passes through: page tokens are provider-specific and short-lived.
func (c *CachedDirectory) ListFiles(ctx context.Context, corpusID string, pageSize int, pageToken string) ([]corpus.File, string, error) {
	return c.inner.ListFiles(ctx, corpusID, pageSize, pageToken)
}

// GetFile passes through.
func (c *CachedDirectory) GetFile(ctx context.Context, corpusID, fileID string) (corpus.File, error) {
	return c.inner.GetFile(ctx, corpusID, fileID)
}

// DeleteFile delegates to the inner directory and invalidates affected entries.
func (c *CachedDirectory) DeleteFile(ctx context.Context, corpusID, fileID string) error {
	if err := c.inner.DeleteFile(ctx, corpusID, fileID); err != nil {
		return err
	}
	c.invalidate(ctx, corpusID)
	return nil
}

func (c *CachedDirectory) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func corpusKey(corpusID string) string {
	return corpusKeyPrefix + corpusID
}

func (c *CachedDirectory) getList(ctx context.Context) ([]corpus.Corpus, bool) {
	data, err := c.store.Get(ctx, listKey)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached corpus listing", zap.Error(err))
		}
		return nil, false
	}

	var rows []corpusRow
	if err := json.Unmarshal(data, &rows); err != nil {
		c.logger.Warn("Failed to parse cached corpus listing", zap.Error(err))
		return nil, false
	}
	return fromRows(rows), true
}

func (c *CachedDirectory) putList(ctx context.Context, items []corpus.Corpus) {
	data, err := json.Marshal(toRows(items))
	if err != nil {
		c.logger.Warn("Failed to encode corpus listing", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, listKey, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache corpus listing", zap.Error(err))
	}
}

func (c *CachedDirectory) getCorpus(ctx context.Context, key string) (corpus.Corpus, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached corpus", zap.String("key", key), zap.Error(err))
		}
		return corpus.Corpus{}, false
	}

	var row corpusRow
	if err := json.Unmarshal(data, &row); err != nil {
		c.logger.Warn("Failed to parse cached corpus", zap.String("key", key), zap.Error(err))
		return corpus.Corpus{}, false
	}
	return fromRow(row), true
}

func (c *CachedDirectory) putCorpus(ctx context.Context, key string, item corpus.Corpus) {
	data, err := json.Marshal(toRow(item))
	if err != nil {
		c.logger.Warn("Failed to encode corpus", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache corpus", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedDirectory) invalidate(ctx context.Context, corpusIDs ...string) {
	keys := make([]string, 0, len(corpusIDs)+1)
	keys = append(keys, listKey)
	for _, id := range corpusIDs {
		keys = append(keys, corpusKey(id))
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		c.logger.Warn("Failed to invalidate directory cache", zap.Strings("keys", keys), zap.Error(err))
	}
}
