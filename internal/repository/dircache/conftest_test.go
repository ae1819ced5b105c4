package dircache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
)

// mockDirectory implements domain.Directory with overridable funcs.
type mockDirectory struct {
	listFn   func(ctx context.Context) ([]corpus.Corpus, error)
	getFn    func(ctx context.Context, corpusID string) (corpus.Corpus, error)
	createFn func(ctx context.Context, displayName, description string) (corpus.Corpus, error)
	updateFn func(ctx context.Context, corpusID string, displayName, description *string) (corpus.Corpus, error)
	deleteFn func(ctx context.Context, corpusID string, force bool) error
	importFn func(ctx context.Context, corpusID string, sources []corpus.ImportSource) (corpus.ImportOutcome, error)

	listCalls int
	getCalls  int
}

func (m *mockDirectory) ListCorpora(ctx context.Context) ([]corpus.Corpus, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockDirectory) GetCorpus(ctx context.Context, corpusID string) (corpus.Corpus, error) {
	m.getCalls++
	if m.getFn != nil {
		return m.getFn(ctx, corpusID)
	}
	return corpus.Corpus{}, nil
}

func (m *mockDirectory) CreateCorpus(ctx context.Context, displayName, description string) (corpus.Corpus, error) {
	if m.createFn != nil {
		return m.createFn(ctx, displayName, description)
	}
	return corpus.Reconstruct("new-id", displayName, description, 0, corpus.StateActive, 0), nil
}

func (m *mockDirectory) UpdateCorpus(ctx context.Context, corpusID string, displayName, description *string) (corpus.Corpus, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, corpusID, displayName, description)
	}
	return corpus.Reconstruct(corpusID, "updated", "", 0, corpus.StateActive, 0), nil
}

func (m *mockDirectory) DeleteCorpus(ctx context.Context, corpusID string, force bool) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, corpusID, force)
	}
	return nil
}

func (m *mockDirectory) ImportFiles(ctx context.Context, corpusID string, sources []corpus.ImportSource) (corpus.ImportOutcome, error) {
	if m.importFn != nil {
		return m.importFn(ctx, corpusID, sources)
	}
	return corpus.ImportOutcome{Imported: len(sources)}, nil
}

func (m *mockDirectory) ListFiles(_ context.Context, _ string, _ int, _ string) ([]corpus.File, string, error) {
	return []corpus.File{corpus.ReconstructFile("f1", "a.pdf", "gs://bucket/a.pdf", 0, 0)}, "", nil
}

func (m *mockDirectory) GetFile(_ context.Context, _, fileID string) (corpus.File, error) {
	return corpus.ReconstructFile(fileID, "a.pdf", "gs://bucket/a.pdf", 0, 0), nil
}

func (m *mockDirectory) DeleteFile(_ context.Context, _, _ string) error {
	return nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn func(ctx context.Context, keys ...string) error

	delKeys []string
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) Del(ctx context.Context, keys ...string) error {
	m.delKeys = append(m.delKeys, keys...)
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

func newTestDirectory(t *testing.T, inner *mockDirectory) (*CachedDirectory, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cd := New(inner, ms, 30*time.Second, nil, zap.NewNop())
	return cd, ms
}
