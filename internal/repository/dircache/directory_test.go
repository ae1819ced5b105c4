package dircache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
)

func sampleCorpora() []corpus.Corpus {
	return []corpus.Corpus{
		corpus.Reconstruct("497", "Science Grade 6", "NCERT science", 12, corpus.StateActive, 1700000000000),
		corpus.Reconstruct("498", "Math Grade 6", "", 3, corpus.StateCreating, 0),
	}
}

func TestListCorpora_CacheMiss(t *testing.T) {
	inner := &mockDirectory{
		listFn: func(_ context.Context) ([]corpus.Corpus, error) {
			return sampleCorpora(), nil
		},
	}
	cd, ms := newTestDirectory(t, inner)

	var setKey string
	var setData []byte
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setData, setTTL = key, value, ttl
		return nil
	}

	items, err := cd.ListCorpora(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 corpora, got %d", len(items))
	}
	if inner.listCalls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.listCalls)
	}
	if setKey != listKey {
		t.Errorf("unexpected cache key: %s", setKey)
	}
	if setTTL != 30*time.Second {
		t.Errorf("unexpected ttl: %v", setTTL)
	}
	var rows []corpusRow
	if err := json.Unmarshal(setData, &rows); err != nil {
		t.Fatalf("cached payload is not valid JSON: %v", err)
	}
	if rows[0].ID != "497" || rows[0].FileCount != 12 {
		t.Errorf("unexpected cached row: %+v", rows[0])
	}
}

func TestListCorpora_CacheHit(t *testing.T) {
	inner := &mockDirectory{}
	cd, ms := newTestDirectory(t, inner)

	data, _ := json.Marshal(toRows(sampleCorpora()))
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return data, nil
	}

	items, err := cd.ListCorpora(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.listCalls != 0 {
		t.Errorf("inner directory should not be called on hit, got %d calls", inner.listCalls)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 corpora, got %d", len(items))
	}
	if items[0].ID() != "497" || items[0].DisplayName() != "Science Grade 6" {
		t.Errorf("unexpected corpus: %s %s", items[0].ID(), items[0].DisplayName())
	}
	if items[1].State() != corpus.StateCreating {
		t.Errorf("state lost in round-trip: %s", items[1].State())
	}
}

func TestListCorpora_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockDirectory{
		listFn: func(_ context.Context) ([]corpus.Corpus, error) {
			return sampleCorpora(), nil
		},
	}
	cd, ms := newTestDirectory(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	items, err := cd.ListCorpora(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.listCalls != 1 {
		t.Errorf("expected fall-through to inner, got %d calls", inner.listCalls)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 corpora, got %d", len(items))
	}
}

func TestListCorpora_InnerError(t *testing.T) {
	wantErr := errors.New("provider down")
	inner := &mockDirectory{
		listFn: func(_ context.Context) ([]corpus.Corpus, error) {
			return nil, wantErr
		},
	}
	cd, _ := newTestDirectory(t, inner)

	_, err := cd.ListCorpora(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped inner error, got %v", err)
	}
}

func TestGetCorpus_CacheHit(t *testing.T) {
	inner := &mockDirectory{}
	cd, ms := newTestDirectory(t, inner)

	data, _ := json.Marshal(toRow(sampleCorpora()[0]))
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key != corpusKey("497") {
			t.Errorf("unexpected lookup key: %s", key)
		}
		return data, nil
	}

	item, err := cd.GetCorpus(context.Background(), "497")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.getCalls != 0 {
		t.Errorf("inner directory should not be called on hit")
	}
	if item.DisplayName() != "Science Grade 6" || item.CreatedAt() != 1700000000000 {
		t.Errorf("corpus lost in round-trip: %+v", toRow(item))
	}
}

func TestGetCorpus_CacheMissStoresEntry(t *testing.T) {
	inner := &mockDirectory{
		getFn: func(_ context.Context, corpusID string) (corpus.Corpus, error) {
			return corpus.Reconstruct(corpusID, "Science Grade 6", "", 12, corpus.StateActive, 0), nil
		},
	}
	cd, ms := newTestDirectory(t, inner)

	var setKey string
	ms.setFn = func(_ context.Context, key string, _ []byte, _ time.Duration) error {
		setKey = key
		return nil
	}

	if _, err := cd.GetCorpus(context.Background(), "497"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.getCalls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.getCalls)
	}
	if setKey != corpusKey("497") {
		t.Errorf("unexpected cache key: %s", setKey)
	}
}

func TestCreateCorpus_InvalidatesListing(t *testing.T) {
	inner := &mockDirectory{}
	cd, ms := newTestDirectory(t, inner)

	if _, err := cd.CreateCorpus(context.Background(), "Physics", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsKey(ms.delKeys, listKey) {
		t.Errorf("listing key not invalidated: %v", ms.delKeys)
	}
}

func TestImportFiles_InvalidatesCorpusAndListing(t *testing.T) {
	inner := &mockDirectory{}
	cd, ms := newTestDirectory(t, inner)

	sources := []corpus.ImportSource{{URI: "gs://bucket/a.pdf"}}
	outcome, err := cd.ImportFiles(context.Background(), "497", sources)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Imported != 1 {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
	if !containsKey(ms.delKeys, listKey) || !containsKey(ms.delKeys, corpusKey("497")) {
		t.Errorf("expected both keys invalidated: %v", ms.delKeys)
	}
}

func TestDeleteCorpus_InnerErrorSkipsInvalidation(t *testing.T) {
	inner := &mockDirectory{
		deleteFn: func(_ context.Context, _ string, _ bool) error {
			return errors.New("conflict")
		},
	}
	cd, ms := newTestDirectory(t, inner)

	if err := cd.DeleteCorpus(context.Background(), "497", false); err == nil {
		t.Fatal("expected error")
	}
	if len(ms.delKeys) != 0 {
		t.Errorf("cache invalidated despite failed delete: %v", ms.delKeys)
	}
}

func TestStoreFailuresDegradeToInner(t *testing.T) {
	inner := &mockDirectory{
		listFn: func(_ context.Context) ([]corpus.Corpus, error) {
			return sampleCorpora(), nil
		},
	}
	cd, ms := newTestDirectory(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	items, err := cd.ListCorpora(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 corpora, got %d", len(items))
	}
}

func TestListFiles_PassesThrough(t *testing.T) {
	inner := &mockDirectory{}
	cd, _ := newTestDirectory(t, inner)

	files, token, err := cd.ListFiles(context.Background(), "497", 50, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" || len(files) != 1 || files[0].ID() != "f1" {
		t.Errorf("unexpected pass-through result: %v %q", files, token)
	}
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}
