package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/domain/corpus"
	"github.com/kailas-cloud/ragdex/internal/domain/metadata"
	"github.com/kailas-cloud/ragdex/internal/domain/search/passage"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
)

// --- Mocks ---

type mockDirectory struct {
	corpora []corpus.Corpus
	err     error
	calls   int
}

func (m *mockDirectory) ListCorpora(_ context.Context) ([]corpus.Corpus, error) {
	m.calls++
	return m.corpora, m.err
}

// mockExecutor serves canned per-corpus results. It is hit from pool
// goroutines, so call recording is guarded.
type mockExecutor struct {
	mu      sync.Mutex
	results map[string]queryuc.Result
	errs    map[string]error
	queried []string
}

func (m *mockExecutor) Query(_ context.Context, corpusID string, _ domquery.Params) (queryuc.Result, error) {
	m.mu.Lock()
	m.queried = append(m.queried, corpusID)
	m.mu.Unlock()
	if err := m.errs[corpusID]; err != nil {
		return queryuc.Result{}, err
	}
	return m.results[corpusID], nil
}

func (m *mockExecutor) queriedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queried...)
}

func makeCorpus(id, name string) corpus.Corpus {
	return corpus.Reconstruct(id, name, "", 1, corpus.StateActive, 1700000000000)
}

func makeParams(t *testing.T, topK int, criteria map[string]string) domquery.Params {
	t.Helper()
	p, err := domquery.New("photosynthesis", topK, 0.5, metadata.NewFilter(criteria))
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return p
}

func score(v float64) *float64 { return &v }

func hitTexts(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Passage.Text()
	}
	return out
}

// --- SearchAll ---

func TestSearchAll_MergesAndSortsAcrossCorpora(t *testing.T) {
	dir := &mockDirectory{corpora: []corpus.Corpus{
		makeCorpus("42", "Science"),
		makeCorpus("43", "History"),
	}}
	exec := &mockExecutor{results: map[string]queryuc.Result{
		"42": {Passages: []passage.Passage{
			passage.New("science high", "gs://b/unit3.pdf", score(0.9), nil, 7),
			passage.New("science low", "gs://b/unit4.pdf", score(0.4), nil, 0),
		}},
		"43": {Passages: []passage.Passage{
			passage.New("history mid", "gs://b/rome.pdf", score(0.7), nil, 0),
		}},
	}}
	svc := New(dir, exec, 4)

	res, err := svc.SearchAll(context.Background(), makeParams(t, 5, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"science high", "history mid", "science low"}
	got := hitTexts(res.Results)
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := res.Results[0].Citation; got != "[Source: Science (42) File: unit3.pdf Page: 7]" {
		t.Errorf("citation = %q", got)
	}
	if len(res.SearchedCorpora) != 2 || res.SearchedCorpora[0] != "Science" || res.SearchedCorpora[1] != "History" {
		t.Errorf("searched corpora = %v", res.SearchedCorpora)
	}
	if len(res.CitationsSummary) != 2 || res.CitationsSummary[0] != "Science (42): 2 results" {
		t.Errorf("citations summary = %v", res.CitationsSummary)
	}
	if res.Warning != "" {
		t.Errorf("unexpected warning %q", res.Warning)
	}
}

func TestSearchAll_DiscoveryFailure(t *testing.T) {
	dir := &mockDirectory{err: errors.New("listing down")}
	exec := &mockExecutor{}
	svc := New(dir, exec, 4)

	_, err := svc.SearchAll(context.Background(), makeParams(t, 5, nil))
	if !errors.Is(err, domain.ErrDiscoveryFailed) {
		t.Fatalf("expected ErrDiscoveryFailed, got %v", err)
	}
	if len(exec.queriedIDs()) != 0 {
		t.Error("no corpus should be queried when discovery fails")
	}
}

func TestSearchAll_NoCorporaIsWarningNotError(t *testing.T) {
	svc := New(&mockDirectory{}, &mockExecutor{}, 4)

	res, err := svc.SearchAll(context.Background(), makeParams(t, 5, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Warning != NoCorporaWarning {
		t.Errorf("warning = %q, want %q", res.Warning, NoCorporaWarning)
	}
	if len(res.Results) != 0 {
		t.Errorf("expected no results, got %d", len(res.Results))
	}
}

func TestSearchAll_PartialFailureIsolated(t *testing.T) {
	dir := &mockDirectory{corpora: []corpus.Corpus{
		makeCorpus("a", "Alpha"),
		makeCorpus("b", "Beta"),
		makeCorpus("c", "Gamma"),
	}}
	exec := &mockExecutor{
		results: map[string]queryuc.Result{
			"a": {Passages: []passage.Passage{passage.New("from alpha", "gs://b/a.pdf", score(0.8), nil, 0)}},
			"c": {Passages: []passage.Passage{passage.New("from gamma", "gs://b/c.pdf", score(0.6), nil, 0)}},
		},
		errs: map[string]error{"b": errors.New("backend exploded")},
	}
	svc := New(dir, exec, 2)

	res, err := svc.SearchAll(context.Background(), makeParams(t, 5, nil))
	if err != nil {
		t.Fatalf("partial failure must not error: %v", err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("expected 2 results from surviving corpora, got %d", len(res.Results))
	}
	for _, name := range res.SearchedCorpora {
		if name == "Beta" {
			t.Error("failed corpus must be absent from searched corpora")
		}
	}
	if len(exec.queriedIDs()) != 3 {
		t.Errorf("all corpora should be attempted, got %d queries", len(exec.queriedIDs()))
	}
}

func TestSearchAll_AllCorporaFailed(t *testing.T) {
	dir := &mockDirectory{corpora: []corpus.Corpus{
		makeCorpus("a", "Alpha"),
		makeCorpus("b", "Beta"),
	}}
	errBoom := errors.New("backend exploded")
	exec := &mockExecutor{errs: map[string]error{"a": errBoom, "b": errBoom}}
	svc := New(dir, exec, 2)

	_, err := svc.SearchAll(context.Background(), makeParams(t, 5, nil))
	if err == nil {
		t.Fatal("expected an error when every corpus fails")
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("error should wrap an underlying failure, got %v", err)
	}
}

func TestSearchAll_EmptyCorpusOmittedFromSearched(t *testing.T) {
	dir := &mockDirectory{corpora: []corpus.Corpus{
		makeCorpus("a", "Alpha"),
		makeCorpus("b", "Beta"),
	}}
	exec := &mockExecutor{results: map[string]queryuc.Result{
		"a": {Passages: []passage.Passage{passage.New("hit", "gs://b/a.pdf", score(0.8), nil, 0)}},
		"b": {}, // succeeded, nothing kept
	}}
	svc := New(dir, exec, 2)

	res, err := svc.SearchAll(context.Background(), makeParams(t, 5, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.SearchedCorpora) != 1 || res.SearchedCorpora[0] != "Alpha" {
		t.Errorf("searched corpora = %v, want [Alpha]", res.SearchedCorpora)
	}
	if len(res.PerCorpus) != 1 {
		t.Errorf("per-corpus groups = %d, want 1", len(res.PerCorpus))
	}
}

func TestSearchAll_MissingScoresSortLastStable(t *testing.T) {
	dir := &mockDirectory{corpora: []corpus.Corpus{
		makeCorpus("a", "Alpha"),
		makeCorpus("b", "Beta"),
	}}
	exec := &mockExecutor{results: map[string]queryuc.Result{
		"a": {Passages: []passage.Passage{passage.New("alpha unscored", "gs://b/a.pdf", nil, nil, 0)}},
		"b": {Passages: []passage.Passage{
			passage.New("beta scored", "gs://b/b.pdf", score(0.3), nil, 0),
			passage.New("beta unscored", "gs://b/b2.pdf", nil, nil, 0),
		}},
	}}
	svc := New(dir, exec, 1)

	res, err := svc.SearchAll(context.Background(), makeParams(t, 5, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"beta scored", "alpha unscored", "beta unscored"}
	got := hitTexts(res.Results)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("results = %v, want %v (unscored keep discovery order)", got, want)
		}
	}
}

func TestSearchAll_SingleWorkerStillCoversAllCorpora(t *testing.T) {
	corpora := []corpus.Corpus{
		makeCorpus("a", "Alpha"),
		makeCorpus("b", "Beta"),
		makeCorpus("c", "Gamma"),
		makeCorpus("d", "Delta"),
	}
	results := make(map[string]queryuc.Result, len(corpora))
	for _, c := range corpora {
		results[c.ID()] = queryuc.Result{Passages: []passage.Passage{
			passage.New("from "+c.ID(), "gs://b/"+c.ID()+".pdf", score(0.5), nil, 0),
		}}
	}
	svc := New(&mockDirectory{corpora: corpora}, &mockExecutor{results: results}, 1)

	res, err := svc.SearchAll(context.Background(), makeParams(t, 5, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Results) != len(corpora) {
		t.Errorf("expected %d results, got %d", len(corpora), len(res.Results))
	}
}

// --- SearchByName ---

func TestSearchByName_FirstMatchWins(t *testing.T) {
	dir := &mockDirectory{corpora: []corpus.Corpus{
		makeCorpus("1", "Science"),
		makeCorpus("2", "Science"),
	}}
	exec := &mockExecutor{results: map[string]queryuc.Result{
		"1": {Passages: []passage.Passage{passage.New("hit", "gs://b/a.pdf", score(0.8), nil, 0)}},
	}}
	svc := New(dir, exec, 4)

	c, res, err := svc.SearchByName(context.Background(), "Science", makeParams(t, 5, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID() != "1" {
		t.Errorf("resolved corpus = %s, want first match 1", c.ID())
	}
	if len(res.Passages) != 1 {
		t.Errorf("expected delegated query result, got %d passages", len(res.Passages))
	}
	if ids := exec.queriedIDs(); len(ids) != 1 || ids[0] != "1" {
		t.Errorf("queried = %v, want only corpus 1", ids)
	}
}

func TestSearchByName_CaseInsensitiveTrimmedMatch(t *testing.T) {
	dir := &mockDirectory{corpora: []corpus.Corpus{makeCorpus("1", "Science")}}
	exec := &mockExecutor{results: map[string]queryuc.Result{"1": {}}}
	svc := New(dir, exec, 4)

	c, _, err := svc.SearchByName(context.Background(), "  sCiEnCe  ", makeParams(t, 5, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID() != "1" {
		t.Errorf("resolved corpus = %s, want 1", c.ID())
	}
}

func TestSearchByName_NotFound(t *testing.T) {
	dir := &mockDirectory{corpora: []corpus.Corpus{makeCorpus("1", "Science")}}
	svc := New(dir, &mockExecutor{}, 4)

	_, _, err := svc.SearchByName(context.Background(), "Maths", makeParams(t, 5, nil))
	if !errors.Is(err, domain.ErrCorpusNotFound) {
		t.Fatalf("expected ErrCorpusNotFound, got %v", err)
	}
	if errors.Is(err, domain.ErrDiscoveryFailed) {
		t.Error("not-found must be distinguishable from discovery failure")
	}
}

func TestSearchByName_DiscoveryFailure(t *testing.T) {
	dir := &mockDirectory{err: errors.New("listing down")}
	svc := New(dir, &mockExecutor{}, 4)

	_, _, err := svc.SearchByName(context.Background(), "Science", makeParams(t, 5, nil))
	if !errors.Is(err, domain.ErrDiscoveryFailed) {
		t.Fatalf("expected ErrDiscoveryFailed, got %v", err)
	}
}
